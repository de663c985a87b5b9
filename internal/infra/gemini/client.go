package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/rwagency/intent-agent/internal/entity"
)

// Client wraps the Gemini API behind the three collaborator contracts:
// discovery, website audit and message drafting.
type Client struct {
	genai      *genai.Client
	scoutModel string // search-grounded discovery + drafting
	auditModel string // cheaper model for the structured audit
	consultant string // whose voice the outreach is written in
	timeout    time.Duration
}

func NewClient(ctx context.Context, apiKey, scoutModel, auditModel, consultant string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if scoutModel == "" {
		scoutModel = "gemini-3-pro-preview"
	}
	if auditModel == "" {
		auditModel = "gemini-3-flash-preview"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao criar cliente gemini: %w", err)
	}

	return &Client{
		genai:      client,
		scoutModel: scoutModel,
		auditModel: auditModel,
		consultant: consultant,
		timeout:    timeout,
	}, nil
}

// Discover finds people who recently expressed intent online matching the
// query. Search-grounded; marketplaces are excluded by prompt.
func (c *Client) Discover(ctx context.Context, query string) ([]entity.DiscoveryResult, error) {
	prompt := fmt.Sprintf(`
Find 5 individuals or business owners who have recently (last 30 days) expressed interest online in: %q.
Focus specifically on finding posts, comments, or public profile updates on LinkedIn, Facebook, X (Twitter), or business forums.

CRITICAL RULES:
1. EXCLUDE all results from freelance marketplaces: Freelancer.com, Upwork, Fiverr, Toptal, or Guru.
2. LOOK FOR intent signals: posts asking for recommendations, complaints about current slow websites, or mentions of starting a new business venture.
3. TARGET: US, UK, or EU markets.

For each discovery provide full name, job title, company name, LinkedIn URL, company website (or likely domain), industry, country, a 1-sentence intent_signal describing the interest, and the source_platform where it was found.
`, query)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.genai.Models.GenerateContent(ctx, c.scoutModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			Tools:            []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
			ResponseMIMEType: "application/json",
			ResponseSchema:   discoverySchema,
		})
	if err != nil {
		return nil, fmt.Errorf("gemini discovery request: %w", err)
	}

	var results []entity.DiscoveryResult
	if err := json.Unmarshal([]byte(resp.Text()), &results); err != nil {
		return nil, fmt.Errorf("gemini discovery returned invalid JSON: %w", err)
	}
	return results, nil
}

// Audit assesses the lead's website for business-impact problems.
func (c *Client) Audit(ctx context.Context, lead *entity.Lead) (*entity.AuditResult, error) {
	prompt := fmt.Sprintf(`
Analyze the following lead's business context and website:
URL: %s
Company: %s
Industry: %s
Role: %s

As a Web Dev & SEO expert working for %s, identify 3-4 specific business pain points related to:
1. Page load speed
2. Mobile UX optimization
3. Search visibility (SEO)
4. Conversion rate optimization (missing CTAs)

Avoid technical jargon. Focus on business impact (e.g. "losing customers due to slow mobile experience").
`, lead.Website, lead.Company, lead.Industry, lead.Title, c.consultant)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.genai.Models.GenerateContent(ctx, c.auditModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   auditSchema,
		})
	if err != nil {
		return nil, fmt.Errorf("gemini audit request: %w", err)
	}

	var audit entity.AuditResult
	if err := json.Unmarshal([]byte(resp.Text()), &audit); err != nil {
		return nil, fmt.Errorf("gemini audit returned invalid JSON: %w", err)
	}
	return &audit, nil
}

// DraftMessage writes the outreach message from the lead and its audit.
// Errors propagate; there is no placeholder fallback.
func (c *Client) DraftMessage(ctx context.Context, lead *entity.Lead, audit *entity.AuditResult) (string, error) {
	systemInstruction := fmt.Sprintf(`
You are writing on behalf of %s, a high-end web development & SEO consultant.
Tone: professional, empathetic, helpful.
Goal: mention the prospect's specific intent if available, reference their website's mobile/SEO flaw, and offer a free 2-minute audit video.
`, c.consultant)

	recommendation := ""
	if len(audit.Recommendations) > 0 {
		recommendation = audit.Recommendations[0]
	}

	prompt := fmt.Sprintf(`
Generate outreach message to %s (%s @ %s).
Pain points identified: %s.
Consultative recommendation: %s.
`, lead.FullName, lead.Title, lead.Company, audit.JoinedPainPoints(), recommendation)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.genai.Models.GenerateContent(ctx, c.scoutModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0.7),
		})
	if err != nil {
		return "", fmt.Errorf("gemini draft request: %w", err)
	}

	message := resp.Text()
	if message == "" {
		return "", fmt.Errorf("gemini draft returned an empty message")
	}
	return message, nil
}
