package usecase

import (
	"context"

	"github.com/rwagency/intent-agent/internal/entity"
)

// Discoverer is the intent scouter: free-text query in, candidate leads out.
type Discoverer interface {
	Discover(ctx context.Context, query string) ([]entity.DiscoveryResult, error)
}

// Auditor produces a severity-tagged website assessment for a lead.
type Auditor interface {
	Audit(ctx context.Context, lead *entity.Lead) (*entity.AuditResult, error)
}

// MessageDrafter writes the outreach message from a lead and its audit.
type MessageDrafter interface {
	DraftMessage(ctx context.Context, lead *entity.Lead, audit *entity.AuditResult) (string, error)
}

type ImportLeadInput struct {
	FullName    string `json:"full_name"`
	LinkedInURL string `json:"linkedin_url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Website     string `json:"website"`
	Country     string `json:"country"`
	Industry    string `json:"industry"`
}

type ApproveLeadInput struct {
	LeadID      string `json:"lead_id"`
	ScheduledAt string `json:"scheduled_at,omitempty"` // RFC3339, optional delay-until
}
