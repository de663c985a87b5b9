package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: NÃO adicione imports de usecase ou infra aqui!
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrNoLeadQueued = errors.New("no approved lead queued")
)

// Status is the pipeline stage of a lead. It only ever moves forward:
// new -> analyzed -> messaged. Replied/hot are set from the inbox side.
type Status string

const (
	StatusNew      Status = "new"
	StatusAnalyzed Status = "analyzed"
	StatusMessaged Status = "messaged"
	StatusReplied  Status = "replied"
	StatusHot      Status = "hot"
)

// statusRank enforces forward-only progression.
var statusRank = map[Status]int{
	StatusNew:      0,
	StatusAnalyzed: 1,
	StatusMessaged: 2,
	StatusReplied:  3,
	StatusHot:      4,
}

// AutomationStatus is the outreach runner's own state on a lead,
// independent of Status.
type AutomationStatus string

const (
	AutomationNone    AutomationStatus = "none"
	AutomationQueued  AutomationStatus = "queued"
	AutomationSending AutomationStatus = "sending"
	AutomationSent    AutomationStatus = "sent"
	AutomationFailed  AutomationStatus = "failed"
)

type Lead struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	LinkedInURL string `json:"linkedin_url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Website     string `json:"website"`
	Country     string `json:"country"`
	Industry    string `json:"industry"`

	PainPoints *string `json:"pain_points"`
	AIMessage  *string `json:"ai_message"`
	Severity   *string `json:"severity"`

	Approved         bool             `json:"approved"`
	Status           Status           `json:"status"`
	AutomationStatus AutomationStatus `json:"automation_status"`

	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Factory
func NewLead(fullName, linkedInURL, title, company, website, country, industry string) *Lead {
	now := time.Now()
	return &Lead{
		ID:               uuid.New().String(),
		FullName:         fullName,
		LinkedInURL:      linkedInURL,
		Title:            title,
		Company:          company,
		Website:          website,
		Country:          country,
		Industry:         industry,
		Approved:         false,
		Status:           StatusNew,
		AutomationStatus: AutomationNone,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewLeadFromDiscovery converts an external discovery candidate into a fresh
// pipeline lead. The intent signal itself is not persisted on the lead.
func NewLeadFromDiscovery(res DiscoveryResult) *Lead {
	return NewLead(
		res.FullName,
		res.LinkedInURL,
		res.Title,
		res.Company,
		res.Website,
		res.Country,
		res.Industry,
	)
}

// advanceStatus moves the pipeline stage forward, never back.
func (l *Lead) advanceStatus(to Status) {
	if statusRank[to] > statusRank[l.Status] {
		l.Status = to
	}
}

// MarkAnalyzed commits a successful audit+draft pair. All-or-nothing: callers
// only invoke this after both collaborator calls succeeded.
func (l *Lead) MarkAnalyzed(painPoints, message, severity string, now time.Time) {
	l.PainPoints = &painPoints
	l.AIMessage = &message
	l.Severity = &severity
	l.advanceStatus(StatusAnalyzed)
	l.UpdatedAt = now
}

// Approve is the operator consent gate. Idempotent, and intentionally does
// not require the lead to be analyzed first.
func (l *Lead) Approve(now time.Time, scheduledAt *time.Time) {
	l.Approved = true
	l.AutomationStatus = AutomationQueued
	if l.ApprovedAt == nil {
		approvedAt := now
		l.ApprovedAt = &approvedAt
	}
	if scheduledAt != nil {
		l.ScheduledAt = scheduledAt
	}
	l.UpdatedAt = now
}

// EligibleForOutreach reports whether the runner may claim this lead.
// A scheduled lead is held back until its time arrives.
func (l *Lead) EligibleForOutreach(now time.Time) bool {
	if !l.Approved || l.AutomationStatus != AutomationQueued {
		return false
	}
	if l.ScheduledAt != nil && l.ScheduledAt.After(now) {
		return false
	}
	return true
}

// MarkSending claims the lead for delivery.
func (l *Lead) MarkSending(now time.Time) {
	l.AutomationStatus = AutomationSending
	l.UpdatedAt = now
}

// MarkSent completes delivery and advances the pipeline to messaged.
func (l *Lead) MarkSent(now time.Time) {
	l.AutomationStatus = AutomationSent
	l.advanceStatus(StatusMessaged)
	l.UpdatedAt = now
}

// MarkFailed parks the lead after exhausted delivery attempts so the queue
// keeps draining past it.
func (l *Lead) MarkFailed(now time.Time) {
	l.AutomationStatus = AutomationFailed
	l.UpdatedAt = now
}

// Requeue puts a claimed lead back in line (stop-with-requeue, crash reaper).
func (l *Lead) Requeue(now time.Time) {
	if l.AutomationStatus == AutomationSending {
		l.AutomationStatus = AutomationQueued
		l.UpdatedAt = now
	}
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	ListAll(ctx context.Context) ([]Lead, error)
	UpdateAnalysis(ctx context.Context, lead *Lead) error
	UpdateApproval(ctx context.Context, lead *Lead) error
	CountByAutomationStatus(ctx context.Context, status AutomationStatus) (int, error)
}
