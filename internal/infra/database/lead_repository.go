package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/rwagency/intent-agent/internal/entity"
)

const leadColumns = `
	id, full_name, linkedin_url, title, company, website, country, industry,
	pain_points, ai_message, severity, approved, status, automation_status,
	approved_at, scheduled_at, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert inserts a lead keyed on linkedin_url. On conflict only the profile
// fields refresh; pipeline state (status, approval, analysis, queue) stays
// untouched so a re-import can never regress a lead.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, full_name, linkedin_url, title, company, website, country, industry,
		                   approved, status, automation_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, 'new', 'none', NOW(), NOW())
		ON CONFLICT (linkedin_url)
		DO UPDATE SET
			full_name  = EXCLUDED.full_name,
			title      = EXCLUDED.title,
			company    = EXCLUDED.company,
			website    = EXCLUDED.website,
			country    = EXCLUDED.country,
			industry   = EXCLUDED.industry,
			updated_at = NOW()
		RETURNING id, approved, status, automation_status, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.ID,
		lead.FullName,
		lead.LinkedInURL,
		lead.Title,
		lead.Company,
		lead.Website,
		lead.Country,
		lead.Industry,
	).Scan(
		&lead.ID,
		&lead.Approved,
		&lead.Status,
		&lead.AutomationStatus,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err != nil {
		log.Printf("Erro crítico no banco (upsert lead): %v", err)
		return err
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return lead, err
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

// UpdateAnalysis commits the audit+draft result in a single write. The CASE
// keeps the pipeline stage forward-only when re-analyzing a messaged lead.
func (r *LeadRepository) UpdateAnalysis(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			pain_points = $2,
			ai_message  = $3,
			severity    = $4,
			status      = CASE WHEN status = 'new' THEN 'analyzed' ELSE status END,
			updated_at  = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, lead.ID, lead.PainPoints, lead.AIMessage, lead.Severity)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateApproval persists the consent gate. approved_at only fills on the
// first approval, which keeps the FIFO queue order stable under re-approval.
func (r *LeadRepository) UpdateApproval(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads SET
			approved          = TRUE,
			automation_status = 'queued',
			approved_at       = COALESCE(approved_at, NOW()),
			scheduled_at      = COALESCE($2, scheduled_at),
			updated_at        = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, lead.ID, lead.ScheduledAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ClaimNext atomically dequeues the first eligible lead and marks it
// sending. FOR UPDATE SKIP LOCKED keeps concurrent runners from claiming
// the same row.
func (r *LeadRepository) ClaimNext(ctx context.Context) (*entity.Lead, error) {
	query := `
		UPDATE leads SET automation_status = 'sending', updated_at = NOW()
		WHERE id = (
			SELECT id FROM leads
			WHERE approved = TRUE
			  AND automation_status = 'queued'
			  AND (scheduled_at IS NULL OR scheduled_at <= NOW())
			ORDER BY approved_at ASC NULLS LAST, created_at ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + leadColumns

	lead, err := scanLead(r.DB.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNoLeadQueued
	}
	return lead, err
}

func (r *LeadRepository) MarkSent(ctx context.Context, leadID string) error {
	query := `
		UPDATE leads SET
			automation_status = 'sent',
			status            = CASE WHEN status IN ('new', 'analyzed') THEN 'messaged' ELSE status END,
			updated_at        = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, leadID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *LeadRepository) MarkFailed(ctx context.Context, leadID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET automation_status = 'failed', updated_at = NOW() WHERE id = $1`, leadID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Requeue reverts a claimed-but-undelivered lead back to the queue.
func (r *LeadRepository) Requeue(ctx context.Context, leadID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET automation_status = 'queued', updated_at = NOW()
		 WHERE id = $1 AND automation_status = 'sending'`, leadID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *LeadRepository) HasEligible(ctx context.Context) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leads
			WHERE approved = TRUE
			  AND automation_status = 'queued'
			  AND (scheduled_at IS NULL OR scheduled_at <= NOW())
		)`).Scan(&exists)
	return exists, err
}

func (r *LeadRepository) CountByAutomationStatus(ctx context.Context, status entity.AutomationStatus) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE automation_status = $1`, string(status)).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
		&lead.ID,
		&lead.FullName,
		&lead.LinkedInURL,
		&lead.Title,
		&lead.Company,
		&lead.Website,
		&lead.Country,
		&lead.Industry,
		&lead.PainPoints,
		&lead.AIMessage,
		&lead.Severity,
		&lead.Approved,
		&lead.Status,
		&lead.AutomationStatus,
		&lead.ApprovedAt,
		&lead.ScheduledAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
