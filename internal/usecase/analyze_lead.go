package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/rwagency/intent-agent/internal/entity"
)

type AnalyzeLeadUseCase struct {
	Repo    entity.LeadRepositoryInterface
	Auditor Auditor
	Drafter MessageDrafter
}

func NewAnalyzeLeadUseCase(
	repo entity.LeadRepositoryInterface,
	auditor Auditor,
	drafter MessageDrafter,
) *AnalyzeLeadUseCase {
	return &AnalyzeLeadUseCase{
		Repo:    repo,
		Auditor: auditor,
		Drafter: drafter,
	}
}

// Execute runs the audit and drafts the outreach message for one lead.
// All-or-nothing: nothing is persisted unless BOTH collaborator calls
// succeed. Analyzing an already-analyzed lead is allowed (the AI context
// simply uses the current fields); the pipeline stage never regresses.
func (uc *AnalyzeLeadUseCase) Execute(ctx context.Context, leadID string) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{
				Code:    "LEAD_NOT_FOUND",
				Message: "lead " + leadID + " does not exist",
			}
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to load lead: " + err.Error(),
		}
	}

	// 1. Audit do site
	audit, err := uc.Auditor.Audit(ctx, lead)
	if err != nil {
		log.Printf("❌ [ANALYZE] Audit falhou para lead=%s: %v", lead.ID, err)
		return nil, &TechnicalError{
			Code:    "AUDIT_FAILED",
			Message: "website audit failed: " + err.Error(),
		}
	}

	// 2. Rascunho da mensagem (o erro propaga; sem placeholder)
	message, err := uc.Drafter.DraftMessage(ctx, lead, audit)
	if err != nil {
		log.Printf("❌ [ANALYZE] Draft falhou para lead=%s: %v", lead.ID, err)
		return nil, &TechnicalError{
			Code:    "DRAFT_FAILED",
			Message: "message drafting failed: " + err.Error(),
		}
	}

	// 3. Commit único
	lead.MarkAnalyzed(audit.JoinedPainPoints(), message, audit.Severity, time.Now())
	if err := uc.Repo.UpdateAnalysis(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist analysis: " + err.Error(),
		}
	}

	log.Printf("✅ [ANALYZE] Lead %s analisado (severity=%s)", lead.ID, audit.Severity)
	return lead, nil
}
