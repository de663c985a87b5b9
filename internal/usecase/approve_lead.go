package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/rwagency/intent-agent/internal/entity"
)

type ApproveLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewApproveLeadUseCase(repo entity.LeadRepositoryInterface) *ApproveLeadUseCase {
	return &ApproveLeadUseCase{Repo: repo}
}

// Execute gates a lead for automated outreach: approved=true and the lead
// joins the queue. Idempotent. Approving a lead that was never analyzed is
// permitted (operator's call). An optional scheduled_at holds the lead back
// until that time.
func (uc *ApproveLeadUseCase) Execute(ctx context.Context, input ApproveLeadInput) (*entity.Lead, error) {
	scheduledAt, vErr := parseScheduledAt(input.ScheduledAt)
	if vErr != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: vErr.Error()}
	}

	lead, err := uc.Repo.FindByID(ctx, input.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{
				Code:    "LEAD_NOT_FOUND",
				Message: "lead " + input.LeadID + " does not exist",
			}
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to load lead: " + err.Error(),
		}
	}

	lead.Approve(time.Now(), scheduledAt)
	if err := uc.Repo.UpdateApproval(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist approval: " + err.Error(),
		}
	}

	log.Printf("👍 [APPROVE] Lead %s aprovado e na fila", lead.ID)
	return lead, nil
}
