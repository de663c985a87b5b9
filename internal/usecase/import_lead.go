package usecase

import (
	"context"

	"github.com/rwagency/intent-agent/internal/entity"
)

type ImportLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewImportLeadUseCase(repo entity.LeadRepositoryInterface) *ImportLeadUseCase {
	return &ImportLeadUseCase{Repo: repo}
}

// Execute converts a manual entry or a discovery candidate into a pipeline
// lead. Dedup policy: upsert keyed on linkedin_url — a re-import refreshes
// profile fields but never touches pipeline state (status, approval,
// analysis), so the stage cannot regress.
func (uc *ImportLeadUseCase) Execute(ctx context.Context, input ImportLeadInput) (*entity.Lead, error) {
	validationErrors := ValidateImportLeadInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	lead := entity.NewLead(
		input.FullName,
		input.LinkedInURL,
		input.Title,
		input.Company,
		input.Website,
		input.Country,
		input.Industry,
	)

	if err := uc.Repo.Upsert(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to persist lead: " + err.Error(),
		}
	}

	return lead, nil
}

// FromDiscovery maps a discovery candidate onto the import input shape.
func FromDiscovery(res entity.DiscoveryResult) ImportLeadInput {
	return ImportLeadInput{
		FullName:    res.FullName,
		LinkedInURL: res.LinkedInURL,
		Title:       res.Title,
		Company:     res.Company,
		Website:     res.Website,
		Country:     res.Country,
		Industry:    res.Industry,
	}
}
