package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/rwagency/intent-agent/internal/entity"
)

type DiscoverLeadsUseCase struct {
	Discoverer Discoverer
}

func NewDiscoverLeadsUseCase(discoverer Discoverer) *DiscoverLeadsUseCase {
	return &DiscoverLeadsUseCase{Discoverer: discoverer}
}

// Execute runs the intent scouter for a free-text query. Nothing is
// persisted: candidates only enter the pipeline when the operator imports
// them. A collaborator failure leaves prior results untouched.
func (uc *DiscoverLeadsUseCase) Execute(ctx context.Context, query string) ([]entity.DiscoveryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: "query is required",
		}
	}

	results, err := uc.Discoverer.Discover(ctx, query)
	if err != nil {
		log.Printf("❌ [DISCOVERY] Busca falhou: %v", err)
		return nil, &TechnicalError{
			Code:    "DISCOVERY_FAILED",
			Message: "intent discovery failed: " + err.Error(),
		}
	}

	log.Printf("🔎 [DISCOVERY] %d candidatos para %q", len(results), query)
	return results, nil
}
