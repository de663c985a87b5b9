package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rwagency/intent-agent/internal/entity"
	"github.com/rwagency/intent-agent/internal/infra/http/middleware"
	"github.com/rwagency/intent-agent/internal/usecase"
)

type DiscoveryHandler struct {
	DiscoverUC *usecase.DiscoverLeadsUseCase
	ImportUC   *usecase.ImportLeadUseCase
}

func NewDiscoveryHandler(discoverUC *usecase.DiscoverLeadsUseCase, importUC *usecase.ImportLeadUseCase) *DiscoveryHandler {
	return &DiscoveryHandler{
		DiscoverUC: discoverUC,
		ImportUC:   importUC,
	}
}

type SearchRequest struct {
	Query string `json:"query"`
}

// HandleSearch runs the intent scouter. Results stay client-side until the
// operator imports them.
func (h *DiscoveryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	results, err := h.DiscoverUC.Execute(r.Context(), req.Query)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			middleware.RecordIntegrationError("gemini")
		}
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordDiscovery(len(results))
	if results == nil {
		results = []entity.DiscoveryResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleImport injects one discovery candidate into the pipeline.
func (h *DiscoveryHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var res entity.DiscoveryResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.ImportUC.Execute(r.Context(), usecase.FromDiscovery(res))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadImported()
	writeJSON(w, http.StatusCreated, lead)
}
