package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rwagency/intent-agent/internal/entity"
	"github.com/rwagency/intent-agent/internal/outreach"
)

// CampaignRunner is the handler's view of the outreach runner.
type CampaignRunner interface {
	Start(ctx context.Context) error
	Stop()
	Active() bool
}

type CampaignHandler struct {
	Runner CampaignRunner
	Repo   entity.LeadRepositoryInterface
}

func NewCampaignHandler(runner CampaignRunner, repo entity.LeadRepositoryInterface) *CampaignHandler {
	return &CampaignHandler{
		Runner: runner,
		Repo:   repo,
	}
}

type CampaignStatusResponse struct {
	Active bool `json:"active"`
	Queued int  `json:"queued"`
	Sent   int  `json:"sent"`
	Failed int  `json:"failed"`
}

// HandleStart keeps the dashboard's toggle semantics: starting an active
// campaign stops it.
func (h *CampaignHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	wasActive := h.Runner.Active()

	if err := h.Runner.Start(r.Context()); err != nil {
		if errors.Is(err, outreach.ErrQueueEmpty) {
			writeJSON(w, http.StatusOK, map[string]any{
				"active":  false,
				"message": "Queue empty! Approve some drafts first.",
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	message := "Campaign started"
	if wasActive {
		message = "Campaign stopped"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  h.Runner.Active(),
		"message": message,
	})
}

func (h *CampaignHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.Runner.Stop()
	writeJSON(w, http.StatusOK, map[string]any{
		"active":  false,
		"message": "Campaign stopped",
	})
}

func (h *CampaignHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := CampaignStatusResponse{Active: h.Runner.Active()}

	// Contadores são informativos; erro aqui não derruba a resposta.
	resp.Queued, _ = h.Repo.CountByAutomationStatus(ctx, entity.AutomationQueued)
	resp.Sent, _ = h.Repo.CountByAutomationStatus(ctx, entity.AutomationSent)
	resp.Failed, _ = h.Repo.CountByAutomationStatus(ctx, entity.AutomationFailed)

	writeJSON(w, http.StatusOK, resp)
}
