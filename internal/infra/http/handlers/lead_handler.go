package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rwagency/intent-agent/internal/entity"
	"github.com/rwagency/intent-agent/internal/infra/http/middleware"
	"github.com/rwagency/intent-agent/internal/usecase"
)

type LeadHandler struct {
	Repo        entity.LeadRepositoryInterface
	ImportUC    *usecase.ImportLeadUseCase
	AnalyzeUC   *usecase.AnalyzeLeadUseCase
	ApproveUC   *usecase.ApproveLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	repo entity.LeadRepositoryInterface,
	importUC *usecase.ImportLeadUseCase,
	analyzeUC *usecase.AnalyzeLeadUseCase,
	approveUC *usecase.ApproveLeadUseCase,
) *LeadHandler {
	return &LeadHandler{
		Repo:        repo,
		ImportUC:    importUC,
		AnalyzeUC:   analyzeUC,
		ApproveUC:   approveUC,
		rateLimiter: NewRateLimiter(30, time.Minute), // 30 req/min por IP
	}
}

// HandleList returns the whole pipeline, newest first.
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// HandleCreate is the manual-injection path of the dashboard.
func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		return
	}

	var input usecase.ImportLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	lead, err := h.ImportUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadImported()
	writeJSON(w, http.StatusCreated, lead)
}

// HandleAnalyze runs the AI audit + draft for one lead.
func (h *LeadHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	lead, err := h.AnalyzeUC.Execute(r.Context(), leadID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	severity := ""
	if lead.Severity != nil {
		severity = *lead.Severity
	}
	middleware.RecordAnalysis(severity)
	writeJSON(w, http.StatusOK, lead)
}

// HandleApprove gates the lead for outreach.
func (h *LeadHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	input := usecase.ApproveLeadInput{LeadID: chi.URLParam(r, "leadId")}

	// Body é opcional: só carrega o scheduled_at.
	if r.Body != nil && r.ContentLength > 0 {
		var body struct {
			ScheduledAt string `json:"scheduled_at"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		input.ScheduledAt = body.ScheduledAt
	}

	lead, err := h.ApproveUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeUseCaseError maps the usecase error taxonomy onto HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if dErr, ok := err.(*usecase.DomainError); ok {
		status := http.StatusUnprocessableEntity
		switch dErr.Code {
		case "LEAD_NOT_FOUND":
			status = http.StatusNotFound
		case "VALIDATION_ERROR":
			status = http.StatusBadRequest
		}
		writeError(w, status, dErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
