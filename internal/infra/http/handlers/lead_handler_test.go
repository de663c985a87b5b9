package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rwagency/intent-agent/internal/entity"
	"github.com/rwagency/intent-agent/internal/usecase"
)

func newTestLeadHandler(repo *MockLeadRepository, auditor *MockAuditor, drafter *MockDrafter) *LeadHandler {
	return NewLeadHandler(
		repo,
		usecase.NewImportLeadUseCase(repo),
		usecase.NewAnalyzeLeadUseCase(repo, auditor, drafter),
		usecase.NewApproveLeadUseCase(repo),
	)
}

// withURLParam injeta o parâmetro de rota do chi sem subir um router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestLeadList(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	leads := []entity.Lead{
		*entity.NewLead("Ana Souza", "https://linkedin.com/in/ana", "CEO", "Souza Tech",
			"https://souzatech.com", "Brazil", "SaaS"),
	}
	repo.On("ListAll", mock.Anything).Return(leads, nil)

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []entity.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "Ana Souza", got[0].FullName)
}

func TestLeadListEmptyIsJSONArray(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	repo.On("ListAll", mock.Anything).Return([]entity.Lead{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestLeadCreate(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	payload := `{
		"full_name": "Marcos Lima",
		"linkedin_url": "https://linkedin.com/in/marcoslima",
		"title": "Owner",
		"company": "Lima Imóveis",
		"website": "https://limaimoveis.com.br",
		"country": "Brazil",
		"industry": "Real Estate"
	}`
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var lead entity.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.StatusNew, lead.Status)
}

func TestLeadCreateInvalidJSON(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeadCreateValidationError(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	req := httptest.NewRequest(http.MethodPost, "/leads",
		strings.NewReader(`{"full_name": "X"}`))
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLeadCreateRateLimited(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	payload := `{
		"full_name": "Marcos Lima",
		"linkedin_url": "https://linkedin.com/in/marcoslima",
		"title": "Owner",
		"company": "Lima Imóveis",
		"website": "https://limaimoveis.com.br",
		"country": "Brazil",
		"industry": "Real Estate"
	}`

	var lastCode int
	for i := 0; i < 31; i++ {
		req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(payload))
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		rec := httptest.NewRecorder()
		handler.HandleCreate(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestLeadAnalyze(t *testing.T) {
	repo := new(MockLeadRepository)
	auditor := new(MockAuditor)
	drafter := new(MockDrafter)
	handler := newTestLeadHandler(repo, auditor, drafter)

	lead := entity.NewLead("Carla Dias", "https://linkedin.com/in/carladias", "Founder",
		"Dias Odonto", "https://diasodonto.com.br", "Brazil", "Healthcare")
	audit := &entity.AuditResult{PainPoints: []string{"no SSL"}, Severity: entity.SeverityHigh}

	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	auditor.On("Audit", mock.Anything, lead).Return(audit, nil)
	drafter.On("DraftMessage", mock.Anything, lead, audit).Return("Oi Carla...", nil)
	repo.On("UpdateAnalysis", mock.Anything, lead).Return(nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/leads/%s/analyze", lead.ID), nil), "leadId", lead.ID)
	rec := httptest.NewRecorder()
	handler.HandleAnalyze(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got entity.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, entity.StatusAnalyzed, got.Status)
	assert.Equal(t, "Oi Carla...", *got.AIMessage)
}

func TestLeadAnalyzeNotFound(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	repo.On("FindByID", mock.Anything, "ghost").Return(nil, entity.ErrLeadNotFound)

	req := withURLParam(httptest.NewRequest(http.MethodPost,
		"/leads/ghost/analyze", nil), "leadId", "ghost")
	rec := httptest.NewRecorder()
	handler.HandleAnalyze(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeadApprove(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	lead := entity.NewLead("Carla Dias", "https://linkedin.com/in/carladias", "Founder",
		"Dias Odonto", "https://diasodonto.com.br", "Brazil", "Healthcare")
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	repo.On("UpdateApproval", mock.Anything, lead).Return(nil)

	req := withURLParam(httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/leads/%s/approve", lead.ID), nil), "leadId", lead.ID)
	rec := httptest.NewRecorder()
	handler.HandleApprove(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got entity.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Approved)
	assert.Equal(t, entity.AutomationQueued, got.AutomationStatus)
}

func TestLeadApproveWithSchedule(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	lead := entity.NewLead("Carla Dias", "https://linkedin.com/in/carladias", "Founder",
		"Dias Odonto", "https://diasodonto.com.br", "Brazil", "Healthcare")
	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil)
	repo.On("UpdateApproval", mock.Anything, lead).Return(nil)

	when := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	body := fmt.Sprintf(`{"scheduled_at": %q}`, when.Format(time.RFC3339))
	req := withURLParam(httptest.NewRequest(http.MethodPost,
		fmt.Sprintf("/leads/%s/approve", lead.ID), strings.NewReader(body)), "leadId", lead.ID)
	rec := httptest.NewRecorder()
	handler.HandleApprove(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got entity.Lead
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotNil(t, got.ScheduledAt)
	assert.True(t, got.ScheduledAt.Equal(when))
}

func TestLeadApprovePastScheduleRejected(t *testing.T) {
	repo := new(MockLeadRepository)
	handler := newTestLeadHandler(repo, new(MockAuditor), new(MockDrafter))

	body := fmt.Sprintf(`{"scheduled_at": %q}`,
		time.Now().Add(-time.Hour).Format(time.RFC3339))
	req := withURLParam(httptest.NewRequest(http.MethodPost,
		"/leads/some-id/approve", strings.NewReader(body)), "leadId", "some-id")
	rec := httptest.NewRecorder()
	handler.HandleApprove(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// IP diferente tem cota própria.
	assert.True(t, rl.Allow("5.6.7.8"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"), "janela expirada reseta a cota")
}
