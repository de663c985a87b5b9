package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rwagency/intent-agent/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateAnalysis(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateApproval(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) CountByAutomationStatus(ctx context.Context, status entity.AutomationStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Audit(ctx context.Context, lead *entity.Lead) (*entity.AuditResult, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditResult), args.Error(1)
}

type MockDrafter struct {
	mock.Mock
}

func (m *MockDrafter) DraftMessage(ctx context.Context, lead *entity.Lead, audit *entity.AuditResult) (string, error) {
	args := m.Called(ctx, lead, audit)
	return args.String(0), args.Error(1)
}

type MockDiscoverer struct {
	mock.Mock
}

func (m *MockDiscoverer) Discover(ctx context.Context, query string) ([]entity.DiscoveryResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DiscoveryResult), args.Error(1)
}

// fakeRunner implementa CampaignRunner sem goroutines para os testes de handler.
type fakeRunner struct {
	active     bool
	startErr   error
	startCalls int
	stopCalls  int
}

func (f *fakeRunner) Start(ctx context.Context) error {
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	// Mantém a semântica de toggle do runner real.
	f.active = !f.active
	return nil
}

func (f *fakeRunner) Stop() {
	f.stopCalls++
	f.active = false
}

func (f *fakeRunner) Active() bool {
	return f.active
}
