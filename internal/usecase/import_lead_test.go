package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rwagency/intent-agent/internal/entity"
)

func validImportInput() ImportLeadInput {
	return ImportLeadInput{
		FullName:    "Marcos Lima",
		LinkedInURL: "https://linkedin.com/in/marcoslima",
		Title:       "Owner",
		Company:     "Lima Imóveis",
		Website:     "https://limaimoveis.com.br",
		Country:     "Brazil",
		Industry:    "Real Estate",
	}
}

func TestImportLead_Success(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewImportLeadUseCase(repo)

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*entity.Lead")).Return(nil)

	lead, err := uc.Execute(context.Background(), validImportInput())

	assert.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "Marcos Lima", lead.FullName)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, entity.AutomationNone, lead.AutomationStatus)
	assert.False(t, lead.Approved)
	repo.AssertExpectations(t)
}

func TestImportLead_ValidationFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewImportLeadUseCase(repo)

	input := validImportInput()
	input.FullName = ""
	input.Website = "not-a-url"

	lead, err := uc.Execute(context.Background(), input)

	assert.Nil(t, lead)
	assert.True(t, IsDomainError(err))
	assert.Equal(t, "VALIDATION_ERROR", err.(*DomainError).Code)
	assert.Contains(t, err.Error(), "full_name")
	assert.Contains(t, err.Error(), "website")
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestImportLead_RepositoryFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewImportLeadUseCase(repo)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	lead, err := uc.Execute(context.Background(), validImportInput())

	assert.Nil(t, lead)
	assert.True(t, IsTechnicalError(err))
	assert.Equal(t, "DATABASE_ERROR", err.(*TechnicalError).Code)
}

func TestFromDiscoveryDropsIntentMetadata(t *testing.T) {
	res := entity.DiscoveryResult{
		FullName:       "Ana Souza",
		Title:          "CEO",
		Company:        "Souza Tech",
		LinkedInURL:    "https://linkedin.com/in/anasouza",
		Website:        "https://souzatech.com",
		Industry:       "SaaS",
		Country:        "Brazil",
		IntentSignal:   "Asked on X for marketing agency referrals",
		SourcePlatform: "X Post",
	}

	input := FromDiscovery(res)

	assert.Equal(t, res.FullName, input.FullName)
	assert.Equal(t, res.LinkedInURL, input.LinkedInURL)
	assert.Equal(t, res.Website, input.Website)
	// O sinal de intenção fica só na tela de descoberta.
	assert.Empty(t, ValidateImportLeadInput(input))
}
