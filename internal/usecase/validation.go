package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateImportLeadInput(input ImportLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FullName) == "" {
		errors = append(errors, ValidationError{"full_name", "is required"})
	} else if len(input.FullName) < 3 {
		errors = append(errors, ValidationError{"full_name", "must have at least 3 characters"})
	} else if len(input.FullName) > 200 {
		errors = append(errors, ValidationError{"full_name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.LinkedInURL) == "" {
		errors = append(errors, ValidationError{"linkedin_url", "is required"})
	} else if !isValidURL(input.LinkedInURL) {
		errors = append(errors, ValidationError{"linkedin_url", "must be a valid http(s) URL"})
	}

	if strings.TrimSpace(input.Website) == "" {
		errors = append(errors, ValidationError{"website", "is required"})
	} else if !isValidURL(input.Website) {
		errors = append(errors, ValidationError{"website", "must be a valid http(s) URL"})
	}

	if strings.TrimSpace(input.Title) == "" {
		errors = append(errors, ValidationError{"title", "is required"})
	}
	if strings.TrimSpace(input.Company) == "" {
		errors = append(errors, ValidationError{"company", "is required"})
	}
	if strings.TrimSpace(input.Country) == "" {
		errors = append(errors, ValidationError{"country", "is required"})
	}

	return errors
}

func isValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// parseScheduledAt accepts an optional RFC3339 timestamp. Empty means "send
// with the next campaign"; a past timestamp is rejected.
func parseScheduledAt(raw string) (*time.Time, *ValidationError) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &ValidationError{"scheduled_at", "must be a valid RFC3339 timestamp"}
	}
	if t.Before(time.Now()) {
		return nil, &ValidationError{"scheduled_at", "must be in the future"}
	}
	return &t, nil
}
