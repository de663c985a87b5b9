package gemini

import "google.golang.org/genai"

// Response schemas passed to the model so it returns strict JSON we can
// unmarshal straight into the entity types.

var discoverySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"full_name":       {Type: genai.TypeString},
			"title":           {Type: genai.TypeString},
			"company":         {Type: genai.TypeString},
			"linkedin_url":    {Type: genai.TypeString},
			"website":         {Type: genai.TypeString},
			"industry":        {Type: genai.TypeString},
			"country":         {Type: genai.TypeString},
			"intent_signal":   {Type: genai.TypeString},
			"source_platform": {Type: genai.TypeString},
		},
		Required: []string{
			"full_name", "title", "company", "linkedin_url", "website",
			"industry", "country", "intent_signal", "source_platform",
		},
	},
}

var auditSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pain_points": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "List of identified business pain points",
		},
		"recommendations": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Suggested high-level improvements",
		},
		"severity": {
			Type: genai.TypeString,
			Enum: []string{"low", "medium", "high"},
		},
	},
	Required: []string{"pain_points", "recommendations", "severity"},
}
