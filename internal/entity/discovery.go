package entity

// DiscoveryResult is an external candidate lead returned by the intent
// scouter. It is not persisted until the operator imports it.
type DiscoveryResult struct {
	FullName       string `json:"full_name"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	LinkedInURL    string `json:"linkedin_url"`
	Website        string `json:"website"`
	Industry       string `json:"industry"`
	Country        string `json:"country"`
	IntentSignal   string `json:"intent_signal"`
	SourcePlatform string `json:"source_platform"`
}
