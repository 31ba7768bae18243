package metrics

// TokenUsage captures model token counts reported for a generation call.
type TokenUsage struct {
	PromptTokens   int `json:"promptTokens"`
	ResponseTokens int `json:"responseTokens,omitempty"`
	TotalTokens    int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.ResponseTokens == 0 && u.TotalTokens == 0
}
