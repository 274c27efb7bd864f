package models

// ChatRequest is the inbound message envelope
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message"`
}

// ChatResponse is the outbound response envelope returned for every
// processed message
type ChatResponse struct {
	SessionID       string                 `json:"session_id"`
	Message         string                 `json:"message"`
	State           string                 `json:"state"`
	Options         []string               `json:"options,omitempty"`
	ResourceSummary map[string]interface{} `json:"resource_summary,omitempty"`
	CostEstimate    *CostEstimate          `json:"cost_estimate,omitempty"`
	TerraformCode   string                 `json:"terraform_code,omitempty"`
	CreatedResource *CreationResult        `json:"created_resource,omitempty"`
	Error           string                 `json:"error,omitempty"`
}

// SessionResponse is returned on session creation
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}
