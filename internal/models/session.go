package models

import (
	"time"
)

// ConversationState is the current stage of a conversation session
type ConversationState string

const (
	StateInitial           ConversationState = "initial"
	StateResourceSelection ConversationState = "resource_selection"
	StateSubscription      ConversationState = "subscription"
	StateResourceGroup     ConversationState = "resource_group"
	StateRegion            ConversationState = "region"
	StateResourceConfig    ConversationState = "resource_config"
	StateConfirmation      ConversationState = "confirmation"
	StateExecutionMethod   ConversationState = "execution_method"
	StateCreating          ConversationState = "creating"
	StateCompleted         ConversationState = "completed"
	StateError             ConversationState = "error"
)

// Execution methods selected at confirmation
const (
	ExecutionMethodAzureSDK  = "azure_sdk"
	ExecutionMethodTerraform = "terraform"
)

// ChatMessage is one entry in a session's append-only message log.
// The log is kept for audit/history only; the engine never reads it back.
type ChatMessage struct {
	Role     string            `json:"role"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Session holds one user's in-progress conversation and accumulated answers
type Session struct {
	ID              string                 `json:"session_id"`
	State           ConversationState      `json:"state"`
	ResourceType    ResourceType           `json:"resource_type,omitempty"`
	SubscriptionID  string                 `json:"subscription_id,omitempty"`
	ResourceGroup   string                 `json:"resource_group,omitempty"`
	CreateNewRG     bool                   `json:"create_new_rg"`
	Region          string                 `json:"region,omitempty"`
	Config          map[string]interface{} `json:"config"`
	ExecutionMethod string                 `json:"execution_method,omitempty"`
	Messages        []ChatMessage          `json:"messages"`
	CollectedParams map[string]interface{} `json:"collected_params"`
	QuestionIndex   int                    `json:"_question_index"`
	CreatedAt       time.Time              `json:"created_at"`
	LastActivity    time.Time              `json:"last_activity"`
}

// NewSession returns a fresh session in the INITIAL state
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:              id,
		State:           StateInitial,
		Config:          map[string]interface{}{},
		Messages:        []ChatMessage{},
		CollectedParams: map[string]interface{}{},
		CreatedAt:       now,
		LastActivity:    now,
	}
}

// AddMessage appends an entry to the session's message log
func (s *Session) AddMessage(role, content string) {
	s.Messages = append(s.Messages, ChatMessage{Role: role, Content: content})
}

// Summary returns the location parameters plus finalized configuration,
// shaped for the confirmation response envelope
func (s *Session) Summary() map[string]interface{} {
	return map[string]interface{}{
		"resource_type":   string(s.ResourceType),
		"subscription_id": s.SubscriptionID,
		"resource_group":  s.ResourceGroup,
		"create_new_rg":   s.CreateNewRG,
		"region":          s.Region,
		"configuration":   s.Config,
	}
}
