package internal

import (
	"encoding/json"
	"strings"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// sessionPrefix is the prefix of client-minted session ids
const sessionPrefix = "session_"

// Session represents a backend-tracked conversation
type Session struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// UnmarshalJSON accepts both {"id": ..., "name": ...} and a bare id string
func (s *Session) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*s = Session{ID: id}
		return nil
	}

	type plain Session
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Session(p)
	return nil
}

// DisplayName returns the label shown for the session
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return DisplayName(s.ID)
}

// DisplayName derives a label from a session id
func DisplayName(id string) string {
	return strings.Replace(id, sessionPrefix, "Conversación ", 1)
}

// ToolCall records a tool the assistant ran while producing a reply
type ToolCall struct {
	Tool   string                 `json:"tool" yaml:"tool"`
	Input  map[string]interface{} `json:"input" yaml:"input"`
	Result map[string]interface{} `json:"result" yaml:"result"`
}

// Message represents one entry in a thread
type Message struct {
	Role      string     `json:"role" yaml:"role"`
	Content   string     `json:"content" yaml:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty" yaml:"tool_calls,omitempty"`
}

// Transcript is a session's messages as retrieved from the backend
type Transcript struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	Name      string    `json:"name" yaml:"name"`
	Messages  []Message `json:"messages" yaml:"messages"`
}
