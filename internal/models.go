package internal

import "encoding/json"

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse is the answer to POST /chat
type ChatResponse struct {
	SessionID string     `json:"session_id"`
	Response  string     `json:"response"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// SessionListResponse is the answer to GET /sessions
type SessionListResponse struct {
	Sessions []Session `json:"sessions"`
	Count    int       `json:"count"`
}

// UnmarshalJSON drops entries without an id (null or "")
func (r *SessionListResponse) UnmarshalJSON(data []byte) error {
	type plain SessionListResponse
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	kept := make([]Session, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		if s.ID != "" {
			kept = append(kept, s)
		}
	}
	p.Sessions = kept
	*r = SessionListResponse(p)
	return nil
}

// HistoryEntry is one message in GET /sessions/{id}/history
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryResponse is the answer to GET /sessions/{id}/history
type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	History   []HistoryEntry `json:"history"`
	Exists    bool           `json:"exists"`
}

// Messages converts the history into thread messages
func (h *HistoryResponse) Messages() []Message {
	messages := make([]Message, 0, len(h.History))
	for _, entry := range h.History {
		messages = append(messages, Message{Role: entry.Role, Content: entry.Content})
	}
	return messages
}

// Transcript builds an exportable transcript from the history
func (h *HistoryResponse) Transcript() *Transcript {
	return &Transcript{
		SessionID: h.SessionID,
		Name:      DisplayName(h.SessionID),
		Messages:  h.Messages(),
	}
}

// ClearRequest is the body of POST /clear
type ClearRequest struct {
	SessionID string `json:"session_id"`
}

// Tool is a catalogue entry; its shape is owned by the backend
type Tool map[string]interface{}

// Name returns the tool's name, if any
func (t Tool) Name() string {
	name, _ := t["name"].(string)
	return name
}

// Description returns the tool's description, if any
func (t Tool) Description() string {
	desc, _ := t["description"].(string)
	return desc
}

// ToolsResponse is the answer to GET /tools
type ToolsResponse struct {
	Tools        []Tool `json:"tools"`
	GeminiFormat []Tool `json:"gemini_format"`
	Count        int    `json:"count"`
}
