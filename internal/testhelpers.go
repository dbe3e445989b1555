package internal

// CreateTestTranscript creates a transcript with one user turn and one
// assistant reply that used a tool
func CreateTestTranscript(id string) *Transcript {
	return &Transcript{
		SessionID: id,
		Name:      DisplayName(id),
		Messages: []Message{
			{
				Role:    RoleUser,
				Content: "¿tienen stock de camisetas?",
			},
			{
				Role:    RoleAssistant,
				Content: "Sí, tenemos 12 unidades.",
				ToolCalls: []ToolCall{
					CreateTestToolCall("check_stock", "camisetas", 12),
				},
			},
		},
	}
}

// CreateTestTranscriptWithMessages creates a transcript with custom messages
func CreateTestTranscriptWithMessages(id string, messages []Message) *Transcript {
	return &Transcript{
		SessionID: id,
		Name:      DisplayName(id),
		Messages:  messages,
	}
}

// CreateTestToolCall creates a stock lookup tool call
func CreateTestToolCall(tool, product string, quantity int) ToolCall {
	return ToolCall{
		Tool:   tool,
		Input:  map[string]interface{}{"product": product},
		Result: map[string]interface{}{"quantity": quantity},
	}
}

// CreateTestChatResponse creates a backend reply for sessionID
func CreateTestChatResponse(sessionID, text string, calls ...ToolCall) *ChatResponse {
	return &ChatResponse{
		SessionID: sessionID,
		Response:  text,
		ToolCalls: calls,
	}
}
