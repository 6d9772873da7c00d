package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation. Turns are append-only: once
// created they are never mutated, only stored and replayed.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
