package domain

// ChatRole identifies the author of a conversation message.
type ChatRole string

const (
	// RoleUser marks a message written by the end user.
	RoleUser ChatRole = "user"
	// RoleAssistant marks a message written by the model.
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the research conversation.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ChatResult is the outcome of one chat completion call.
type ChatResult struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}
