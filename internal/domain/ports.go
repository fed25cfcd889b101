package domain

import "context"

// Dispatcher sends text back to the end user.
type Dispatcher interface {
	SendMessage(text string)
}

// Action is a server-side handler the dialogue manager invokes by name.
// Run never fails: every outcome is reported through the dispatcher.
type Action interface {
	Name() string
	Run(ctx context.Context, d Dispatcher, st ConversationState) []Event
}

type ReviewRepository interface {
	// InsertReview writes one record in its own connection scope and
	// transaction. Errors wrap ErrConnection or ErrStorage.
	InsertReview(ctx context.Context, r ReviewRecord) error
}

type SearchClient interface {
	// Search returns the result items in engine order. An absent items
	// list is returned as an empty slice, not an error.
	Search(ctx context.Context, query string) ([]SearchItem, error)
}

type ChatClient interface {
	// Chat returns the decoded response object as-is so the caller can
	// decide how to treat missing fields.
	Chat(ctx context.Context, req ChatRequest) (map[string]any, error)
}

type SearchItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link,omitempty"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}
