package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"airline_assistant/internal/adapters/observability"
	"airline_assistant/internal/domain"
)

const LookupActionName = "action_fetch_answer"

type LookupOptions struct {
	Model        string
	ResultsTaken int
	MaxChars     int
}

// AnswerLookupAction answers a free-text question from web search results
// summarized by a language model.
type AnswerLookupAction struct {
	search domain.SearchClient
	chat   domain.ChatClient
	opts   LookupOptions
}

func NewAnswerLookupAction(s domain.SearchClient, c domain.ChatClient, o LookupOptions) *AnswerLookupAction {
	if o.ResultsTaken <= 0 {
		o.ResultsTaken = 2
	}
	if o.MaxChars <= 0 {
		o.MaxChars = 1000
	}
	return &AnswerLookupAction{search: s, chat: c, opts: o}
}

func (a *AnswerLookupAction) Name() string { return LookupActionName }

func (a *AnswerLookupAction) Run(ctx context.Context, d domain.Dispatcher, st domain.ConversationState) []domain.Event {
	msg := a.answer(ctx, st)
	if msg == "" {
		msg = MsgLookupFailed
	}
	d.SendMessage(msg)
	return []domain.Event{}
}

func (a *AnswerLookupAction) answer(ctx context.Context, st domain.ConversationState) string {
	l := log.With().Str("action", LookupActionName).Str("sender", st.SenderID).Logger()

	items, err := a.search.Search(ctx, st.LatestMessage)
	if err != nil {
		l.Error().Err(err).Msg("search failed")
		observability.ObserveAction(LookupActionName, "search_failed")
		return ""
	}
	if len(items) == 0 {
		l.Info().Str("query", st.LatestMessage).Msg("no search results")
		observability.ObserveAction(LookupActionName, "no_results")
		return MsgNoAnswers
	}

	raw := a.searchText(items)
	resp, err := a.chat.Chat(ctx, domain.ChatRequest{
		Model: a.opts.Model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: SummarizeInstruction},
			{Role: domain.RoleUser, Content: raw},
		},
	})
	if err != nil {
		l.Error().Err(err).Msg("generation failed")
		observability.ObserveAction(LookupActionName, "generation_failed")
		return MsgAnswerUnavailable
	}
	content, ok := messageContent(resp)
	if !ok {
		l.Warn().Interface("response", resp).Msg("generation response has no message.content")
		observability.ObserveAction(LookupActionName, "generation_failed")
		return MsgAnswerUnavailable
	}
	observability.ObserveAction(LookupActionName, "answered")
	return content
}

// searchText renders the leading results as "title: snippet" lines, capped
// at MaxChars characters.
func (a *AnswerLookupAction) searchText(items []domain.SearchItem) string {
	if len(items) > a.opts.ResultsTaken {
		items = items[:a.opts.ResultsTaken]
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, it.Title+": "+it.Snippet)
	}
	out, _ := truncateRunes(strings.Join(lines, "\n"), a.opts.MaxChars)
	return out
}

func messageContent(resp map[string]any) (string, bool) {
	msg, ok := resp["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := msg["content"].(string)
	return content, ok
}
