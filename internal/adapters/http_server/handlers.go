// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"airline_assistant/internal/app"
	"airline_assistant/internal/domain"
)

type Handlers struct{ Actions *app.Registry }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// webhookRequest is the custom-action call sent by the dialogue manager.
type webhookRequest struct {
	NextAction string          `json:"next_action"`
	SenderID   string          `json:"sender_id"`
	Tracker    trackerPayload  `json:"tracker"`
	Domain     json.RawMessage `json:"domain,omitempty"`
	Version    string          `json:"version,omitempty"`
}

type trackerPayload struct {
	SenderID      string                     `json:"sender_id"`
	Slots         map[string]json.RawMessage `json:"slots"`
	LatestMessage struct {
		Text *string `json:"text"`
	} `json:"latest_message"`
}

type webhookResponse struct {
	Events    []domain.Event `json:"events"`
	Responses []responseText `json:"responses"`
}

type responseText struct {
	Text string `json:"text"`
}

type actionNotFound struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/health", h.health)
	s.mux.Get("/actions", h.listActions)
	s.mux.Post("/webhook", h.webhook)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) listActions(w http.ResponseWriter, r *http.Request) {
	names := h.Actions.Names()
	out := make([]map[string]string, 0, len(names))
	for _, n := range names {
		out = append(out, map[string]string{"name": n})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "request body must be a JSON action call")
		return
	}
	if req.NextAction == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "next_action is required")
		return
	}

	action, ok := h.Actions.Lookup(req.NextAction)
	if !ok {
		log.Warn().Str("action", req.NextAction).Msg("unknown action requested")
		writeJSON(w, http.StatusNotFound, actionNotFound{
			Error:      fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
			ActionName: req.NextAction,
		})
		return
	}

	d := &app.CollectingDispatcher{}
	events := action.Run(r.Context(), d, req.state())

	resp := webhookResponse{Events: events, Responses: make([]responseText, 0, len(d.Messages))}
	if resp.Events == nil {
		resp.Events = []domain.Event{}
	}
	for _, m := range d.Messages {
		resp.Responses = append(resp.Responses, responseText{Text: m})
	}
	writeJSON(w, http.StatusOK, resp)
}

// state converts the loosely typed tracker into the typed conversation view.
func (req webhookRequest) state() domain.ConversationState {
	st := domain.ConversationState{SenderID: req.Tracker.SenderID}
	if st.SenderID == "" {
		st.SenderID = req.SenderID
	}
	if req.Tracker.LatestMessage.Text != nil {
		st.LatestMessage = *req.Tracker.LatestMessage.Text
	}
	st.Slots = domain.Slots{
		Airline: slotText(req.Tracker.Slots["airline"]),
		Rating:  slotText(req.Tracker.Slots["rating"]),
		Review:  slotText(req.Tracker.Slots["review"]),
	}
	return st
}

// slotText returns strings as-is and numbers as their JSON literal.
// null, missing and non-scalar values count as unset.
func slotText(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return &t
	case json.Number:
		s := t.String()
		return &s
	default:
		return nil
	}
}
