package domain

// Slots are the conversation values the dialogue manager extracted for
// the current sender. A nil field means the slot is unset.
type Slots struct {
	Airline *string
	Rating  *string
	Review  *string
}

// ConversationState is the read-only view of the tracker an action gets.
type ConversationState struct {
	SenderID      string
	Slots         Slots
	LatestMessage string
}

func (s ConversationState) Airline() (string, bool) { return deref(s.Slots.Airline) }
func (s ConversationState) Rating() (string, bool)  { return deref(s.Slots.Rating) }
func (s ConversationState) Review() (string, bool)  { return deref(s.Slots.Review) }

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// Event is a conversation-state mutation returned to the dialogue manager.
type Event map[string]any
