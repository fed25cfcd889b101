package app

// CollectingDispatcher buffers messages so the transport can return them
// in one response.
type CollectingDispatcher struct {
	Messages []string
}

func (d *CollectingDispatcher) SendMessage(text string) {
	d.Messages = append(d.Messages, text)
}
