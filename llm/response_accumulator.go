package llm

// ResponseAccumulator consumes the event sequence from a StreamIterator and
// assembles the final Response. Providers attach the completed Response to
// the event that closes out the message (see Event.Response's doc comment);
// the accumulator just watches for it.
type ResponseAccumulator struct {
	response *Response
	complete bool
}

// NewResponseAccumulator creates an empty accumulator.
func NewResponseAccumulator() *ResponseAccumulator {
	return &ResponseAccumulator{}
}

// AddEvent folds one more streaming event into the accumulator.
func (a *ResponseAccumulator) AddEvent(event *Event) error {
	if event == nil {
		return nil
	}
	if event.Response != nil {
		a.response = event.Response
		a.complete = true
	}
	if event.Type == EventMessageStop {
		a.complete = true
	}
	return nil
}

// IsComplete reports whether an event carrying the final Response, or a
// message_stop event, has been seen.
func (a *ResponseAccumulator) IsComplete() bool {
	return a.complete
}

// Response returns the assembled Response, or nil if no event has carried
// one.
func (a *ResponseAccumulator) Response() *Response {
	return a.response
}
