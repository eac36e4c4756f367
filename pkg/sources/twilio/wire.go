package twilio

// Twilio Media Streams websocket payloads, trimmed to the events the source
// consumes.

type streamEvent struct {
	Event string      `json:"event"`
	Start *startEvent `json:"start,omitempty"`
	Media *mediaEvent `json:"media,omitempty"`
	Stop  *stopEvent  `json:"stop,omitempty"`
}

type startEvent struct {
	StreamSID  string `json:"streamSid"`
	CallSID    string `json:"callSid"`
	AccountSID string `json:"accountSid"`
}

type mediaEvent struct {
	Payload string `json:"payload"`
}

type stopEvent struct {
	CallSID string `json:"callSid"`
	Reason  string `json:"reason,omitempty"`
}
