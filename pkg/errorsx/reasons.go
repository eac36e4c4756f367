package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Audio source reasons.
	ReasonListenTimeout ReasonCode = "listen_timeout"
	ReasonDeviceFailure ReasonCode = "device_failure"
	ReasonSourceClosed  ReasonCode = "source_closed"

	// Recognition reasons.
	ReasonUnintelligible     ReasonCode = "unintelligible"
	ReasonServiceUnavailable ReasonCode = "service_unavailable"

	ReasonDialFailed       ReasonCode = "dial_failed"
	ReasonInvalidSignature ReasonCode = "webhook_invalid_signature"
	ReasonInterrupted      ReasonCode = "interrupted"
)
