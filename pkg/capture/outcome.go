package capture

// Kind is the closed set of results a capture iteration can produce.
type Kind int

const (
	// KindNoSpeech: the silence timeout elapsed with no utterance. Not an error.
	KindNoSpeech Kind = iota
	// KindText: speech was captured and recognized.
	KindText
	// KindUnintelligible: audio was captured but decoded to nothing.
	KindUnintelligible
	// KindServiceError: the recognition backend could not serve the request.
	KindServiceError
	// KindDeviceError: the input source itself failed. Fatal to the loop.
	KindDeviceError
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindUnintelligible:
		return "unintelligible"
	case KindServiceError:
		return "service_error"
	case KindDeviceError:
		return "device_error"
	default:
		return "no_speech"
	}
}

// Outcome is the result of one listen+recognize round. Text is set only for
// KindText; Err only for the two error kinds.
type Outcome struct {
	Kind Kind
	Text string
	Err  error
}
