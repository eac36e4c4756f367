package audio

import "time"

type Encoding string

const (
	EncodingMulaw    Encoding = "mulaw"
	EncodingLinear16 Encoding = "linear16"
)

// Segment is one captured unit of audio handed to a recognizer.
type Segment struct {
	Data       []byte
	Encoding   Encoding
	SampleRate int
	Channels   int
}

func (s Segment) Empty() bool { return len(s.Data) == 0 }

// Duration derives the playback length from the raw byte count.
func (s Segment) Duration() time.Duration {
	rate := s.SampleRate
	if rate <= 0 {
		rate = 8000
	}
	ch := s.Channels
	if ch <= 0 {
		ch = 1
	}
	samples := len(s.Data) / (bytesPerSample(s.Encoding) * ch)
	return time.Duration(samples) * time.Second / time.Duration(rate)
}

func bytesPerSample(enc Encoding) int {
	if enc == EncodingLinear16 {
		return 2
	}
	return 1
}
