package audio

import "time"

type SegmenterConfig struct {
	Gate       *Gate
	Encoding   Encoding
	SampleRate int
	Channels   int
	// MaxPhrase caps a single segment's duration.
	MaxPhrase time.Duration
	// HangTime is the stretch of silence that closes an open segment.
	HangTime time.Duration
}

// Segmenter slices a continuous chunk stream into speech segments using the
// energy gate. Chunks before speech onset are dropped; trailing silence up to
// HangTime stays in the segment.
type Segmenter struct {
	cfg      SegmenterConfig
	buf      []byte
	inSpeech bool
	silence  time.Duration
	elapsed  time.Duration
}

func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if cfg.Gate == nil {
		cfg.Gate = NewGate(0, true)
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 8000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	if cfg.Encoding == "" {
		cfg.Encoding = EncodingMulaw
	}
	if cfg.MaxPhrase <= 0 {
		cfg.MaxPhrase = 10 * time.Second
	}
	if cfg.HangTime <= 0 {
		cfg.HangTime = 700 * time.Millisecond
	}
	return &Segmenter{cfg: cfg}
}

// InSpeech reports whether a segment is currently open.
func (s *Segmenter) InSpeech() bool { return s.inSpeech }

// Push consumes one chunk and returns a completed segment once the phrase
// ended or hit the phrase cap.
func (s *Segmenter) Push(chunk []byte) (Segment, bool) {
	if len(chunk) == 0 {
		return Segment{}, false
	}
	dur := s.chunkDuration(chunk)
	level := RMS(chunk, s.cfg.Encoding)
	speech := s.cfg.Gate.Speech(level)

	if !s.inSpeech {
		if !speech {
			s.cfg.Gate.Observe(level)
			return Segment{}, false
		}
		s.inSpeech = true
		s.silence = 0
		s.elapsed = 0
		s.buf = s.buf[:0]
	}

	s.buf = append(s.buf, chunk...)
	s.elapsed += dur
	if speech {
		s.silence = 0
	} else {
		s.silence += dur
	}

	if s.silence >= s.cfg.HangTime || s.elapsed >= s.cfg.MaxPhrase {
		return s.flush(), true
	}
	return Segment{}, false
}

// Flush force-closes an open segment, e.g. when the stream ends mid-phrase.
func (s *Segmenter) Flush() (Segment, bool) {
	if !s.inSpeech || len(s.buf) == 0 {
		return Segment{}, false
	}
	return s.flush(), true
}

func (s *Segmenter) flush() Segment {
	seg := Segment{
		Data:       append([]byte(nil), s.buf...),
		Encoding:   s.cfg.Encoding,
		SampleRate: s.cfg.SampleRate,
		Channels:   s.cfg.Channels,
	}
	s.buf = s.buf[:0]
	s.inSpeech = false
	s.silence = 0
	s.elapsed = 0
	return seg
}

func (s *Segmenter) chunkDuration(chunk []byte) time.Duration {
	samples := len(chunk) / (bytesPerSample(s.cfg.Encoding) * s.cfg.Channels)
	return time.Duration(samples) * time.Second / time.Duration(s.cfg.SampleRate)
}
