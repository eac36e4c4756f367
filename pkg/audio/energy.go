package audio

import (
	"encoding/binary"
	"math"
)

// RMS computes the root-mean-square amplitude of a raw chunk.
func RMS(data []byte, enc Encoding) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	var n int
	switch enc {
	case EncodingLinear16:
		for i := 0; i+1 < len(data); i += 2 {
			s := float64(int16(binary.LittleEndian.Uint16(data[i:])))
			sum += s * s
			n++
		}
	default:
		for _, b := range data {
			s := float64(DecodeMulaw(b))
			sum += s * s
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(n))
}

const (
	defaultEnergyThreshold = 300
	ambientDamping         = 0.9
	ambientRatio           = 1.5
)

// Gate decides whether a chunk's energy level counts as speech. With dynamic
// tracking enabled the threshold drifts toward a multiple of the observed
// ambient level, so a noisy room does not read as constant speech.
type Gate struct {
	threshold float64
	dynamic   bool
}

func NewGate(threshold float64, dynamic bool) *Gate {
	if threshold <= 0 {
		threshold = defaultEnergyThreshold
	}
	return &Gate{threshold: threshold, dynamic: dynamic}
}

func (g *Gate) Threshold() float64 { return g.threshold }

func (g *Gate) Speech(level float64) bool { return level > g.threshold }

// Observe feeds a non-speech level into the dynamic threshold.
func (g *Gate) Observe(level float64) {
	if !g.dynamic {
		return
	}
	g.threshold = g.threshold*ambientDamping + level*ambientRatio*(1-ambientDamping)
}
