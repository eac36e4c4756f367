package audio

const mulawBias = 0x84

// DecodeMulaw expands one G.711 mu-law byte to a 16-bit linear sample.
func DecodeMulaw(b byte) int16 {
	b = ^b
	sign := b & 0x80
	exponent := (b >> 4) & 0x07
	mantissa := b & 0x0F
	sample := (int32(mantissa)<<3 + mulawBias) << exponent
	sample -= mulawBias
	if sign != 0 {
		sample = -sample
	}
	return int16(sample)
}
