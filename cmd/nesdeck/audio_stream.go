package main

import (
	"io"
	"math"

	"github.com/nesdeck/nesdeck/internal/deck"
)

// sampleStream adapts ControlDeck's mono float32 output into the 16-bit
// little-endian stereo PCM stream ebiten's audio.Player reads from. It
// duplicates the mono signal to both channels and fills any gap between
// what the deck has produced and what the player asks for with silence,
// since the player pulls on its own goroutine at its own pace.
type sampleStream struct {
	deck    *deck.ControlDeck
	volume  float64
	pending []byte
}

func newSampleStream(d *deck.ControlDeck, volume float64) *sampleStream {
	return &sampleStream{deck: d, volume: volume}
}

func (s *sampleStream) Read(p []byte) (int, error) {
	for len(s.pending) < len(p) {
		samples := s.deck.AudioSamples()
		if len(samples) == 0 {
			break
		}
		for _, v := range samples {
			v *= float32(s.volume)
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			sample := int16(math.Round(float64(v) * 32767))
			lo, hi := byte(sample), byte(sample>>8)
			// left channel, then right channel (duplicated mono)
			s.pending = append(s.pending, lo, hi, lo, hi)
		}
	}

	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	if n < len(p) {
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		n = len(p)
	}
	return n, nil
}

var _ io.Reader = (*sampleStream)(nil)
