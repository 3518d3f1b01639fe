package apu

import "testing"

func TestFilterTapSumIsOne(t *testing.T) {
	f := NewFilter(44100, 1000, 500)
	if sum := f.TapSum(); sum < 1.0-1e-6 || sum > 1.0+1e-6 {
		t.Errorf("expected tap sum ~1.0, got %v", sum)
	}
}

func TestFilterPeakTapAtLatency(t *testing.T) {
	f := NewFilter(44100, 1000, 500)
	peak := f.latency
	for i, tap := range f.taps {
		if tap > f.taps[peak] && i != peak {
			t.Errorf("expected the largest tap at latency index %d, but index %d (%v) exceeds it (%v)", peak, i, tap, f.taps[peak])
		}
	}
}

func TestFilterTapSumAfterSpectralInvert(t *testing.T) {
	f := NewFilter(44100, 1000, 500)
	f.SpectralInvert()
	if sum := f.TapSum(); sum < 1.0-1e-6 || sum > 1.0+1e-6 {
		t.Errorf("expected tap sum ~1.0 after spectral inversion, got %v", sum)
	}
}

func TestResamplerDecimatesToTargetRate(t *testing.T) {
	// A small, self-contained 10:1 decimation ratio with a wide transition
	// band keeps the tap count tiny, independent of the production
	// resampler's NTSC-scale rates.
	const inputRate, outputRate = 100000.0, 10000.0
	r := NewResampler(inputRate, outputRate, 4000, 3000)
	var produced int
	for i := 0; i < int(inputRate); i++ {
		if _, ok := r.Push(0.5); ok {
			produced++
		}
	}
	if produced < int(outputRate)-5 || produced > int(outputRate)+5 {
		t.Errorf("expected ~%d output samples for one second of input, got %d", int(outputRate), produced)
	}
}
