package apu

import "math"

// Filter is an immutable windowed-sinc FIR, built once from (sampleRate,
// cutoff, bandwidth) and never mutated by the audio path afterward: a
// Blackman window multiplied by a sinc centered at the filter's latency,
// normalized so the taps sum to 1.
type Filter struct {
	taps    []float64
	latency int
}

// NewFilter constructs a low-pass windowed-sinc filter. sampleRate, cutoff
// and bandwidth are all in Hz. The tap count is m+1 where
// m = floor(4/bandwidth_normalized), rounded up to the next even value so
// the filter has a well-defined integer center tap at m/2.
func NewFilter(sampleRate, cutoff, bandwidth float64) *Filter {
	bn := bandwidth / sampleRate
	m := int(4.0 / bn)
	if m%2 != 0 {
		m++
	}
	fc := cutoff / sampleRate

	taps := make([]float64, m+1)
	var sum float64
	for i := 0; i <= m; i++ {
		x := float64(i) - float64(m)/2
		var sinc float64
		if x == 0 {
			sinc = 2 * math.Pi * fc
		} else {
			sinc = math.Sin(2*math.Pi*fc*x) / x
		}
		window := 0.42 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(m)) + 0.08*math.Cos(4*math.Pi*float64(i)/float64(m))
		taps[i] = sinc * window
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}

	return &Filter{taps: taps, latency: m / 2}
}

// SpectralInvert turns a low-pass filter into a high-pass one in place:
// negate the odd-indexed taps and add 1 at the center tap.
func (f *Filter) SpectralInvert() {
	for i := range f.taps {
		if i%2 != 0 {
			f.taps[i] = -f.taps[i]
		}
	}
	f.taps[f.latency] += 1
}

// TapSum returns the sum of all taps: ~1.0 both before and after
// SpectralInvert (DC gain of 1 in either low-pass or high-pass form).
func (f *Filter) TapSum() float64 {
	var sum float64
	for _, t := range f.taps {
		sum += t
	}
	return sum
}

// Latency returns m/2, the filter's group delay in input samples.
func (f *Filter) Latency() int { return f.latency }

// Resampler decimates a high-rate input stream (the APU's raw per-cycle
// mix, at the NES CPU rate) down to a target host output rate, convolving
// against a Filter built at the input rate before each decimation so the
// output is band-limited to the host Nyquist frequency.
type Resampler struct {
	filter      *Filter
	history     []float64
	pos         int
	ratio       float64
	accumulator float64
}

// NewResampler builds a resampler from inputRate (e.g. the NTSC CPU
// frequency) down to outputRate (the host's audio device rate), low-pass
// filtering at cutoff/bandwidth (Hz, relative to inputRate) before
// decimation.
func NewResampler(inputRate, outputRate, cutoff, bandwidth float64) *Resampler {
	f := NewFilter(inputRate, cutoff, bandwidth)
	return &Resampler{
		filter:  f,
		history: make([]float64, len(f.taps)),
		ratio:   outputRate / inputRate,
	}
}

// Push feeds one raw input sample into the resampler. Most calls return
// (0, false); whenever the accumulated phase crosses an output-sample
// boundary it returns the convolved, band-limited sample and true.
func (r *Resampler) Push(sample float64) (float64, bool) {
	r.history[r.pos] = sample
	r.pos = (r.pos + 1) % len(r.history)

	r.accumulator += r.ratio
	if r.accumulator < 1.0 {
		return 0, false
	}
	r.accumulator -= 1.0

	var out float64
	n := len(r.history)
	for i, tap := range r.filter.taps {
		idx := (r.pos + n - 1 - i) % n
		out += r.history[idx] * tap
	}
	return out, true
}
