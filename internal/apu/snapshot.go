package apu

// Snapshot captures full APU state for save states. The resampler's filter
// and decimation phase are derived purely from construction parameters and
// recent history, not gameplay-visible state, so they are intentionally left
// out: after Restore, audio simply resumes from a fresh resampler phase.
type Snapshot struct {
	Pulse1, Pulse2 PulseChannel
	Triangle       TriangleChannel
	Noise          NoiseChannel
	DMC            DMCChannel

	FrameCounter     uint16
	FrameMode        bool
	FrameIRQEnable   bool
	FrameCounterStep uint8
	FrameIRQFlag     bool

	ChannelEnable [5]bool

	Cycles uint64
}

func (apu *APU) Snapshot() Snapshot {
	return Snapshot{
		Pulse1: apu.pulse1, Pulse2: apu.pulse2,
		Triangle: apu.triangle, Noise: apu.noise, DMC: apu.dmc,
		FrameCounter: apu.frameCounter, FrameMode: apu.frameMode,
		FrameIRQEnable: apu.frameIRQEnable, FrameCounterStep: apu.frameCounterStep,
		FrameIRQFlag:  apu.frameIRQFlag,
		ChannelEnable: apu.channelEnable,
		Cycles:        apu.cycles,
	}
}

func (apu *APU) Restore(s Snapshot) {
	apu.pulse1, apu.pulse2 = s.Pulse1, s.Pulse2
	apu.triangle, apu.noise, apu.dmc = s.Triangle, s.Noise, s.DMC
	apu.frameCounter, apu.frameMode = s.FrameCounter, s.FrameMode
	apu.frameIRQEnable, apu.frameCounterStep = s.FrameIRQEnable, s.FrameCounterStep
	apu.frameIRQFlag = s.FrameIRQFlag
	apu.channelEnable = s.ChannelEnable
	apu.cycles = s.Cycles
}
