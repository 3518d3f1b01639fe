package apu

import (
	"bytes"
	"encoding/gob"
)

// The four channel structs keep every field unexported (register/timing
// state no caller outside this package has any business touching), which
// means the default gob encoding of apu.Snapshot would silently drop them:
// encoding/gob only walks exported fields. Each channel instead implements
// GobEncode/GobDecode over a locally-scoped exported mirror, so
// ControlDeck's save-state gob stream round-trips full channel state
// without this package needing to expose its registers.

type pulseChannelWire struct {
	DutyCycle       uint8
	EnvelopeLoop    bool
	EnvelopeDisable bool
	Volume          uint8

	SweepEnable  bool
	SweepPeriod  uint8
	SweepNegate  bool
	SweepShift   uint8
	SweepReload  bool
	SweepCounter uint8

	Timer        uint16
	TimerCounter uint16

	LengthCounter uint8
	LengthHalt    bool

	EnvelopeStart   bool
	EnvelopeCounter uint8
	EnvelopeDivider uint8

	DutyIndex    uint8
	SequencerPos uint8
}

func (p PulseChannel) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := pulseChannelWire{
		p.dutyCycle, p.envelopeLoop, p.envelopeDisable, p.volume,
		p.sweepEnable, p.sweepPeriod, p.sweepNegate, p.sweepShift, p.sweepReload, p.sweepCounter,
		p.timer, p.timerCounter,
		p.lengthCounter, p.lengthHalt,
		p.envelopeStart, p.envelopeCounter, p.envelopeDivider,
		p.dutyIndex, p.sequencerPos,
	}
	err := gob.NewEncoder(&buf).Encode(w)
	return buf.Bytes(), err
}

func (p *PulseChannel) GobDecode(data []byte) error {
	var w pulseChannelWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	p.dutyCycle, p.envelopeLoop, p.envelopeDisable, p.volume = w.DutyCycle, w.EnvelopeLoop, w.EnvelopeDisable, w.Volume
	p.sweepEnable, p.sweepPeriod, p.sweepNegate = w.SweepEnable, w.SweepPeriod, w.SweepNegate
	p.sweepShift, p.sweepReload, p.sweepCounter = w.SweepShift, w.SweepReload, w.SweepCounter
	p.timer, p.timerCounter = w.Timer, w.TimerCounter
	p.lengthCounter, p.lengthHalt = w.LengthCounter, w.LengthHalt
	p.envelopeStart, p.envelopeCounter, p.envelopeDivider = w.EnvelopeStart, w.EnvelopeCounter, w.EnvelopeDivider
	p.dutyIndex, p.sequencerPos = w.DutyIndex, w.SequencerPos
	return nil
}

type triangleChannelWire struct {
	LengthCounterHalt bool
	LinearCounterLoad uint8

	Timer        uint16
	TimerCounter uint16

	LengthCounter uint8

	LinearCounter       uint8
	LinearCounterReload bool

	SequencerPos uint8
}

func (t TriangleChannel) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := triangleChannelWire{
		t.lengthCounterHalt, t.linearCounterLoad,
		t.timer, t.timerCounter,
		t.lengthCounter,
		t.linearCounter, t.linearCounterReload,
		t.sequencerPos,
	}
	err := gob.NewEncoder(&buf).Encode(w)
	return buf.Bytes(), err
}

func (t *TriangleChannel) GobDecode(data []byte) error {
	var w triangleChannelWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	t.lengthCounterHalt, t.linearCounterLoad = w.LengthCounterHalt, w.LinearCounterLoad
	t.timer, t.timerCounter = w.Timer, w.TimerCounter
	t.lengthCounter = w.LengthCounter
	t.linearCounter, t.linearCounterReload = w.LinearCounter, w.LinearCounterReload
	t.sequencerPos = w.SequencerPos
	return nil
}

type noiseChannelWire struct {
	EnvelopeLoop    bool
	EnvelopeDisable bool
	Volume          uint8

	Mode         bool
	PeriodIndex  uint8
	TimerCounter uint16

	LengthCounter uint8
	LengthHalt    bool

	EnvelopeStart   bool
	EnvelopeCounter uint8
	EnvelopeDivider uint8

	ShiftRegister uint16
}

func (n NoiseChannel) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := noiseChannelWire{
		n.envelopeLoop, n.envelopeDisable, n.volume,
		n.mode, n.periodIndex, n.timerCounter,
		n.lengthCounter, n.lengthHalt,
		n.envelopeStart, n.envelopeCounter, n.envelopeDivider,
		n.shiftRegister,
	}
	err := gob.NewEncoder(&buf).Encode(w)
	return buf.Bytes(), err
}

func (n *NoiseChannel) GobDecode(data []byte) error {
	var w noiseChannelWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	n.envelopeLoop, n.envelopeDisable, n.volume = w.EnvelopeLoop, w.EnvelopeDisable, w.Volume
	n.mode, n.periodIndex, n.timerCounter = w.Mode, w.PeriodIndex, w.TimerCounter
	n.lengthCounter, n.lengthHalt = w.LengthCounter, w.LengthHalt
	n.envelopeStart, n.envelopeCounter, n.envelopeDivider = w.EnvelopeStart, w.EnvelopeCounter, w.EnvelopeDivider
	n.shiftRegister = w.ShiftRegister
	return nil
}

type dmcChannelWire struct {
	IRQEnable bool
	Loop      bool
	RateIndex uint8

	OutputLevel uint8

	SampleAddress uint16
	SampleLength  uint16

	TimerCounter      uint16
	SampleBuffer      uint8
	SampleBufferBits  uint8
	SampleBufferEmpty bool
	BytesRemaining    uint16
	CurrentAddress    uint16

	IRQFlag bool
}

func (d DMCChannel) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	w := dmcChannelWire{
		d.irqEnable, d.loop, d.rateIndex,
		d.outputLevel,
		d.sampleAddress, d.sampleLength,
		d.timerCounter, d.sampleBuffer, d.sampleBufferBits, d.sampleBufferEmpty, d.bytesRemaining, d.currentAddress,
		d.irqFlag,
	}
	err := gob.NewEncoder(&buf).Encode(w)
	return buf.Bytes(), err
}

func (d *DMCChannel) GobDecode(data []byte) error {
	var w dmcChannelWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	d.irqEnable, d.loop, d.rateIndex = w.IRQEnable, w.Loop, w.RateIndex
	d.outputLevel = w.OutputLevel
	d.sampleAddress, d.sampleLength = w.SampleAddress, w.SampleLength
	d.timerCounter, d.sampleBuffer, d.sampleBufferBits = w.TimerCounter, w.SampleBuffer, w.SampleBufferBits
	d.sampleBufferEmpty, d.bytesRemaining, d.currentAddress = w.SampleBufferEmpty, w.BytesRemaining, w.CurrentAddress
	d.irqFlag = w.IRQFlag
	return nil
}
