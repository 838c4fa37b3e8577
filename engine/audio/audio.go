// Package audio synthesizes short positional sound effects. Tones are built
// with beep and handed to a Sink as 16-bit little-endian stereo PCM.
package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/rotisserie/eris"
)

// SampleRate is the rate every effect is rendered at
const SampleRate beep.SampleRate = 44100

// SoundID identifies a sound effect
type SoundID string

const (
	SndBump SoundID = "bump"
	SndStep SoundID = "step"
	SndLand SoundID = "land"
)

// Tone describes a synthesized effect
type Tone struct {
	Freq     float64
	Duration time.Duration
}

var tones = map[SoundID]Tone{
	SndBump: {Freq: 220, Duration: 60 * time.Millisecond},
	SndStep: {Freq: 440, Duration: 30 * time.Millisecond},
	SndLand: {Freq: 110, Duration: 80 * time.Millisecond},
}

var ErrUnknownSound = eris.New("unknown sound")

// Sink plays rendered PCM
type Sink interface {
	Play(pcm []byte) error
}

// Manager plays effects at world positions relative to a listener
type Manager struct {
	MasterVolume float64
	SFXVolume    float64
	MaxDistance  float64 // effects farther than this are silent
	Listener     mgl64.Vec3

	sink  Sink
	cache map[SoundID][]float64 // mono samples at full volume
}

// NewManager creates a manager that plays into sink; a nil sink mutes it
func NewManager(sink Sink) *Manager {
	return &Manager{
		MasterVolume: 1.0,
		SFXVolume:    0.8,
		MaxDistance:  30,
		sink:         sink,
		cache:        make(map[SoundID][]float64),
	}
}

// SetListener updates the listener position for positional audio
func (m *Manager) SetListener(p mgl64.Vec3) { m.Listener = p }

// SetVolume sets master volume (0-1)
func (m *Manager) SetVolume(v float64) {
	m.MasterVolume = math.Max(0, math.Min(1, v))
}

// PlaySFX plays an effect at a world position. Inaudible effects are
// skipped without error.
func (m *Manager) PlaySFX(id SoundID, at mgl64.Vec3) error {
	vol := m.Volume(at)
	if vol <= 0 || m.sink == nil {
		return nil
	}
	pcm, err := m.Render(id, vol)
	if err != nil {
		return err
	}
	return eris.Wrapf(m.sink.Play(pcm), "play %s", id)
}

// Volume computes the effect volume at p from its distance to the listener
func (m *Manager) Volume(p mgl64.Vec3) float64 {
	dist := p.Sub(m.Listener).Len()
	if dist >= m.MaxDistance {
		return 0
	}
	return (1.0 - dist/m.MaxDistance) * m.SFXVolume * m.MasterVolume
}

// Render returns the PCM bytes of id scaled to vol
func (m *Manager) Render(id SoundID, vol float64) ([]byte, error) {
	samples, ok := m.cache[id]
	if !ok {
		t, ok := tones[id]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownSound, "sound %q", id)
		}
		var err error
		if samples, err = synth(t); err != nil {
			return nil, err
		}
		m.cache[id] = samples
	}

	pcm := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := int16(math.Max(-1, math.Min(1, s*vol)) * math.MaxInt16)
		binary.LittleEndian.PutUint16(pcm[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(pcm[i*4+2:], uint16(v))
	}
	return pcm, nil
}

// synth renders a tone with a linear fade out
func synth(t Tone) ([]float64, error) {
	sine, err := generators.SineTone(SampleRate, t.Freq)
	if err != nil {
		return nil, eris.Wrapf(err, "tone %v Hz", t.Freq)
	}
	n := SampleRate.N(t.Duration)
	s := &effects.Gain{Streamer: beep.Take(n, sine), Gain: -0.5}

	out := make([]float64, 0, n)
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for _, v := range buf[:k] {
			out = append(out, v[0])
		}
		if !ok || len(out) >= n {
			break
		}
	}
	for i := range out {
		out[i] *= 1 - float64(i)/float64(len(out))
	}
	return out, nil
}
