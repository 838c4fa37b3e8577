package core

import (
	"errors"
	"time"
)

// LoopState is the run state of a GameLoop
type LoopState uint8

const (
	StateStopped LoopState = iota
	StatePlaying
	StatePaused
)

// GameLoop drives a simulation at a fixed timestep and renders once per
// frame with an interpolation alpha.
type GameLoop struct {
	Entities     *Entities
	State        LoopState
	TickRate     float64 // fixed ticks per second
	MaxFrameTime float64 // frame time cap in seconds
	accumulator  float64
	alpha        float64
	lastTime     time.Time
}

// NewGameLoop creates a stopped loop around ents. A non-positive tick rate
// or frame cap falls back to the default.
func NewGameLoop(ents *Entities, cfg Config) *GameLoop {
	cfg = cfg.withDefaults()
	return &GameLoop{
		Entities:     ents,
		TickRate:     cfg.TickRate,
		MaxFrameTime: cfg.MaxFrameTime,
		lastTime:     time.Now(),
	}
}

// Step returns the fixed tick duration in seconds
func (gl *GameLoop) Step() float64 { return 1.0 / gl.TickRate }

// Update measures wall time since the previous call and advances the
// simulation by it. Call it once per displayed frame.
func (gl *GameLoop) Update() (float64, error) {
	now := time.Now()
	frameTime := now.Sub(gl.lastTime).Seconds()
	gl.lastTime = now
	return gl.Advance(frameTime)
}

// Advance runs as many whole ticks as frameTime covers and returns the
// interpolation alpha for rendering. A paused loop still consumes time
// but runs no ticks. Tick errors do not stop the remaining ticks.
func (gl *GameLoop) Advance(frameTime float64) (float64, error) {
	// Cap frame time to avoid spiral of death
	if frameTime > gl.MaxFrameTime {
		frameTime = gl.MaxFrameTime
	}

	dt := gl.Step()
	gl.accumulator += frameTime

	var errs []error
	for gl.accumulator >= dt {
		if gl.State == StatePlaying {
			if err := gl.Entities.Tick(dt); err != nil {
				errs = append(errs, err)
			}
		}
		gl.accumulator -= dt
	}
	gl.Entities.Events().Dispatch()

	gl.alpha = gl.accumulator / dt
	return gl.alpha, errors.Join(errs...)
}

// Render runs the render pass for a frame that took dt seconds
func (gl *GameLoop) Render(dt float64) error {
	return gl.Entities.BeforeRender(dt)
}

// Frame advances by frameTime and renders once
func (gl *GameLoop) Frame(frameTime float64) error {
	_, err := gl.Advance(frameTime)
	return errors.Join(err, gl.Render(frameTime))
}

// Alpha returns the interpolation factor computed by the last Advance
func (gl *GameLoop) Alpha() float64 { return gl.alpha }

// Play starts or resumes the simulation
func (gl *GameLoop) Play() {
	gl.State = StatePlaying
	gl.lastTime = time.Now()
}

// Pause pauses the simulation
func (gl *GameLoop) Pause() {
	gl.State = StatePaused
}

// CurrentTick returns the current simulation tick
func (gl *GameLoop) CurrentTick() uint64 {
	return gl.Entities.TickCount()
}
