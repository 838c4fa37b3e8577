// Package input polls ebiten for the sandbox and turns it into camera zoom
// and the player's movement intent.
package input

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/voxel-engine/engine/components"
	"github.com/1siamBot/voxel-engine/engine/render"
)

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	MouseX, MouseY   int
	MouseDX, MouseDY int // delta since last frame
	prevMouseX       int
	prevMouseY       int
	RightPressed     bool
	ScrollY          float64

	KeysPressed map[ebiten.Key]bool
	justPressed map[ebiten.Key]bool
}

var polledKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeySpace, ebiten.KeyEscape, ebiten.KeyP, ebiten.KeyF3,
	ebiten.KeyG, ebiten.KeyM,
	ebiten.KeyEqual, ebiten.KeyMinus,
}

func NewInputState() *InputState {
	return &InputState{
		KeysPressed: make(map[ebiten.Key]bool),
		justPressed: make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY
	s.RightPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	_, s.ScrollY = ebiten.Wheel()

	for _, k := range polledKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
		s.justPressed[k] = inpututil.IsKeyJustPressed(k)
	}
}

// Pressed reports whether key is held this frame
func (s *InputState) Pressed(key ebiten.Key) bool { return s.KeysPressed[key] }

// JustPressed reports whether key went down this frame
func (s *InputState) JustPressed(key ebiten.Key) bool { return s.justPressed[key] }

// Controls maps keys to movement
type Controls struct {
	Forward, Back, Left, Right ebiten.Key
	Jump                       ebiten.Key
	ZoomIn, ZoomOut            ebiten.Key
	ZoomStep                   float64 // camera distance per scroll notch or key press
}

// DefaultControls returns WASD movement with space to jump
func DefaultControls() Controls {
	return Controls{
		Forward:  ebiten.KeyW,
		Back:     ebiten.KeyS,
		Left:     ebiten.KeyA,
		Right:    ebiten.KeyD,
		Jump:     ebiten.KeySpace,
		ZoomIn:   ebiten.KeyEqual,
		ZoomOut:  ebiten.KeyMinus,
		ZoomStep: 1,
	}
}

// MoveVector returns the unit ground direction for the held keys, or zero
func (c Controls) MoveVector(pressed func(ebiten.Key) bool) mgl64.Vec3 {
	var v mgl64.Vec3
	if pressed(c.Forward) {
		v[2]--
	}
	if pressed(c.Back) {
		v[2]++
	}
	if pressed(c.Left) {
		v[0]--
	}
	if pressed(c.Right) {
		v[0]++
	}
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

// Intent returns the movement the held keys ask for
func (s *InputState) Intent(c Controls) components.Intent {
	return components.Intent{
		Move: c.MoveVector(s.Pressed),
		Jump: s.Pressed(c.Jump),
	}
}

// Apply zooms the camera and writes the movement intent into held. Either
// may be nil.
func (s *InputState) Apply(c Controls, cam *render.Camera, held *components.HeldInput) {
	if cam != nil {
		zoom := -s.ScrollY
		if s.JustPressed(c.ZoomIn) {
			zoom--
		}
		if s.JustPressed(c.ZoomOut) {
			zoom++
		}
		if zoom != 0 {
			cam.ZoomBy(zoom * c.ZoomStep)
		}
	}
	if held != nil {
		held.Current = s.Intent(c)
	}
}
