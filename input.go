package cityscape

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// pointerState tracks the mouse between frames.
type pointerState struct {
	x, y     float64 // last known position
	valid    bool    // a position has been seen
	down     bool
	ignored  bool // pressed over UI or outside the viewport
	button   MouseButton
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	dragging bool
}

// pointerInput is one frame of pointer state, real or injected.
type pointerInput struct {
	x, y    float64
	pressed bool
	button  MouseButton
	wheel   float64
}

// SetDragDeadZone sets the distance in pixels the pointer must move while
// pressed before a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

func (s *Scene) uiBlocked(x, y float64) bool {
	return s.UIBlocked != nil && s.UIBlocked(x, y)
}

// processInput feeds this frame's pointer state through handlePointer.
// Injected events take precedence over the real mouse.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	mx, my := ebiten.CursorPosition()
	in := pointerInput{x: float64(mx), y: float64(my)}
	_, in.wheel = ebiten.Wheel()

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		in.pressed = true
		switch {
		case left:
			in.button = MouseButtonLeft
		case right:
			in.button = MouseButtonRight
		default:
			in.button = MouseButtonMiddle
		}
	}
	s.handlePointer(in)
}

// handlePointer drives the camera from pointer input: a left drag pans the
// map under the cursor, a right drag orbits and the wheel zooms. Presses that
// start over UI or outside the viewport are ignored until released.
func (s *Scene) handlePointer(in pointerInput) {
	ps := &s.pointer
	ps.x, ps.y, ps.valid = in.x, in.y, true
	cam := s.camera

	switch {
	case in.pressed && !ps.down:
		ps.down = true
		ps.ignored = s.uiBlocked(in.x, in.y) || !cam.InViewport(in.x, in.y)
		ps.button = in.button
		ps.startX, ps.startY = in.x, in.y
		ps.lastX, ps.lastY = in.x, in.y
		ps.dragging = false
	case !in.pressed && ps.down:
		ps.down = false
		ps.dragging = false
		ps.ignored = false
	case in.pressed && ps.down && !ps.ignored:
		if in.x != ps.lastX || in.y != ps.lastY {
			if !ps.dragging {
				dx := in.x - ps.startX
				dy := in.y - ps.startY
				ps.dragging = math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone
			}
			if ps.dragging {
				s.applyDrag(ps.button, ps.lastX, ps.lastY, in.x, in.y)
			}
		}
		ps.lastX, ps.lastY = in.x, in.y
	}

	if in.wheel != 0 && !ps.dragging && !s.uiBlocked(in.x, in.y) {
		cam.Zoom(in.wheel)
	}
}

// applyDrag moves the camera for one frame of a drag from (x0, y0) to
// (x1, y1).
func (s *Scene) applyDrag(button MouseButton, x0, y0, x1, y1 float64) {
	cam := s.camera
	switch button {
	case MouseButtonLeft:
		from, ok0 := cam.GroundPoint(x0, y0)
		to, ok1 := cam.GroundPoint(x1, y1)
		if ok0 && ok1 {
			cam.Pan(from.Sub(to))
		}
	case MouseButtonRight:
		cam.Orbit((y1-y0)*cam.OrbitScaleY, (x1-x0)*cam.OrbitScaleX)
	}
}
