package cityscape

// syntheticPointerEvent is one injected frame of pointer input in screen
// coordinates, consumed in place of the real mouse.
type syntheticPointerEvent struct {
	screenX, screenY float64
	pressed          bool
	button           MouseButton
	wheel            float64
}

func (s *Scene) inject(evt syntheticPointerEvent) {
	s.injectQueue = append(s.injectQueue, evt)
}

// InjectMove queues a hover move (no button held) to the given screen point.
// The event is consumed on the next frame's Update.
func (s *Scene) InjectMove(x, y float64) {
	s.inject(syntheticPointerEvent{screenX: x, screenY: y})
}

// InjectPress queues a button press at the given screen point.
func (s *Scene) InjectPress(x, y float64, button MouseButton) {
	s.inject(syntheticPointerEvent{screenX: x, screenY: y, pressed: true, button: button})
}

// InjectRelease queues a button release at the given screen point.
func (s *Scene) InjectRelease(x, y float64, button MouseButton) {
	s.inject(syntheticPointerEvent{screenX: x, screenY: y, button: button})
}

// InjectWheel queues a wheel movement at the given screen point. Positive
// ticks zoom in.
func (s *Scene) InjectWheel(x, y, ticks float64) {
	s.inject(syntheticPointerEvent{screenX: x, screenY: y, wheel: ticks})
}

// InjectDrag queues a full drag with button: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and release
// at (toX, toY). The sequence consumes frames frames; the minimum is 2.
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int, button MouseButton) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY, button)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.inject(syntheticPointerEvent{
			screenX: fromX + (toX-fromX)*t,
			screenY: fromY + (toY-fromY)*t,
			pressed: true,
			button:  button,
		})
	}
	s.InjectRelease(toX, toY, button)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through handlePointer. Returns true if an event was consumed.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.handlePointer(pointerInput{
		x:       evt.screenX,
		y:       evt.screenY,
		pressed: evt.pressed,
		button:  evt.button,
		wheel:   evt.wheel,
	})
	return true
}
