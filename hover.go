package cityscape

// EntityStore is the interface for optional ECS integration. When set on a
// Scene, hover events are forwarded to it.
type EntityStore interface {
	EmitEvent(event HoverEvent)
}

// HoverEvent carries hover data for the ECS bridge.
type HoverEvent struct {
	Type     EventType
	EntityID uint32
	ScreenX  float64
	ScreenY  float64
	// Active is the hovered building's Active flag at the time of the event.
	Active bool
}

// HoverContext is passed to hover callbacks.
type HoverContext struct {
	Node    *Node
	ScreenX float64
	ScreenY float64
}

type hoverHandler struct {
	id uint32
	fn func(HoverContext)
}

type handlerRegistry struct {
	enter  []hoverHandler
	leave  []hoverHandler
	nextID uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventHoverEnter:
		h.reg.enter = removeHoverHandler(h.reg.enter, h.id)
	case EventHoverLeave:
		h.reg.leave = removeHoverHandler(h.reg.leave, h.id)
	}
}

func removeHoverHandler(s []hoverHandler, id uint32) []hoverHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = hoverHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

// OnHoverEnter registers a callback fired when the pointer moves onto a
// building.
func (s *Scene) OnHoverEnter(fn func(HoverContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.enter = append(s.handlers.enter, hoverHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventHoverEnter}
}

// OnHoverLeave registers a callback fired when the pointer leaves a building.
func (s *Scene) OnHoverLeave(fn func(HoverContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.leave = append(s.handlers.leave, hoverHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventHoverLeave}
}

// Hovered returns the building under the pointer after the last Update, or nil.
func (s *Scene) Hovered() *Node {
	return s.hovered
}

// updateHover highlights the building under the pointer. Only one building
// is outlined at a time: when the pointer moves to another building, or the
// hovered one is deactivated, the old entry is removed and the new one is
// added if it is active. Staying on the same building keeps its entry. Leaving every building
// removes the highlight. Buildings that were already tracked when hovered
// are left alone.
func (s *Scene) updateHover() {
	var hit *Node
	ps := &s.pointer
	if ps.valid && !s.uiBlocked(ps.x, ps.y) && s.camera.InViewport(ps.x, ps.y) {
		hit = s.Pick(ps.x, ps.y)
	}

	if reg := s.registry(); reg != nil {
		if s.hoverAdded != nil && !reg.Contains(s.hoverAdded) {
			s.hoverAdded = nil // removed by other code
		}
		// Nodes tracked by someone else keep their own entry.
		var want *Node
		if hit != nil && hit.Active && (hit == s.hoverAdded || !reg.Contains(hit)) {
			want = hit
		}
		if want != s.hoverAdded {
			if s.hoverAdded != nil {
				reg.Remove(s.hoverAdded)
			}
			if want != nil {
				reg.Add(want, s.HoverColorIndex)
			}
			s.hoverAdded = want
		}
	}

	if hit == s.hovered {
		return
	}
	if s.hovered != nil {
		s.fireHover(EventHoverLeave, s.hovered, ps.x, ps.y)
	}
	if hit != nil {
		s.fireHover(EventHoverEnter, hit, ps.x, ps.y)
	}
	s.hovered = hit
}

func (s *Scene) fireHover(typ EventType, n *Node, sx, sy float64) {
	handlers := s.handlers.enter
	if typ == EventHoverLeave {
		handlers = s.handlers.leave
	}
	ctx := HoverContext{Node: n, ScreenX: sx, ScreenY: sy}
	for _, h := range handlers {
		h.fn(ctx)
	}
	if s.store != nil && n.EntityID != 0 {
		s.store.EmitEvent(HoverEvent{
			Type:     typ,
			EntityID: n.EntityID,
			ScreenX:  sx,
			ScreenY:  sy,
			Active:   n.Active,
		})
	}
}
