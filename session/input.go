package session

// InputState is the pointer state of the session.
type InputState int

const (
	Idle InputState = iota
	Dragging
)

func (st InputState) String() string {
	switch st {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// State returns the current pointer state.
func (s *Session) State() InputState { return s.state }

// Press starts a drag. No point is added until the pointer moves or is released.
func (s *Session) Press(x, y float64) {
	s.state = Dragging
}

// Move adds a point while dragging and is ignored otherwise.
func (s *Session) Move(x, y float64) error {
	if s.state != Dragging {
		return nil
	}
	return s.AddPixel(x, y)
}

// Release ends a drag and adds the release position, which is where a plain
// click lands its point. A release without a preceding press does nothing.
func (s *Session) Release(x, y float64) error {
	if s.state != Dragging {
		return nil
	}
	s.state = Idle
	return s.AddPixel(x, y)
}
