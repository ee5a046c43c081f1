// Package input collects window events in a backend-neutral form.
package input

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventResize
	EventKeyDown
	EventKeyUp
)

// Key is a backend-neutral key code. Only the keys the playground reacts to are named.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyR
	KeyW
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeySpace:
		return "Space"
	case KeyR:
		return "R"
	case KeyW:
		return "W"
	default:
		return "Unknown"
	}
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Repeat bool
	Width  int
	Height int
}

// Input buffers the events of one frame.
type Input struct {
	events []Event
	quit   bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset drops the previous frame's events. Window backends call it before polling.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push records an event. Quit and key-down Escape latch QuitRequested.
func (i *Input) Push(e Event) {
	if e.Type == EventQuit || (e.Type == EventKeyDown && e.Key == KeyEscape) {
		i.quit = true
	}
	i.events = append(i.events, e)
}

// Events returns the events recorded since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// QuitRequested reports whether a quit event or Escape has been seen.
func (i *Input) QuitRequested() bool {
	return i.quit
}

// IsKeyPressed reports whether key went down this frame, ignoring auto-repeat.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key && !e.Repeat {
			return true
		}
	}
	return false
}

// Resized returns the last framebuffer size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for j := len(i.events) - 1; j >= 0; j-- {
		if e := i.events[j]; e.Type == EventResize {
			return e.Width, e.Height, true
		}
	}
	return 0, 0, false
}
