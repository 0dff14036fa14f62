package stream

// Client message types.
const (
	msgMeasure = "measure"
	msgPointer = "pointer"
	msgLeave   = "leave"
	msgScroll  = "scroll"
)

// inbound is a client event. Only the field matching Type is read.
//
// A pointer message must carry a non-negative x: x is an absolute screen
// coordinate and -1 is reserved for the idle pointer, which clients signal
// with a leave message instead.
type inbound struct {
	Type   string   `json:"type"`
	X      *float64 `json:"x,omitempty"`
	Offset float64  `json:"offset,omitempty"`
	Origin float64  `json:"origin,omitempty"`
}

// Hello is sent once per connection, before any frame.
type Hello struct {
	Type        string  `json:"type"`
	Session     string  `json:"session"`
	Count       int     `json:"count"`
	Pitch       float64 `json:"pitch"`
	Width       float64 `json:"elementWidth"`
	TravelRange float64 `json:"travelRange"`
}

// Frame is the per-element state after a frame tick.
type Frame struct {
	Type     string    `json:"type"`
	Seq      uint64    `json:"seq"`
	Scroll   float64   `json:"scroll"`
	Marker   float64   `json:"marker"`
	Elements []Element `json:"elements"`
}

// Element is one line's drawable state.
type Element struct {
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Active  bool    `json:"active,omitempty"`
}
