package dc

// Feet is the length of one foot in meters.
const Feet = 0.3048

// SampleType tags the value carried by a Sample.
type SampleType int

const (
	SampleTime SampleType = iota
	SampleDepth
	SampleEvent
)

// String returns the sample type name.
func (t SampleType) String() string {
	switch t {
	case SampleTime:
		return "time"
	case SampleDepth:
		return "depth"
	case SampleEvent:
		return "event"
	default:
		return "unknown"
	}
}

// EventType enumerates the dive events a sample stream can report.
type EventType int

const (
	EventUnknown EventType = iota
	EventDecoStop
	EventCeiling
	EventAscent
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventDecoStop:
		return "decostop"
	case EventCeiling:
		return "ceiling"
	case EventAscent:
		return "ascent"
	default:
		return "unknown"
	}
}

// SampleEventInfo describes an event sample.
type SampleEventInfo struct {
	Type  EventType
	Time  uint32
	Flags uint32
	Value uint32
}

// Sample is one decoded data point of a dive profile. Only the field matching Type is set.
type Sample struct {
	Type SampleType
	// Time in seconds since the start of the dive.
	Time uint32
	// Depth in meters.
	Depth float64
	Event SampleEventInfo
}

// SampleFunc receives decoded samples in chronological order.
type SampleFunc func(s Sample)
