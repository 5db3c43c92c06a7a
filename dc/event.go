package dc

import (
	"math"
	"time"
)

// ProgressUnknown is the Maximum of a ProgressEvent emitted before the total size of a
// transfer is known.
const ProgressUnknown = math.MaxUint32

// Event is a notification emitted by a device while it talks to the dive computer.
// It is one of ProgressEvent, DevInfoEvent or ClockEvent.
type Event interface {
	isEvent()
}

// ProgressEvent reports the cumulative number of bytes accounted for in a transfer.
type ProgressEvent struct {
	Current uint32
	Maximum uint32
}

// DevInfoEvent reports the identity of the connected dive computer.
type DevInfoEvent struct {
	Model    uint32
	Firmware uint32
	Serial   uint32
}

// ClockEvent pairs the host clock with the device clock, sampled at the same instant.
// It lets a caller convert device timestamps into wall-clock time.
type ClockEvent struct {
	SysTime time.Time
	DevTime uint32
}

func (ProgressEvent) isEvent() {}
func (DevInfoEvent) isEvent()  {}
func (ClockEvent) isEvent()    {}

// EventHandler receives device events. OnEvent is called synchronously on the goroutine
// running the device operation.
type EventHandler interface {
	OnEvent(ev Event)
}

// EventHandlerFunc adapts an ordinary function to the EventHandler interface.
type EventHandlerFunc func(ev Event)

// OnEvent calls f(ev).
func (f EventHandlerFunc) OnEvent(ev Event) {
	f(ev)
}

type nopEventHandler struct{}

func (nopEventHandler) OnEvent(Event) {}

// NopEventHandler returns an EventHandler that discards every event.
func NopEventHandler() EventHandler {
	return nopEventHandler{}
}
