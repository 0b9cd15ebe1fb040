package main

import (
	"errors"
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

var ErrUnknownInput = errors.New("unknown raw input")

// firstButton is the lowest evdev code used for mouse and joystick buttons.
const firstButton = evdev.BTN_MISC

// Hub turns device events into raw input records and serves them through
// the RecordSource protocol until released. It also keeps the key state
// tracker current. A Hub is used from a single goroutine.
type Hub struct {
	tracker  *KeyStateTracker
	scanCode map[DeviceHandle]uint16
	pending  map[RawInput][]byte
	next     RawInput
}

func NewHub(tracker *KeyStateTracker) *Hub {
	return &Hub{
		tracker:  tracker,
		scanCode: make(map[DeviceHandle]uint16),
		pending:  make(map[RawInput][]byte),
	}
}

// Post records ev and returns a reference to the raw record built from it.
// Scan-code events only annotate the next key event and yield no record.
func (h *Hub) Post(ev DeviceEvent) (RawInput, bool) {
	switch ev.Event.Type {
	case evdev.EV_MSC:
		if ev.Event.Code == evdev.MSC_SCAN {
			h.scanCode[ev.Device] = uint16(ev.Event.Value)
		}
		return 0, false
	case evdev.EV_KEY:
	default:
		return 0, false
	}

	code := ev.Event.Code
	scan := h.scanCode[ev.Device]
	delete(h.scanCode, ev.Device)

	var rec []byte
	switch {
	case code >= firstButton && code < evdev.KEY_OK:
		rec = encodeRecord(RecordTypeMouse, ev.Device, 0, 0, 0)
	case int(code) >= len(KeyboardState{}):
		rec = encodeRecord(RecordTypeHID, ev.Device, 0, 0, 0)
	default:
		h.tracker.Observe(code, ev.Event.Value)
		rec = encodeRecord(RecordTypeKeyboard, ev.Device, scan, uint16(code), keyMessage(ev.Event.Value))
	}

	h.next++
	h.pending[h.next] = rec
	return h.next, true
}

func keyMessage(value int32) uint32 {
	switch value {
	case 1:
		return MessageKeyDown
	case 0:
		return MessageKeyUp
	default:
		// Autorepeat is not a new keystroke.
		return 0
	}
}

// Release frees the record behind in.
func (h *Hub) Release(in RawInput) {
	delete(h.pending, in)
}

func (h *Hub) RecordSize(in RawInput) (int, error) {
	rec, ok := h.pending[in]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownInput, in)
	}
	return len(rec), nil
}

func (h *Hub) ReadRecord(in RawInput, buf []byte) (int, error) {
	rec, ok := h.pending[in]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownInput, in)
	}
	return copy(buf, rec), nil
}
