package main

import (
	"log/slog"
	"time"

	"github.com/bendahl/uinput"
	evdev "github.com/holoplot/go-evdev"
)

// keyTyper is the part of uinput.Keyboard the forwarder needs.
type keyTyper interface {
	KeyPress(key int) error
	KeyDown(key int) error
	KeyUp(key int) error
}

var _ keyTyper = uinput.Keyboard(nil)

// ForwardSink retypes surfaced scans on a virtual keyboard, followed by
// Enter, so they reach whichever window has focus.
type ForwardSink struct {
	vkbd    keyTyper
	table   map[evdev.EvCode]KeyChar
	mode    string
	keyWait time.Duration
	log     *slog.Logger
}

// NewForwardSink returns a forwarder typing through vkbd with the named
// layout. mode is ForwardScans or ForwardMatches.
func NewForwardSink(vkbd keyTyper, layout, mode string, log *slog.Logger) *ForwardSink {
	return &ForwardSink{
		vkbd:    vkbd,
		table:   layouts[layout],
		mode:    mode,
		keyWait: 8 * time.Millisecond,
		log:     log,
	}
}

func (f *ForwardSink) ScanCompleted(_ Role, value string) {
	if f.mode == ForwardScans {
		f.typeLine(value)
	}
}

func (f *ForwardSink) MatchConfirmed(_ Role, value string) {
	if f.mode == ForwardMatches {
		f.typeLine(value)
	}
}

func (f *ForwardSink) typeLine(value string) {
	for _, ch := range value {
		code, shift, ok := keyFor(f.table, ch)
		if !ok {
			f.log.Debug("no key for character, skipped", "char", string(ch))
			continue
		}
		if err := f.press(int(code), shift); err != nil {
			f.log.Warn("forward keystroke failed", "err", err)
			return
		}
	}
	if err := f.press(uinput.KeyEnter, false); err != nil {
		f.log.Warn("forward keystroke failed", "err", err)
	}
}

func (f *ForwardSink) press(key int, shift bool) error {
	if shift {
		if err := f.vkbd.KeyDown(uinput.KeyLeftshift); err != nil {
			return err
		}
		defer f.vkbd.KeyUp(uinput.KeyLeftshift)
	}
	if err := f.vkbd.KeyPress(key); err != nil {
		return err
	}
	time.Sleep(f.keyWait)
	return nil
}
