package main

import (
	"fmt"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// DeviceEvent is an input event tagged with the device it came from.
type DeviceEvent struct {
	Device DeviceHandle
	Event  evdev.InputEvent
}

// inputDevice is the part of *evdev.InputDevice a Keyboard uses.
type inputDevice interface {
	ReadOne() (*evdev.InputEvent, error)
	InputID() (evdev.InputID, error)
	Grab() error
	Ungrab() error
	Close() error
}

// Keyboard is an opened input device and the handle it was given.
type Keyboard struct {
	Handle DeviceHandle
	Path   string
	Name   string
	dev    inputDevice
	closed bool
}

// FindKeyboards enumerates /dev/input/ devices and returns those that can
// type Enter and at least one digit or letter, which covers HID barcode
// scanners. When include is non-empty only devices whose name contains one
// of its entries are kept. Handles are assigned in enumeration order.
func FindKeyboards(include []string) ([]*Keyboard, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var kbds []*Keyboard
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}

		name, _ := dev.Name()
		if !isScannerCapable(dev.CapableEvents(evdev.EV_KEY)) || !nameIncluded(name, include) {
			dev.Close()
			continue
		}

		kbds = append(kbds, &Keyboard{
			Handle: DeviceHandle(len(kbds) + 1),
			Path:   p.Path,
			Name:   name,
			dev:    dev,
		})
	}

	return kbds, nil
}

func isScannerCapable(codes []evdev.EvCode) bool {
	hasEnter := false
	hasGlyph := false
	for _, c := range codes {
		switch {
		case c == evdev.KEY_ENTER || c == evdev.KEY_KPENTER:
			hasEnter = true
		case c == evdev.KEY_A || c == evdev.KEY_1 || c == evdev.KEY_KP1:
			hasGlyph = true
		}
	}
	return hasEnter && hasGlyph
}

func nameIncluded(name string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, s := range include {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}

// Grab takes exclusive access so keystrokes stop reaching other clients.
func (k *Keyboard) Grab() error {
	return k.dev.Grab()
}

// Close releases any grab and closes the device. Closing twice is a no-op.
func (k *Keyboard) Close() error {
	if k.closed {
		return nil
	}
	k.closed = true
	k.dev.Ungrab()
	return k.dev.Close()
}

// ID returns the vendor:product pair of the device.
func (k *Keyboard) ID() string {
	id, err := k.dev.InputID()
	if err != nil {
		return "????:????"
	}
	return fmt.Sprintf("%04x:%04x", id.Vendor, id.Product)
}

// MonitorKeyboard reads events from a single keyboard and sends key and
// scan-code events on the channel. Exits when the device is closed or
// errors.
func MonitorKeyboard(kb *Keyboard, ch chan<- DeviceEvent, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		ev, err := kb.dev.ReadOne()
		if err != nil {
			return
		}
		if ev.Type == evdev.EV_KEY || (ev.Type == evdev.EV_MSC && ev.Code == evdev.MSC_SCAN) {
			ch <- DeviceEvent{Device: kb.Handle, Event: *ev}
		}
	}
}

// startReaders runs MonitorKeyboard for every keyboard. The returned
// channel is closed once all readers have exited.
func startReaders(keyboards []*Keyboard) <-chan DeviceEvent {
	ch := make(chan DeviceEvent, 64)
	var wg sync.WaitGroup
	for _, kb := range keyboards {
		wg.Add(1)
		go MonitorKeyboard(kb, ch, &wg)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()
	return ch
}

// stopReaders closes the keyboards and drains ch so readers blocked on a
// send can exit. It returns once every reader is gone.
func stopReaders(keyboards []*Keyboard, ch <-chan DeviceEvent) {
	closeKeyboards(keyboards)
	for range ch {
	}
}

func closeKeyboards(keyboards []*Keyboard) {
	for _, kb := range keyboards {
		kb.Close()
	}
}
