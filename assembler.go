package main

import (
	"errors"
	"strings"
)

var ErrBufferOverflow = errors.New("scan buffer overflow")

type lineBuffer struct {
	strings.Builder
	runes int
	// overflowed is set while the rest of an over-long line is skipped.
	overflowed bool
}

func (b *lineBuffer) reset() {
	b.Reset()
	b.runes = 0
}

// LineAssembler keeps one pending line per device and completes it on the
// terminator.
type LineAssembler struct {
	buffers map[DeviceHandle]*lineBuffer
	maxLen  int
}

// NewLineAssembler returns an assembler. maxLen bounds each buffer in
// characters; zero means unbounded.
func NewLineAssembler(maxLen int) *LineAssembler {
	return &LineAssembler{
		buffers: make(map[DeviceHandle]*lineBuffer),
		maxLen:  maxLen,
	}
}

// Open creates the empty buffer for h if it has none yet.
func (a *LineAssembler) Open(h DeviceHandle) {
	a.buffer(h)
}

func (a *LineAssembler) buffer(h DeviceHandle) *lineBuffer {
	buf, ok := a.buffers[h]
	if !ok {
		buf = &lineBuffer{}
		a.buffers[h] = buf
	}
	return buf
}

// Known reports whether h has a buffer.
func (a *LineAssembler) Known(h DeviceHandle) bool {
	_, ok := a.buffers[h]
	return ok
}

// OnCharacter feeds ch for device h. On the terminator it returns the
// completed line and true, leaving the buffer empty. When an append would
// exceed the bound the buffer is discarded and ErrBufferOverflow returned
// once; the rest of that line, terminator included, is then swallowed
// without completing anything.
func (a *LineAssembler) OnCharacter(h DeviceHandle, ch rune) (string, bool, error) {
	buf := a.buffer(h)

	if buf.overflowed {
		if ch == Terminator {
			buf.overflowed = false
		}
		return "", false, nil
	}

	if ch == Terminator {
		line := buf.String()
		buf.reset()
		return line, true, nil
	}

	if a.maxLen > 0 && buf.runes >= a.maxLen {
		buf.reset()
		buf.overflowed = true
		return "", false, ErrBufferOverflow
	}
	buf.WriteRune(ch)
	buf.runes++
	return "", false, nil
}

// Pending returns the unterminated text buffered for h.
func (a *LineAssembler) Pending(h DeviceHandle) string {
	if buf, ok := a.buffers[h]; ok {
		return buf.String()
	}
	return ""
}
