package main

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUSTranslator(t *testing.T) (*Translator, *KeyStateTracker) {
	t.Helper()
	tracker := &KeyStateTracker{}
	layout, err := NewTableLayout("us", tracker)
	require.NoError(t, err)
	return NewTranslator(layout), tracker
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		held   []evdev.EvCode
		caps   bool
		code   evdev.EvCode
		want   rune
		wantOK bool
	}{
		{name: "letter", code: evdev.KEY_A, want: 'a', wantOK: true},
		{name: "shifted letter", held: []evdev.EvCode{evdev.KEY_LEFTSHIFT}, code: evdev.KEY_A, want: 'A', wantOK: true},
		{name: "right shift digit", held: []evdev.EvCode{evdev.KEY_RIGHTSHIFT}, code: evdev.KEY_1, want: '!', wantOK: true},
		{name: "caps lock letter", caps: true, code: evdev.KEY_Q, want: 'Q', wantOK: true},
		{name: "caps lock with shift", caps: true, held: []evdev.EvCode{evdev.KEY_LEFTSHIFT}, code: evdev.KEY_Q, want: 'q', wantOK: true},
		{name: "caps lock leaves digits", caps: true, code: evdev.KEY_5, want: '5', wantOK: true},
		{name: "enter is terminator", code: evdev.KEY_ENTER, want: Terminator, wantOK: true},
		{name: "keypad enter is terminator", code: evdev.KEY_KPENTER, want: Terminator, wantOK: true},
		{name: "keypad digit", code: evdev.KEY_KP7, want: '7', wantOK: true},
		{name: "function key", code: evdev.KEY_F1, wantOK: false},
		{name: "modifier itself", code: evdev.KEY_LEFTSHIFT, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, tracker := newUSTranslator(t)
			if tt.caps {
				tracker.Observe(evdev.KEY_CAPSLOCK, 1)
				tracker.Observe(evdev.KEY_CAPSLOCK, 0)
			}
			for _, c := range tt.held {
				tracker.Observe(c, 1)
			}

			got, ok := tr.Translate(uint16(tt.code), 0)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTranslate_StateIsReadPerKey(t *testing.T) {
	tr, tracker := newUSTranslator(t)

	tracker.Observe(evdev.KEY_LEFTSHIFT, 1)
	ch, _ := tr.Translate(uint16(evdev.KEY_B), 0)
	assert.Equal(t, 'B', ch)

	tracker.Observe(evdev.KEY_LEFTSHIFT, 0)
	ch, _ = tr.Translate(uint16(evdev.KEY_B), 0)
	assert.Equal(t, 'b', ch)
}

func TestKeyStateTracker_CapsToggle(t *testing.T) {
	var tr KeyStateTracker
	tr.Observe(evdev.KEY_CAPSLOCK, 1)
	tr.Observe(evdev.KEY_CAPSLOCK, 2) // autorepeat does not toggle again
	tr.Observe(evdev.KEY_CAPSLOCK, 0)
	assert.True(t, tr.state.toggled(evdev.KEY_CAPSLOCK))
	assert.False(t, tr.state.down(evdev.KEY_CAPSLOCK))

	tr.Observe(evdev.KEY_CAPSLOCK, 1)
	tr.Observe(evdev.KEY_CAPSLOCK, 0)
	assert.False(t, tr.state.toggled(evdev.KEY_CAPSLOCK))
}

func TestNewTableLayout_Unknown(t *testing.T) {
	_, err := NewTableLayout("dvorak", &KeyStateTracker{})
	assert.Error(t, err)
}

func TestKeyFor(t *testing.T) {
	code, shift, ok := keyFor(usLayout, '7')
	require.True(t, ok)
	assert.Equal(t, evdev.EvCode(evdev.KEY_7), code)
	assert.False(t, shift)

	code, shift, ok = keyFor(usLayout, '?')
	require.True(t, ok)
	assert.Equal(t, evdev.EvCode(evdev.KEY_SLASH), code)
	assert.True(t, shift)

	_, _, ok = keyFor(usLayout, 'é')
	assert.False(t, ok)
}
