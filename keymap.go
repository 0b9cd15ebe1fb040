package main

import (
	"fmt"
	"sort"
	"unicode"

	evdev "github.com/holoplot/go-evdev"
)

// KeyChar maps an evdev keycode to its normal and shifted characters.
type KeyChar struct {
	Normal  rune
	Shifted rune
}

// usLayout maps evdev key codes to their characters for a US keyboard
// layout. Scanners configured as USB HID keyboards almost always emit US
// key codes regardless of the host locale.
var usLayout = map[evdev.EvCode]KeyChar{
	evdev.KEY_A: {'a', 'A'}, evdev.KEY_B: {'b', 'B'},
	evdev.KEY_C: {'c', 'C'}, evdev.KEY_D: {'d', 'D'},
	evdev.KEY_E: {'e', 'E'}, evdev.KEY_F: {'f', 'F'},
	evdev.KEY_G: {'g', 'G'}, evdev.KEY_H: {'h', 'H'},
	evdev.KEY_I: {'i', 'I'}, evdev.KEY_J: {'j', 'J'},
	evdev.KEY_K: {'k', 'K'}, evdev.KEY_L: {'l', 'L'},
	evdev.KEY_M: {'m', 'M'}, evdev.KEY_N: {'n', 'N'},
	evdev.KEY_O: {'o', 'O'}, evdev.KEY_P: {'p', 'P'},
	evdev.KEY_Q: {'q', 'Q'}, evdev.KEY_R: {'r', 'R'},
	evdev.KEY_S: {'s', 'S'}, evdev.KEY_T: {'t', 'T'},
	evdev.KEY_U: {'u', 'U'}, evdev.KEY_V: {'v', 'V'},
	evdev.KEY_W: {'w', 'W'}, evdev.KEY_X: {'x', 'X'},
	evdev.KEY_Y: {'y', 'Y'}, evdev.KEY_Z: {'z', 'Z'},

	evdev.KEY_1: {'1', '!'}, evdev.KEY_2: {'2', '@'},
	evdev.KEY_3: {'3', '#'}, evdev.KEY_4: {'4', '$'},
	evdev.KEY_5: {'5', '%'}, evdev.KEY_6: {'6', '^'},
	evdev.KEY_7: {'7', '&'}, evdev.KEY_8: {'8', '*'},
	evdev.KEY_9: {'9', '('}, evdev.KEY_0: {'0', ')'},

	evdev.KEY_MINUS:      {'-', '_'},
	evdev.KEY_EQUAL:      {'=', '+'},
	evdev.KEY_LEFTBRACE:  {'[', '{'},
	evdev.KEY_RIGHTBRACE: {']', '}'},
	evdev.KEY_SEMICOLON:  {';', ':'},
	evdev.KEY_APOSTROPHE: {'\'', '"'},
	evdev.KEY_GRAVE:      {'`', '~'},
	evdev.KEY_BACKSLASH:  {'\\', '|'},
	evdev.KEY_COMMA:      {',', '<'},
	evdev.KEY_DOT:        {'.', '>'},
	evdev.KEY_SLASH:      {'/', '?'},
	evdev.KEY_SPACE:      {' ', ' '},

	evdev.KEY_KP0: {'0', '0'}, evdev.KEY_KP1: {'1', '1'},
	evdev.KEY_KP2: {'2', '2'}, evdev.KEY_KP3: {'3', '3'},
	evdev.KEY_KP4: {'4', '4'}, evdev.KEY_KP5: {'5', '5'},
	evdev.KEY_KP6: {'6', '6'}, evdev.KEY_KP7: {'7', '7'},
	evdev.KEY_KP8: {'8', '8'}, evdev.KEY_KP9: {'9', '9'},

	evdev.KEY_KPMINUS:    {'-', '-'},
	evdev.KEY_KPPLUS:     {'+', '+'},
	evdev.KEY_KPASTERISK: {'*', '*'},
	evdev.KEY_KPSLASH:    {'/', '/'},
	evdev.KEY_KPDOT:      {'.', '.'},

	evdev.KEY_ENTER:   {'\r', '\r'},
	evdev.KEY_KPENTER: {'\r', '\r'},
}

// layouts holds every layout table selectable by name.
var layouts = map[string]map[evdev.EvCode]KeyChar{
	"us": usLayout,
}

// LayoutNames returns the selectable layout names, sorted.
func LayoutNames() []string {
	names := make([]string, 0, len(layouts))
	for n := range layouts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Key state bits, per entry of a KeyboardState.
const (
	keyDownBit    = 0x80
	keyToggledBit = 0x01
)

// KeyboardState is a 256-entry key state vector indexed by key code.
type KeyboardState [256]byte

func (s *KeyboardState) down(code evdev.EvCode) bool {
	return int(code) < len(s) && s[code]&keyDownBit != 0
}

func (s *KeyboardState) toggled(code evdev.EvCode) bool {
	return int(code) < len(s) && s[code]&keyToggledBit != 0
}

// KeyStateTracker maintains the key state vector from observed key events.
type KeyStateTracker struct {
	state KeyboardState
}

// Observe records a key event. value is 1 for press, 0 for release and
// 2 for autorepeat.
func (t *KeyStateTracker) Observe(code evdev.EvCode, value int32) {
	if int(code) >= len(t.state) {
		return
	}
	switch value {
	case 1:
		if t.state[code]&keyDownBit == 0 {
			t.state[code] ^= keyToggledBit
		}
		t.state[code] |= keyDownBit
	case 0:
		t.state[code] &^= keyDownBit
	}
}

// LayoutService answers key state and key-to-character queries.
type LayoutService interface {
	KeyboardState(state *KeyboardState) error
	ToRune(vkey, scan uint16, state *KeyboardState) (rune, bool)
}

// TableLayout is a LayoutService backed by a layout table and a key state
// tracker.
type TableLayout struct {
	table   map[evdev.EvCode]KeyChar
	tracker *KeyStateTracker
}

// NewTableLayout returns the named layout reading key state from tracker.
func NewTableLayout(name string, tracker *KeyStateTracker) (*TableLayout, error) {
	table, ok := layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown keyboard layout %q", name)
	}
	return &TableLayout{table: table, tracker: tracker}, nil
}

// KeyboardState copies the current key state vector into state.
func (l *TableLayout) KeyboardState(state *KeyboardState) error {
	*state = l.tracker.state
	return nil
}

// ToRune maps vkey to a character under the given key state. The scan code
// is not needed by table layouts.
func (l *TableLayout) ToRune(vkey, _ uint16, state *KeyboardState) (rune, bool) {
	kc, ok := l.table[evdev.EvCode(vkey)]
	if !ok {
		return 0, false
	}

	shift := state.down(evdev.KEY_LEFTSHIFT) || state.down(evdev.KEY_RIGHTSHIFT)
	ch := kc.Normal
	if shift {
		ch = kc.Shifted
	}
	if state.toggled(evdev.KEY_CAPSLOCK) && unicode.IsLetter(kc.Normal) {
		if shift {
			ch = kc.Normal
		} else {
			ch = kc.Shifted
		}
	}
	return ch, true
}

// keyFor reverses a layout table: it returns the key code producing ch and
// whether shift is needed.
func keyFor(table map[evdev.EvCode]KeyChar, ch rune) (evdev.EvCode, bool, bool) {
	var (
		best      evdev.EvCode
		bestShift bool
		found     bool
	)
	for code, kc := range table {
		var shift bool
		switch ch {
		case kc.Normal:
		case kc.Shifted:
			shift = true
		default:
			continue
		}
		// Lowest code wins, so the main block beats the keypad.
		if !found || code < best {
			best, bestShift, found = code, shift, true
		}
	}
	return best, bestShift, found
}
