package main

// Terminator ends a scan.
const Terminator = '\r'

// Translator turns key codes into characters using a LayoutService. The key
// state is queried fresh for every key.
type Translator struct {
	layout LayoutService
}

// NewTranslator returns a Translator backed by layout.
func NewTranslator(layout LayoutService) *Translator {
	return &Translator{layout: layout}
}

// Translate returns the character produced by (vkey, scan), if any.
func (t *Translator) Translate(vkey, scan uint16) (rune, bool) {
	var state KeyboardState
	if err := t.layout.KeyboardState(&state); err != nil {
		return 0, false
	}
	return t.layout.ToRune(vkey, scan, &state)
}
