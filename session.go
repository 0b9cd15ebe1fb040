package main

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Session owns all per-run scan state: role bindings, pending lines and
// scan histories. A fresh Session starts with no devices known.
type Session struct {
	ID       string
	Registry *Registry
	Lines    *LineAssembler
	History  *History
}

// NewSession returns an empty session. maxScanLen bounds pending lines;
// zero leaves them unbounded.
func NewSession(maxScanLen int) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Registry: &Registry{},
		Lines:    NewLineAssembler(maxScanLen),
		History:  NewHistory(),
	}
}

// Dispatcher runs one raw input message at a time through decode, role
// resolution, translation, line assembly and duplicate detection. It is
// not safe for concurrent use; callers feed it from a single goroutine.
type Dispatcher struct {
	session    *Session
	decoder    EventDecoder
	translator *Translator
	sink       Sink
	log        *slog.Logger
}

// NewDispatcher wires a dispatcher around session.
func NewDispatcher(session *Session, decoder EventDecoder, translator *Translator, sink Sink, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		session:    session,
		decoder:    decoder,
		translator: translator,
		sink:       sink,
		log:        log.With("session", session.ID),
	}
}

// HandleInput processes a single raw input message. Malformed or irrelevant
// messages are dropped; nothing here is fatal.
func (d *Dispatcher) HandleInput(in RawInput) {
	ev, err := d.decoder.Decode(in)
	if err != nil {
		if !errors.Is(err, ErrNotKeyboard) {
			d.log.Debug("dropped raw input", "input", in, "err", err)
		}
		return
	}
	if ev.Kind != KindKeyDown {
		return
	}

	d.session.Lines.Open(ev.Device)
	role := d.session.Registry.Resolve(ev.Device)

	ch, ok := d.translator.Translate(ev.VKey, ev.ScanCode)
	if !ok {
		return
	}

	line, done, err := d.session.Lines.OnCharacter(ev.Device, ch)
	if err != nil {
		d.log.Warn("discarding over-long scan", "handle", ev.Device, "role", role, "err", err)
		return
	}
	if !done {
		return
	}

	surfaced := role != Unassigned
	if surfaced {
		d.sink.ScanCompleted(role, line)
	}

	count := d.session.History.Record(ev.Device, line)
	d.log.Debug("scan completed", "handle", ev.Device, "role", role, "value", line, "count", count)
	if surfaced && IsMatch(count) {
		d.log.Info("match confirmed", "handle", ev.Device, "role", role, "value", line)
		d.sink.MatchConfirmed(role, line)
	}
}
