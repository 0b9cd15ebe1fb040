package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

// Raw record types, as carried in the record header.
const (
	RecordTypeMouse    uint32 = 0
	RecordTypeKeyboard uint32 = 1
	RecordTypeHID      uint32 = 2
)

// Keyboard message codes carried in a keyboard record.
const (
	MessageKeyDown uint32 = 0x0100
	MessageKeyUp   uint32 = 0x0101
)

const (
	recordHeaderSize   = 24
	recordKeyboardSize = 16
	keyboardRecordSize = recordHeaderSize + recordKeyboardSize
)

var (
	ErrSizeMismatch = errors.New("raw record size mismatch")
	ErrShortRecord  = errors.New("raw record too short")
	ErrNotKeyboard  = errors.New("raw record is not a keyboard record")
)

// DeviceHandle identifies one physical input device. It is opaque: only
// equality is meaningful.
type DeviceHandle uint64

// RawInput references a pending raw record held by a RecordSource.
type RawInput uint64

// MessageKind classifies a keyboard record's message.
type MessageKind int

const (
	KindOther MessageKind = iota
	KindKeyDown
	KindKeyUp
)

func (k MessageKind) String() string {
	switch k {
	case KindKeyDown:
		return "key-down"
	case KindKeyUp:
		return "key-up"
	default:
		return "other"
	}
}

// RawKeyEvent is a decoded keyboard record.
type RawKeyEvent struct {
	Device   DeviceHandle
	Kind     MessageKind
	VKey     uint16
	ScanCode uint16
}

// RecordSource is the two-call raw input protocol: ask for a record's size,
// then fetch it into a buffer of that size.
type RecordSource interface {
	RecordSize(in RawInput) (int, error)
	ReadRecord(in RawInput, buf []byte) (int, error)
}

// EventDecoder turns a raw input reference into a keyboard event.
type EventDecoder interface {
	Decode(in RawInput) (RawKeyEvent, error)
}

// scratchPool hands out scratch buffers for a single decode call.
type scratchPool interface {
	Get(n int) []byte
	Put(buf []byte)
}

type syncScratchPool struct {
	pool sync.Pool
}

func (p *syncScratchPool) Get(n int) []byte {
	if b, ok := p.pool.Get().(*[]byte); ok && cap(*b) >= n {
		return (*b)[:n]
	}
	return make([]byte, n)
}

func (p *syncScratchPool) Put(buf []byte) {
	buf = buf[:0]
	p.pool.Put(&buf)
}

// RecordDecoder implements EventDecoder over a RecordSource.
type RecordDecoder struct {
	src  RecordSource
	pool scratchPool
}

// NewRecordDecoder returns a decoder reading records from src.
func NewRecordDecoder(src RecordSource) *RecordDecoder {
	return &RecordDecoder{src: src, pool: &syncScratchPool{}}
}

// Decode fetches the record behind in and parses it. The scratch buffer is
// returned to the pool on every path.
func (d *RecordDecoder) Decode(in RawInput) (RawKeyEvent, error) {
	size, err := d.src.RecordSize(in)
	if err != nil {
		return RawKeyEvent{}, fmt.Errorf("query record size: %w", err)
	}
	if size < recordHeaderSize {
		return RawKeyEvent{}, fmt.Errorf("%w: %d bytes", ErrShortRecord, size)
	}

	buf := d.pool.Get(size)
	defer d.pool.Put(buf)

	n, err := d.src.ReadRecord(in, buf)
	if err != nil {
		return RawKeyEvent{}, fmt.Errorf("read record: %w", err)
	}
	if n != size {
		return RawKeyEvent{}, fmt.Errorf("%w: queried %d, fetched %d", ErrSizeMismatch, size, n)
	}

	return parseRecord(buf[:n])
}

func parseRecord(b []byte) (RawKeyEvent, error) {
	typ := binary.LittleEndian.Uint32(b[0:4])
	if typ != RecordTypeKeyboard {
		return RawKeyEvent{}, ErrNotKeyboard
	}
	if len(b) < keyboardRecordSize {
		return RawKeyEvent{}, fmt.Errorf("%w: %d bytes", ErrShortRecord, len(b))
	}

	kb := b[recordHeaderSize:]
	ev := RawKeyEvent{
		Device:   DeviceHandle(binary.LittleEndian.Uint64(b[8:16])),
		ScanCode: binary.LittleEndian.Uint16(kb[0:2]),
		VKey:     binary.LittleEndian.Uint16(kb[6:8]),
	}
	switch binary.LittleEndian.Uint32(kb[8:12]) {
	case MessageKeyDown:
		ev.Kind = KindKeyDown
	case MessageKeyUp:
		ev.Kind = KindKeyUp
	}
	return ev, nil
}

// encodeRecord builds a raw record of the given type. Only keyboard records
// carry the keyboard block.
func encodeRecord(typ uint32, dev DeviceHandle, scan, vkey uint16, msg uint32) []byte {
	size := recordHeaderSize
	if typ == RecordTypeKeyboard {
		size = keyboardRecordSize
	}
	b := make([]byte, size)
	binary.LittleEndian.PutUint32(b[0:4], typ)
	binary.LittleEndian.PutUint32(b[4:8], uint32(size))
	binary.LittleEndian.PutUint64(b[8:16], uint64(dev))
	if typ == RecordTypeKeyboard {
		kb := b[recordHeaderSize:]
		binary.LittleEndian.PutUint16(kb[0:2], scan)
		binary.LittleEndian.PutUint16(kb[6:8], vkey)
		binary.LittleEndian.PutUint32(kb[8:12], msg)
	}
	return b
}
