package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 7, 14, 5, 9, 0, time.UTC)
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"%H:%M:%S", "14:05:09"},
		{"%Y-%m-%d", "2026-03-07"},
		{"%I %p", "02 PM"},
		{"%a %A %b %B", "Sat Saturday Mar March"},
		{"100%% at %H", "100% at 14"},
		{"literal Monday 2006", "literal Monday 2006"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTime(tt.format, fixedClock()))
		})
	}
}

func TestExpandRefs(t *testing.T) {
	vars := map[string]string{"role": "Scanner 1", "value": "{{role}}"}

	assert.Equal(t, "Scanner 1: {{role}}", expandRefs("{{role}}: {{value}}", vars))
	assert.Equal(t, "keep {{unknown}} and {{", expandRefs("keep {{unknown}} and {{", vars))
	assert.Equal(t, "plain", expandRefs("plain", vars))
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleSink(&buf, DefaultConfig().Output)
	c.now = fixedClock

	c.ScanCompleted(Primary, "4006381333931")
	c.MatchConfirmed(Secondary, "X")

	assert.Equal(t,
		"[14:05:09] Scanner 1: 4006381333931\n"+
			"[14:05:09] Scanner 2: ✔ match confirmed: X\n",
		buf.String())
}

func TestConsoleSink_Reload(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleSink(&buf, DefaultConfig().Output)
	c.now = fixedClock

	c.Reload(OutputConfig{ScanFormat: "{{role}}={{value}}"})
	c.ScanCompleted(Primary, "A")

	assert.Equal(t, "Scanner 1=A\n", buf.String())
}

func TestFanOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	f := FanOut{a, b}

	f.ScanCompleted(Primary, "1")
	f.MatchConfirmed(Primary, "1")

	want := []notification{{"scan", Primary, "1"}, {"match", Primary, "1"}}
	assert.Equal(t, want, a.got)
	assert.Equal(t, want, b.got)
}
