package main

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ConsoleSink prints one templated line per notification.
type ConsoleSink struct {
	w   io.Writer
	out OutputConfig
	now func() time.Time
}

// NewConsoleSink returns a sink writing to w with the given templates.
func NewConsoleSink(w io.Writer, out OutputConfig) *ConsoleSink {
	return &ConsoleSink{w: w, out: out, now: time.Now}
}

// Reload swaps the templates. Pending session state is not touched.
func (c *ConsoleSink) Reload(out OutputConfig) {
	c.out = out
}

func (c *ConsoleSink) ScanCompleted(role Role, value string) {
	c.print(c.out.ScanFormat, role, value)
}

func (c *ConsoleSink) MatchConfirmed(role Role, value string) {
	c.print(c.out.MatchFormat, role, value)
}

func (c *ConsoleSink) print(tmpl string, role Role, value string) {
	vars := map[string]string{
		"time":  formatTime(c.out.TimeFormat, c.now()),
		"role":  role.String(),
		"value": value,
	}
	fmt.Fprintln(c.w, expandRefs(tmpl, vars))
}

// expandRefs replaces {{name}} placeholders with their values. Substituted
// text is never expanded again, so a scanned value containing "{{role}}"
// prints as-is.
func expandRefs(s string, vars map[string]string) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(s[start+2:], "}}")
		if end < 0 {
			break
		}
		name := s[start+2 : start+2+end]
		b.WriteString(s[:start])
		if val, ok := vars[name]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(s[start : start+4+end])
		}
		s = s[start+4+end:]
	}
	b.WriteString(s)
	return b.String()
}
