package main

// Sink receives scan and match notifications for the Primary and Secondary
// roles, in the order they are produced.
type Sink interface {
	ScanCompleted(role Role, value string)
	MatchConfirmed(role Role, value string)
}

// FanOut delivers every notification to each sink in order.
type FanOut []Sink

func (f FanOut) ScanCompleted(role Role, value string) {
	for _, s := range f {
		s.ScanCompleted(role, value)
	}
}

func (f FanOut) MatchConfirmed(role Role, value string) {
	for _, s := range f {
		s.MatchConfirmed(role, value)
	}
}
