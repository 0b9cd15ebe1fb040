package main

// History keeps every completed scan per device, in completion order.
type History struct {
	scans map[DeviceHandle][]string
}

func NewHistory() *History {
	return &History{scans: make(map[DeviceHandle][]string)}
}

// Record appends value to h's history and returns how many entries of that
// history now equal value.
func (hs *History) Record(h DeviceHandle, value string) int {
	hs.scans[h] = append(hs.scans[h], value)
	n := 0
	for _, s := range hs.scans[h] {
		if s == value {
			n++
		}
	}
	return n
}

// Scans returns a copy of h's history.
func (hs *History) Scans(h DeviceHandle) []string {
	return append([]string(nil), hs.scans[h]...)
}

// IsMatch reports whether a Record count confirms a match. Only the second
// occurrence of a value confirms; later repeats stay silent.
func IsMatch(count int) bool {
	return count == 2
}
