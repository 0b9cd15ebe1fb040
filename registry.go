package main

// Role is the fixed slot a device is bound to for the life of a session.
type Role int

const (
	Unassigned Role = iota
	Primary
	Secondary
)

func (r Role) String() string {
	switch r {
	case Primary:
		return "Scanner 1"
	case Secondary:
		return "Scanner 2"
	default:
		return "unassigned"
	}
}

// Registry binds the first two distinct device handles it sees to the
// Primary and Secondary roles. Bindings are never revoked.
type Registry struct {
	primary   DeviceHandle
	secondary DeviceHandle
	bound     int
}

// Resolve returns the role of h, binding a free role on first sight.
func (r *Registry) Resolve(h DeviceHandle) Role {
	switch {
	case r.bound == 0:
		r.primary = h
		r.bound = 1
		return Primary
	case h == r.primary:
		return Primary
	case r.bound == 1:
		r.secondary = h
		r.bound = 2
		return Secondary
	case h == r.secondary:
		return Secondary
	default:
		return Unassigned
	}
}

// Lookup returns the handle bound to role, if any. It never binds.
func (r *Registry) Lookup(role Role) (DeviceHandle, bool) {
	switch {
	case role == Primary && r.bound >= 1:
		return r.primary, true
	case role == Secondary && r.bound >= 2:
		return r.secondary, true
	default:
		return 0, false
	}
}
