package wire

import "strings"

type field struct {
	name  string
	value string
}

// Header is an insertion-ordered header set. Names keep the caller's
// spelling; lookups and overwrites ignore case.
type Header struct {
	fields []field
}

// Set replaces the value of an existing field in place, keeping its
// position and original spelling, or appends a new field.
func (h *Header) Set(name, value string) {
	for i := range h.fields {
		if strings.EqualFold(h.fields[i].name, name) {
			h.fields[i].value = value
			return
		}
	}
	h.fields = append(h.fields, field{name: name, value: value})
}

// Get returns the value for name.
func (h *Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			return f.value, true
		}
	}
	return "", false
}

// Del removes name.
func (h *Header) Del(name string) {
	for i, f := range h.fields {
		if strings.EqualFold(f.name, name) {
			h.fields = append(h.fields[:i], h.fields[i+1:]...)
			return
		}
	}
}

// Len returns the number of fields.
func (h *Header) Len() int { return len(h.fields) }

// Each calls fn for every field in order.
func (h *Header) Each(fn func(name, value string)) {
	for _, f := range h.fields {
		fn(f.name, f.value)
	}
}
