package content

import "sync/atomic"

// Holder is the read-only handle to the current snapshot.
// Readers never block; a reload builds a new snapshot and swaps it in.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// NewHolder returns a holder serving s, or the empty snapshot when s is nil.
func NewHolder(s *Snapshot) *Holder {
	h := &Holder{}
	if s != nil {
		h.current.Store(s)
	}
	return h
}

// Load returns the current snapshot. It never returns nil.
func (h *Holder) Load() *Snapshot {
	if s := h.current.Load(); s != nil {
		return s
	}
	return emptySnapshot
}

// Store replaces the current snapshot. A nil snapshot is ignored.
func (h *Holder) Store(s *Snapshot) {
	if s != nil {
		h.current.Store(s)
	}
}
