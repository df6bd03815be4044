// Copyright (c) 2024 The namecoin-core developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinview

import "bytes"

// NameData is the current registered record for a name: its value, the
// height at which it was last updated, and the output that owns it.
type NameData struct {
	Value  []byte
	Height uint32
	Output OutPoint
}

// Equal reports whether two name records carry identical data.  It is used
// by NameHistory.Pop to enforce the undo-matches-redo property.
func (d NameData) Equal(other NameData) bool {
	return d.Height == other.Height &&
		d.Output == other.Output &&
		bytes.Equal(d.Value, other.Value)
}

// NameHistory is an ordered stack of superseded NameData values for a
// single name.  A forward update pushes the value it replaces; undoing that
// update pops the stack and asserts the popped value matches what is being
// restored, which couples redo and undo structurally.
type NameHistory struct {
	entries []NameData
}

// IsEmpty reports whether the history stack holds no entries.
func (h NameHistory) IsEmpty() bool {
	return len(h.entries) == 0
}

// Push records old as the value a forward update is replacing.
func (h *NameHistory) Push(old NameData) {
	h.entries = append(h.entries, old)
}

// Pop removes the top of the history stack and asserts it equals expected,
// the value an undo is restoring.  It panics with an AssertError if the
// stack is empty or the top does not match, since both indicate the name
// cache's redo/undo bookkeeping has diverged from the coin it describes.
func (h *NameHistory) Pop(expected NameData) {
	if len(h.entries) == 0 {
		panic(AssertError("pop from empty name history"))
	}
	top := h.entries[len(h.entries)-1]
	if !top.Equal(expected) {
		panic(AssertError("name history pop does not match expected value"))
	}
	h.entries = h.entries[:len(h.entries)-1]
}
