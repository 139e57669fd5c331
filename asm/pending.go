// This file is part of bolt - a toolchain for a small 32-bit virtual machine.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package asm

// slotKind distinguishes the two shapes of fix-up target named by the
// design notes' tagged variant Slot = InBuffer(index) | InModuleField(FieldId).
type slotKind int

const (
	// slotInBuffer addresses a stable index into the module's own code
	// buffer (an operand's pending-location value word).
	slotInBuffer slotKind = iota
	// slotEntryField addresses the module's entry field, fixed up once
	// the .entry directive's target label is bound.
	slotEntryField
	// slotSymbolOffset addresses an exported Symbol's Offset field, fixed
	// up once a .global directive's target label is bound.
	slotSymbolOffset
)

// slot is one fix-up target, queued against a label name until that label
// is bound.
type slot struct {
	kind   slotKind
	offset int    // valid when kind == slotInBuffer
	symbol string // valid when kind == slotSymbolOffset
}

func inBuffer(offset int) slot       { return slot{kind: slotInBuffer, offset: offset} }
func entryFieldSlot() slot           { return slot{kind: slotEntryField} }
func symbolOffsetSlot(name string) slot { return slot{kind: slotSymbolOffset, symbol: name} }

// pendingLabel is the fix-up bookkeeping for one label name: the list of
// slots waiting for it to be bound.
type pendingLabel struct {
	fixups []slot
}

// pendingTable implements the assembler's forward-reference resolution.
// Rather than literally deferring every fix-up to a trailing pass, each
// reference is applied immediately if the label is already bound, or
// queued if not; binding a label then flushes its queue. This is
// equivalent to the "collect now, fix up in one final pass" algorithm the
// design notes describe, since by construction every fix-up is applied
// exactly once, at the point the label's location becomes known — but it
// needs no second traversal of the token stream.
type pendingTable struct {
	pending map[string]*pendingLabel
	bound   map[string]int
}

func newPendingTable() *pendingTable {
	return &pendingTable{
		pending: make(map[string]*pendingLabel),
		bound:   make(map[string]int),
	}
}

// reference records that s must receive name's bound location. apply is
// called immediately if name is already bound.
func (t *pendingTable) reference(name string, s slot, apply func(slot, int)) {
	if loc, ok := t.bound[name]; ok {
		apply(s, loc)
		return
	}
	pl, ok := t.pending[name]
	if !ok {
		pl = &pendingLabel{}
		t.pending[name] = pl
	}
	pl.fixups = append(pl.fixups, s)
}

// bind records name as bound at loc, flushing any queued fix-ups. Reports
// false if name was already bound (duplicate label).
func (t *pendingTable) bind(name string, loc int, apply func(slot, int)) bool {
	if _, ok := t.bound[name]; ok {
		return false
	}
	t.bound[name] = loc
	if pl, ok := t.pending[name]; ok {
		for _, s := range pl.fixups {
			apply(s, loc)
		}
		delete(t.pending, name)
	}
	return true
}

// unresolved returns the names still queued without a binding.
func (t *pendingTable) unresolved() []string {
	names := make([]string, 0, len(t.pending))
	for name := range t.pending {
		names = append(names, name)
	}
	return names
}
