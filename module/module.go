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

// Package module defines Bolt's relocatable object format: the output of
// the assembler and the input to the linker. A Module is a flat word
// buffer plus the symbol, relocation and hatch-reference metadata needed
// to merge it with others and bind it into a runnable core image.
package module

import "github.com/monti-tls/bolt/isa"

// Symbol describes one named location exported by a Module: a .global
// definition. The assembler records .extern names and label references
// elsewhere, not as Symbols.
type Symbol struct {
	Name     string
	Exported bool // true for .global symbols
	Defined  bool // true once this module has supplied a definition
	Offset   int  // word offset into Segment, valid when Defined
}

// RelocSlot is one pair of code-word offsets that must receive a resolved
// external symbol's provider segment id and in-segment location, per the
// linker's "apply symbol solutions" step.
type RelocSlot struct {
	SegSlot int // offset of the word to receive the provider's segment id
	LocSlot int // offset of the word to receive the symbol's location
}

// HatchReference is one reference, by name, to a host-provided hatch. The
// linker resolves the name against the Runtime's hatch table and patches
// the word at each LocSlot with the hatch's bound index.
type HatchReference struct {
	Name     string
	LocSlots []int
}

// Module is a single assembled compilation unit: a word buffer plus the
// metadata needed to link it against others.
type Module struct {
	Name    string
	Segment []isa.Word

	Symbols map[string]*Symbol

	// Relocations maps an external symbol name to the list of code-word
	// slot pairs referencing it (one module may CALL the same extern
	// symbol from several call sites).
	Relocations map[string][]RelocSlot

	// HatchReferences maps a hatch name to the references made to it.
	HatchReferences map[string]*HatchReference

	HasEntry bool
	Entry    int // word offset of .entry's target, valid when HasEntry
}

// New creates an empty Module ready for the assembler to populate.
func New(name string) *Module {
	return &Module{
		Name:            name,
		Symbols:         make(map[string]*Symbol),
		Relocations:     make(map[string][]RelocSlot),
		HatchReferences: make(map[string]*HatchReference),
	}
}

// Symbol returns the named symbol, creating an undefined placeholder if it
// doesn't exist yet. This mirrors the assembler's need to create a
// symbol at its .global directive, before its label is bound.
func (m *Module) Symbol(name string) *Symbol {
	if s, ok := m.Symbols[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	m.Symbols[name] = s
	return s
}

// Emit appends a word to the segment and returns its offset.
func (m *Module) Emit(w isa.Word) int {
	m.Segment = append(m.Segment, w)
	return len(m.Segment) - 1
}

// Len returns the current word count of the segment.
func (m *Module) Len() int { return len(m.Segment) }

// AddRelocation records a pending external reference: code words segSlot
// and locSlot must be patched, once linked, with the provider's segment id
// and the symbol's location respectively.
func (m *Module) AddRelocation(symbol string, segSlot, locSlot int) {
	m.Relocations[symbol] = append(m.Relocations[symbol], RelocSlot{SegSlot: segSlot, LocSlot: locSlot})
}

// AddHatchReference records a pending hatch reference at locSlot.
func (m *Module) AddHatchReference(name string, locSlot int) {
	r, ok := m.HatchReferences[name]
	if !ok {
		r = &HatchReference{Name: name}
		m.HatchReferences[name] = r
	}
	r.LocSlots = append(r.LocSlots, locSlot)
}
