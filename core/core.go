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

// Package core implements Bolt's virtual core: the fetch/decode/execute
// loop, its register bank, and the unified stack+heap memory it operates
// over. A Core is bound to a linked Image by New, initialized by Reset,
// and then single-steps or runs to completion via Step/Run.
package core

import (
	"io"

	"github.com/monti-tls/bolt/isa"
)

// PSR condition flags, set by the *CMP instructions and tested (then
// cleared) by the conditional jumps.
const (
	flagZero     isa.Word = 1 << 0
	flagNegative isa.Word = 1 << 1
)

// Core is one instance of the virtual machine: a register bank plus a
// single contiguous memory buffer shared by the stack (growing up from
// zero, bounded by HB) and the heap (the words from HB = StackSize up).
// The Core itself does not allocate from the heap.
type Core struct {
	Regs [isa.RegisterCount]isa.Word
	Mem  []isa.Word

	img    *Image
	halted bool
	diag   io.Writer
}

// Option configures a Core at construction time. The functional-options
// shape mirrors linker.Option.
type Option func(*Core)

// Diag sets the writer DMS/DMR/DMO dump to. Without it, those
// instructions are no-ops: the debug dump is an observable side effect
// only (section 4.6), not something programs may depend on.
func Diag(w io.Writer) Option {
	return func(c *Core) { c.diag = w }
}

// New allocates a Core for img but does not reset it; call Reset before
// Step/Run.
func New(img *Image, opts ...Option) *Core {
	c := &Core{
		Mem: make([]isa.Word, img.StackSize+img.HeapSize),
		img: img,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reset rewinds the Core to the start of execution: SEG and PC point at
// the image's entry segment/offset, SP is empty, HB sits at the stack/heap
// boundary, and PSR is clear.
func (c *Core) Reset() {
	for i := range c.Regs {
		c.Regs[i] = 0
	}
	for i := range c.Mem {
		c.Mem[i] = 0
	}
	c.Regs[isa.SEG] = isa.Word(c.img.Base)
	c.Regs[isa.PC] = isa.Word(c.img.Segments[c.img.Base].Entry)
	c.Regs[isa.SP] = 0
	c.Regs[isa.PSR] = 0
	c.Regs[isa.HB] = isa.Word(c.img.StackSize)
	c.halted = false
}

// Halted reports whether the last Step executed a halt instruction.
func (c *Core) Halted() bool { return c.halted }

// Run steps the Core until it halts or an error occurs.
func (c *Core) Run() error {
	for !c.halted {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) segment() Segment {
	return c.img.Segments[c.Regs[isa.SEG]]
}

func (c *Core) fetchWord() (isa.Word, error) {
	seg := c.segment()
	pc := int(c.Regs[isa.PC])
	if pc < 0 || pc >= len(seg.Code) {
		return 0, c.fault("program counter %d out of bounds in segment %d", pc, c.Regs[isa.SEG])
	}
	w := seg.Code[pc]
	c.Regs[isa.PC]++
	return w, nil
}

// operandRef is a resolved operand: enough to both read its value and,
// where the addressing mode permits, write one back.
type operandRef struct {
	kind     isa.OperandKind
	indirect bool
	reg      isa.Register
	imm      isa.Word
	offset   isa.Word
	hasOff   bool
}

// resolveOperand reads whatever trailing words op's encoding implies (the
// immediate value, then the indirection offset) off the instruction
// stream; Step calls it for A before B.
func (c *Core) resolveOperand(op isa.Operand) (operandRef, error) {
	ref := operandRef{kind: op.Kind, indirect: op.Indir, reg: isa.Register(op.Value)}
	if op.Kind == isa.KindImm {
		w, err := c.fetchWord()
		if err != nil {
			return ref, err
		}
		ref.imm = w
	}
	if op.Indir && op.Offset {
		w, err := c.fetchWord()
		if err != nil {
			return ref, err
		}
		ref.offset = w
		ref.hasOff = true
	}
	return ref, nil
}

func (c *Core) addr(ref operandRef) (int, error) {
	var base isa.Word
	switch ref.kind {
	case isa.KindReg:
		base = c.Regs[ref.reg]
	case isa.KindImm:
		base = ref.imm
	}
	if ref.hasOff {
		base += ref.offset
	}
	a := int(base)
	if a < 0 || a >= len(c.Mem) {
		return 0, c.fault("memory address %d out of bounds", a)
	}
	return a, nil
}

func (c *Core) load(ref operandRef) (isa.Word, error) {
	if !ref.indirect {
		switch ref.kind {
		case isa.KindReg:
			return c.Regs[ref.reg], nil
		case isa.KindImm:
			return ref.imm, nil
		default:
			return 0, nil
		}
	}
	a, err := c.addr(ref)
	if err != nil {
		return 0, err
	}
	return c.Mem[a], nil
}

func (c *Core) store(ref operandRef, v isa.Word) error {
	if !ref.indirect {
		if ref.kind != isa.KindReg {
			return c.fault("cannot write to a non-register, non-indirect operand")
		}
		c.Regs[ref.reg] = v
		return nil
	}
	a, err := c.addr(ref)
	if err != nil {
		return err
	}
	c.Mem[a] = v
	return nil
}

func (c *Core) push(v isa.Word) error {
	sp := int(c.Regs[isa.SP])
	if sp >= int(c.Regs[isa.HB]) {
		return c.fault("stack overflow at sp=%d", sp)
	}
	c.Mem[sp] = v
	c.Regs[isa.SP]++
	return nil
}

func (c *Core) pop() (isa.Word, error) {
	sp := int(c.Regs[isa.SP])
	if sp <= 0 {
		return 0, c.fault("stack underflow")
	}
	sp--
	c.Regs[isa.SP] = isa.Word(sp)
	return c.Mem[sp], nil
}

func (c *Core) fault(format string, args ...interface{}) error {
	return newRuntimeError(c, format, args...)
}
