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

// Package asm implements Bolt's two-pass assembler: it turns a token
// stream from the lexer package into a module.Module, resolving local
// label references as it goes and recording the symbol/relocation/
// hatch-reference metadata the linker needs for cross-module references.
package asm

import (
	"io"
	"strings"

	"github.com/monti-tls/bolt/isa"
	"github.com/monti-tls/bolt/lexer"
	"github.com/monti-tls/bolt/module"
	"github.com/pkg/errors"
)

// Assemble reads Bolt assembly source from src and produces a Module.
// name identifies the source (typically a file path) in error positions
// and becomes the Module's Name.
func Assemble(name string, src io.Reader) (*module.Module, error) {
	lx, err := lexer.New(name, src)
	if err != nil {
		return nil, errors.Wrapf(err, "asm: reading %s", name)
	}
	a := &assembler{
		lex:     lx,
		mod:     module.New(name),
		pending: newPendingTable(),
		externs: make(map[string]bool),
	}
	return a.run()
}

type assembler struct {
	lex     *lexer.Lexer
	mod     *module.Module
	pending *pendingTable
	externs map[string]bool
	sawEntry bool
}

func (a *assembler) applyFixup(s slot, loc int) {
	switch s.kind {
	case slotInBuffer:
		a.mod.Segment[s.offset] = isa.Word(uint32(loc))
	case slotEntryField:
		a.mod.HasEntry = true
		a.mod.Entry = loc
	case slotSymbolOffset:
		sym := a.mod.Symbol(s.symbol)
		sym.Defined = true
		sym.Offset = loc
	}
}

func (a *assembler) run() (*module.Module, error) {
	for {
		a.skipNewlines()
		switch a.lex.PeekKind() {
		case lexer.EOF:
			if names := a.pending.unresolved(); len(names) > 0 {
				return nil, errorf(a.lex.Peek().Position, "unresolved label(s): %s", strings.Join(names, ", "))
			}
			return a.mod, nil
		case lexer.DIRECTIVE:
			if err := a.directive(); err != nil {
				return nil, err
			}
		case lexer.LABEL:
			if err := a.label(); err != nil {
				return nil, err
			}
		case lexer.IDENTIFIER:
			if err := a.instruction(); err != nil {
				return nil, err
			}
		default:
			tok := a.lex.Get()
			return nil, errorf(tok.Position, "unexpected token %v", tok.Kind)
		}
	}
}

func (a *assembler) skipNewlines() {
	for a.lex.PeekKind() == lexer.NEWLINE {
		a.lex.Get()
	}
}

// expectEndOfLine enforces that an instruction or directive is followed by
// nothing but a newline (or EOF), consuming the newline if present.
func (a *assembler) expectEndOfLine() error {
	tok := a.lex.Peek()
	if tok.Kind == lexer.NEWLINE {
		a.lex.Get()
		return nil
	}
	if tok.Kind == lexer.EOF {
		return nil
	}
	return errorf(tok.Position, "expected end of line, got %v", tok.Kind)
}

func (a *assembler) expectIdentifier() (lexer.Token, error) {
	tok := a.lex.Get()
	if tok.Kind != lexer.IDENTIFIER {
		return tok, errorf(tok.Position, "expected identifier, got %v", tok.Kind)
	}
	return tok, nil
}

func (a *assembler) label() error {
	tok := a.lex.Get() // LABEL
	loc := a.mod.Len()
	if !a.pending.bind(tok.Text, loc, a.applyFixup) {
		return errorf(tok.Position, "duplicate label %q", tok.Text)
	}
	return nil
}

func (a *assembler) directive() error {
	tok := a.lex.Get() // DIRECTIVE
	switch strings.ToLower(tok.Text) {
	case "entry":
		return a.directiveEntry(tok)
	case "global":
		return a.directiveGlobal(tok)
	case "extern":
		return a.directiveExtern(tok)
	case "data":
		return a.directiveData()
	default:
		return errorf(tok.Position, "unknown directive %q", tok.Text)
	}
}

func (a *assembler) directiveEntry(dtok lexer.Token) error {
	name, err := a.expectIdentifier()
	if err != nil {
		return err
	}
	if a.sawEntry {
		return errorf(dtok.Position, "multiple .entry directives in one module")
	}
	a.sawEntry = true
	a.pending.reference(name.Text, entryFieldSlot(), a.applyFixup)
	return a.expectEndOfLine()
}

func (a *assembler) directiveGlobal(dtok lexer.Token) error {
	name, err := a.expectIdentifier()
	if err != nil {
		return err
	}
	if a.externs[name.Text] {
		return errorf(name.Position, ".global %q collides with a prior .extern", name.Text)
	}
	sym := a.mod.Symbol(name.Text)
	if sym.Exported {
		return errorf(name.Position, "duplicate .global %q", name.Text)
	}
	sym.Exported = true
	a.pending.reference(name.Text, symbolOffsetSlot(name.Text), a.applyFixup)
	return a.expectEndOfLine()
}

func (a *assembler) directiveExtern(dtok lexer.Token) error {
	name, err := a.expectIdentifier()
	if err != nil {
		return err
	}
	if sym, ok := a.mod.Symbols[name.Text]; ok && sym.Exported {
		return errorf(name.Position, ".extern %q collides with a prior .global", name.Text)
	}
	if a.externs[name.Text] {
		return errorf(name.Position, "duplicate .extern %q", name.Text)
	}
	a.externs[name.Text] = true
	return a.expectEndOfLine()
}

func (a *assembler) directiveData() error {
	for {
		tok := a.lex.Get()
		switch tok.Kind {
		case lexer.IMMEDIATE:
			a.mod.Emit(isa.Word(tok.Value))
		case lexer.STRING:
			for _, r := range tok.Text {
				a.mod.Emit(isa.Word(r))
			}
			a.mod.Emit(0)
		default:
			return errorf(tok.Position, "expected immediate or string in .data, got %v", tok.Kind)
		}
		if a.lex.PeekKind() != lexer.COMMA {
			break
		}
		a.lex.Get()
	}
	return a.expectEndOfLine()
}

func isOperandStart(k lexer.Kind) bool {
	switch k {
	case lexer.LEFT_BRACKET, lexer.REGISTER, lexer.IMMEDIATE, lexer.IDENTIFIER:
		return true
	default:
		return false
	}
}

func (a *assembler) instruction() error {
	mnem := a.lex.Get() // IDENTIFIER
	desc, ok := isa.Lookup(mnem.Text)
	if !ok {
		return errorf(mnem.Position, "unknown mnemonic %q", mnem.Text)
	}

	instrSlot := a.mod.Emit(isa.Encode(desc.Icode, isa.Operand{}, isa.Operand{}))

	if desc.IFlags&isa.IFlagLong != 0 {
		if nt := a.lex.Peek(); nt.Kind == lexer.IDENTIFIER && a.externs[nt.Text] {
			a.lex.Get()
			segSlot := a.mod.Emit(0)
			locSlot := a.mod.Emit(0)
			a.mod.AddRelocation(nt.Text, segSlot, locSlot)
			a.mod.Segment[instrSlot] = isa.SetOperandKinds(a.mod.Segment[instrSlot], isa.KindImm, isa.KindImm)
			return a.expectEndOfLine()
		}
	}
	if desc.IFlags&isa.IFlagHatch != 0 {
		if nt := a.lex.Peek(); nt.Kind == lexer.IDENTIFIER {
			a.lex.Get()
			locSlot := a.mod.Emit(0)
			a.mod.AddHatchReference(nt.Text, locSlot)
			a.mod.Segment[instrSlot] = isa.SetOperandKinds(a.mod.Segment[instrSlot], isa.KindImm, isa.KindNone)
			return a.expectEndOfLine()
		}
	}

	var opA, opB isa.Operand
	var haveA, haveB bool
	if isOperandStart(a.lex.PeekKind()) {
		op, err := a.operand(desc.AFlags)
		if err != nil {
			return err
		}
		opA, haveA = op, true
		if a.lex.PeekKind() == lexer.COMMA {
			a.lex.Get()
			op2, err := a.operand(desc.BFlags)
			if err != nil {
				return err
			}
			opB, haveB = op2, true
		}
	}
	if !haveA && !desc.AFlags.Optional() {
		return errorf(mnem.Position, "%s requires an A operand", desc.Mnemonic)
	}
	if !haveB && !desc.BFlags.Optional() {
		return errorf(mnem.Position, "%s requires a B operand", desc.Mnemonic)
	}

	a.mod.Segment[instrSlot] = isa.Encode(desc.Icode, opA, opB)
	return a.expectEndOfLine()
}

// operand parses one operand per section 4.4: an optional leading '[',
// then %REG | #NUMBER | bare IDENTIFIER, then (inside brackets only) an
// optional +NUMBER offset and the closing ']'.
func (a *assembler) operand(flags isa.OperandFlags) (isa.Operand, error) {
	var op isa.Operand
	if a.lex.PeekKind() == lexer.LEFT_BRACKET {
		a.lex.Get()
		op.Indir = true
	}

	tok := a.lex.Get()
	switch tok.Kind {
	case lexer.REGISTER:
		reg, ok := isa.LookupRegister(tok.Text)
		if !ok {
			return op, errorf(tok.Position, "unknown register %q", tok.Text)
		}
		if !flags.Allows(isa.KindReg) {
			return op, errorf(tok.Position, "register operand not allowed here")
		}
		op.Kind = isa.KindReg
		op.Value = uint8(reg)
	case lexer.IMMEDIATE:
		if !flags.Allows(isa.KindImm) {
			return op, errorf(tok.Position, "immediate operand not allowed here")
		}
		op.Kind = isa.KindImm
		a.mod.Emit(isa.Word(tok.Value))
	case lexer.IDENTIFIER:
		if !flags.Allows(isa.KindImm) {
			return op, errorf(tok.Position, "label operand not allowed here")
		}
		op.Kind = isa.KindImm
		valSlot := a.mod.Emit(0)
		a.pending.reference(tok.Text, inBuffer(valSlot), a.applyFixup)
	default:
		return op, errorf(tok.Position, "expected operand, got %v", tok.Kind)
	}

	if op.Indir {
		if a.lex.PeekKind() == lexer.OFFSET {
			offTok := a.lex.Get()
			op.Offset = true
			a.mod.Emit(isa.Word(offTok.Value))
		}
		rb := a.lex.Get()
		if rb.Kind != lexer.RIGHT_BRACKET {
			return op, errorf(rb.Position, "expected ']', got %v", rb.Kind)
		}
	} else if a.lex.PeekKind() == lexer.OFFSET {
		offTok := a.lex.Get()
		return op, errorf(offTok.Position, "offset not allowed outside '[...]'")
	}

	return op, nil
}
