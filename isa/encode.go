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

package isa

// Bit layout of a 32-bit instruction word, MSB first (see spec section 4.3,
// confirmed bit-exact against the original C++ implementation's
// vm_bytes.h):
//
//	31        22 21 20 19 18 17        11 10  9  8  7 6         0
//	<--icode--> I  O  <-kind-> <--value--> I  O <kind> <--value-->
//	<-------- A operand ----------------> <------ B operand ----->
const (
	icodeShift = 22
	icodeMask  = Word(0x3FF) << icodeShift

	aIndShift  = 21
	aOffShift  = 20
	aKindShift = 18
	aKindMask  = Word(0x3) << aKindShift
	aValShift  = 11
	aValMask   = Word(0x7F) << aValShift

	bIndShift  = 10
	bOffShift  = 9
	bKindShift = 7
	bKindMask  = Word(0x3) << bKindShift
	bValMask   = Word(0x7F)
)

// OperandKind is the 2-bit operand kind code embedded in an instruction
// word.
type OperandKind uint8

// Operand kind codes.
const (
	KindNone OperandKind = 0
	KindReg  OperandKind = 1
	KindImm  OperandKind = 2
)

// Operand is the decoded shape of one instruction operand (A or B), as
// carried by the opcode word. Value holds either a register code (KindReg)
// or a small 7-bit immediate index (KindImm) — the latter is unused by
// Bolt's encoder, which always spills immediates to trailing words, but is
// decoded for completeness and for disassembly.
type Operand struct {
	Kind   OperandKind
	Value  uint8
	Indir  bool
	Offset bool
}

// Instruction is the fully decoded shape of an opcode word.
type Instruction struct {
	Icode uint16
	A     Operand
	B     Operand
}

// Group classifies an instruction code into one of the four instruction
// groups.
type Group uint8

// Instruction groups.
const (
	GroupSys   Group = 1
	GroupMem   Group = 2
	GroupFlow  Group = 3
	GroupArith Group = 4
)

// Group returns the instruction's group.
func (in Instruction) Group() Group { return Group(in.Icode >> 7) }

// Code builds a 10-bit instruction code from a group and a 7-bit
// group-local code, as used by the static ISA table.
func Code(g Group, code uint8) uint16 {
	return uint16(g)<<7 | uint16(code)
}

// Encode packs an instruction code and two operands into a single
// instruction word. Trailing immediate/offset words are emitted separately
// by the caller (assembler) or consumed separately by the caller (core) —
// Encode/Decode only handle the opcode word itself.
func Encode(icode uint16, a, b Operand) Word {
	w := (Word(icode) << icodeShift) & icodeMask
	w |= encodeOperandA(a)
	w |= encodeOperandB(b)
	return w
}

func encodeOperandA(a Operand) Word {
	var w Word
	if a.Indir {
		w |= 1 << aIndShift
	}
	if a.Offset {
		w |= 1 << aOffShift
	}
	w |= (Word(a.Kind) << aKindShift) & aKindMask
	w |= (Word(a.Value) << aValShift) & aValMask
	return w
}

func encodeOperandB(b Operand) Word {
	var w Word
	if b.Indir {
		w |= 1 << bIndShift
	}
	if b.Offset {
		w |= 1 << bOffShift
	}
	w |= (Word(b.Kind) << bKindShift) & bKindMask
	w |= Word(b.Value) & bValMask
	return w
}

// Decode unpacks an instruction word into its code and operand shapes.
func Decode(w Word) Instruction {
	return Instruction{
		Icode: uint16((w & icodeMask) >> icodeShift),
		A: Operand{
			Kind:   OperandKind((w & aKindMask) >> aKindShift),
			Value:  uint8((w & aValMask) >> aValShift),
			Indir:  w&(1<<aIndShift) != 0,
			Offset: w&(1<<aOffShift) != 0,
		},
		B: Operand{
			Kind:   OperandKind((w & bKindMask) >> bKindShift),
			Value:  uint8(w & bValMask),
			Indir:  w&(1<<bIndShift) != 0,
			Offset: w&(1<<bOffShift) != 0,
		},
	}
}

// SetOperandKinds rewrites the A and/or B operand kind codes of an
// already-encoded instruction word in place. This is used by the assembler
// for the LONG/HATCH special forms (section 4.4), where the operand kinds
// are fixed to IMM only after the relocation/hatch-reference slots have
// been emitted.
func SetOperandKinds(w Word, a, b OperandKind) Word {
	w &^= aKindMask | bKindMask
	w |= (Word(a) << aKindShift) & aKindMask
	w |= (Word(b) << bKindShift) & bKindMask
	return w
}
