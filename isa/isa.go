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

import "strings"

// OperandFlags is a bitmask of the operand kinds an instruction slot
// accepts, plus the OptFlag modifier marking the slot as optional.
type OperandFlags uint32

// Operand constraint flags (section 4.2).
const (
	FlagNone OperandFlags = 0
	FlagReg  OperandFlags = 1 << 0
	FlagImm  OperandFlags = 1 << 1
	FlagAll  OperandFlags = FlagReg | FlagImm

	// FlagOpt marks the operand slot as optional: a missing operand is
	// only legal when the slot's flags are FlagNone or FlagOpt is set.
	FlagOpt OperandFlags = 1 << 31
)

// Allows reports whether kind satisfies these operand flags.
func (f OperandFlags) Allows(kind OperandKind) bool {
	switch kind {
	case KindReg:
		return f&FlagReg != 0
	case KindImm:
		return f&FlagImm != 0
	default:
		return false
	}
}

// Optional reports whether a missing operand is legal for this slot.
func (f OperandFlags) Optional() bool {
	return f&^FlagOpt == FlagNone || f&FlagOpt != 0
}

// InstrFlags is a bitmask of per-instruction assembly-time behaviors.
type InstrFlags uint32

const (
	// IFlagNone marks an ordinary instruction.
	IFlagNone InstrFlags = 0
	// IFlagLong marks an instruction (CALL) that accepts the special
	// extern-relocation operand form described in section 4.4.
	IFlagLong InstrFlags = 1 << 0
	// IFlagHatch marks an instruction (DIVE) that accepts the special
	// hatch-reference operand form described in section 4.4.
	IFlagHatch InstrFlags = 1 << 1
)

// Descriptor is a static instruction set entry: a mnemonic bound to its
// instruction code and operand constraints.
type Descriptor struct {
	Mnemonic string
	Icode    uint16
	IFlags   InstrFlags
	AFlags   OperandFlags
	BFlags   OperandFlags
}

var table = []Descriptor{
	// SYS group
	{"halt", Code(GroupSys, 1), IFlagNone, FlagNone, FlagNone},
	{"rst", Code(GroupSys, 2), IFlagNone, FlagNone, FlagNone},
	{"dms", Code(GroupSys, 3), IFlagNone, FlagNone, FlagNone},
	{"dmr", Code(GroupSys, 4), IFlagNone, FlagNone, FlagNone},
	{"dmo", Code(GroupSys, 5), IFlagNone, FlagAll, FlagNone},

	// MEM group
	{"push", Code(GroupMem, 1), IFlagNone, FlagAll, FlagNone},
	{"pop", Code(GroupMem, 2), IFlagNone, FlagAll | FlagOpt, FlagNone},
	{"dup", Code(GroupMem, 3), IFlagNone, FlagNone, FlagNone},
	{"mov", Code(GroupMem, 4), IFlagNone, FlagAll, FlagAll},
	{"load", Code(GroupMem, 5), IFlagNone, FlagNone, FlagNone},
	{"stor", Code(GroupMem, 6), IFlagNone, FlagNone, FlagNone},
	{"cst", Code(GroupMem, 7), IFlagNone, FlagAll | FlagOpt, FlagAll | FlagOpt},

	// FLOW group
	{"call", Code(GroupFlow, 1), IFlagLong, FlagAll, FlagAll | FlagOpt},
	{"ret", Code(GroupFlow, 2), IFlagNone, FlagNone, FlagNone},
	{"dive", Code(GroupFlow, 3), IFlagHatch, FlagAll, FlagNone},
	{"jmp", Code(GroupFlow, 4), IFlagNone, FlagAll, FlagNone},
	{"jz", Code(GroupFlow, 5), IFlagNone, FlagAll, FlagNone},
	{"jnz", Code(GroupFlow, 6), IFlagNone, FlagAll, FlagNone},
	{"je", Code(GroupFlow, 5), IFlagNone, FlagAll, FlagNone}, // je == jz
	{"jne", Code(GroupFlow, 6), IFlagNone, FlagAll, FlagNone}, // jne == jnz
	{"jl", Code(GroupFlow, 7), IFlagNone, FlagAll, FlagNone},
	{"jle", Code(GroupFlow, 8), IFlagNone, FlagAll, FlagNone},
	{"jg", Code(GroupFlow, 9), IFlagNone, FlagAll, FlagNone},
	{"jge", Code(GroupFlow, 10), IFlagNone, FlagAll, FlagNone},

	// ARITH group
	{"uadd", Code(GroupArith, 1), IFlagNone, FlagNone, FlagNone},
	{"usub", Code(GroupArith, 2), IFlagNone, FlagNone, FlagNone},
	{"umul", Code(GroupArith, 3), IFlagNone, FlagNone, FlagNone},
	{"udiv", Code(GroupArith, 4), IFlagNone, FlagNone, FlagNone},
	{"uand", Code(GroupArith, 5), IFlagNone, FlagNone, FlagNone},
	{"uor", Code(GroupArith, 6), IFlagNone, FlagNone, FlagNone},
	{"uxor", Code(GroupArith, 7), IFlagNone, FlagNone, FlagNone},
	{"ucmp", Code(GroupArith, 8), IFlagNone, FlagNone, FlagNone},
	{"iadd", Code(GroupArith, 9), IFlagNone, FlagNone, FlagNone},
	{"isub", Code(GroupArith, 10), IFlagNone, FlagNone, FlagNone},
	{"imul", Code(GroupArith, 11), IFlagNone, FlagNone, FlagNone},
	{"idiv", Code(GroupArith, 12), IFlagNone, FlagNone, FlagNone},
	{"icmp", Code(GroupArith, 13), IFlagNone, FlagNone, FlagNone},
	{"fadd", Code(GroupArith, 14), IFlagNone, FlagNone, FlagNone},
	{"fsub", Code(GroupArith, 15), IFlagNone, FlagNone, FlagNone},
	{"fmul", Code(GroupArith, 16), IFlagNone, FlagNone, FlagNone},
	{"fdiv", Code(GroupArith, 17), IFlagNone, FlagNone, FlagNone},
	{"fcmp", Code(GroupArith, 18), IFlagNone, FlagNone, FlagNone},
}

var byMnemonic = make(map[string]*Descriptor, len(table))
var byIcode = make(map[uint16]*Descriptor, len(table))

func init() {
	for i := range table {
		d := &table[i]
		byMnemonic[d.Mnemonic] = d
		// je/jne alias jz/jnz; keep the first (canonical) descriptor per
		// icode for disassembly purposes.
		if _, ok := byIcode[d.Icode]; !ok {
			byIcode[d.Icode] = d
		}
	}
}

// Lookup resolves a mnemonic (case-insensitive) to its descriptor.
func Lookup(mnemonic string) (*Descriptor, bool) {
	d, ok := byMnemonic[strings.ToLower(mnemonic)]
	return d, ok
}

// ByIcode resolves an instruction code to its canonical descriptor, for
// disassembly. Aliases (je/jne) resolve to their canonical mnemonic (jz/jnz).
func ByIcode(icode uint16) (*Descriptor, bool) {
	d, ok := byIcode[icode]
	return d, ok
}
