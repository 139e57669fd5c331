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

// Package debug formats the human-readable register/stack/operand dumps
// the DMS, DMR and DMO instructions emit to the diagnostic sink. It is a
// pure formatting layer: it operates on plain register/memory slices
// rather than a *core.Core, so that core can depend on it without the
// reverse import the instructions' own package would otherwise need.
package debug

import (
	"io"
	"strconv"

	"github.com/monti-tls/bolt/internal/diag"
	"github.com/monti-tls/bolt/isa"
)

func dumpWords(w io.Writer, prefix byte, words []isa.Word) error {
	ew := diag.NewErrWriter(w)
	b := make([]byte, 0, 16)
	b = append(b, prefix)
	for i, word := range words {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendUint(b, uint64(word), 10)
	}
	b = append(b, '\n')
	ew.Write(b)
	return ew.Err
}

// DumpRegisters writes the full register bank, one line prefixed '\x1D'
// (the register-dump marker), in isa.Register code order (R0..R9, IR,
// SEG, PC, SP, PSR, RV, AB, HB).
func DumpRegisters(w io.Writer, regs [isa.RegisterCount]isa.Word) error {
	return dumpWords(w, '\x1D', regs[:])
}

// DumpStack writes the live portion of the stack (mem[0:sp]), one line
// prefixed '\x1C' (the stack-dump marker).
func DumpStack(w io.Writer, mem []isa.Word, sp int) error {
	if sp < 0 {
		sp = 0
	}
	if sp > len(mem) {
		sp = len(mem)
	}
	return dumpWords(w, '\x1C', mem[:sp])
}

// DumpOperand writes a single resolved operand value, for the DMO
// instruction.
func DumpOperand(w io.Writer, v isa.Word) error {
	ew := diag.NewErrWriter(w)
	b := strconv.AppendUint([]byte{'\x1E'}, uint64(v), 10)
	b = append(b, '\n')
	ew.Write(b)
	return ew.Err
}
