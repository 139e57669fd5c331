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

package runtime

import (
	"fmt"
	"io"
	"math"

	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/linker"
)

// StandardLibrary binds the fixed set of host functions every Bolt
// program links against by default: console I/O (putc, puti, putf, puts,
// getc) and the math wrappers (cos, sin, tan, acos, asin, atan, atan2,
// exp, log, log2, log10, pow, sqrt, ceil, floor, abs). out and in back
// the console hatches; getc reads in as it is and does not change the
// terminal mode itself (SetRawMode in term_*.go does that).
func StandardLibrary(out io.Writer, in io.Reader) []linker.Option {
	// A fixed slice, not a map: linker.Bind assigns each hatch the next
	// free id in binding order (spec.md §4.5 step 4), so the order here
	// must be deterministic rather than Go's randomized map iteration.
	hatches := []struct {
		name string
		fn   core.HatchFunc
	}{
		{"putc", Wrap(func(v int32) { fmt.Fprintf(out, "%c", rune(v)) })},
		{"puti", Wrap(func(v int32) { fmt.Fprintf(out, "%d", v) })},
		{"putf", Wrap(func(v float32) { fmt.Fprintf(out, "%g", v) })},
		{"puts", putsHatch(out)},
		{"getc", getcHatch(in)},

		{"cos", Wrap(math.Cos)},
		{"sin", Wrap(math.Sin)},
		{"tan", Wrap(math.Tan)},
		{"acos", Wrap(math.Acos)},
		{"asin", Wrap(math.Asin)},
		{"atan", Wrap(math.Atan)},
		{"atan2", Wrap(math.Atan2)},
		{"exp", Wrap(math.Exp)},
		{"log", Wrap(math.Log)},
		{"log2", Wrap(math.Log2)},
		{"log10", Wrap(math.Log10)},
		{"pow", Wrap(math.Pow)},
		{"sqrt", Wrap(math.Sqrt)},
		{"ceil", Wrap(math.Ceil)},
		{"floor", Wrap(math.Floor)},
		{"abs", Wrap(math.Abs)},
	}

	opts := make([]linker.Option, 0, len(hatches))
	for _, h := range hatches {
		opts = append(opts, linker.Bind(h.name, h.fn))
	}
	return opts
}

// putsHatch writes the NUL-terminated, one-rune-per-word string at the
// address on top of the stack. It cannot be expressed through Wrap: it
// needs direct access to Core memory, not just a marshalled scalar.
func putsHatch(out io.Writer) core.HatchFunc {
	return func(c *core.Core) error {
		addr, err := c.Pop()
		if err != nil {
			return err
		}
		s, err := c.DecodeString(int(addr))
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, s)
		return err
	}
}

// getcHatch reads one byte from in and returns it (or -1 on EOF/error) as
// RV. See SetRawMode for putting in into raw, unbuffered mode first.
func getcHatch(in io.Reader) core.HatchFunc {
	fn := func() int32 {
		var b [1]byte
		if _, err := in.Read(b[:]); err != nil {
			return -1
		}
		return int32(b[0])
	}
	return Wrap(fn)
}
