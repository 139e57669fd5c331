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

package core

import "github.com/monti-tls/bolt/isa"

// DecodeString reads a NUL-terminated string out of the Core's memory
// starting at addr, one rune per word (the encoding `.data "..."` directives
// and the `puts` hatch both use). It stops at the first zero word; reaching
// the end of memory without one is an error.
func (c *Core) DecodeString(addr int) (string, error) {
	var runes []rune
	for a := addr; a < len(c.Mem); a++ {
		w := c.Mem[a]
		if w == 0 {
			return string(runes), nil
		}
		runes = append(runes, rune(w))
	}
	return "", c.fault("unterminated string at address %d", addr)
}

// EncodeString writes s as a NUL-terminated sequence of one-rune-per-word
// cells starting at addr, returning the address just past the terminator.
func (c *Core) EncodeString(addr int, s string) (int, error) {
	a := addr
	for _, r := range s {
		if a < 0 || a >= len(c.Mem) {
			return 0, c.fault("string write out of bounds at address %d", a)
		}
		c.Mem[a] = isa.Word(r)
		a++
	}
	if a >= len(c.Mem) {
		return 0, c.fault("string write out of bounds at address %d", a)
	}
	c.Mem[a] = 0
	return a + 1, nil
}
