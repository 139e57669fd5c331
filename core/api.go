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

// Push pushes a word onto the data stack. It is exported for the benefit
// of HatchFunc implementations (host callbacks), which otherwise only
// observe the Core through its registers and memory.
func (c *Core) Push(w isa.Word) error { return c.push(w) }

// Pop pops a word off the data stack.
func (c *Core) Pop() (isa.Word, error) { return c.pop() }

// SetRV sets the RV (return value) register, the calling convention's
// channel for a hatch's result back to the calling module.
func (c *Core) SetRV(w isa.Word) { c.Regs[isa.RV] = w }

// RV reads the RV register.
func (c *Core) RV() isa.Word { return c.Regs[isa.RV] }

// ReadMem reads one word at a raw memory address.
func (c *Core) ReadMem(addr int) (isa.Word, error) {
	if addr < 0 || addr >= len(c.Mem) {
		return 0, c.fault("memory read out of bounds at address %d", addr)
	}
	return c.Mem[addr], nil
}

// WriteMem writes one word at a raw memory address.
func (c *Core) WriteMem(addr int, w isa.Word) error {
	if addr < 0 || addr >= len(c.Mem) {
		return c.fault("memory write out of bounds at address %d", addr)
	}
	c.Mem[addr] = w
	return nil
}
