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

import (
	"math"

	"github.com/monti-tls/bolt/debug"
	"github.com/monti-tls/bolt/isa"
)

// Step fetches, decodes and executes a single instruction.
func (c *Core) Step() error {
	w, err := c.fetchWord()
	if err != nil {
		return err
	}
	c.Regs[isa.IR] = isa.Word(w)
	in := isa.Decode(w)

	a, err := c.resolveOperand(in.A)
	if err != nil {
		return err
	}
	b, err := c.resolveOperand(in.B)
	if err != nil {
		return err
	}

	switch in.Group() {
	case isa.GroupSys:
		return c.execSys(in.Icode, a, b)
	case isa.GroupMem:
		return c.execMem(in.Icode, a, b)
	case isa.GroupFlow:
		return c.execFlow(in.Icode, a, b)
	case isa.GroupArith:
		return c.execArith(in.Icode)
	default:
		return c.fault("unknown instruction group %d", in.Group())
	}
}

func (c *Core) execSys(icode uint16, a, b operandRef) error {
	switch icode {
	case isa.Code(isa.GroupSys, 1): // halt
		c.halted = true
		return nil
	case isa.Code(isa.GroupSys, 2): // rst
		c.Reset()
		return nil
	case isa.Code(isa.GroupSys, 3): // dms: dump the stack
		if c.diag == nil {
			return nil
		}
		if err := debug.DumpStack(c.diag, c.Mem, int(c.Regs[isa.SP])); err != nil {
			return c.fault("dms: %v", err)
		}
		return nil
	case isa.Code(isa.GroupSys, 4): // dmr: dump the register bank
		if c.diag == nil {
			return nil
		}
		if err := debug.DumpRegisters(c.diag, c.Regs); err != nil {
			return c.fault("dmr: %v", err)
		}
		return nil
	case isa.Code(isa.GroupSys, 5): // dmo: dump a single operand
		if c.diag == nil {
			return nil
		}
		v, err := c.load(a)
		if err != nil {
			return err
		}
		if err := debug.DumpOperand(c.diag, v); err != nil {
			return c.fault("dmo: %v", err)
		}
		return nil
	default:
		return c.fault("unknown sys instruction %#x", icode)
	}
}

func (c *Core) execMem(icode uint16, a, b operandRef) error {
	switch icode {
	case isa.Code(isa.GroupMem, 1): // push
		v, err := c.load(a)
		if err != nil {
			return err
		}
		return c.push(v)
	case isa.Code(isa.GroupMem, 2): // pop
		v, err := c.pop()
		if err != nil {
			return err
		}
		if a.kind != isa.KindNone || a.indirect {
			return c.store(a, v)
		}
		return nil
	case isa.Code(isa.GroupMem, 3): // dup
		sp := int(c.Regs[isa.SP])
		if sp <= 0 {
			return c.fault("dup on empty stack")
		}
		return c.push(c.Mem[sp-1])
	case isa.Code(isa.GroupMem, 4): // mov: *A <- *B
		v, err := c.load(b)
		if err != nil {
			return err
		}
		return c.store(a, v)
	case isa.Code(isa.GroupMem, 5): // load
		addr, err := c.pop()
		if err != nil {
			return err
		}
		if int(addr) < 0 || int(addr) >= len(c.Mem) {
			return c.fault("load address %d out of bounds", addr)
		}
		return c.push(c.Mem[addr])
	case isa.Code(isa.GroupMem, 6): // stor
		addr, err := c.pop()
		if err != nil {
			return err
		}
		v, err := c.pop()
		if err != nil {
			return err
		}
		if int(addr) < 0 || int(addr) >= len(c.Mem) {
			return c.fault("store address %d out of bounds", addr)
		}
		c.Mem[addr] = v
		return nil
	case isa.Code(isa.GroupMem, 7): // cst: push segments[segB].buffer[addrA]
		return c.execCst(a, b)
	default:
		return c.fault("unknown mem instruction %#x", icode)
	}
}

// execCst implements CST: push segments[segB].buffer[addrA], where addrA
// falls back to a stack pop when A is absent and segB falls back to the
// current SEG register when B is absent (spec §4.6; mirrors
// original_source/src/vm_core.cpp's I_CODE_LOAD).
func (c *Core) execCst(a, b operandRef) error {
	var addr isa.Word
	if a.kind != isa.KindNone || a.indirect {
		v, err := c.load(a)
		if err != nil {
			return err
		}
		addr = v
	} else {
		v, err := c.pop()
		if err != nil {
			return err
		}
		addr = v
	}

	seg := c.Regs[isa.SEG]
	if b.kind != isa.KindNone || b.indirect {
		v, err := c.load(b)
		if err != nil {
			return err
		}
		seg = v
	}

	if int(seg) < 0 || int(seg) >= len(c.img.Segments) {
		return c.fault("cst: segment %d out of bounds", seg)
	}
	code := c.img.Segments[seg].Code
	if int(addr) < 0 || int(addr) >= len(code) {
		return c.fault("cst: program address %d out of bounds in segment %d", addr, seg)
	}
	return c.push(code[addr])
}

// callFrameRegs is the set of registers saved/restored by CALL/RET, in
// save order (resolved Open Question: 10 general registers + AB + PSR +
// PC + SEG = a 14-word frame).
var callFrameRegs = func() []isa.Register {
	regs := make([]isa.Register, 0, len(isa.GeneralRegisters)+4)
	regs = append(regs, isa.GeneralRegisters[:]...)
	regs = append(regs, isa.AB, isa.PSR, isa.PC, isa.SEG)
	return regs
}()

func (c *Core) execFlow(icode uint16, a, b operandRef) error {
	switch icode {
	case isa.Code(isa.GroupFlow, 1): // call
		return c.execCall(a, b)
	case isa.Code(isa.GroupFlow, 2): // ret
		return c.execRet()
	case isa.Code(isa.GroupFlow, 3): // dive
		return c.execDive(a)
	case isa.Code(isa.GroupFlow, 4): // jmp
		if a.kind == isa.KindNone && !a.indirect {
			return c.fault("jmp: missing target operand")
		}
		target, err := c.load(a)
		if err != nil {
			return err
		}
		c.Regs[isa.PC] = target
		return nil
	case isa.Code(isa.GroupFlow, 5), // jz/je
		isa.Code(isa.GroupFlow, 6),  // jnz/jne
		isa.Code(isa.GroupFlow, 7),  // jl
		isa.Code(isa.GroupFlow, 8),  // jle
		isa.Code(isa.GroupFlow, 9),  // jg
		isa.Code(isa.GroupFlow, 10): // jge
		if a.kind == isa.KindNone && !a.indirect {
			d, _ := isa.ByIcode(icode)
			return c.fault("%s: missing target operand", d.Mnemonic)
		}
		return c.execCondJump(icode, a)
	default:
		return c.fault("unknown flow instruction %#x", icode)
	}
}

func (c *Core) execCall(a, b operandRef) error {
	var targetSeg, targetPC isa.Word
	if a.kind == isa.KindImm && b.kind == isa.KindImm {
		// Long form: A is the segment id, B the in-segment location, both
		// solved by the linker from a cross-module relocation.
		targetSeg, targetPC = a.imm, b.imm
	} else {
		v, err := c.load(a)
		if err != nil {
			return err
		}
		targetSeg, targetPC = c.Regs[isa.SEG], v
	}

	ab := c.Regs[isa.SP] - 1
	for _, r := range callFrameRegs {
		if err := c.push(c.Regs[r]); err != nil {
			return err
		}
	}
	c.Regs[isa.AB] = ab
	c.Regs[isa.SEG] = targetSeg
	c.Regs[isa.PC] = targetPC
	return nil
}

func (c *Core) execRet() error {
	for i := len(callFrameRegs) - 1; i >= 0; i-- {
		v, err := c.pop()
		if err != nil {
			return err
		}
		c.Regs[callFrameRegs[i]] = v
	}
	return nil
}

func (c *Core) execDive(a operandRef) error {
	v, err := c.load(a)
	if err != nil {
		return err
	}
	id := int(v)
	if id < 0 || id >= len(c.img.Hatches) {
		return c.fault("hatch id %d out of bounds", id)
	}
	return c.img.Hatches[id].Fn(c)
}

func (c *Core) execCondJump(icode uint16, a operandRef) error {
	z := c.Regs[isa.PSR]&flagZero != 0
	n := c.Regs[isa.PSR]&flagNegative != 0
	var take bool
	switch icode {
	case isa.Code(isa.GroupFlow, 5): // jz/je
		take = z
	case isa.Code(isa.GroupFlow, 6): // jnz/jne
		take = !z
	case isa.Code(isa.GroupFlow, 7): // jl
		take = n
	case isa.Code(isa.GroupFlow, 8): // jle
		take = n || z
	case isa.Code(isa.GroupFlow, 9): // jg
		take = !n && !z
	case isa.Code(isa.GroupFlow, 10): // jge
		take = !n
	}
	// Condition flags are single-shot: every conditional branch clears
	// them after testing, taken or not.
	c.Regs[isa.PSR] &^= flagZero | flagNegative
	if !take {
		return nil
	}
	target, err := c.load(a)
	if err != nil {
		return err
	}
	c.Regs[isa.PC] = target
	return nil
}

func (c *Core) setCmpFlags(neg, zero bool) {
	var psr isa.Word
	if zero {
		psr |= flagZero
	}
	if neg {
		psr |= flagNegative
	}
	c.Regs[isa.PSR] = psr
}

func (c *Core) execArith(icode uint16) error {
	switch icode {
	case isa.Code(isa.GroupArith, 1): // uadd
		return c.binaryU(func(x, y uint32) uint32 { return x + y })
	case isa.Code(isa.GroupArith, 2): // usub
		return c.binaryU(func(x, y uint32) uint32 { return x - y })
	case isa.Code(isa.GroupArith, 3): // umul
		return c.binaryU(func(x, y uint32) uint32 { return x * y })
	case isa.Code(isa.GroupArith, 4): // udiv
		return c.binaryUErr(func(x, y uint32) (uint32, error) {
			if y == 0 {
				return 0, c.fault("division by zero")
			}
			return x / y, nil
		})
	case isa.Code(isa.GroupArith, 5): // uand
		return c.binaryU(func(x, y uint32) uint32 { return x & y })
	case isa.Code(isa.GroupArith, 6): // uor
		return c.binaryU(func(x, y uint32) uint32 { return x | y })
	case isa.Code(isa.GroupArith, 7): // uxor
		return c.binaryU(func(x, y uint32) uint32 { return x ^ y })
	case isa.Code(isa.GroupArith, 8): // ucmp
		return c.cmpU()
	case isa.Code(isa.GroupArith, 9): // iadd
		return c.binaryI(func(x, y int32) int32 { return x + y })
	case isa.Code(isa.GroupArith, 10): // isub
		return c.binaryI(func(x, y int32) int32 { return x - y })
	case isa.Code(isa.GroupArith, 11): // imul
		return c.binaryI(func(x, y int32) int32 { return x * y })
	case isa.Code(isa.GroupArith, 12): // idiv
		return c.binaryIErr(func(x, y int32) (int32, error) {
			if y == 0 {
				return 0, c.fault("division by zero")
			}
			return x / y, nil
		})
	case isa.Code(isa.GroupArith, 13): // icmp
		return c.cmpI()
	case isa.Code(isa.GroupArith, 14): // fadd
		return c.binaryF(func(x, y float32) float32 { return x + y })
	case isa.Code(isa.GroupArith, 15): // fsub
		return c.binaryF(func(x, y float32) float32 { return x - y })
	case isa.Code(isa.GroupArith, 16): // fmul
		return c.binaryF(func(x, y float32) float32 { return x * y })
	case isa.Code(isa.GroupArith, 17): // fdiv
		return c.binaryFErr(func(x, y float32) (float32, error) {
			if y == 0 {
				return 0, c.fault("division by zero")
			}
			return x / y, nil
		})
	case isa.Code(isa.GroupArith, 18): // fcmp
		return c.cmpF()
	default:
		return c.fault("unknown arith instruction %#x", icode)
	}
}

// The ARITH group operates entirely on the stack: pop B then A, compute,
// push the result (so `push a; push b; OP` reads as `a OP b`).
func (c *Core) popPair() (a, b isa.Word, err error) {
	b, err = c.pop()
	if err != nil {
		return
	}
	a, err = c.pop()
	return
}

func (c *Core) binaryU(f func(x, y uint32) uint32) error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	return c.push(isa.Word(f(uint32(a), uint32(b))))
}

func (c *Core) binaryUErr(f func(x, y uint32) (uint32, error)) error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	r, err := f(uint32(a), uint32(b))
	if err != nil {
		return err
	}
	return c.push(isa.Word(r))
}

func (c *Core) binaryI(f func(x, y int32) int32) error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	return c.push(isa.Word(uint32(f(int32(a), int32(b)))))
}

func (c *Core) binaryIErr(f func(x, y int32) (int32, error)) error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	r, err := f(int32(a), int32(b))
	if err != nil {
		return err
	}
	return c.push(isa.Word(uint32(r)))
}

func (c *Core) binaryF(f func(x, y float32) float32) error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	r := f(math.Float32frombits(uint32(a)), math.Float32frombits(uint32(b)))
	return c.push(isa.Word(math.Float32bits(r)))
}

func (c *Core) binaryFErr(f func(x, y float32) (float32, error)) error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	r, err := f(math.Float32frombits(uint32(a)), math.Float32frombits(uint32(b)))
	if err != nil {
		return err
	}
	return c.push(isa.Word(math.Float32bits(r)))
}

func (c *Core) cmpU() error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	c.setCmpFlags(a < b, a == b)
	return nil
}

func (c *Core) cmpI() error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	x, y := int32(a), int32(b)
	c.setCmpFlags(x < y, x == y)
	return nil
}

func (c *Core) cmpF() error {
	a, b, err := c.popPair()
	if err != nil {
		return err
	}
	x, y := math.Float32frombits(uint32(a)), math.Float32frombits(uint32(b))
	c.setCmpFlags(x < y, x == y)
	return nil
}
