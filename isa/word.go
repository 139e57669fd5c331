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

// Package isa provides the static instruction set and register tables
// shared by the assembler and the virtual core, plus the bit-exact codec
// for Bolt's 32-bit instruction word.
//
// The tables here are immutable, process-wide data: they are built once in
// package init() and never mutated afterwards, so a *Descriptor or register
// code returned by this package is safe to share across assembler and core
// instances.
package isa

// Word is the atomic unit of both code and data in a Bolt program: a 32-bit
// word, used uniformly for opcodes, immediate operands, offsets and data.
type Word uint32
