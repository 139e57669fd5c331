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

// Package asm implements Bolt's two-pass assembler.
//
// Assembly is a single pass over the lexer's token stream, threading a
// pendingTable that resolves label references against whichever point —
// before or after the reference — the label is actually bound at. Forward
// references (a label used before its defining "name:" line) queue a
// fix-up; the label's binding flushes the queue. A module with any label
// still queued when the token stream ends is rejected with an error
// listing the unresolved names.
//
// Directives (.entry, .global, .extern, .data) and instructions are
// handled as described in assembler.go; operand parsing follows the
// bracket/register/immediate/label grammar directly, and the CALL/DIVE
// "long"/"hatch" special forms are recognized before falling back to
// ordinary two-operand parsing.
//
// Example module:
//
//	.entry main
//	main:
//	  push #1
//	  push #2
//	  uadd
//	  pop %rv
//	  halt
package asm
