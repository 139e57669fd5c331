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

package core_test

import (
	"fmt"

	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/isa"
)

// ExampleCore_Run assembles a tiny "push two words, add them, halt"
// program directly from isa-level primitives (bypassing the assembler)
// and runs it to completion.
func ExampleCore_Run() {
	none := isa.Operand{}
	immOp := isa.Operand{Kind: isa.KindImm}

	code := []isa.Word{
		isa.Encode(isa.Code(isa.GroupMem, 1), immOp, none), // push
		isa.Word(10),
		isa.Encode(isa.Code(isa.GroupMem, 1), immOp, none), // push
		isa.Word(32),
		isa.Encode(isa.Code(isa.GroupArith, 1), none, none), // uadd
		isa.Encode(isa.Code(isa.GroupSys, 1), none, none),   // halt
	}

	img := &core.Image{
		StackSize: 16,
		HeapSize:  16,
		Segments:  []core.Segment{{Code: code, Entry: 0}},
		Base:      0,
	}
	c := core.New(img)
	c.Reset()
	if err := c.Run(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(c.Mem[0])
	// Output:
	// 42
}
