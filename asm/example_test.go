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

package asm_test

import (
	"fmt"
	"strings"

	"github.com/monti-tls/bolt/asm"
)

func ExampleAssemble() {
	const src = `
.entry main
main:
  push #1
  push #2
  uadd
  pop %rv
  halt
`
	m, err := asm.Assemble("example", strings.NewReader(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.HasEntry, m.Entry, len(m.Segment))
	// Output:
	// true 0 7
}

func ExampleAssemble_externAndHatch() {
	const src = `
.extern fact
.entry main
main:
  push #5
  call fact
  dive puti
  halt
`
	m, err := asm.Assemble("example", strings.NewReader(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(len(m.Relocations["fact"]), len(m.HatchReferences["puti"].LocSlots))
	// Output:
	// 1 1
}
