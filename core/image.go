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

// Segment is an independently addressable program-memory region: the unit
// of linking granularity (one per used Module).
type Segment struct {
	Code  []isa.Word
	Entry int
}

// HatchFunc is a host-provided native callback, invoked by DIVE with this
// hatch's resolved id. It observes and mutates the Core freely (stack, RV)
// but must respect SP and the heap/stack split.
type HatchFunc func(c *Core) error

// Hatch pairs a host callback with the name it was registered under.
type Hatch struct {
	Name string
	Fn   HatchFunc
}

// Image is the linker's output: a fully resolved, ready-to-execute program.
// It carries no behavior of its own — New binds a Core to one.
type Image struct {
	StackSize int
	HeapSize  int
	Segments  []Segment
	Hatches   []Hatch
	Base      int // segment id execution begins in
}
