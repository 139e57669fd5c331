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

package runtime_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/monti-tls/bolt/asm"
	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/isa"
	"github.com/monti-tls/bolt/linker"
	"github.com/monti-tls/bolt/module"
	"github.com/monti-tls/bolt/runtime"
)

func modules(ms ...*module.Module) []*module.Module { return ms }

func newTestCore() *core.Core {
	img := &core.Image{StackSize: 16, HeapSize: 16, Segments: []core.Segment{{Code: nil, Entry: 0}}}
	c := core.New(img)
	c.Reset()
	return c
}

func TestWrapIntegerRoundTrip(t *testing.T) {
	c := newTestCore()
	if err := c.Push(isa.Word(uint32(int32(7)))); err != nil {
		t.Fatal(err)
	}
	fn := runtime.Wrap(func(v int32) int32 { return v * 2 })
	if err := fn(c); err != nil {
		t.Fatal(err)
	}
	if got := int32(c.RV()); got != 14 {
		t.Fatalf("RV = %d, want 14", got)
	}
}

func TestWrapFloatRoundTrip(t *testing.T) {
	c := newTestCore()
	c.Push(isa.Word(math.Float32bits(2)))
	c.Push(isa.Word(math.Float32bits(3)))
	fn := runtime.Wrap(math.Pow)
	if err := fn(c); err != nil {
		t.Fatal(err)
	}
	got := math.Float32frombits(uint32(c.RV()))
	if got != 8 {
		t.Fatalf("RV = %v, want 8", got)
	}
}

func mustLink(t *testing.T, src string, opts ...linker.Option) *core.Image {
	t.Helper()
	m, err := asm.Assemble("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	img, err := linker.Link(modules(m), opts...)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	return img
}

func TestPutsReadsMemoryAddress(t *testing.T) {
	var out bytes.Buffer
	// Writes "hi\0" into stack-region memory at 900-902 (below the
	// default 1024-word stack size), then dives puts with that address.
	// Far enough above the stack top that the pushes used to build it
	// never collide with the bytes being written.
	const src = `
.entry start
start:
  push #104
  push #900
  stor
  push #105
  push #901
  stor
  push #0
  push #902
  stor
  push #900
  dive puts
  halt
`
	img := mustLink(t, src, runtime.StandardLibrary(&out, strings.NewReader(""))...)
	c := core.New(img)
	c.Reset()
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "hi" {
		t.Fatalf("output = %q, want %q", out.String(), "hi")
	}
}

func TestGetcReadsOneByteAndPuti(t *testing.T) {
	var out bytes.Buffer
	const src = `
.entry start
start:
  dive getc
  push %rv
  dive puti
  halt
`
	img := mustLink(t, src, runtime.StandardLibrary(&out, strings.NewReader("A"))...)
	c := core.New(img)
	c.Reset()
	if err := c.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "65" {
		t.Fatalf("output = %q, want %q", out.String(), "65")
	}
}
