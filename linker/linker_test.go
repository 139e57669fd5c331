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

package linker_test

import (
	"strings"
	"testing"

	"github.com/monti-tls/bolt/asm"
	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/linker"
	"github.com/monti-tls/bolt/module"
)

func mustAssemble(t *testing.T, name, src string) *module.Module {
	t.Helper()
	m, err := asm.Assemble(name, strings.NewReader(src))
	if err != nil {
		t.Fatalf("assembling %s: %v", name, err)
	}
	return m
}

func TestLinkMinimalHalt(t *testing.T) {
	m := mustAssemble(t, "main", `
.entry start
start:
  halt
`)
	img, err := linker.Link([]*module.Module{m})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(img.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(img.Segments))
	}
	if img.StackSize != linker.DefaultStackSize || img.HeapSize != linker.DefaultHeapSize {
		t.Fatal("expected default stack/heap sizes")
	}
	if img.Base != 0 {
		t.Fatalf("base = %d, want 0", img.Base)
	}
}

func TestLinkResolvesCrossModuleCall(t *testing.T) {
	main := mustAssemble(t, "main", `
.extern fact
.entry start
start:
  push #5
  call fact
  halt
`)
	factMod := mustAssemble(t, "fact", `
.global fact
fact:
  ret
`)
	img, err := linker.Link([]*module.Module{main, factMod})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(img.Segments) != 2 {
		t.Fatalf("segments = %d, want 2 (both modules reachable)", len(img.Segments))
	}
	if img.Base != 0 {
		t.Fatalf("base = %d, want 0 (main inserted first)", img.Base)
	}

	// main is: push #5 (2 words), call fact (opcode + segSlot + locSlot =
	// 3 words), halt (1 word). The relocation's segSlot/locSlot sit at
	// offsets 3 and 4 and must have been patched to point at fact's
	// segment (id 1) and the fact symbol's offset (0).
	mainCode := img.Segments[img.Base].Code
	if got := mainCode[3]; got != 1 {
		t.Fatalf("relocated segment id = %d, want 1", got)
	}
	if got := mainCode[4]; got != 0 {
		t.Fatalf("relocated location = %d, want 0", got)
	}
}

func TestLinkDropsUnreachableModule(t *testing.T) {
	main := mustAssemble(t, "main", `
.entry start
start:
  halt
`)
	unused := mustAssemble(t, "unused", `
.global neverCalled
neverCalled:
  ret
`)
	img, err := linker.Link([]*module.Module{main, unused})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(img.Segments) != 1 {
		t.Fatalf("segments = %d, want 1 (unused module dropped)", len(img.Segments))
	}
}

func TestLinkUnresolvedSymbolIsError(t *testing.T) {
	main := mustAssemble(t, "main", `
.extern missing
.entry start
start:
  call missing
  halt
`)
	_, err := linker.Link([]*module.Module{main})
	if err == nil {
		t.Fatal("expected an unresolved-symbol error")
	}
}

func TestLinkMultiplyDefinedSymbolIsError(t *testing.T) {
	a := mustAssemble(t, "a", `
.global shared
shared:
  ret
`)
	b := mustAssemble(t, "b", `
.global shared
shared:
  ret
`)
	main := mustAssemble(t, "main", `
.extern shared
.entry start
start:
  call shared
  halt
`)
	_, err := linker.Link([]*module.Module{main, a, b})
	if err == nil {
		t.Fatal("expected a multiply-defined-symbol error")
	}
}

func TestLinkNoEntryIsError(t *testing.T) {
	m := mustAssemble(t, "lib", `
.global helper
helper:
  ret
`)
	_, err := linker.Link([]*module.Module{m})
	if err == nil {
		t.Fatal("expected a no-entry-point error")
	}
}

func TestLinkMultipleEntryIsError(t *testing.T) {
	a := mustAssemble(t, "a", `
.entry start
start:
  halt
`)
	b := mustAssemble(t, "b", `
.entry start
start:
  halt
`)
	_, err := linker.Link([]*module.Module{a, b})
	if err == nil {
		t.Fatal("expected a multiple-entry-point error")
	}
}

func TestLinkUnknownHatchIsError(t *testing.T) {
	main := mustAssemble(t, "main", `
.entry start
start:
  dive nosuchhatch
  halt
`)
	_, err := linker.Link([]*module.Module{main})
	if err == nil {
		t.Fatal("expected an unknown-hatch error")
	}
}

func TestLinkBindsHatchByName(t *testing.T) {
	main := mustAssemble(t, "main", `
.entry start
start:
  dive puti
  halt
`)
	called := false
	img, err := linker.Link([]*module.Module{main}, linker.Bind("puti", func(c *core.Core) error {
		called = true
		return nil
	}))
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(img.Hatches) != 1 || img.Hatches[0].Name != "puti" {
		t.Fatalf("unexpected hatch table: %+v", img.Hatches)
	}
	c := core.New(img)
	c.Reset()
	if err := c.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !called {
		t.Fatal("expected the bound hatch to have been invoked")
	}
}

func TestLinkCustomStackAndHeapSize(t *testing.T) {
	m := mustAssemble(t, "main", `
.entry start
start:
  halt
`)
	img, err := linker.Link([]*module.Module{m}, linker.StackSize(256), linker.HeapSize(512))
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if img.StackSize != 256 || img.HeapSize != 512 {
		t.Fatalf("got stack=%d heap=%d, want 256/512", img.StackSize, img.HeapSize)
	}
}
