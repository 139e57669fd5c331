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

package debug_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/monti-tls/bolt/debug"
	"github.com/monti-tls/bolt/isa"
)

func TestDumpStackWritesLiveWordsOnly(t *testing.T) {
	var buf bytes.Buffer
	mem := []isa.Word{10, 20, 30, 99, 99}
	if err := debug.DumpStack(&buf, mem, 3); err != nil {
		t.Fatalf("DumpStack: %v", err)
	}
	want := "\x1C10 20 30\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestDumpStackClampsOutOfRangeSP(t *testing.T) {
	var buf bytes.Buffer
	mem := []isa.Word{1, 2}
	if err := debug.DumpStack(&buf, mem, 50); err != nil {
		t.Fatalf("DumpStack: %v", err)
	}
	want := "\x1C1 2\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestDumpRegistersWritesWholeBank(t *testing.T) {
	var buf bytes.Buffer
	var regs [isa.RegisterCount]isa.Word
	regs[isa.R0] = 7
	regs[isa.PC] = 3
	if err := debug.DumpRegisters(&buf, regs); err != nil {
		t.Fatalf("DumpRegisters: %v", err)
	}
	if buf.Len() == 0 || buf.String()[0] != '\x1D' {
		t.Fatalf("expected register dump to start with the register marker, got %q", buf.String())
	}
}

func TestDumpOperandWritesSingleValue(t *testing.T) {
	var buf bytes.Buffer
	if err := debug.DumpOperand(&buf, isa.Word(42)); err != nil {
		t.Fatalf("DumpOperand: %v", err)
	}
	want := "\x1E42\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("boom") }

func TestDumpPropagatesWriteErrors(t *testing.T) {
	if err := debug.DumpOperand(failingWriter{}, isa.Word(1)); err == nil {
		t.Fatal("expected a write error")
	}
}
