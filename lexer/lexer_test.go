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

package lexer_test

import (
	"strings"
	"testing"

	"github.com/monti-tls/bolt/lexer"
)

func tokens(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l, err := lexer.New("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out []lexer.Token
	for {
		tok := l.Get()
		out = append(out, tok)
		if tok.Kind == lexer.EOF {
			return out
		}
	}
}

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, src string, want ...lexer.Kind) {
	t.Helper()
	got := kinds(tokens(t, src))
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d: got %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestDirectiveAndComment(t *testing.T) {
	assertKinds(t, ".entry main ; start here\n",
		lexer.DIRECTIVE, lexer.IDENTIFIER, lexer.NEWLINE, lexer.EOF)
}

func TestLabelRequiresNoSpaceBeforeColon(t *testing.T) {
	assertKinds(t, "loop:\n  jmp loop\n",
		lexer.LABEL, lexer.NEWLINE, lexer.IDENTIFIER, lexer.IDENTIFIER, lexer.NEWLINE, lexer.EOF)
}

func TestRegisterAndImmediate(t *testing.T) {
	toks := tokens(t, "mov %rv, #1\n")
	assertKinds(t, "mov %rv, #1\n",
		lexer.IDENTIFIER, lexer.REGISTER, lexer.COMMA, lexer.IMMEDIATE, lexer.NEWLINE, lexer.EOF)
	if toks[1].Text != "rv" {
		t.Fatalf("register text = %q, want rv", toks[1].Text)
	}
	if toks[3].Value != 1 {
		t.Fatalf("immediate value = %d, want 1", toks[3].Value)
	}
}

func TestBracketedOffsetOperand(t *testing.T) {
	toks := tokens(t, "push [%ab+-0]\n")
	assertKinds(t, "push [%ab+-0]\n",
		lexer.IDENTIFIER, lexer.LEFT_BRACKET, lexer.REGISTER, lexer.OFFSET, lexer.RIGHT_BRACKET, lexer.NEWLINE, lexer.EOF)
	if toks[3].Value != 0 {
		t.Fatalf("offset value = %d, want 0", toks[3].Value)
	}
}

func TestNegativeOffsetValue(t *testing.T) {
	toks := tokens(t, "[%ab+-8]\n")
	off := toks[2]
	if off.Kind != lexer.OFFSET {
		t.Fatalf("kind = %v, want OFFSET", off.Kind)
	}
	if int32(off.Value) != -8 {
		t.Fatalf("offset value = %d, want -8", int32(off.Value))
	}
}

func TestHexAndFloatImmediates(t *testing.T) {
	toks := tokens(t, "#x1A #f3.5\n")
	if toks[0].Kind != lexer.IMMEDIATE || toks[0].Value != 0x1A {
		t.Fatalf("hex immediate: %+v", toks[0])
	}
	if toks[1].Kind != lexer.IMMEDIATE || !toks[1].IsFloat {
		t.Fatalf("float immediate: %+v", toks[1])
	}
}

func TestUnsignedSuffix(t *testing.T) {
	toks := tokens(t, "#4000000000u\n")
	if toks[0].Kind != lexer.IMMEDIATE {
		t.Fatalf("expected IMMEDIATE, got %v (%s)", toks[0].Kind, toks[0].Text)
	}
	if toks[0].Value != 4000000000 {
		t.Fatalf("value = %d, want 4000000000", toks[0].Value)
	}
}

func TestDecimalOverflowIsError(t *testing.T) {
	toks := tokens(t, "#99999999999\n")
	if toks[0].Kind != lexer.BAD {
		t.Fatalf("expected BAD for overflowing literal, got %v", toks[0].Kind)
	}
}

func TestFloatNotAllowedInOffset(t *testing.T) {
	toks := tokens(t, "[%ab+f1.0]\n")
	if toks[2].Kind != lexer.BAD {
		t.Fatalf("expected BAD for float offset, got %v", toks[2].Kind)
	}
}

func TestStringEscapes(t *testing.T) {
	toks := tokens(t, "\"hello\\nworld\\\"!\"\n")
	if toks[0].Kind != lexer.STRING {
		t.Fatalf("kind = %v, want STRING", toks[0].Kind)
	}
	if toks[0].Text != "hello\nworld\"!" {
		t.Fatalf("text = %q", toks[0].Text)
	}
}

func TestUnterminatedStringIsBad(t *testing.T) {
	toks := tokens(t, "\"oops\n")
	if toks[0].Kind != lexer.BAD {
		t.Fatalf("expected BAD, got %v", toks[0].Kind)
	}
}

func TestIdentifierAllowsDashAndDollar(t *testing.T) {
	toks := tokens(t, "my-ident$2\n")
	if toks[0].Kind != lexer.IDENTIFIER || toks[0].Text != "my-ident$2" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestPositionTracking(t *testing.T) {
	toks := tokens(t, "a\nb\n")
	if toks[0].Position.Line != 1 || toks[0].Position.Column != 1 {
		t.Fatalf("first token position = %+v", toks[0].Position)
	}
	// toks: IDENTIFIER(a) NEWLINE IDENTIFIER(b) NEWLINE EOF
	if toks[2].Position.Line != 2 || toks[2].Position.Column != 1 {
		t.Fatalf("third token position = %+v", toks[2].Position)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l, err := lexer.New("test", strings.NewReader("halt\n"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if k := l.PeekKind(); k != lexer.IDENTIFIER {
		t.Fatalf("peek kind = %v", k)
	}
	if k := l.PeekKind(); k != lexer.IDENTIFIER {
		t.Fatalf("second peek kind = %v", k)
	}
	tok := l.Get()
	if tok.Kind != lexer.IDENTIFIER || tok.Text != "halt" {
		t.Fatalf("get = %+v", tok)
	}
}
