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

package lexer

import (
	"math"
	"strconv"
)

// numeric parses the 'numeric' production (decimal | hex | float) starting
// at the current rune. allowFloat is false when called from offset parsing,
// per spec section 4.1 ("floats not allowed here").
func (l *Lexer) numeric(allowFloat bool) (value uint32, isFloat bool, ok bool, msg string) {
	switch {
	case l.cur() == 'x' || l.cur() == 'X':
		l.advance()
		return l.hexLiteral()
	case l.cur() == 'f' || l.cur() == 'F':
		if !allowFloat {
			return 0, false, false, "float literals are not allowed in offsets"
		}
		l.advance()
		return l.floatLiteral()
	default:
		return l.decimalLiteral()
	}
}

func (l *Lexer) decimalLiteral() (value uint32, isFloat bool, ok bool, msg string) {
	neg := false
	if l.cur() == '-' {
		neg = true
		l.advance()
	}
	start := l.pos
	for isDigit(l.cur()) {
		l.advance()
	}
	if l.pos == start {
		return 0, false, false, "expected decimal digits"
	}
	digits := string(l.src[start:l.pos])
	unsigned := false
	if l.cur() == 'u' || l.cur() == 'U' {
		unsigned = true
		l.advance()
	}
	mag, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, false, false, "decimal literal out of range: " + digits
	}
	w, ok2 := wordFromMagnitude(mag, neg, unsigned)
	if !ok2 {
		return 0, false, false, "decimal literal out of range: " + digits
	}
	return w, false, true, ""
}

func (l *Lexer) hexLiteral() (value uint32, isFloat bool, ok bool, msg string) {
	neg := false
	if l.cur() == '-' {
		neg = true
		l.advance()
	}
	start := l.pos
	for isHexDigit(l.cur()) {
		l.advance()
	}
	if l.pos == start {
		return 0, false, false, "expected hexadecimal digits"
	}
	digits := string(l.src[start:l.pos])
	unsigned := false
	if l.cur() == 'u' || l.cur() == 'U' {
		unsigned = true
		l.advance()
	}
	mag, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, false, false, "hexadecimal literal out of range: " + digits
	}
	w, ok2 := wordFromMagnitude(mag, neg, unsigned)
	if !ok2 {
		return 0, false, false, "hexadecimal literal out of range: " + digits
	}
	return w, false, true, ""
}

func (l *Lexer) floatLiteral() (value uint32, isFloat bool, ok bool, msg string) {
	neg := false
	if l.cur() == '-' {
		neg = true
		l.advance()
	}
	start := l.pos
	for isDigit(l.cur()) {
		l.advance()
	}
	if l.pos == start {
		return 0, false, false, "expected float literal digits"
	}
	if l.cur() == '.' {
		l.advance()
		for isDigit(l.cur()) {
			l.advance()
		}
	}
	text := string(l.src[start:l.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, false, "malformed float literal: " + text
	}
	if neg {
		f = -f
	}
	return math.Float32bits(float32(f)), true, true, ""
}

// wordFromMagnitude folds a parsed unsigned magnitude and explicit sign into
// a 32-bit word, applying the overflow checks that section 9's resolved
// Open Question calls for (explicit error instead of silent wraparound).
func wordFromMagnitude(mag uint64, neg, unsigned bool) (uint32, bool) {
	if neg {
		if mag > 1<<31 {
			return 0, false
		}
		return uint32(uint64(uint32(0)) - mag), true
	}
	if unsigned {
		if mag > 0xFFFFFFFF {
			return 0, false
		}
		return uint32(mag), true
	}
	if mag > 0x7FFFFFFF {
		return 0, false
	}
	return uint32(mag), true
}
