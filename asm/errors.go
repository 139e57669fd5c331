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

package asm

import (
	"fmt"

	"github.com/monti-tls/bolt/lexer"
	"github.com/pkg/errors"
)

// Error is a single parse-time failure, carrying the source position at
// which the offending token or construct starts. Assembly aborts on the
// first Error: Bolt's error model has no recovery (section 7). It wraps
// an underlying *errors.fundamental (from github.com/pkg/errors) so that
// callers using errors.Cause/%+v still get a stack trace to the point the
// parse error was raised.
type Error struct {
	Pos lexer.Position
	Msg string
	err error
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

func (e *Error) Cause() error { return e.err }
func (e *Error) Unwrap() error { return e.err }

func errorf(pos lexer.Position, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Pos: pos, Msg: msg, err: errors.New(msg)}
}
