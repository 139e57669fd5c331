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

import (
	"fmt"

	"github.com/monti-tls/bolt/isa"
	"github.com/pkg/errors"
)

// RuntimeError is raised by a faulting instruction. It carries the
// execution context (segment and program counter) the fault occurred at,
// per section 7's RuntimeError taxonomy.
type RuntimeError struct {
	Segment int
	PC      int
	Msg     string
	err     error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at seg %d, pc %d: %s", e.Segment, e.PC, e.Msg)
}

func (e *RuntimeError) Cause() error  { return e.err }
func (e *RuntimeError) Unwrap() error { return e.err }

func newRuntimeError(c *Core, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return &RuntimeError{
		Segment: int(c.Regs[isa.SEG]),
		PC:      int(c.Regs[isa.PC]),
		Msg:     msg,
		err:     errors.New(msg),
	}
}
