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

package linker

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error kinds, per section 7's LinkError taxonomy. Use
// errors.Is against these to classify a Link failure; the returned error
// also carries the offending symbol/module name in its message.
var (
	ErrUnresolvedSymbol   = errors.New("linker: unresolved symbol")
	ErrMultipleDefinition = errors.New("linker: multiply-defined symbol")
	ErrUnknownHatch       = errors.New("linker: unknown hatch")
	ErrMultipleEntry      = errors.New("linker: multiple entry points")
	ErrNoEntry            = errors.New("linker: no entry point")
	ErrInvalidOption      = errors.New("linker: invalid option")
)

func wrapf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrapf(sentinel, format, args...)
}

func errInvalidSize(what string, n int) error {
	return wrapf(ErrInvalidOption, "%s", fmt.Sprintf("invalid %s size %d", what, n))
}
