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

import "github.com/monti-tls/bolt/core"

// Default stack/heap sizes (in words) used when no StackSize/HeapSize
// Option is supplied.
const (
	DefaultStackSize = 1024
	DefaultHeapSize  = 1024
)

// Option configures a Link call. The functional-options pattern mirrors
// how the virtual core itself is configured (see core.Option) so that
// both construction sites in this toolchain read the same way.
type Option func(*config) error

type config struct {
	stackSize int
	heapSize  int
	hatches   []core.Hatch
	hatchIdx  map[string]int
}

func newConfig() *config {
	return &config{
		stackSize: DefaultStackSize,
		heapSize:  DefaultHeapSize,
		hatchIdx:  make(map[string]int),
	}
}

// StackSize overrides the linked image's stack size, in words.
func StackSize(words int) Option {
	return func(c *config) error {
		if words <= 0 {
			return errInvalidSize("stack", words)
		}
		c.stackSize = words
		return nil
	}
}

// HeapSize overrides the linked image's heap size, in words.
func HeapSize(words int) Option {
	return func(c *config) error {
		if words <= 0 {
			return errInvalidSize("heap", words)
		}
		c.heapSize = words
		return nil
	}
}

// Bind registers a host hatch under name. Modules referencing name via
// `dive name` resolve to this callback once linked; a hatch referenced by
// no module but bound here is simply unused, not an error.
func Bind(name string, fn core.HatchFunc) Option {
	return func(c *config) error {
		if _, ok := c.hatchIdx[name]; ok {
			return wrapf(ErrInvalidOption, "duplicate hatch binding %q", name)
		}
		c.hatchIdx[name] = len(c.hatches)
		c.hatches = append(c.hatches, core.Hatch{Name: name, Fn: fn})
		return nil
	}
}
