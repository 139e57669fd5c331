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

package runtime

import (
	"math"
	"reflect"

	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/isa"
	"github.com/pkg/errors"
)

// Wrap turns fn into a core.HatchFunc by marshalling its arguments off the
// VM stack and its (optional) single return value into RV. fn's
// parameters and result must each be int, int32, int64, float32 or
// float64 — the set of shapes the standard host library actually uses;
// anything else makes Wrap itself panic rather than the hatch at call time, since a bad
// signature is a programming error, not a runtime condition.
//
// Arguments are popped in reverse (the calling convention pushes them
// left to right, so the rightmost parameter is on top of the stack) and
// every popped Word is reinterpreted per its Go parameter type: integers
// as a plain 32-bit value, floats as IEEE-754 single precision bits
// widened to float64 for the call.
func Wrap(fn interface{}) core.HatchFunc {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		panic("runtime.Wrap: not a function")
	}
	for i := 0; i < t.NumIn(); i++ {
		checkMarshallable(t.In(i))
	}
	if t.NumOut() > 1 {
		panic("runtime.Wrap: at most one return value is supported")
	}
	if t.NumOut() == 1 {
		checkMarshallable(t.Out(0))
	}

	return func(c *core.Core) error {
		args := make([]reflect.Value, t.NumIn())
		for i := t.NumIn() - 1; i >= 0; i-- {
			w, err := c.Pop()
			if err != nil {
				return err
			}
			args[i] = wordToValue(w, t.In(i))
		}
		results := v.Call(args)
		if len(results) == 1 {
			c.SetRV(valueToWord(results[0]))
		}
		return nil
	}
}

func checkMarshallable(t reflect.Type) {
	switch t.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float32, reflect.Float64:
		return
	default:
		panic(errors.Errorf("runtime.Wrap: unsupported type %s", t))
	}
}

func wordToValue(w isa.Word, t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		f := float64(math.Float32frombits(uint32(w)))
		return reflect.ValueOf(f).Convert(t)
	default:
		n := int64(int32(w))
		return reflect.ValueOf(n).Convert(t)
	}
}

func valueToWord(v reflect.Value) isa.Word {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return isa.Word(math.Float32bits(float32(v.Float())))
	default:
		return isa.Word(uint32(v.Int()))
	}
}
