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

// Package runtime exposes host functionality to Bolt programs as linker
// hatches. Wrap turns an ordinary Go function into a core.HatchFunc by
// marshalling arguments off the VM stack with reflect; StandardLibrary
// binds the fixed set of host functions every Bolt program links against
// by default (putc, puti, putf, puts, getc, and the math wrappers).
package runtime
