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

// Command bolt assembles, links and runs Bolt assembly source files.
//
// Usage:
//
//	bolt [flags] file...
//
// Each positional argument is assembled into its own module; all modules
// are then linked into a single image (unless -a stops the pipeline
// early) and, unless -l also stops it, run to completion.
package main
