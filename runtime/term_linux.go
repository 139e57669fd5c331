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
	"syscall"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
)

// SetRawMode switches fd (normally 0, stdin) to raw, unbuffered,
// unechoed input so getc observes keystrokes as they arrive rather than
// after a line is submitted. The returned func restores the prior mode.
func SetRawMode(fd int) (func(), error) {
	var tios syscall.Termios
	if err := termios.Tcgetattr(uintptr(fd), &tios); err != nil {
		return nil, errors.Wrap(err, "Tcgetattr failed")
	}
	raw := tios
	raw.Iflag &^= syscall.BRKINT | syscall.ISTRIP | syscall.IXON | syscall.IXOFF
	raw.Iflag |= syscall.IGNBRK | syscall.IGNPAR
	raw.Lflag &^= syscall.ICANON | syscall.ISIG | syscall.IEXTEN | syscall.ECHO
	raw.Cc[syscall.VMIN] = 1
	raw.Cc[syscall.VTIME] = 0
	if err := termios.Tcsetattr(uintptr(fd), termios.TCSANOW, &raw); err != nil {
		termios.Tcsetattr(uintptr(fd), termios.TCSANOW, &tios)
		return nil, errors.Wrap(err, "Tcsetattr failed")
	}
	return func() {
		termios.Tcsetattr(uintptr(fd), termios.TCSANOW, &tios)
	}, nil
}
