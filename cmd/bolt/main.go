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

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/monti-tls/bolt/asm"
	"github.com/monti-tls/bolt/core"
	"github.com/monti-tls/bolt/linker"
	"github.com/monti-tls/bolt/module"
	"github.com/monti-tls/bolt/runtime"
	"github.com/pkg/errors"
)

var (
	help         bool
	noStdLib     bool
	assembleOnly bool
	linkOnly     bool
	debugFlag    bool
	statsFlag    bool
)

func init() {
	for _, name := range []string{"h", "help"} {
		flag.BoolVar(&help, name, false, "print usage and exit")
	}
	for _, name := range []string{"x", "no-std-lib"} {
		flag.BoolVar(&noStdLib, name, false, "do not expose the standard host library")
	}
	for _, name := range []string{"a", "assemble-only"} {
		flag.BoolVar(&assembleOnly, name, false, "stop after assembling every input")
	}
	for _, name := range []string{"l", "link-only"} {
		flag.BoolVar(&linkOnly, name, false, "stop after linking")
	}
	flag.BoolVar(&debugFlag, "debug", false, "print full wrapped-error stack traces")
	flag.BoolVar(&statsFlag, "stats", false, "print performance statistics upon exit")
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: bolt [flags] file...\n\n")
	flag.PrintDefaults()
}

// atExit mirrors the teacher's defer-based teardown/error-reporting path:
// a bare message by default, a full %+v stack trace under -debug, exit
// code 255 on any user-visible error per spec.md §6.
func atExit(err error) {
	if err == nil {
		return
	}
	if debugFlag {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
	os.Exit(255)
}

func assembleAll(paths []string) ([]*module.Module, error) {
	mods := make([]*module.Module, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", path)
		}
		m, err := asm.Assemble(path, f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "assembling %s", path)
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func linkAll(mods []*module.Module, stdout *bufio.Writer) (*core.Image, error) {
	var opts []linker.Option
	if !noStdLib {
		opts = append(opts, runtime.StandardLibrary(stdout, os.Stdin)...)
	}
	img, err := linker.Link(mods, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "linking")
	}
	return img, nil
}

func run(img *core.Image) error {
	c := core.New(img, core.Diag(os.Stderr))
	c.Reset()

	// Only bother with raw terminal IO when the standard library (and
	// hence getc) is actually linked in; a program that never reads a
	// character shouldn't pay for (or be surprised by) raw mode.
	if !noStdLib {
		if teardown, err := runtime.SetRawMode(int(os.Stdin.Fd())); err == nil {
			defer teardown()
		}
	}

	start := time.Now()
	err := c.Run()
	if statsFlag {
		elapsed := time.Since(start)
		fmt.Fprintf(os.Stderr, "ran in %v\n", elapsed)
	}
	return err
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if help {
		usage()
		os.Exit(0)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		usage()
		os.Exit(255)
	}

	var err error
	defer func() { atExit(err) }()

	var mods []*module.Module
	mods, err = assembleAll(paths)
	if err != nil || assembleOnly {
		return
	}

	stdout := bufio.NewWriter(os.Stdout)
	defer stdout.Flush()

	var img *core.Image
	img, err = linkAll(mods, stdout)
	if err != nil || linkOnly {
		return
	}

	err = run(img)
}
