// This file is part of cythan - https://github.com/db47h/cythan
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
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
	"fmt"
	"os"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/internal/ngi"
)

// runCmd implements `run <source> [base]`: compile and run interactively on
// standard I/O (spec.md 6).
func runCmd(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "usage: cythan run <source> [base]")
		os.Exit(2)
	}
	base := parseBaseArg(args, 1)

	res, err := compileSource(args[0], base)
	if err != nil {
		reportCompileError(err)
	}

	tearDown, err := setRawIO()
	if err != nil {
		reportCompileError(err)
	}
	defer tearDown()

	out := bufio.NewWriter(os.Stdout)
	ew := ngi.NewErrWriter(out)
	defer out.Flush()

	regs := &ioRegisters{in: bufio.NewReader(os.Stdin), out: ew}
	vm, err := asm.NewAsmVM(res.asmProg, base, regs)
	if err != nil {
		out.Flush()
		reportCompileError(err)
	}
	runErr := vm.Run(0)
	out.Flush()
	if runErr != nil {
		reportCompileError(runErr)
	}
	if ew.Err != nil {
		reportCompileError(ew.Err)
	}
	if regs.exited {
		os.Exit(int(regs.exitCode))
	}
}
