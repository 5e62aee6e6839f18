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
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/mir"
	"github.com/db47h/cythan/tape"
)

// buildExecStepLimit caps how many AsmVM steps a cythan/binary build will
// execute before aborting, guarding against a compiled program with no
// reachable Stop (see asm.AsmVM.Run's own doc comment for the same
// rationale).
const buildExecStepLimit = 1_000_000

// buildCmd implements `build <source> <output> <kind> [base]` (spec.md 6).
//
// The bytecode and v3 kinds dump, respectively, the assembly emitter's
// textual template and the optimized MIR, neither of which requires
// executing the program. The cythan and binary kinds need concrete tape
// words; since the real text-to-tape assembler is out of scope
// (SPEC_FULL.md 10.5), those two kinds run the program to completion on
// AsmVM and capture its final variable store as a synthesized word list
// indexed by Var, the same stand-in AsmVM already provides for `run`.
func buildCmd(args []string) {
	if len(args) < 3 || len(args) > 4 {
		fmt.Fprintln(os.Stderr, "usage: cythan build <source> <output> <kind> [base]")
		os.Exit(2)
	}
	source, output, kind := args[0], args[1], args[2]
	base := parseBaseArg(args, 3)

	res, err := compileSource(source, base)
	if err != nil {
		reportCompileError(err)
	}

	out, err := os.Create(output)
	if err != nil {
		reportCompileError(errors.Wrap(err, "creating output file"))
	}
	defer out.Close()

	switch kind {
	case "bytecode":
		err = writeBytecode(out, res.asmProg)
	case "v3":
		err = mir.Dump(out, res.mirOpt)
	case "cythan":
		err = writeWordList(out, res.asmProg, base)
	case "binary":
		err = writeBinaryImage(out, res.asmProg, base)
	default:
		fmt.Fprintf(os.Stderr, "unknown build kind %q: want cythan, bytecode, v3 or binary\n", kind)
		os.Exit(2)
	}
	if err != nil {
		reportCompileError(err)
	}
	fmt.Fprintf(os.Stderr, "optimized %d to %d instructions in %d iterations\n",
		res.optStats.Before, res.optStats.After, res.optStats.Iterations)
}

func writeBytecode(w io.Writer, prog asm.Program) error {
	_, err := io.WriteString(w, asm.Emit(prog))
	return errors.Wrap(err, "writing bytecode")
}

// runToCompletion executes prog on an AsmVM with no interactive host side
// (register 2 writes are discarded; register 1 reads standard input so
// programs that depend on file-redirected input still lower cleanly), then
// returns one word per declared Var holding its final value.
func runToCompletion(prog asm.Program, base uint) ([]tape.Word, error) {
	regs := &ioRegisters{in: bufio.NewReader(os.Stdin), out: io.Discard}
	vm, err := asm.NewAsmVM(prog, base, regs)
	if err != nil {
		return nil, err
	}
	if err := vm.Run(buildExecStepLimit); err != nil {
		return nil, err
	}
	vars := prog.Vars()
	max := 0
	for _, v := range vars {
		if int(v) > max {
			max = int(v)
		}
	}
	words := make([]tape.Word, max+1)
	for _, v := range vars {
		words[int(v)] = vm.Var(v)
	}
	return words, nil
}

func writeWordList(w io.Writer, prog asm.Program, base uint) error {
	words, err := runToCompletion(prog, base)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i, word := range words {
		if i > 0 {
			if err := bw.WriteByte(' '); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(strconv.FormatUint(uint64(word), 10)); err != nil {
			return err
		}
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return errors.Wrap(bw.Flush(), "writing word list")
}

func writeBinaryImage(w io.Writer, prog asm.Program, base uint) error {
	words, err := runToCompletion(prog, base)
	if err != nil {
		return err
	}
	return tape.Encode(w, &tape.Image{Base: byte(base), StartPC: 0, Words: words})
}
