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

package cylisp_test

import (
	"testing"
	"testing/fstest"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/lang"
	"github.com/db47h/cythan/lang/cylisp"
	"github.com/db47h/cythan/mir"
	"github.com/db47h/cythan/tape"
)

// captureRegs is a RegisterFile test double that records every write, keyed
// by register number, so tests can assert on the value a compiled program
// actually produced instead of just that it ran without error.
type captureRegs struct {
	values map[asm.Number]tape.Word
}

func (c *captureRegs) ReadRegister(reg asm.Number) tape.Word { return c.values[reg] }

func (c *captureRegs) WriteRegister(reg asm.Number, v tape.Word) {
	if c.values == nil {
		c.values = make(map[asm.Number]tape.Word)
	}
	c.values[reg] = v
}

func compile(t *testing.T, src string) mir.Block {
	t.Helper()
	b, _ := compileState(t, src)
	return b
}

func compileState(t *testing.T, src string) (mir.Block, *lang.State) {
	t.Helper()
	f := cylisp.NewFrontend(fstest.MapFS{})
	block, err := f.Parse([]byte(src), "test.cyl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := lang.NewState(4)
	if _, err := block.Lower(st, lang.NewRootScope()); err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return st.Instructions, st
}

// TestIncrementUntilWrap mirrors spec.md 8.6: the increment-until-wrap
// source compiles to MIR containing a Loop instruction. Its runtime result
// is checked by TestIncrementUntilWrapObservable.
func TestIncrementUntilWrap(t *testing.T) {
	prog := compile(t, `
		(let x 0)
		(loop (block
			(inc x)
			(if0 x (block (break)))))
	`)
	if len(prog) == 0 {
		t.Fatal("expected a non-empty MIR program")
	}
	var sawLoop bool
	for _, ins := range prog {
		if ins.Op == mir.OpLoop {
			sawLoop = true
		}
	}
	if !sawLoop {
		t.Fatalf("expected a Loop instruction in %+v", prog)
	}
}

// TestIncrementUntilWrapObservable runs spec.md 8.6's scenario all the way
// through AsmVM and checks the value the scenario mandates: x must be 0
// (wrapped around under base=4) when the loop breaks, not 1. A lowerIf0
// with Then and Else swapped makes asm.If0 (jump-if-zero) run Break on
// cond!=0 instead of cond==0, so the loop would exit on the first
// iteration with x==1 — this is the regression this test guards against.
func TestIncrementUntilWrapObservable(t *testing.T) {
	prog, st := compileState(t, `
		(let x 0)
		(loop (block
			(inc x)
			(if0 x (block (break)))))
		(set_reg 0 x)
	`)
	opt, _ := mir.Optimize(prog, 4)
	asmProg := mir.Lower(opt, st.NextID())

	regs := &captureRegs{}
	vm, err := asm.NewAsmVM(asmProg, 4, regs)
	if err != nil {
		t.Fatalf("NewAsmVM: %v", err)
	}
	if err := vm.Run(10000); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := regs.values[0]; got != 0 {
		t.Fatalf("x = %d, want 0 (wraparound under base=4)", got)
	}
}

func TestIf0ArityError(t *testing.T) {
	f := cylisp.NewFrontend(fstest.MapFS{})
	block, err := f.Parse([]byte(`(if0 1)`), "test.cyl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := lang.NewState(4)
	_, err = block.Lower(st, lang.NewRootScope())
	if err == nil {
		t.Fatal("expected an arity error")
	}
	lerr, ok := err.(*lang.Error)
	if !ok || lerr.Kind != lang.ErrArity {
		t.Fatalf("expected an arity lang.Error, got %v (%T)", err, err)
	}
}

func TestUnknownVariableResolutionError(t *testing.T) {
	f := cylisp.NewFrontend(fstest.MapFS{})
	block, err := f.Parse([]byte(`(set_reg 0 missing)`), "test.cyl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := lang.NewState(4)
	_, err = block.Lower(st, lang.NewRootScope())
	if err == nil {
		t.Fatal("expected a resolution error")
	}
	lerr, ok := err.(*lang.Error)
	if !ok || lerr.Kind != lang.ErrResolution {
		t.Fatalf("expected a resolution lang.Error, got %v (%T)", err, err)
	}
}

func TestBreakOutsideLoopIsControlFlowError(t *testing.T) {
	f := cylisp.NewFrontend(fstest.MapFS{})
	block, err := f.Parse([]byte(`(break)`), "test.cyl")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	st := lang.NewState(4)
	_, err = block.Lower(st, lang.NewRootScope())
	if err == nil {
		t.Fatal("expected a control-flow error")
	}
	lerr, ok := err.(*lang.Error)
	if !ok || lerr.Kind != lang.ErrControlFlow {
		t.Fatalf("expected a control-flow lang.Error, got %v (%T)", err, err)
	}
}

// TestFullPipelineToAsmVM runs a small cylisp program through Optimize and
// Lower and executes the result on asm.AsmVM, end to end.
func TestFullPipelineToAsmVM(t *testing.T) {
	prog, st := compileState(t, `
		(let x 0)
		(inc x)
		(inc x)
		(inc x)
		(set_reg 0 x)
	`)
	opt, _ := mir.Optimize(prog, 4)
	asmProg := mir.Lower(opt, st.NextID())

	regs := &captureRegs{}
	vm, err := asm.NewAsmVM(asmProg, 4, regs)
	if err != nil {
		t.Fatalf("NewAsmVM: %v", err)
	}
	if err := vm.Run(1000); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := regs.values[0]; got != 3 {
		t.Fatalf("register 0 = %d, want 3", got)
	}
}

func TestFnCallBindsParameters(t *testing.T) {
	prog := compile(t, `
		(fn double (n) (block
			(inc n)
			(inc n)))
		(let x 0)
		(double x)
		(set_reg 0 x)
	`)
	if len(prog) == 0 {
		t.Fatal("expected a non-empty program")
	}
}
