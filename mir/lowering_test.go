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

package mir_test

import (
	"testing"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/mir"
	"github.com/db47h/cythan/tape"
)

// TestLowerSimple verifies a flat Copy/Increment sequence lowers unchanged
// in order, with a trailing Stop appended.
func TestLowerSimple(t *testing.T) {
	b := mir.Block{
		mir.Copy(0, asm.NumValue(1)),
		mir.Increment(0),
	}
	prog := mir.Lower(b, 1)
	if len(prog) != 3 {
		t.Fatalf("len(prog) = %d, want 3 (copy, increment, stop)", len(prog))
	}
	if prog[0].Op != asm.OpCopy || prog[1].Op != asm.OpIncrement || prog[2].Op != asm.OpStop {
		t.Fatalf("unexpected lowered program: %+v", prog)
	}
}

// TestLowerIf0 verifies an If0 with both non-empty branches lowers to a
// conditional jump, the else-body (the cond!=0 fall-through), an
// unconditional jump past the then-body, the then-body (the cond==0 jump
// target), and the shared end label. asm.If0 jumps to its target when
// cond==0 (asm/vm.go's Run), so Then — the cond==0 side — must live at the
// jump target, never inline; Else runs inline on fall-through.
func TestLowerIf0(t *testing.T) {
	b := mir.Block{
		mir.If0(asm.VarValue(0),
			mir.Block{mir.Increment(1)},
			mir.Block{mir.Decrement(1)},
		),
	}
	prog := mir.Lower(b, 2)
	var ops []asm.Op
	for _, ins := range prog {
		ops = append(ops, ins.Op)
	}
	want := []asm.Op{
		asm.OpIf0, asm.OpDecrement, asm.OpJump, asm.OpLabel, asm.OpIncrement, asm.OpLabel, asm.OpStop,
	}
	if len(ops) != len(want) {
		t.Fatalf("op sequence = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("op[%d] = %v, want %v (full: %v)", i, ops[i], want[i], ops)
		}
	}
}

// TestLowerLoopBreak verifies a Loop whose body holds Break and Continue
// lowers to exactly one loop start label and at least the two Jumps those
// two instructions produce.
func TestLowerLoopBreak(t *testing.T) {
	b := mir.Block{
		mir.Loop(mir.Block{
			mir.Increment(0),
			mir.If0(asm.VarValue(0),
				mir.Block{mir.Break()},
				mir.Block{},
			),
			mir.Continue(),
		}),
	}
	prog := mir.Lower(b, 1)
	var labelStart, jumpCount int
	for _, ins := range prog {
		if ins.Op == asm.OpLabel && ins.Label.Kind == asm.LoopStart {
			labelStart++
		}
		if ins.Op == asm.OpJump {
			jumpCount++
		}
	}
	if labelStart != 1 {
		t.Fatalf("expected exactly one loop start label, got %d in %+v", labelStart, prog)
	}
	// The lowered body holds four Jumps: the If0's jump past its Then
	// branch, Break's jump to the end label, Continue's jump to the start
	// label, and lowerLoop's own backward jump (SkipContinue is neither
	// SkipStop nor SkipBreak). This assertion only checks that at least
	// the Break and Continue jumps are present.
	if jumpCount < 2 {
		t.Fatalf("expected at least 2 Jump instructions (break + continue), got %d in %+v", jumpCount, prog)
	}
}

// TestLowerIf0EmptyThen verifies the shortened form: an empty Then branch
// lowers to a single conditional jump over the Else body.
func TestLowerIf0EmptyThen(t *testing.T) {
	b := mir.Block{
		mir.If0(asm.VarValue(0),
			mir.Block{},
			mir.Block{mir.Increment(1)},
		),
	}
	prog := mir.Lower(b, 2)
	if prog[0].Op != asm.OpIf0 {
		t.Fatalf("expected first instruction to be If0, got %+v", prog[0])
	}
	for _, ins := range prog {
		if ins.Op == asm.OpJump {
			t.Fatalf("empty-Then If0 should need no unconditional Jump: %+v", prog)
		}
	}
}

// TestLowerConstantIf0 verifies a literal Number condition resolves at
// lowering time without emitting any branch instruction.
func TestLowerConstantIf0(t *testing.T) {
	b := mir.Block{
		mir.If0(asm.NumValue(0),
			mir.Block{mir.Increment(0)},
			mir.Block{mir.Decrement(0)},
		),
	}
	prog := mir.Lower(b, 1)
	for _, ins := range prog {
		if ins.Op == asm.OpIf0 || ins.Op == asm.OpJump || ins.Op == asm.OpLabel {
			t.Fatalf("constant-condition If0 should lower to straight-line code: %+v", prog)
		}
	}
	if prog[0].Op != asm.OpIncrement {
		t.Fatalf("expected the Then branch (cond==0), got %+v", prog)
	}
}

// TestFullPipeline runs Optimize then Lower end to end on a small program
// exercising spec.md 8's increment-until-wrap scenario shape.
func TestFullPipeline(t *testing.T) {
	b := mir.Block{
		mir.Copy(0, asm.NumValue(0)),
		mir.Loop(mir.Block{
			mir.Increment(0),
			mir.If0(asm.VarValue(0), mir.Block{mir.Break()}, mir.Block{}),
		}),
		mir.WriteRegister(0, asm.VarValue(0)),
	}
	opt, _ := mir.Optimize(b, 4)
	prog := mir.Lower(opt, 2)
	if len(prog) == 0 || prog[len(prog)-1].Op != asm.OpStop {
		t.Fatalf("expected a trailing Stop, got %+v", prog)
	}
}

// captureReg0 is a minimal asm.RegisterFile that records the last value
// written to register 0.
type captureReg0 struct {
	value tape.Word
}

func (c *captureReg0) ReadRegister(asm.Number) tape.Word { return 0 }

func (c *captureReg0) WriteRegister(reg asm.Number, v tape.Word) {
	if reg == 0 {
		c.value = v
	}
}

// TestFullPipelineWrapObservable runs spec.md 8.6's increment-until-wrap
// scenario all the way through AsmVM and checks the observable effect the
// scenario mandates: x must hold 0 (after wraparound under base=4), not 1,
// when the loop's If0(x){break} fires. This is the regression coverage for
// the then/else inversion lowerIf0 used to have: with them swapped, asm.If0
// (which jumps to its target when cond==0) ran Break on cond!=0 instead,
// so the loop exited on the very first iteration with x==1.
func TestFullPipelineWrapObservable(t *testing.T) {
	b := mir.Block{
		mir.Copy(0, asm.NumValue(0)),
		mir.Loop(mir.Block{
			mir.Increment(0),
			mir.If0(asm.VarValue(0), mir.Block{mir.Break()}, mir.Block{}),
		}),
		mir.WriteRegister(0, asm.VarValue(0)),
	}
	opt, _ := mir.Optimize(b, 4)
	prog := mir.Lower(opt, b.Count())

	regs := &captureReg0{}
	vm, err := asm.NewAsmVM(prog, 4, regs)
	if err != nil {
		t.Fatalf("NewAsmVM: %v", err)
	}
	if err := vm.Run(10000); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if regs.value != 0 {
		t.Fatalf("x = %d, want 0 (wraparound under base=4)", regs.value)
	}
}
