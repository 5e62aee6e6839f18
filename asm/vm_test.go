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

package asm_test

import (
	"testing"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/tape"
)

// TestAsmVMIncrementLoop runs the scenario from spec.md 8.6: increment x
// until it wraps back to 0 under base 4, i.e. 16 increments.
func TestAsmVMIncrementLoop(t *testing.T) {
	loop := asm.Label{ID: 0, Kind: asm.LoopStart}
	end := asm.Label{ID: 0, Kind: asm.LoopEnd}
	prog := asm.Program{
		asm.Copy(0, asm.NumValue(0)),
		asm.LabelDef(loop),
		asm.Increment(0),
		asm.If0(0, end),
		asm.Jump(loop),
		asm.LabelDef(end),
		asm.Stop(),
	}
	vm, err := asm.NewAsmVM(prog, 4, nil)
	if err != nil {
		t.Fatalf("NewAsmVM: %v", err)
	}
	if err := vm.Run(1000); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := vm.Var(0); got != 0 {
		t.Fatalf("x = %d, want 0", got)
	}
}

type fakeRegs struct {
	vals map[asm.Number]tape.Word
}

func (f *fakeRegs) ReadRegister(reg asm.Number) tape.Word {
	return f.vals[reg]
}

func (f *fakeRegs) WriteRegister(reg asm.Number, v tape.Word) {
	if f.vals == nil {
		f.vals = make(map[asm.Number]tape.Word)
	}
	f.vals[reg] = v
}

func TestAsmVMRegisters(t *testing.T) {
	regs := &fakeRegs{}
	prog := asm.Program{
		asm.WriteRegister(7, asm.NumValue(3)),
		asm.ReadRegister(0, 7),
		asm.Stop(),
	}
	vm, err := asm.NewAsmVM(prog, 4, regs)
	if err != nil {
		t.Fatalf("NewAsmVM: %v", err)
	}
	if err := vm.Run(100); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := vm.Var(0); got != 3 {
		t.Fatalf("x = %d, want 3", got)
	}
}

func TestAsmVMStepLimit(t *testing.T) {
	loop := asm.Label{ID: 1, Kind: asm.LoopStart}
	prog := asm.Program{
		asm.LabelDef(loop),
		asm.Jump(loop),
	}
	vm, err := asm.NewAsmVM(prog, 4, nil)
	if err != nil {
		t.Fatalf("NewAsmVM: %v", err)
	}
	if err := vm.Run(50); err == nil {
		t.Fatal("expected a step-limit error on an infinite loop")
	}
}

func TestAsmVMDuplicateLabel(t *testing.T) {
	l := asm.Label{ID: 1, Kind: asm.IfEnd}
	prog := asm.Program{asm.LabelDef(l), asm.LabelDef(l)}
	if _, err := asm.NewAsmVM(prog, 4, nil); err == nil {
		t.Fatal("expected a duplicate label error")
	}
}
