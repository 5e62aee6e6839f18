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

// Package asm is the flat, label-based assembly IR that MIR lowering
// produces and the emitter turns into a textual program for the downstream
// text-to-tape assembler.
//
// Grounded on original_source/src/compiler/asm.rs for the instruction and
// value shapes, and on db47h-ngaro's asm package for the textual assembler
// and its two-pass label resolution.
package asm

import "fmt"

// Var identifies a compile-time variable by its dense index. Maps
// one-to-one to a tape cell at lowering time.
type Var int

// Number is a literal word, constrained to 0 <= n < 2^base at emission
// time; that constraint is the caller's responsibility, not this type's.
type Number uint64

// LabelKind distinguishes the role a Label plays, so start/end labels of
// the same construct can be derived from one another without colliding
// with an unrelated construct that happens to share a counter value.
type LabelKind int

const (
	LoopStart LabelKind = iota
	LoopEnd
	FunctionEnd
	IfStart
	ElseStart
	IfEnd
)

func (k LabelKind) String() string {
	switch k {
	case LoopStart:
		return "loop_start"
	case LoopEnd:
		return "loop_end"
	case FunctionEnd:
		return "fn_end"
	case IfStart:
		return "if_start"
	case ElseStart:
		return "else_start"
	case IfEnd:
		return "if_end"
	default:
		return "label"
	}
}

// Label is a (id, kind) pair. Two labels are equal iff both fields match.
type Label struct {
	ID   int
	Kind LabelKind
}

// Derive produces a sibling label sharing ID but carrying kind, used to
// pair e.g. a loop's start and end labels.
func (l Label) Derive(kind LabelKind) Label {
	return Label{ID: l.ID, Kind: kind}
}

func (l Label) String() string {
	return fmt.Sprintf("L%d_%s", l.ID, l.Kind)
}

// ValueKind discriminates the AsmValue tagged union.
type ValueKind int

const (
	ValueVar ValueKind = iota
	ValueNumber
)

// AsmValue is a tagged union of Var or Number, as consumed by Copy's
// right-hand side, If0's condition, and WriteRegister's operand.
type AsmValue struct {
	Kind   ValueKind
	Var    Var
	Number Number
}

// VarValue wraps a Var as an AsmValue.
func VarValue(v Var) AsmValue { return AsmValue{Kind: ValueVar, Var: v} }

// NumValue wraps a Number as an AsmValue.
func NumValue(n Number) AsmValue { return AsmValue{Kind: ValueNumber, Number: n} }

func (v AsmValue) String() string {
	if v.Kind == ValueNumber {
		return fmt.Sprintf("%d", v.Number)
	}
	return fmt.Sprintf("v%d", v.Var)
}

// Op discriminates the Instruction tagged union.
type Op int

const (
	OpCopy Op = iota
	OpIncrement
	OpDecrement
	OpJump
	OpLabel
	OpIf0
	OpStop
	OpReadRegister
	OpWriteRegister
)

// Instruction is one assembly instruction. Only the fields relevant to Op
// are meaningful; the rest are zero.
type Instruction struct {
	Op Op

	Dst Var      // Copy, Increment, Decrement, ReadRegister
	Src AsmValue // Copy, WriteRegister

	Cond  Var   // If0
	Label Label // Jump, Label, If0

	Reg Number // ReadRegister, WriteRegister
}

// Copy builds a Copy(dst, src) instruction.
func Copy(dst Var, src AsmValue) Instruction {
	return Instruction{Op: OpCopy, Dst: dst, Src: src}
}

// Increment builds an Increment(v) instruction.
func Increment(v Var) Instruction { return Instruction{Op: OpIncrement, Dst: v} }

// Decrement builds a Decrement(v) instruction.
func Decrement(v Var) Instruction { return Instruction{Op: OpDecrement, Dst: v} }

// Jump builds an unconditional Jump(label) instruction.
func Jump(l Label) Instruction { return Instruction{Op: OpJump, Label: l} }

// LabelDef builds a Label(label) declaration instruction.
func LabelDef(l Label) Instruction { return Instruction{Op: OpLabel, Label: l} }

// If0 builds a conditional If0(cond, label) instruction: jump to label
// when cond's tape cell holds zero.
func If0(cond Var, l Label) Instruction { return Instruction{Op: OpIf0, Cond: cond, Label: l} }

// Stop builds a Stop instruction.
func Stop() Instruction { return Instruction{Op: OpStop} }

// ReadRegister builds a ReadRegister(v, reg) instruction.
func ReadRegister(v Var, reg Number) Instruction {
	return Instruction{Op: OpReadRegister, Dst: v, Reg: reg}
}

// WriteRegister builds a WriteRegister(reg, src) instruction.
func WriteRegister(reg Number, src AsmValue) Instruction {
	return Instruction{Op: OpWriteRegister, Reg: reg, Src: src}
}

// Program is an ordered list of assembly instructions.
type Program []Instruction

// Vars returns every distinct Var this program declares, in ascending
// order, suitable for feeding the emitter's VAR_DEF section.
func (p Program) Vars() []Var {
	seen := make(map[Var]bool)
	var out []Var
	add := func(v Var) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, ins := range p {
		switch ins.Op {
		case OpCopy, OpIncrement, OpDecrement, OpReadRegister:
			add(ins.Dst)
		}
		if ins.Op == OpCopy || ins.Op == OpWriteRegister {
			if ins.Src.Kind == ValueVar {
				add(ins.Src.Var)
			}
		}
		if ins.Op == OpIf0 {
			add(ins.Cond)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
