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

// Package mir is the structured mid-level intermediate representation: the
// abstract-interpretation optimizer's input and MirLowering's source.
//
// Grounded on original_source/src/compiler/mir/mod.rs's preserved
// (commented-out) pre-Mapper Mir enum — the If0(cond, then, else) shape
// this toolchain implements, rather than the later JumpingMapper/
// ChangingMapper rewrite the same file evolved into.
package mir

import "github.com/db47h/cythan/asm"

// Op discriminates the Instr tagged union.
type Op int

const (
	OpCopy Op = iota
	OpIncrement
	OpDecrement
	OpIf0
	OpLoop
	OpBreak
	OpContinue
	OpStop
	OpReadRegister
	OpWriteRegister
)

// Instr is one MIR instruction. Only the fields relevant to Op carry
// meaning.
type Instr struct {
	Op Op

	Dst asm.Var     // Copy, Increment, Decrement, ReadRegister
	Src asm.AsmValue // Copy, WriteRegister

	Cond asm.AsmValue // If0
	Then Block        // If0
	Else Block        // If0

	Body Block // Loop

	Reg asm.Number // ReadRegister, WriteRegister
}

// Block is an ordered sequence of MIR instructions.
type Block []Instr

// Copy builds a Copy(dst, src) instruction.
func Copy(dst asm.Var, src asm.AsmValue) Instr { return Instr{Op: OpCopy, Dst: dst, Src: src} }

// Increment builds an Increment(v) instruction.
func Increment(v asm.Var) Instr { return Instr{Op: OpIncrement, Dst: v} }

// Decrement builds a Decrement(v) instruction.
func Decrement(v asm.Var) Instr { return Instr{Op: OpDecrement, Dst: v} }

// If0 builds a structured If0(cond, then, else) instruction.
func If0(cond asm.AsmValue, then, els Block) Instr {
	return Instr{Op: OpIf0, Cond: cond, Then: then, Else: els}
}

// Loop builds a structured Loop(body) instruction.
func Loop(body Block) Instr { return Instr{Op: OpLoop, Body: body} }

// Break builds a Break instruction, targeting the innermost enclosing Loop.
func Break() Instr { return Instr{Op: OpBreak} }

// Continue builds a Continue instruction, targeting the innermost
// enclosing Loop.
func Continue() Instr { return Instr{Op: OpContinue} }

// Stop builds a Stop instruction.
func Stop() Instr { return Instr{Op: OpStop} }

// ReadRegister builds a ReadRegister(v, reg) instruction.
func ReadRegister(v asm.Var, reg asm.Number) Instr {
	return Instr{Op: OpReadRegister, Dst: v, Reg: reg}
}

// WriteRegister builds a WriteRegister(reg, src) instruction.
func WriteRegister(reg asm.Number, src asm.AsmValue) Instr {
	return Instr{Op: OpWriteRegister, Reg: reg, Src: src}
}

// Count returns the number of instructions in b, counting nested If0/Loop
// bodies recursively, plus one for the containing instruction itself.
//
// Grounded on original_source/src/compiler/mir/optimizer.rs's count().
func (b Block) Count() int {
	n := 0
	for _, ins := range b {
		n++
		switch ins.Op {
		case OpIf0:
			n += ins.Then.Count() + ins.Else.Count()
		case OpLoop:
			n += ins.Body.Count()
		}
	}
	return n
}
