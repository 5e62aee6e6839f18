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

package asm

import (
	"github.com/pkg/errors"

	"github.com/db47h/cythan/tape"
)

// RegisterFile is the host-provided register read/write pair AsmVM calls
// for ReadRegister/WriteRegister instructions.
type RegisterFile interface {
	ReadRegister(reg Number) tape.Word
	WriteRegister(reg Number, v tape.Word)
}

// AsmVM directly interprets a Program, standing in for the external
// text-to-tape assembler plus a TapeMachine run (SPEC_FULL.md §10.5) for
// programs this toolchain compiles itself.
//
// Grounded on db47h-ngaro/vm/core.go's Run(): a switch-on-opcode loop over
// a flat instruction list, panic-recover wrapped into an error that names
// the failing instruction.
type AsmVM struct {
	Base uint
	Regs RegisterFile

	prog   Program
	vars   map[Var]tape.Word
	labels map[Label]int
	steps  int
}

// NewAsmVM builds an AsmVM for prog, resolving every Label declaration to
// its instruction index up front.
func NewAsmVM(prog Program, base uint, regs RegisterFile) (*AsmVM, error) {
	labels := make(map[Label]int)
	for i, ins := range prog {
		if ins.Op == OpLabel {
			if _, dup := labels[ins.Label]; dup {
				return nil, errors.Errorf("duplicate label definition: %s", ins.Label)
			}
			labels[ins.Label] = i
		}
	}
	return &AsmVM{
		Base:   base,
		Regs:   regs,
		prog:   prog,
		vars:   make(map[Var]tape.Word),
		labels: labels,
	}, nil
}

func (m *AsmVM) mod() tape.Word {
	return tape.Word(1) << m.Base
}

func (m *AsmVM) get(v AsmValue) tape.Word {
	if v.Kind == ValueNumber {
		return tape.Word(v.Number)
	}
	return m.vars[v.Var]
}

// Run executes the program from instruction 0 until a Stop instruction or
// falling off the end. StepLimit, if positive, aborts with an error once
// exceeded — a guard against runaway programs with no Stop, since AsmVM has
// no tape-unchanged fixpoint check to fall back on the way TapeMachine does.
func (m *AsmVM) Run(stepLimit int) (err error) {
	pc := 0
	defer func() {
		if e := recover(); e != nil {
			if asErr, ok := e.(error); ok {
				err = errors.Wrapf(asErr, "asm vm: recovered error at instruction %d", pc)
				return
			}
			panic(e)
		}
	}()

	for pc < len(m.prog) {
		if stepLimit > 0 && m.steps >= stepLimit {
			return errors.Errorf("asm vm: exceeded step limit %d", stepLimit)
		}
		m.steps++
		ins := m.prog[pc]
		switch ins.Op {
		case OpCopy:
			m.vars[ins.Dst] = m.get(ins.Src)
			pc++
		case OpIncrement:
			m.vars[ins.Dst] = (m.vars[ins.Dst] + 1) % m.mod()
			pc++
		case OpDecrement:
			m.vars[ins.Dst] = (m.vars[ins.Dst] + m.mod() - 1) % m.mod()
			pc++
		case OpJump:
			idx, ok := m.labels[ins.Label]
			if !ok {
				return errors.Errorf("asm vm: undefined label %s", ins.Label)
			}
			pc = idx
		case OpLabel:
			pc++
		case OpIf0:
			if m.vars[ins.Cond] == 0 {
				idx, ok := m.labels[ins.Label]
				if !ok {
					return errors.Errorf("asm vm: undefined label %s", ins.Label)
				}
				pc = idx
			} else {
				pc++
			}
		case OpStop:
			return nil
		case OpReadRegister:
			if m.Regs != nil {
				m.vars[ins.Dst] = m.Regs.ReadRegister(ins.Reg)
			}
			pc++
		case OpWriteRegister:
			if m.Regs != nil {
				m.Regs.WriteRegister(ins.Reg, m.get(ins.Src))
			}
			pc++
		default:
			return errors.Errorf("asm vm: unknown opcode %d", ins.Op)
		}
	}
	return nil
}

// Var returns the current value held by v.
func (m *AsmVM) Var(v Var) tape.Word { return m.vars[v] }
