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

import "fmt"

// Template accumulates named sections of text, in declaration order, and
// concatenates them on Build. Grounded on original_source/src/template.rs's
// Template/TemplatePiece section accumulator; kept hand-rolled (no
// third-party templating engine in the example pack models "append a line
// to a named section", and text/template solves a different problem:
// substitution into a fixed layout, not accumulation into a growing one).
type Template struct {
	order    []string
	sections map[string][]string
}

// NewTemplate creates an empty Template with the given section names
// pre-declared, in the order they should appear in Build's output.
func NewTemplate(sections ...string) *Template {
	t := &Template{sections: make(map[string][]string)}
	for _, s := range sections {
		t.order = append(t.order, s)
		t.sections[s] = nil
	}
	return t
}

// Add appends line to the named section.
func (t *Template) Add(section, line string) {
	if _, ok := t.sections[section]; !ok {
		t.order = append(t.order, section)
	}
	t.sections[section] = append(t.sections[section], line)
}

// Build concatenates every section's lines, in section-declaration order,
// separated by newlines.
func (t *Template) Build() string {
	var out string
	for i, s := range t.order {
		for j, l := range t.sections[s] {
			if i > 0 || j > 0 {
				out += "\n"
			}
			out += l
		}
	}
	return out
}

const (
	secVarDef = "VAR_DEF"
	secCode   = "CODE"
)

// Emitter expands a Program into the VAR_DEF and CODE sections of a
// Template, one fragment per instruction, deterministically given
// identical input order.
//
// Grounded on original_source/src/compiler/asm.rs's
// CompilableInstruction::compile (VAR_DEF/CODE routing,
// check_compile_var's declare-once behavior).
type Emitter struct {
	tpl     *Template
	emitted map[Var]bool
}

// NewEmitter creates an Emitter writing into a fresh Template.
func NewEmitter() *Emitter {
	return &Emitter{
		tpl:     NewTemplate(secVarDef, secCode),
		emitted: make(map[Var]bool),
	}
}

// declareVar emits a cell declaration for v the first time it is seen.
func (e *Emitter) declareVar(v Var) {
	if e.emitted[v] {
		return
	}
	e.emitted[v] = true
	e.tpl.Add(secVarDef, fmt.Sprintf("var v%d", v))
}

func (e *Emitter) declareValue(v AsmValue) {
	if v.Kind == ValueVar {
		e.declareVar(v.Var)
	}
}

// Emit expands prog into the Template's VAR_DEF and CODE sections.
func (e *Emitter) Emit(prog Program) {
	for _, ins := range prog {
		e.emitInstruction(ins)
	}
}

func (e *Emitter) emitInstruction(ins Instruction) {
	switch ins.Op {
	case OpCopy:
		e.declareVar(ins.Dst)
		e.declareValue(ins.Src)
		e.tpl.Add(secCode, fmt.Sprintf("copy v%d %s", ins.Dst, ins.Src))
	case OpIncrement:
		e.declareVar(ins.Dst)
		e.tpl.Add(secCode, fmt.Sprintf("inc v%d", ins.Dst))
	case OpDecrement:
		e.declareVar(ins.Dst)
		e.tpl.Add(secCode, fmt.Sprintf("dec v%d", ins.Dst))
	case OpJump:
		e.tpl.Add(secCode, fmt.Sprintf("jump %s", ins.Label))
	case OpLabel:
		e.tpl.Add(secCode, fmt.Sprintf("label %s", ins.Label))
	case OpIf0:
		e.declareVar(ins.Cond)
		e.tpl.Add(secCode, fmt.Sprintf("if0 v%d %s", ins.Cond, ins.Label))
	case OpStop:
		e.tpl.Add(secCode, "stop")
	case OpReadRegister:
		e.declareVar(ins.Dst)
		e.tpl.Add(secCode, fmt.Sprintf("read_reg v%d %d", ins.Dst, ins.Reg))
	case OpWriteRegister:
		e.declareValue(ins.Src)
		e.tpl.Add(secCode, fmt.Sprintf("write_reg %d %s", ins.Reg, ins.Src))
	}
}

// Build returns the accumulated textual assembly, the input to the
// downstream text-to-tape assembler.
func (e *Emitter) Build() string {
	return e.tpl.Build()
}

// Emit is a convenience wrapper that runs an Emitter over prog and returns
// the resulting textual assembly.
func Emit(prog Program) string {
	e := NewEmitter()
	e.Emit(prog)
	return e.Build()
}
