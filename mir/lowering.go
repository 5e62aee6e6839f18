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

package mir

import "github.com/db47h/cythan/asm"

// SkipStatus records whether a lowered block falls through, or always
// takes one of Break/Continue/Stop — needed so an enclosing If0's two
// branches can be merged without emitting unreachable jumps.
//
// Grounded on SPEC_FULL.md 4.6 / original_source's Lowering pass tracking
// of "does this block end the surrounding control flow".
type SkipStatus int

const (
	// SkipNone means the block falls through normally.
	SkipNone SkipStatus = iota
	SkipBreak
	SkipContinue
	SkipStop
)

// lightest returns the most permissive (least certain) of two statuses: if
// either branch merely falls through, the combined status falls through
// too, since control can still reach past the join point.
func lightest(a, b SkipStatus) SkipStatus {
	if a == SkipNone || b == SkipNone {
		return SkipNone
	}
	if a == b {
		return a
	}
	return SkipNone
}

// lowerState carries the shared label/variable counter and the stack of
// enclosing loops' (continue, break) label pairs that Break/Continue
// target.
type lowerState struct {
	next  int
	loops []loopLabels
	prog  asm.Program
}

type loopLabels struct {
	start asm.Label
	end   asm.Label
}

func (s *lowerState) freshID() int {
	id := s.next
	s.next++
	return id
}

func (s *lowerState) emit(ins asm.Instruction) {
	s.prog = append(s.prog, ins)
}

// Lower flattens a structured MIR block into a flat asm.Program.
//
// Grounded on SPEC_FULL.md 4.6: label IDs are drawn from the same counter
// as variables (both are just dense integers at this level), Break/Continue
// resolve against a stack of the labels of their nearest enclosing Loop,
// and If0 emission special-cases a literal Number condition and an empty
// Then branch.
func Lower(b Block, varCounter int) asm.Program {
	st := &lowerState{next: varCounter}
	lowerBlock(b, st)
	st.emit(asm.Stop())
	return st.prog
}

func lowerBlock(b Block, st *lowerState) SkipStatus {
	status := SkipNone
	for _, ins := range b {
		if status != SkipNone {
			// Unreachable: everything after an unconditional
			// Break/Continue/Stop in this block never runs.
			break
		}
		status = lowerInstr(ins, st)
	}
	return status
}

func lowerInstr(ins Instr, st *lowerState) SkipStatus {
	switch ins.Op {
	case OpCopy:
		st.emit(asm.Copy(ins.Dst, ins.Src))
		return SkipNone

	case OpIncrement:
		st.emit(asm.Increment(ins.Dst))
		return SkipNone

	case OpDecrement:
		st.emit(asm.Decrement(ins.Dst))
		return SkipNone

	case OpIf0:
		return lowerIf0(ins, st)

	case OpLoop:
		return lowerLoop(ins, st)

	case OpBreak:
		if len(st.loops) == 0 {
			// Only reachable from a malformed MIR tree; MirLowering's
			// caller is responsible for producing well-formed input.
			st.emit(asm.Stop())
			return SkipStop
		}
		st.emit(asm.Jump(st.loops[len(st.loops)-1].end))
		return SkipBreak

	case OpContinue:
		if len(st.loops) == 0 {
			st.emit(asm.Stop())
			return SkipStop
		}
		st.emit(asm.Jump(st.loops[len(st.loops)-1].start))
		return SkipContinue

	case OpStop:
		st.emit(asm.Stop())
		return SkipStop

	case OpReadRegister:
		st.emit(asm.ReadRegister(ins.Dst, ins.Reg))
		return SkipNone

	case OpWriteRegister:
		st.emit(asm.WriteRegister(ins.Reg, ins.Src))
		return SkipNone
	}
	return SkipNone
}

// lowerIf0 emits a conditional branch. A literal Number condition needs no
// branch at all: it resolves to one side at lowering time. asm.If0 jumps to
// its target when cond==0 (asm/vm.go's Run), so the Then branch — the
// cond==0 side — always lives at the jump target, never inline; an empty
// Then branch collapses to a single conditional jump over the Else body
// (skip straight to the end when cond==0 has nothing to do).
//
// Grounded on original_source/src/compiler/mir/mod.rs's Mir::If0: If0(cond,
// start); lower Else inline (the cond!=0 fall-through); Jump(end);
// Label(start); lower Then; Label(end).
func lowerIf0(ins Instr, st *lowerState) SkipStatus {
	if ins.Cond.Kind == asm.ValueNumber {
		if ins.Cond.Number == 0 {
			return lowerBlock(ins.Then, st)
		}
		return lowerBlock(ins.Else, st)
	}

	id := st.freshID()
	startLabel := asm.Label{ID: id, Kind: asm.IfStart}
	endLabel := startLabel.Derive(asm.IfEnd)

	if len(ins.Then) == 0 {
		// if0 cond { } else { else } == "jump to else-body unless cond==0"
		// collapses to a single conditional jump over the else body.
		st.emit(asm.If0(ins.Cond.Var, endLabel))
		elseStatus := lowerBlock(ins.Else, st)
		st.emit(asm.LabelDef(endLabel))
		return lightest(SkipNone, elseStatus)
	}

	st.emit(asm.If0(ins.Cond.Var, startLabel))
	elseStatus := lowerBlock(ins.Else, st)
	st.emit(asm.Jump(endLabel))
	st.emit(asm.LabelDef(startLabel))
	thenStatus := lowerBlock(ins.Then, st)
	st.emit(asm.LabelDef(endLabel))
	return lightest(elseStatus, thenStatus)
}

// lowerLoop emits a Loop as a labelled jump-back: the body falls through to
// a backward Jump to its start label, Break/Continue resolve against the
// loop's (start, end) pair pushed on st.loops for the body's duration.
func lowerLoop(ins Instr, st *lowerState) SkipStatus {
	id := st.freshID()
	start := asm.Label{ID: id, Kind: asm.LoopStart}
	end := start.Derive(asm.LoopEnd)

	st.emit(asm.LabelDef(start))
	st.loops = append(st.loops, loopLabels{start: start, end: end})
	bodyStatus := lowerBlock(ins.Body, st)
	st.loops = st.loops[:len(st.loops)-1]

	if bodyStatus != SkipStop && bodyStatus != SkipBreak {
		st.emit(asm.Jump(start))
	}
	st.emit(asm.LabelDef(end))

	// A loop's exit status is never propagated to its enclosing block:
	// Break routes control to just past the loop regardless of what the
	// rest of the body would otherwise have done, and a bare Stop inside a
	// loop is reachable only on the iteration that hits it, not on every
	// path through the loop construct as a whole.
	return SkipNone
}
