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

import (
	"fmt"
	"hash/fnv"

	"github.com/db47h/cythan/asm"
)

// factKind discriminates a variable's abstract value.
type factKind int

const (
	factUnknown factKind = iota
	factAlias
	factValues
)

// fact is the abstract value domain entry for one variable: either an
// alias of another variable, a small concrete set of possible values, or
// unknown.
//
// Grounded on original_source/src/compiler/mir/optimizer.rs's VarValue
// (VarRef/Unknown/Values), generalized per SPEC_FULL.md's Open Question
// resolution: the value-set cap is 2^base (the original hardcodes 16, i.e.
// base=4) rather than a fixed constant.
type fact struct {
	kind   factKind
	alias  asm.Var
	values map[uint64]struct{}
}

func unknownFact() fact { return fact{kind: factUnknown} }

func aliasFact(v asm.Var) fact { return fact{kind: factAlias, alias: v} }

func valuesFact(vs ...uint64) fact {
	m := make(map[uint64]struct{}, len(vs))
	for _, v := range vs {
		m[v] = struct{}{}
	}
	return fact{kind: factValues, values: m}
}

// single reports whether f is a Values fact holding exactly one value,
// returning it.
func (f fact) single() (uint64, bool) {
	if f.kind != factValues || len(f.values) != 1 {
		return 0, false
	}
	for v := range f.values {
		return v, true
	}
	return 0, false
}

func (f fact) has(v uint64) bool {
	if f.kind != factValues {
		return false
	}
	_, ok := f.values[v]
	return ok
}

// state is the abstract interpreter's working context: the set of
// variables read anywhere in the program (computed once per fixpoint
// iteration) and the current per-variable fact map.
//
// Grounded on optimizer.rs's OptimizerContext.
type state struct {
	base  uint
	used  map[asm.Var]bool
	facts map[asm.Var]fact
}

func newState(base uint, used map[asm.Var]bool) *state {
	return &state{base: base, used: used, facts: make(map[asm.Var]fact)}
}

func (s *state) clone() *state {
	c := newState(s.base, s.used)
	for v, f := range s.facts {
		c.facts[v] = f
	}
	return c
}

func (s *state) cap() int { return 1 << s.base }

func (s *state) mod() uint64 { return uint64(1) << s.base }

// rawFact returns v's fact as stored, defaulting to Unknown.
func (s *state) rawFact(v asm.Var) fact {
	if f, ok := s.facts[v]; ok {
		return f
	}
	return unknownFact()
}

// resolve chases v's Alias chain to a non-alias fact. Acyclicity is an
// invariant of set(); a defensive bound guards against a construction bug
// rather than looping forever, per SPEC_FULL.md's design-notes option (b).
func (s *state) resolve(v asm.Var) fact {
	cur := v
	for i := 0; i <= len(s.facts); i++ {
		f := s.rawFact(cur)
		if f.kind != factAlias {
			return f
		}
		cur = f.alias
	}
	return unknownFact()
}

// resolveMeta mirrors optimizer.rs's get_var_meta: chase aliases, but when
// the chain bottoms out at Unknown, report an Alias pointing at the final
// variable in the chain (so a downstream Copy can still forward the
// reference) rather than plain Unknown.
func (s *state) resolveMeta(v asm.Var) fact {
	cur := v
	for i := 0; i <= len(s.facts); i++ {
		f := s.rawFact(cur)
		switch f.kind {
		case factAlias:
			cur = f.alias
		case factValues:
			return f
		default:
			return aliasFact(cur)
		}
	}
	return unknownFact()
}

// set installs value for v, first snapshot-propagating v's pre-update fact
// into every variable that currently aliases it, so the alias graph never
// goes stale after v changes.
//
// Grounded on optimizer.rs's OptimizerContext::set_var.
func (s *state) set(v asm.Var, value fact) {
	prev := s.rawFact(v)
	snapshot := make(map[asm.Var]fact, len(s.facts))
	for y, f := range s.facts {
		snapshot[y] = f
	}
	for y, f := range snapshot {
		if f.kind == factAlias && f.alias == v {
			s.set(y, prev)
		}
	}
	s.facts[v] = value
}

func asmValueOf(f fact, fallback asm.Var) asm.AsmValue {
	if n, ok := f.single(); ok {
		return asm.NumValue(asm.Number(n))
	}
	return asm.VarValue(fallback)
}

// merge computes the control-flow join of two states over the union of
// their tracked variables, per the meet rules:
//
//	Values(a) ⊓ Values(b) = Values(a ∪ b)
//	Alias(x) ⊓ Alias(x) = Alias(x); other alias pairs fall through to the
//	meet of their resolved facts
//	anything ⊓ Unknown = Unknown
func merge(a, b *state) *state {
	out := newState(a.base, a.used)
	keys := make(map[asm.Var]bool)
	for v := range a.facts {
		keys[v] = true
	}
	for v := range b.facts {
		keys[v] = true
	}
	for v := range keys {
		fa, fb := a.rawFact(v), b.rawFact(v)
		switch {
		case fa.kind == factAlias && fb.kind == factAlias:
			if fa.alias == fb.alias {
				out.facts[v] = fa
			} else if ra, rb := a.resolve(v), b.resolve(v); ra.kind == factValues && rb.kind == factValues {
				out.facts[v] = unionValues(ra, rb)
			}
		case fa.kind == factAlias && fb.kind == factValues:
			if ra := a.resolve(v); ra.kind == factValues {
				out.facts[v] = unionValues(ra, fb)
			}
		case fa.kind == factValues && fb.kind == factAlias:
			if rb := b.resolve(v); rb.kind == factValues {
				out.facts[v] = unionValues(fa, rb)
			}
		case fa.kind == factValues && fb.kind == factValues:
			out.facts[v] = unionValues(fa, fb)
		}
		// any combination touching Unknown is dropped (defaults back to
		// Unknown on lookup).
	}
	return out
}

func unionValues(a, b fact) fact {
	m := make(map[uint64]struct{}, len(a.values)+len(b.values))
	for v := range a.values {
		m[v] = struct{}{}
	}
	for v := range b.values {
		m[v] = struct{}{}
	}
	return fact{kind: factValues, values: m}
}

// collectUsed gathers every variable index read anywhere in b: copy/
// write-register right-hand sides and If0 conditions. Grounded on
// optimizer.rs's get_used.
func collectUsed(b Block, out map[asm.Var]bool) {
	for _, ins := range b {
		switch ins.Op {
		case OpCopy, OpWriteRegister:
			if ins.Src.Kind == asm.ValueVar {
				out[ins.Src.Var] = true
			}
		case OpIf0:
			if ins.Cond.Kind == asm.ValueVar {
				out[ins.Cond.Var] = true
			}
			collectUsed(ins.Then, out)
			collectUsed(ins.Else, out)
		case OpLoop:
			collectUsed(ins.Body, out)
		}
	}
}

// collectMuts gathers every variable index assigned anywhere in b.
// Grounded on optimizer.rs's get_muts.
func collectMuts(b Block, out map[asm.Var]bool) {
	for _, ins := range b {
		switch ins.Op {
		case OpCopy, OpIncrement, OpDecrement, OpReadRegister:
			out[ins.Dst] = true
		case OpIf0:
			collectMuts(ins.Then, out)
			collectMuts(ins.Else, out)
		case OpLoop:
			collectMuts(ins.Body, out)
		}
	}
}

// optimizeBlock runs one abstract-interpretation pass over b, threading st
// through each instruction in order and returning the rewritten block.
func optimizeBlock(b Block, st *state) Block {
	var out Block
	for _, ins := range b {
		out = append(out, optimizeInstr(ins, st)...)
	}
	return out
}

func optimizeInstr(ins Instr, st *state) Block {
	switch ins.Op {
	case OpCopy:
		if !st.used[ins.Dst] {
			return nil
		}
		var rewritten asm.AsmValue
		var newFact fact
		if ins.Src.Kind == asm.ValueVar {
			meta := st.resolveMeta(ins.Src.Var)
			rewritten = asmValueOf(meta, ins.Src.Var)
			if meta.kind == factAlias && meta.alias == ins.Dst {
				// the source already resolves to Dst itself: the copy
				// leaves every fact unchanged.
				return Block{Copy(ins.Dst, rewritten)}
			}
			newFact = meta
		} else {
			rewritten = ins.Src
			newFact = valuesFact(uint64(ins.Src.Number))
		}
		st.set(ins.Dst, newFact)
		return Block{Copy(ins.Dst, rewritten)}

	case OpIncrement, OpDecrement:
		if !st.used[ins.Dst] {
			return nil
		}
		delta := uint64(1)
		if ins.Op == OpDecrement {
			delta = st.mod() - 1
		}
		cur := st.resolve(ins.Dst)
		if n, ok := cur.single(); ok {
			nv := (n + delta) % st.mod()
			st.set(ins.Dst, valuesFact(nv))
			return Block{Copy(ins.Dst, asm.NumValue(asm.Number(nv)))}
		}
		if cur.kind == factValues {
			mapped := make([]uint64, 0, len(cur.values))
			for v := range cur.values {
				mapped = append(mapped, (v+delta)%st.mod())
			}
			st.set(ins.Dst, valuesFact(mapped...))
		} else {
			st.set(ins.Dst, unknownFact())
		}
		if ins.Op == OpIncrement {
			return Block{Increment(ins.Dst)}
		}
		return Block{Decrement(ins.Dst)}

	case OpIf0:
		if blocksEqual(ins.Then, ins.Else) {
			return optimizeBlock(ins.Then, st)
		}
		cond := st.resolve(condVar(ins.Cond))
		if ins.Cond.Kind == asm.ValueNumber {
			if ins.Cond.Number == 0 {
				return optimizeBlock(ins.Then, st)
			}
			return optimizeBlock(ins.Else, st)
		}
		if cond.kind == factValues {
			if n, ok := cond.single(); ok && n == 0 {
				return optimizeBlock(ins.Then, st)
			}
			if !cond.has(0) {
				return optimizeBlock(ins.Else, st)
			}
		}
		thenState := st.clone()
		thenState.facts[condVar(ins.Cond)] = valuesFact(0)
		thenOut := optimizeBlock(ins.Then, thenState)

		elseState := st.clone()
		elseState.facts[condVar(ins.Cond)] = nonZeroFact(st, cond)
		elseOut := optimizeBlock(ins.Else, elseState)

		merged := merge(thenState, elseState)
		*st = *merged
		return Block{If0(ins.Cond, thenOut, elseOut)}

	case OpLoop:
		muts := make(map[asm.Var]bool)
		collectMuts(ins.Body, muts)
		for v := range muts {
			delete(st.facts, v)
		}
		bodyState := st.clone()
		bodyOut := optimizeBlock(ins.Body, bodyState)
		return Block{Loop(bodyOut)}

	case OpBreak:
		return Block{Break()}
	case OpContinue:
		return Block{Continue()}
	case OpStop:
		return Block{Stop()}

	case OpReadRegister:
		if !st.used[ins.Dst] {
			return nil
		}
		st.set(ins.Dst, unknownFact())
		return Block{ReadRegister(ins.Dst, ins.Reg)}

	case OpWriteRegister:
		var rewritten asm.AsmValue
		if ins.Src.Kind == asm.ValueVar {
			meta := st.resolveMeta(ins.Src.Var)
			rewritten = asmValueOf(meta, ins.Src.Var)
		} else {
			rewritten = ins.Src
		}
		return Block{WriteRegister(ins.Reg, rewritten)}
	}
	return Block{ins}
}

func condVar(v asm.AsmValue) asm.Var {
	if v.Kind == asm.ValueVar {
		return v.Var
	}
	return -1
}

// nonZeroFact computes the else-branch refinement of cond: if Unknown,
// widen to the full nonzero domain; if a concrete set, drop zero from it.
func nonZeroFact(st *state, cond fact) fact {
	if cond.kind != factValues {
		all := make([]uint64, 0, st.cap()-1)
		for i := uint64(1); i < st.mod(); i++ {
			all = append(all, i)
		}
		return valuesFact(all...)
	}
	out := make([]uint64, 0, len(cond.values))
	for v := range cond.values {
		if v != 0 {
			out = append(out, v)
		}
	}
	return valuesFact(out...)
}

func blocksEqual(a, b Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !instrEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func instrEqual(a, b Instr) bool {
	if a.Op != b.Op || a.Dst != b.Dst || a.Src != b.Src || a.Cond != b.Cond || a.Reg != b.Reg {
		return false
	}
	return blocksEqual(a.Then, b.Then) && blocksEqual(a.Else, b.Else) && blocksEqual(a.Body, b.Body)
}

// Stats reports the before/after instruction counts and iteration count of
// an Optimize run, for the CLI to print — libraries here never print
// directly.
type Stats struct {
	Before     int
	After      int
	Iterations int
}

// Optimize runs the abstract-interpretation optimizer to fixpoint: repeat
// the pass until the program's structural hash stops changing.
//
// Grounded on optimizer.rs's opt(): liveness is recomputed fresh at the
// start of every iteration, since dead-store elimination in one iteration
// can make previously-live variables dead in the next.
func Optimize(prog Block, base uint) (Block, Stats) {
	before := prog.Count()
	cur := prog
	prevHash := structuralHash(cur)
	iterations := 0
	for {
		iterations++
		used := make(map[asm.Var]bool)
		collectUsed(cur, used)
		st := newState(base, used)
		cur = optimizeBlock(cur, st)
		h := structuralHash(cur)
		if h == prevHash {
			break
		}
		prevHash = h
	}
	return cur, Stats{Before: before, After: cur.Count(), Iterations: iterations}
}

// structuralHash hashes a deterministic textual rendering of b. Grounded
// on optimizer.rs's calculate_hash/DefaultHasher fixpoint check.
func structuralHash(b Block) uint64 {
	h := fnv.New64a()
	writeBlockHash(h, b)
	return h.Sum64()
}

func writeBlockHash(h interface{ Write([]byte) (int, error) }, b Block) {
	for _, ins := range b {
		fmt.Fprintf(h, "%d|%d|%v|%v|%d|", ins.Op, ins.Dst, ins.Src, ins.Cond, ins.Reg)
		writeBlockHash(h, ins.Then)
		h.Write([]byte("/"))
		writeBlockHash(h, ins.Else)
		h.Write([]byte("/"))
		writeBlockHash(h, ins.Body)
		h.Write([]byte(";"))
	}
}
