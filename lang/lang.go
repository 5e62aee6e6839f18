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

// Package lang defines the source-language frontend contract that any
// concrete grammar (see the cylisp subpackage) compiles down to: an
// abstract Block that, given a mutable lowering State and a mutable
// Scope, emits MIR instructions and produces zero or one return-value
// variable.
//
// Grounded on original_source/src/compiler/{state.rs,scope.rs,variable.rs}
// and functions/mod.rs's execute_code_block/get_value helpers, generalized
// from that one concrete grammar into a reusable frontend boundary per
// spec.md 6's "Input source-language interface".
package lang

import (
	"fmt"
	"strings"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/mir"
)

// Span locates a point in a source file, or in an included file's call
// chain. Zero value is the "no location available" span.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// ErrorKind is the error taxonomy from spec.md 7.
type ErrorKind int

const (
	ErrParse ErrorKind = iota
	ErrResolution
	ErrArity
	ErrNumeric
	ErrControlFlow
	ErrIO
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrParse:
		return "parse error"
	case ErrResolution:
		return "resolution error"
	case ErrArity:
		return "arity error"
	case ErrNumeric:
		return "numeric error"
	case ErrControlFlow:
		return "control-flow error"
	case ErrIO:
		return "I/O error"
	case ErrInternal:
		return "internal error"
	default:
		return "error"
	}
}

// Error is a compiler diagnostic. Spans is ordered outermost-first: call
// site, then each included-file site, then the ultimate source location,
// so a report can print the full inclusion/call chain.
//
// Internal errors indicate a lowering-pass invariant violation; they are
// bugs in this toolchain, not in the compiled source, and are never
// recovered from.
type Error struct {
	Kind  ErrorKind
	Msg   string
	Spans []Span
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)
	for _, s := range e.Spans {
		b.WriteString("\n  at ")
		b.WriteString(s.String())
	}
	return b.String()
}

// NewError builds an Error with a single span.
func NewError(kind ErrorKind, span Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Spans: []Span{span}}
}

// Wrap prepends an outer span to an existing Error's chain, building the
// call-site -> include-site -> source-location trace spec.md 7 describes.
// Non-*Error errors are wrapped as an internal error with the single span.
func Wrap(err error, span Span) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		e.Spans = append([]Span{span}, e.Spans...)
		return e
	}
	return &Error{Kind: ErrInternal, Msg: err.Error(), Spans: []Span{span}}
}

// cvarKind discriminates CVariable.
type cvarKind int

const (
	cvarNone cvarKind = iota
	cvarVar
	cvarNumber
)

// CVariable is a compiled expression's result: nothing (a statement with
// no value), a tape variable, or a compile-time-known literal number.
//
// Grounded on original_source/src/compiler/variable.rs's CVariable enum
// (Value/Number), plus an explicit "no value" case this toolchain
// represents with Ok(nil) in the Rust original's Option<CVariable>.
type CVariable struct {
	kind   cvarKind
	v      asm.Var
	number asm.Number
}

// NoValue is the result of a statement that produces no return value.
var NoValue = CVariable{kind: cvarNone}

// VarResult wraps a tape variable as a CVariable.
func VarResult(v asm.Var) CVariable { return CVariable{kind: cvarVar, v: v} }

// NumberResult wraps a literal as a CVariable.
func NumberResult(n asm.Number) CVariable { return CVariable{kind: cvarNumber, number: n} }

// HasValue reports whether c carries a value at all.
func (c CVariable) HasValue() bool { return c.kind != cvarNone }

// AsmValue converts c to an asm.AsmValue, copying a Number fact through
// directly, requiring a caller to have already rejected the NoValue case.
func (c CVariable) AsmValue() asm.AsmValue {
	if c.kind == cvarNumber {
		return asm.NumValue(c.number)
	}
	return asm.VarValue(c.v)
}

// Var returns c's underlying Var, materializing a literal Number into one
// first via a Copy emitted against st if necessary.
func (c CVariable) Var(st *State) asm.Var {
	if c.kind == cvarVar {
		return c.v
	}
	v := st.Count()
	st.Emit(mir.Copy(v, asm.NumValue(c.number)))
	return v
}

// State is the mutable lowering context threaded through every Block's
// Lower call: the shared variable/label index counter and the MIR
// instruction accumulator for the block currently being compiled.
//
// Grounded on original_source/src/compiler/state.rs's State (instructions
// + a monotonic counter shared between variables and the asm labels MIR
// lowering allocates later).
type State struct {
	next         int
	Base         uint
	Instructions mir.Block
}

// NewState creates a lowering state for the given numeric base.
func NewState(base uint) *State {
	return &State{Base: base}
}

// Count allocates a fresh Var index.
func (s *State) Count() asm.Var {
	v := asm.Var(s.next)
	s.next++
	return v
}

// NextID exposes the raw counter value, for MirLowering's label allocator
// to continue from (labels and variables are both just dense integers at
// this level, so they share one counter, per SPEC_FULL.md 4.6).
func (s *State) NextID() int { return s.next }

// Emit appends ins to the instruction stream currently being built.
func (s *State) Emit(ins mir.Instr) { s.Instructions = append(s.Instructions, ins) }

// Swap replaces the instruction accumulator, returning the previous one.
// Used by constructs like Loop and If0 that need to build a nested block
// in isolation before splicing it into the parent as one structured
// instruction.
func (s *State) Swap(next mir.Block) mir.Block {
	prev := s.Instructions
	s.Instructions = next
	return prev
}

// Function is a callable intrinsic or user-defined function: given the
// lowering state, the calling scope, and the call with its unevaluated
// arguments (as Args, left for the function to interpret), it lowers its
// body and returns the block's result.
type Function func(st *State, sc *Scope, call Call) (CVariable, error)

// Call is the frontend-agnostic shape of one function invocation: a name,
// a span, and a list of argument blocks/literals the Function evaluates
// as it sees fit (e.g. if0 lowers each branch into its own block).
type Call struct {
	Name string
	Span Span
	Args []Arg
}

// ArgKind discriminates an Arg's payload.
type ArgKind int

const (
	ArgBlock ArgKind = iota
	ArgLiteralName
	ArgNumber
)

// Arg is one call argument, exactly one of a nested Block, a bare
// identifier (for forms like `set x ...` / `inc x` that bind a name
// rather than evaluate it), or a literal number.
type Arg struct {
	Kind  ArgKind
	Block Block
	Name  string
	Num   asm.Number
	Span  Span
}

// Block is the frontend/core boundary: an abstract syntax node that lowers
// itself into st's instruction stream and returns its value, given the
// scope it executes in.
type Block interface {
	Lower(st *State, sc *Scope) (CVariable, error)
}

// Scope is a lexical binding environment: declared variables and the
// registered intrinsic/user functions visible to calls made within it.
// Child scopes (code blocks, function bodies) share the same function
// table but get their own variable map, mirroring
// original_source/src/compiler/scope.rs's ScopedState.
type Scope struct {
	vars       map[string]CVariable
	functions  map[string]Function
	InLoop     bool
	parent     *Scope
}

// NewRootScope creates a scope with no bindings and an empty function
// table; intrinsics are registered onto it by the concrete frontend.
func NewRootScope() *Scope {
	return &Scope{vars: make(map[string]CVariable), functions: make(map[string]Function)}
}

// Child creates a nested scope sharing s's function table, for lowering
// a nested code block: variables declared inside are invisible once the
// block ends, but the parent's variables remain visible (read-through
// lookup via GetVariable).
func (s *Scope) Child() *Scope {
	return &Scope{vars: make(map[string]CVariable), functions: s.functions, InLoop: s.InLoop, parent: s}
}

// AddFunction registers fn under name, visible from this scope and any
// descendant sharing its function table.
func (s *Scope) AddFunction(name string, fn Function) { s.functions[name] = fn }

// Lookup finds the Function registered for name.
func (s *Scope) Lookup(name string) (Function, bool) {
	fn, ok := s.functions[name]
	return fn, ok
}

// GetVariable resolves name, searching outward through enclosing scopes.
func (s *Scope) GetVariable(name string) (CVariable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return CVariable{}, false
}

// DeclareVariable binds name to a freshly allocated Var in this scope,
// shadowing any outer binding of the same name, and returns it.
func (s *Scope) DeclareVariable(st *State, name string) asm.Var {
	v := st.Count()
	s.vars[name] = VarResult(v)
	return v
}

// GetOrDeclareVariable returns name's existing binding if any, or
// allocates and binds a fresh one.
func (s *Scope) GetOrDeclareVariable(st *State, name string) CVariable {
	if v, ok := s.GetVariable(name); ok {
		return v
	}
	v := st.Count()
	s.vars[name] = VarResult(v)
	return VarResult(v)
}

// LinkVariable binds name directly to an already-computed CVariable,
// without allocating a fresh Var or emitting a Copy.
func (s *Scope) LinkVariable(name string, v CVariable) { s.vars[name] = v }

// SourceFrontend parses a complete source file into a Block ready for
// lowering; intrinsic arity is checked by each intrinsic when the Block is
// lowered, not exposed through this interface. Concrete grammars (e.g.
// cylisp) implement this; the core package never depends on any single
// grammar.
type SourceFrontend interface {
	// Parse reads and parses source, returning the root Block.
	Parse(source []byte, fileName string) (Block, error)
}
