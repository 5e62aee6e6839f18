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

package cylisp

import (
	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/lang"
	"github.com/db47h/cythan/mir"
)

// seqBlock lowers an ordered sequence of forms in a child scope, taking
// the value of the last form that produced one — the `(block f1 f2 ...)`
// construct, and the shape required of every if0/loop/fn body argument.
//
// Grounded on original_source/src/compiler/functions/mod.rs's
// execute_code_block.
type seqBlock struct {
	forms []expr
	f     *Frontend
}

func (b *seqBlock) Lower(st *lang.State, sc *lang.Scope) (lang.CVariable, error) {
	child := sc.Child()
	result := lang.NoValue
	for _, e := range b.forms {
		v, err := b.f.lowerForm(e, st, child)
		if err != nil {
			return lang.CVariable{}, err
		}
		result = v
	}
	return result, nil
}

// callBlock lowers a single call form: `(name arg...)`.
type callBlock struct {
	e expr
	f *Frontend
}

func (b *callBlock) Lower(st *lang.State, sc *lang.Scope) (lang.CVariable, error) {
	return b.f.lowerCall(b.e, st, sc)
}

// literalBlock lets a bare number literal or bare variable reference be
// used wherever a lang.Block is expected, e.g. as a one-liner branch
// value rather than a full (block ...) form.
type literalBlock struct{ e expr }

func (b *literalBlock) Lower(st *lang.State, sc *lang.Scope) (lang.CVariable, error) {
	if b.e.kind == exprNumber {
		return lang.NumberResult(asm.Number(b.e.num)), nil
	}
	if v, ok := sc.GetVariable(b.e.text); ok {
		return v, nil
	}
	return lang.CVariable{}, lang.NewError(lang.ErrResolution, b.e.span, "unknown variable %q", b.e.text)
}

// toBlock wraps e as a lang.Block appropriate to its syntactic shape: an
// explicit `(block ...)` form becomes a seqBlock, any other list becomes a
// callBlock, and a bare number/symbol becomes a literalBlock.
func (f *Frontend) toBlock(e expr) lang.Block {
	if e.kind == exprList {
		if len(e.items) > 0 && e.items[0].kind == exprSymbol && e.items[0].text == "block" {
			return &seqBlock{forms: e.items[1:], f: f}
		}
		return &callBlock{e: e, f: f}
	}
	return &literalBlock{e: e}
}

// buildArg classifies one raw argument expression generically: numbers
// and bare symbols carry their own value directly, anything else lowers
// through toBlock.
func (f *Frontend) buildArg(e expr) lang.Arg {
	switch e.kind {
	case exprNumber:
		return lang.Arg{Kind: lang.ArgNumber, Num: asm.Number(e.num), Span: e.span}
	case exprSymbol:
		return lang.Arg{Kind: lang.ArgLiteralName, Name: e.text, Span: e.span}
	case exprString:
		return lang.Arg{Kind: lang.ArgLiteralName, Name: e.text, Span: e.span}
	default:
		return lang.Arg{Kind: lang.ArgBlock, Block: f.toBlock(e), Span: e.span}
	}
}

// lowerForm lowers any single parsed form (number, symbol, or list).
func (f *Frontend) lowerForm(e expr, st *lang.State, sc *lang.Scope) (lang.CVariable, error) {
	switch e.kind {
	case exprNumber:
		return lang.NumberResult(asm.Number(e.num)), nil
	case exprSymbol:
		if v, ok := sc.GetVariable(e.text); ok {
			return v, nil
		}
		return lang.CVariable{}, lang.NewError(lang.ErrResolution, e.span, "unknown variable %q", e.text)
	case exprList:
		return f.lowerCall(e, st, sc)
	default:
		return lang.CVariable{}, lang.NewError(lang.ErrParse, e.span, "unexpected string literal here")
	}
}

// lowerCall resolves and invokes the function named by e's head symbol.
func (f *Frontend) lowerCall(e expr, st *lang.State, sc *lang.Scope) (lang.CVariable, error) {
	if len(e.items) == 0 || e.items[0].kind != exprSymbol {
		return lang.CVariable{}, lang.NewError(lang.ErrParse, e.span, "expected a call form: (name arg...)")
	}
	name := e.items[0].text
	fn, ok := sc.Lookup(name)
	if !ok {
		return lang.CVariable{}, lang.NewError(lang.ErrResolution, e.span, "unknown function %q", name)
	}
	args := make([]lang.Arg, 0, len(e.items)-1)
	for _, a := range e.items[1:] {
		args = append(args, f.buildArg(a))
	}
	return fn(st, sc, lang.Call{Name: name, Span: e.span, Args: args})
}

func arityError(span lang.Span, want int) error {
	return lang.NewError(lang.ErrArity, span, "wrong number of arguments, expected %d", want)
}

func shapeError(span lang.Span, want string) error {
	return lang.NewError(lang.ErrArity, span, "expected %s", want)
}

// valueOf evaluates arg to a CVariable regardless of its syntactic shape:
// a literal number, a bare variable reference, or a nested call/sequence.
func valueOf(st *lang.State, sc *lang.Scope, arg lang.Arg) (lang.CVariable, error) {
	switch arg.Kind {
	case lang.ArgNumber:
		return lang.NumberResult(arg.Num), nil
	case lang.ArgLiteralName:
		if v, ok := sc.GetVariable(arg.Name); ok {
			return v, nil
		}
		return lang.CVariable{}, lang.NewError(lang.ErrResolution, arg.Span, "unknown variable %q", arg.Name)
	case lang.ArgBlock:
		v, err := arg.Block.Lower(st, sc)
		if err != nil {
			return lang.CVariable{}, err
		}
		if !v.HasValue() {
			return lang.CVariable{}, lang.NewError(lang.ErrArity, arg.Span, "this form does not produce a value")
		}
		return v, nil
	}
	return lang.CVariable{}, shapeError(arg.Span, "a value")
}

// bodyOf requires arg to be an explicit `(block ...)` form.
func bodyOf(arg lang.Arg) (*seqBlock, error) {
	if arg.Kind != lang.ArgBlock {
		return nil, shapeError(arg.Span, "a (block ...) form")
	}
	sb, ok := arg.Block.(*seqBlock)
	if !ok {
		return nil, shapeError(arg.Span, "a (block ...) form")
	}
	return sb, nil
}

func fnLet(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 2 {
		return lang.CVariable{}, arityError(call.Span, 2)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a variable name")
	}
	val, err := valueOf(st, sc, call.Args[1])
	if err != nil {
		return lang.CVariable{}, err
	}
	v := sc.DeclareVariable(st, call.Args[0].Name)
	st.Emit(mir.Copy(v, val.AsmValue()))
	return lang.NoValue, nil
}

func fnSet(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 2 {
		return lang.CVariable{}, arityError(call.Span, 2)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a variable name")
	}
	existing, ok := sc.GetVariable(call.Args[0].Name)
	if !ok {
		return lang.CVariable{}, lang.NewError(lang.ErrResolution, call.Args[0].Span, "unknown variable %q", call.Args[0].Name)
	}
	val, err := valueOf(st, sc, call.Args[1])
	if err != nil {
		return lang.CVariable{}, err
	}
	st.Emit(mir.Copy(existing.Var(st), val.AsmValue()))
	return lang.NoValue, nil
}

// fnIf0 lowers each branch into its own isolated instruction accumulator
// (via repeated st.Swap), optionally appending a Copy of that branch's
// value into a shared result variable before the two blocks are spliced
// into one mir.If0. A branch producing no value (a bare side-effecting
// statement) leaves the result undefined on that path; the call as a
// whole only returns a value when both branches do.
//
// Grounded on original_source/src/compiler/functions/fn_if0.rs's IF0,
// which performs the same each-branch-copies-into-`count`-then-merges
// shape, generalized here to the frontend's own seqBlock representation.
func fnIf0(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 2 && len(call.Args) != 3 {
		return lang.CVariable{}, arityError(call.Span, 3)
	}
	cond, err := valueOf(st, sc, call.Args[0])
	if err != nil {
		return lang.CVariable{}, err
	}
	thenBlock, err := bodyOf(call.Args[1])
	if err != nil {
		return lang.CVariable{}, err
	}
	elseBlock := &seqBlock{}
	if len(call.Args) == 3 {
		elseBlock, err = bodyOf(call.Args[2])
		if err != nil {
			return lang.CVariable{}, err
		}
	}

	result := st.Count()

	saved := st.Swap(nil)
	thenVal, err := lowerBlockForm(st, sc.Child(), thenBlock)
	if err != nil {
		return lang.CVariable{}, err
	}
	if thenVal.HasValue() {
		st.Emit(mir.Copy(result, thenVal.AsmValue()))
	}
	thenInstrs := st.Swap(nil)

	elseVal, err := lowerBlockForm(st, sc.Child(), elseBlock)
	if err != nil {
		return lang.CVariable{}, err
	}
	if elseVal.HasValue() {
		st.Emit(mir.Copy(result, elseVal.AsmValue()))
	}
	elseInstrs := st.Swap(saved)

	st.Emit(mir.If0(cond.AsmValue(), thenInstrs, elseInstrs))

	if thenVal.HasValue() && elseVal.HasValue() {
		return lang.VarResult(result), nil
	}
	return lang.NoValue, nil
}

func lowerBlockForm(st *lang.State, sc *lang.Scope, b *seqBlock) (lang.CVariable, error) {
	result := lang.NoValue
	for _, e := range b.forms {
		v, err := b.f.lowerForm(e, st, sc)
		if err != nil {
			return lang.CVariable{}, err
		}
		result = v
	}
	return result, nil
}

func fnLoop(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 1 {
		return lang.CVariable{}, arityError(call.Span, 1)
	}
	body, err := bodyOf(call.Args[0])
	if err != nil {
		return lang.CVariable{}, err
	}
	saved := st.Swap(nil)
	child := sc.Child()
	child.InLoop = true
	if _, err := lowerBlockForm(st, child, body); err != nil {
		return lang.CVariable{}, err
	}
	bodyInstrs := st.Swap(saved)
	st.Emit(mir.Loop(bodyInstrs))
	return lang.NoValue, nil
}

func fnBreak(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 0 {
		return lang.CVariable{}, arityError(call.Span, 0)
	}
	if !sc.InLoop {
		return lang.CVariable{}, lang.NewError(lang.ErrControlFlow, call.Span, "break outside of a loop")
	}
	st.Emit(mir.Break())
	return lang.NoValue, nil
}

func fnContinue(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 0 {
		return lang.CVariable{}, arityError(call.Span, 0)
	}
	if !sc.InLoop {
		return lang.CVariable{}, lang.NewError(lang.ErrControlFlow, call.Span, "continue outside of a loop")
	}
	st.Emit(mir.Continue())
	return lang.NoValue, nil
}

func fnInc(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 1 {
		return lang.CVariable{}, arityError(call.Span, 1)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a variable name")
	}
	v := sc.GetOrDeclareVariable(st, call.Args[0].Name)
	st.Emit(mir.Increment(v.Var(st)))
	return lang.NoValue, nil
}

func fnDec(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 1 {
		return lang.CVariable{}, arityError(call.Span, 1)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a variable name")
	}
	v := sc.GetOrDeclareVariable(st, call.Args[0].Name)
	st.Emit(mir.Decrement(v.Var(st)))
	return lang.NoValue, nil
}

func fnExit(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 1 {
		return lang.CVariable{}, arityError(call.Span, 1)
	}
	val, err := valueOf(st, sc, call.Args[0])
	if err != nil {
		return lang.CVariable{}, err
	}
	st.Emit(mir.WriteRegister(0, val.AsmValue()))
	st.Emit(mir.Stop())
	return lang.NoValue, nil
}

func fnSetReg(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 2 {
		return lang.CVariable{}, arityError(call.Span, 2)
	}
	if call.Args[0].Kind != lang.ArgNumber {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a literal register number")
	}
	val, err := valueOf(st, sc, call.Args[1])
	if err != nil {
		return lang.CVariable{}, err
	}
	st.Emit(mir.WriteRegister(call.Args[0].Num, val.AsmValue()))
	return lang.NoValue, nil
}

func fnGetReg(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 2 {
		return lang.CVariable{}, arityError(call.Span, 2)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a variable name")
	}
	if call.Args[1].Kind != lang.ArgNumber {
		return lang.CVariable{}, shapeError(call.Args[1].Span, "a literal register number")
	}
	v := sc.GetOrDeclareVariable(st, call.Args[0].Name)
	dst := v.Var(st)
	st.Emit(mir.ReadRegister(dst, call.Args[1].Num))
	return lang.NoValue, nil
}
