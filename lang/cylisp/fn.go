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
	"io/fs"

	"github.com/db47h/cythan/lang"
	"github.com/db47h/cythan/mir"
)

// fnFn implements `(fn name (param...) (block ...))`: it registers a new
// function in the defining scope whose body lowers with each parameter
// bound by value to the corresponding call argument, and whose closure
// captures the defining scope so the body can see variables visible at
// the point of definition (but not ones declared by its caller).
//
// Grounded on original_source/src/compiler/functions/fn_fn.rs's FN,
// simplified from its `&`/`*` reference-parameter sigils (which alias the
// caller's variable rather than copy it) to plain by-value binding, since
// this frontend's variable model has no separate by-reference notion to
// preserve faithfully.
func fnFn(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 3 {
		return lang.CVariable{}, arityError(call.Span, 3)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a function name")
	}
	name := call.Args[0].Name

	if call.Args[1].Kind != lang.ArgBlock {
		return lang.CVariable{}, shapeError(call.Args[1].Span, "a parameter list (p1 p2 ...)")
	}
	cb, ok := call.Args[1].Block.(*callBlock)
	if !ok {
		return lang.CVariable{}, shapeError(call.Args[1].Span, "a parameter list (p1 p2 ...)")
	}
	params := make([]string, 0, len(cb.e.items))
	for _, p := range cb.e.items {
		if p.kind != exprSymbol {
			return lang.CVariable{}, shapeError(p.span, "a parameter name")
		}
		params = append(params, p.text)
	}

	body, err := bodyOf(call.Args[2])
	if err != nil {
		return lang.CVariable{}, err
	}

	defScope := sc
	sc.AddFunction(name, func(st2 *lang.State, callerScope *lang.Scope, innerCall lang.Call) (lang.CVariable, error) {
		if len(innerCall.Args) != len(params) {
			return lang.CVariable{}, arityError(innerCall.Span, len(params))
		}
		fnScope := defScope.Child()
		for i, p := range params {
			val, err := valueOf(st2, callerScope, innerCall.Args[i])
			if err != nil {
				return lang.CVariable{}, err
			}
			// Copy the argument's value into a fresh cell: parameters
			// bind by value, so mutating one inside the body must not be
			// visible to the caller's variable.
			pv := fnScope.DeclareVariable(st2, p)
			st2.Emit(mir.Copy(pv, val.AsmValue()))
		}
		return lowerBlockForm(st2, fnScope, body)
	})
	return lang.NoValue, nil
}

// fnInclude implements `(include "path")`: it reads path relative to the
// Frontend's filesystem root and splices the parsed file's top-level
// forms into the current instruction stream and scope, as if they
// appeared inline at the include site.
//
// Grounded on original_source/src/compiler/functions/fn_include.rs's
// INCLUDE, adapted from its path-relative-to-the-including-file
// resolution (which this toolchain's single-fs.FS model doesn't track
// per-file) to resolution relative to the Frontend's configured root.
func (f *Frontend) fnInclude(st *lang.State, sc *lang.Scope, call lang.Call) (lang.CVariable, error) {
	if len(call.Args) != 1 {
		return lang.CVariable{}, arityError(call.Span, 1)
	}
	if call.Args[0].Kind != lang.ArgLiteralName {
		return lang.CVariable{}, shapeError(call.Args[0].Span, "a quoted file path")
	}
	path := call.Args[0].Name
	src, err := fs.ReadFile(f.fsys, path)
	if err != nil {
		return lang.CVariable{}, lang.Wrap(
			lang.NewError(lang.ErrIO, call.Args[0].Span, "cannot read %q: %v", path, err), call.Span)
	}
	forms, perr := parseProgram(src, path)
	if perr != nil {
		return lang.CVariable{}, lang.Wrap(perr, call.Span)
	}
	result := lang.NoValue
	for _, e := range forms {
		v, err := f.lowerForm(e, st, sc)
		if err != nil {
			return lang.CVariable{}, lang.Wrap(err, call.Span)
		}
		result = v
	}
	return result, nil
}
