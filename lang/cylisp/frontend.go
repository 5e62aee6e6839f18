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
)

// Frontend implements lang.SourceFrontend for the cylisp grammar. It
// holds the filesystem `include` resolves paths against; construct one
// with NewFrontend.
type Frontend struct {
	fsys fs.FS
}

// NewFrontend creates a Frontend that resolves `include` paths against
// fsys (typically os.DirFS(sourceDir)).
func NewFrontend(fsys fs.FS) *Frontend {
	return &Frontend{fsys: fsys}
}

// rootScope builds a Scope with every intrinsic from spec.md 6 registered:
// let, set, if0, loop, break, continue, inc, dec, exit, set_reg, get_reg,
// fn, include.
func (f *Frontend) rootScope() *lang.Scope {
	sc := lang.NewRootScope()
	sc.AddFunction("let", fnLet)
	sc.AddFunction("set", fnSet)
	sc.AddFunction("if0", fnIf0)
	sc.AddFunction("loop", fnLoop)
	sc.AddFunction("break", fnBreak)
	sc.AddFunction("continue", fnContinue)
	sc.AddFunction("inc", fnInc)
	sc.AddFunction("dec", fnDec)
	sc.AddFunction("exit", fnExit)
	sc.AddFunction("set_reg", fnSetReg)
	sc.AddFunction("get_reg", fnGetReg)
	sc.AddFunction("fn", fnFn)
	sc.AddFunction("include", f.fnInclude)
	return sc
}

// programBlock is the root Block returned by Parse: the top-level forms
// of the source file, executed in sequence in a fresh root scope.
type programBlock struct {
	forms []expr
	f     *Frontend
}

func (b *programBlock) Lower(st *lang.State, _ *lang.Scope) (lang.CVariable, error) {
	sc := b.f.rootScope()
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

// Parse implements lang.SourceFrontend.
func (f *Frontend) Parse(source []byte, fileName string) (lang.Block, error) {
	forms, err := parseProgram(source, fileName)
	if err != nil {
		return nil, err
	}
	return &programBlock{forms: forms, f: f}, nil
}
