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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/lang"
	"github.com/db47h/cythan/lang/cylisp"
	"github.com/db47h/cythan/mir"
)

// compileResult holds every intermediate artifact a build kind might need,
// so build.go never has to re-run a pass it already has the output of.
type compileResult struct {
	mirRaw   mir.Block
	mirOpt   mir.Block
	optStats mir.Stats
	asmProg  asm.Program
}

// compileSource parses and lowers the source at path, then runs the MIR
// optimizer and lowers the result to assembly. base is the Cythan base
// (cell bit width) the program targets; spec.md 6 defaults it to 4.
func compileSource(path string, base uint) (*compileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading source file")
	}
	dir := filepath.Dir(path)
	front := cylisp.NewFrontend(os.DirFS(dir))
	block, err := front.Parse(src, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	st := lang.NewState(base)
	if _, err := block.Lower(st, lang.NewRootScope()); err != nil {
		return nil, err
	}
	opt, stats := mir.Optimize(st.Instructions, base)
	asmProg := asm.Peephole(mir.Lower(opt, st.NextID()))
	return &compileResult{
		mirRaw:   st.Instructions,
		mirOpt:   opt,
		optStats: stats,
		asmProg:  asmProg,
	}, nil
}

// reportCompileError prints err the way spec.md 7 asks: a human-readable
// report with the full span chain, formatted to stderr, exiting nonzero.
// Matches cmd/retro/main.go's atExit convention of writing diagnostics only
// at the CLI boundary.
func reportCompileError(err error) {
	if lerr, ok := err.(*lang.Error); ok {
		fmt.Fprintf(os.Stderr, "%v\n", lerr)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%+v\n", err)
	os.Exit(1)
}
