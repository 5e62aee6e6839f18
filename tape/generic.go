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

package tape

// Fill computes the word a generalized Machine returns for a read past the
// current extent of its tape, as a function of the cell index.
type Fill func(i int) Word

// ConstFill returns a Fill that always yields v, regardless of index.
func ConstFill(v Word) Fill {
	return func(int) Word { return v }
}

// ZeroFill is the default fill used by Dense and Chunked.
var ZeroFill Fill = func(int) Word { return 0 }

// Generic is the fully parameterized tape back-end described by spec.md's
// "Generalized form": an arbitrary positive step and an arbitrary fill
// function. Grounded on Cythan-V2's CompleteCythan/DefaultGenerator.
//
// Unlike Dense, Generic must extend the tape even when the value being
// written is the fill value at that index is not necessarily zero, so every
// gap is filled in with the fill function's output rather than skipped.
type Generic struct {
	cells []Word
	step  int
	fill  Fill
}

// NewGeneric creates a Generic machine with the given step and fill
// function. step must be positive.
func NewGeneric(prog []Word, step int, fill Fill) *Generic {
	if step <= 0 {
		step = 2
	}
	if fill == nil {
		fill = ZeroFill
	}
	cells := make([]Word, len(prog))
	copy(cells, prog)
	return &Generic{cells: cells, step: step, fill: fill}
}

// Len returns the number of cells materialized.
func (g *Generic) Len() int { return len(g.cells) }

// Step advances the machine by one cycle using the configured step size.
func (g *Generic) Step() {
	pc := int(g.get0()) + g.step
	g.setCell(0, Word(pc))
	src := g.Get(pc - g.step)
	dst := g.Get(pc - g.step + 1)
	g.Set(int(dst), g.Get(int(src)))
}

func (g *Generic) get0() Word {
	if len(g.cells) == 0 {
		return Word(g.fill(0))
	}
	return g.cells[0]
}

func (g *Generic) setCell(i int, v Word) {
	g.growTo(i)
	g.cells[i] = v
}

// growTo ensures index i is materialized, filling any newly created gap
// cells with g.fill, then returns.
func (g *Generic) growTo(i int) {
	if i < len(g.cells) {
		return
	}
	for j := len(g.cells); j < i; j++ {
		g.cells = append(g.cells, g.fill(j))
	}
	g.cells = append(g.cells, 0)
}

// Get returns the word at index i, defaulting to fill(i) past the current
// extent.
func (g *Generic) Get(i int) Word {
	if i < 0 {
		return g.fill(i)
	}
	if i >= len(g.cells) {
		return g.fill(i)
	}
	return g.cells[i]
}

// Set stores v at index i, extending the tape with fill(j) for every
// skipped gap cell j.
func (g *Generic) Set(i int, v Word) {
	if i < 0 {
		return
	}
	if i < len(g.cells) {
		g.cells[i] = v
		return
	}
	for j := len(g.cells); j < i; j++ {
		g.cells = append(g.cells, g.fill(j))
	}
	g.cells = append(g.cells, v)
}

// Cells returns the live slice backing the tape.
func (g *Generic) Cells() []Word { return g.cells }
