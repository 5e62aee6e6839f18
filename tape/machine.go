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

// Word is the raw value stored in a tape cell. The machine never produces or
// consumes negative values.
type Word uint64

// Machine is the contract shared by every Cythan tape back-end: a single
// step operation plus random-access get/set. Reads past the end of the tape
// return the back-end's fill value; writes past the end extend it.
type Machine interface {
	// Step executes one machine cycle: advance the program counter at cell
	// zero, then copy the cell addressed by the first operand to the cell
	// addressed by the second.
	Step()
	// Get returns the word at index i, or the fill value if i is beyond the
	// current extent of the tape.
	Get(i int) Word
	// Set stores v at index i, growing the tape if necessary.
	Set(i int, v Word)
}

// Len reports the number of cells currently materialized by m, for back-ends
// that expose it. Not part of the Machine contract: callers that need it use
// a type switch or the Lener interface below.
type Lener interface {
	Len() int
}

// Dense is the flat-array tape back-end. It is optimized for the fixed
// step=2, fill=0 case that every Cythan program actually runs under, and is
// the fastest back-end for small and moderate programs.
//
// Grounded on Cythan-V2's BasicCythan: growth on write only happens when the
// stored value is non-zero, since a zero write past the current length is
// already what a read would return.
type Dense struct {
	cells []Word
}

// NewDense creates a Dense machine pre-loaded with prog. The tape grows on
// demand past len(prog).
func NewDense(prog []Word) *Dense {
	cells := make([]Word, len(prog))
	copy(cells, prog)
	return &Dense{cells: cells}
}

// Len returns the number of cells currently materialized.
func (d *Dense) Len() int { return len(d.cells) }

// Step advances the machine by one cycle.
func (d *Dense) Step() {
	var pc int
	if len(d.cells) == 0 {
		d.cells = append(d.cells, 2)
	} else {
		pc = int(d.cells[0])
		d.cells[0] = Word(pc) + 2
	}
	src := d.Get(pc)
	dst := d.Get(pc + 1)
	d.Set(int(dst), d.Get(int(src)))
}

// Get returns the word at index i, defaulting to 0 past the current extent.
func (d *Dense) Get(i int) Word {
	if i < 0 || i >= len(d.cells) {
		return 0
	}
	return d.cells[i]
}

// Set stores v at index i, extending the tape with zeros as needed. Writing
// a zero past the current extent is a no-op since a subsequent read would
// already yield zero.
func (d *Dense) Set(i int, v Word) {
	if i < 0 {
		return
	}
	if i < len(d.cells) {
		d.cells[i] = v
		return
	}
	if v == 0 {
		return
	}
	d.cells = append(d.cells, make([]Word, i-len(d.cells)+1)...)
	d.cells[i] = v
}

// Cells returns the live slice backing the tape. Callers must not retain it
// across further Step/Set calls that might reallocate.
func (d *Dense) Cells() []Word { return d.cells }
