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

// chunkSize is the number of words per block in the Chunked back-end.
// Grounded on Cythan-V2's ChunkedCythan (CHUNK_SIZE = 32).
const chunkSize = 32

type chunk = [chunkSize]Word

// Chunked is the block-array tape back-end: memory is an array of fixed-size
// blocks, materialized lazily. It trades a small amount of per-access
// overhead (computing block/offset) for much better memory behavior on very
// large, sparsely used programs, since unused trailing blocks never get
// touched.
type Chunked struct {
	blocks []chunk
}

// NewChunked creates a Chunked machine pre-loaded with prog.
func NewChunked(prog []Word) *Chunked {
	c := &Chunked{}
	if len(prog) == 0 {
		return c
	}
	n := (len(prog) + chunkSize - 1) / chunkSize
	c.blocks = make([]chunk, n)
	for i, w := range prog {
		c.blocks[i/chunkSize][i%chunkSize] = w
	}
	return c
}

// Len returns the number of cells materialized (blocks * chunkSize).
func (c *Chunked) Len() int { return len(c.blocks) * chunkSize }

// Step advances the machine by one cycle.
func (c *Chunked) Step() {
	var pc int
	if len(c.blocks) == 0 {
		c.blocks = append(c.blocks, chunk{})
		c.blocks[0][0] = 2
	} else {
		pc = int(c.blocks[0][0])
		c.blocks[0][0] = Word(pc) + 2
	}
	src, dst := c.getPair(pc)
	c.Set(int(dst), c.Get(int(src)))
}

// getPair reads the two-word operand pair starting at pc, handling the case
// where it straddles a block boundary: the last slot of one block and the
// first of the next.
func (c *Chunked) getPair(pc int) (Word, Word) {
	blk, off := pc/chunkSize, pc%chunkSize
	if off != chunkSize-1 {
		if blk >= len(c.blocks) {
			return 0, 0
		}
		b := c.blocks[blk]
		return b[off], b[off+1]
	}
	// straddles: last slot of blk, first slot of blk+1
	var a, b Word
	if blk < len(c.blocks) {
		a = c.blocks[blk][chunkSize-1]
	}
	if blk+1 < len(c.blocks) {
		b = c.blocks[blk+1][0]
	}
	return a, b
}

// Get returns the word at index i, defaulting to 0 past the current extent.
func (c *Chunked) Get(i int) Word {
	if i < 0 {
		return 0
	}
	blk := i / chunkSize
	if blk >= len(c.blocks) {
		return 0
	}
	return c.blocks[blk][i%chunkSize]
}

// Set stores v at index i, materializing blocks as needed.
func (c *Chunked) Set(i int, v Word) {
	if i < 0 {
		return
	}
	blk := i / chunkSize
	if blk < len(c.blocks) {
		c.blocks[blk][i%chunkSize] = v
		return
	}
	if v == 0 {
		return
	}
	c.blocks = append(c.blocks, make([]chunk, blk-len(c.blocks)+1)...)
	c.blocks[blk][i%chunkSize] = v
}

// AsWords flattens the chunked tape to a plain slice, trimming trailing
// zero cells beyond the last non-zero word. Mainly useful for tests and
// disassembly where a linear view is convenient.
func (c *Chunked) AsWords() []Word {
	out := make([]Word, len(c.blocks)*chunkSize)
	for bi, b := range c.blocks {
		copy(out[bi*chunkSize:], b[:])
	}
	last := len(out)
	for last > 0 && out[last-1] == 0 {
		last--
	}
	return out[:last]
}
