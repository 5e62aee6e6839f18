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

import "github.com/pkg/errors"

// OutputSink receives one output byte assembled from the interrupt cell
// block.
type OutputSink interface {
	WriteByte(b byte) error
}

// InputSource supplies one input byte on demand. A read against an empty
// source is fatal: the host should surface the returned error and abort.
type InputSource interface {
	ReadByte() (byte, error)
}

// InterruptCell computes the designated interrupt cell index for a given
// base, placing it just past the block of 2^base pre-initialized numeric
// literal cells the emitted template reserves.
func InterruptCell(base uint) int {
	return 2*(1<<base) + 2
}

// chunkCount is the number of base-bit chunks needed to pack/unpack one
// byte: ceil(8/base).
func chunkCount(base uint) int {
	return (8 + int(base) - 1) / int(base)
}

// InterruptedMachine wraps a Machine and turns writes to the interrupt cell
// into byte-granular host IO. Writing 1 packs base-bit chunks from the
// cells following the interrupt cell into one big-endian byte and sends it
// to Output; writing 2 reads one byte from Input and unpacks it
// big-endian into those same cells.
//
// Grounded on Cythan-V2's InterruptedCythan, generalized per spec.md 4.2
// from a fixed 2-cell/8-bit pack to ⌈8/base⌉ cells of base bits each.
type InterruptedMachine struct {
	Machine
	Base   uint
	Cell   int
	Output OutputSink
	Input  InputSource
}

// NewInterrupted wraps m with an interrupt transport for the given base,
// using the canonical cell location 2*2^base+2.
func NewInterrupted(m Machine, base uint, out OutputSink, in InputSource) *InterruptedMachine {
	return &InterruptedMachine{
		Machine: m,
		Base:    base,
		Cell:    InterruptCell(base),
		Output:  out,
		Input:   in,
	}
}

// Set intercepts writes to the interrupt cell to trigger output (v==1) or
// input (v==2) before performing the underlying write.
func (im *InterruptedMachine) Set(i int, v Word) {
	if i == im.Cell {
		switch v {
		case 1:
			if err := im.emit(); err != nil {
				panic(err)
			}
		case 2:
			if err := im.absorb(); err != nil {
				panic(err)
			}
		}
	}
	im.Machine.Set(i, v)
}

// emit packs chunkCount(base) cells starting at Cell+1 into one big-endian
// byte and writes it to Output.
func (im *InterruptedMachine) emit() error {
	n := chunkCount(im.Base)
	mask := Word(1)<<im.Base - 1
	var b byte
	for k := 0; k < n; k++ {
		chunk := im.Get(im.Cell+1+k) & mask
		b = (b << im.Base) | byte(chunk)
	}
	if im.Output == nil {
		return nil
	}
	return errors.Wrap(im.Output.WriteByte(b), "interrupt output failed")
}

// absorb reads one byte from Input and unpacks it big-endian into
// chunkCount(base) cells starting at Cell+1.
func (im *InterruptedMachine) absorb() error {
	if im.Input == nil {
		return errors.New("interrupt input requested but no input source configured")
	}
	b, err := im.Input.ReadByte()
	if err != nil {
		return errors.Wrap(err, "interrupt input exhausted")
	}
	n := chunkCount(im.Base)
	mask := Word(1)<<im.Base - 1
	for k := n - 1; k >= 0; k-- {
		im.Set(im.Cell+1+k, Word(b)&mask)
		b >>= im.Base
	}
	return nil
}
