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
	"io"

	"github.com/pkg/errors"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/tape"
)

// ioRegisters is the host side of the generic register file AsmVM calls for
// ReadRegister/WriteRegister. Register numbers follow the same convention
// db47h-ngaro's retro binds ports 1 and 2 to (cmd/retro/main.go's
// port1Handler/port2Handler): register 1 reads one byte from standard
// input, register 2 writes one byte to standard output. Register 0 is
// reserved by the front end's `exit` intrinsic (fn_exit.rs: write the exit
// code to register 0, then stop).
type ioRegisters struct {
	in  io.ByteReader
	out io.Writer

	exitCode tape.Word
	exited   bool
}

// ReadRegister implements asm.RegisterFile. A read against an exhausted
// standard input is fatal: it panics, which AsmVM.Run recovers and reports
// as a run error, matching the teacher's panic-recover idiom in
// vm/core.go.
func (r *ioRegisters) ReadRegister(reg asm.Number) tape.Word {
	if reg != 1 {
		return 0
	}
	b, err := r.in.ReadByte()
	if err != nil {
		panic(errors.Wrap(err, "standard input exhausted"))
	}
	return tape.Word(b)
}

// WriteRegister implements asm.RegisterFile.
func (r *ioRegisters) WriteRegister(reg asm.Number, v tape.Word) {
	switch reg {
	case 0:
		r.exitCode = v
		r.exited = true
	case 2:
		if _, err := r.out.Write([]byte{byte(v)}); err != nil {
			panic(errors.Wrap(err, "standard output write failed"))
		}
	}
}
