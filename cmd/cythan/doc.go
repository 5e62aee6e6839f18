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

// The cythan command is a showcase for the github.com/db47h/cythan
// toolchain: it compiles a cylisp source file through the MIR optimizer and
// assembly lowering, then either runs the result interactively or writes
// one of four build artifacts.
//
// Usage:
//
//	cythan run <source> [base]
//	cythan build <source> <output> <kind> [base]
//
// run compiles source and executes it on an AsmVM, with standard input and
// output bound to registers 1 and 2 respectively (register 0 carries the
// exit code set by the `exit` intrinsic). base defaults to 4 when omitted.
//
// build compiles source and writes output in one of four kinds:
//
//	bytecode  the assembly emitter's textual template
//	v3        a textual dump of the optimized MIR
//	cythan    a textual list of tape words, one per declared variable
//	binary    the same words as a TapeEncoder byte stream
//
// The cythan and binary kinds execute the compiled program on an AsmVM to
// resolve concrete values, since the real text-to-tape assembler that would
// place variables at addressable tape cells is outside this toolchain's
// scope (see SPEC_FULL.md 10.5); they capture the final value of each
// variable rather than a general memory image.
package main
