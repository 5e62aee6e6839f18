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

package asm_test

import (
	"reflect"
	"testing"

	"github.com/db47h/cythan/asm"
)

func TestProgramVars(t *testing.T) {
	prog := asm.Program{
		asm.Copy(1, asm.NumValue(3)),
		asm.Copy(0, asm.VarValue(1)),
		asm.If0(0, asm.Label{ID: 1, Kind: asm.IfEnd}),
		asm.LabelDef(asm.Label{ID: 1, Kind: asm.IfEnd}),
	}
	want := []asm.Var{0, 1}
	if got := prog.Vars(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLabelDerive(t *testing.T) {
	l := asm.Label{ID: 5, Kind: asm.LoopStart}
	end := l.Derive(asm.LoopEnd)
	if end.ID != 5 || end.Kind != asm.LoopEnd {
		t.Fatalf("Derive produced %+v", end)
	}
}

func TestEmitAndParseRoundTrip(t *testing.T) {
	lbl := asm.Label{ID: 1, Kind: asm.IfEnd}
	prog := asm.Program{
		asm.Copy(0, asm.NumValue(0)),
		asm.If0(0, lbl),
		asm.Increment(0),
		asm.LabelDef(lbl),
		asm.Stop(),
	}
	text := asm.Emit(prog)
	parsed, err := asm.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(parsed, prog) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", parsed, prog)
	}
}

func TestParseUnknownInstruction(t *testing.T) {
	if _, err := asm.Parse("frobnicate v0"); err == nil {
		t.Fatal("expected an error for an unknown instruction")
	}
}
