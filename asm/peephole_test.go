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

func TestPeepholeForwardsLabelAboveJump(t *testing.T) {
	a := asm.Label{ID: 1, Kind: asm.IfEnd}
	b := asm.Label{ID: 2, Kind: asm.IfEnd}
	prog := asm.Program{
		asm.LabelDef(a),
		asm.Jump(b),
		asm.LabelDef(b),
		asm.Copy(0, asm.NumValue(1)),
	}
	got := asm.Peephole(prog)
	want := asm.Program{
		asm.Jump(b),
		asm.LabelDef(b),
		asm.Copy(0, asm.NumValue(1)),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPeepholeRemovesDeadCodeAfterJump(t *testing.T) {
	end := asm.Label{ID: 1, Kind: asm.IfEnd}
	prog := asm.Program{
		asm.Jump(end),
		asm.Increment(0), // unreachable
		asm.Decrement(1), // unreachable
		asm.LabelDef(end),
		asm.Stop(),
	}
	got := asm.Peephole(prog)
	want := asm.Program{
		asm.Jump(end),
		asm.LabelDef(end),
		asm.Stop(),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPeepholeStopsDeadCodeRemovalAtIf0(t *testing.T) {
	end := asm.Label{ID: 1, Kind: asm.IfEnd}
	prog := asm.Program{
		asm.Jump(end),
		asm.If0(2, end), // not removed: If0 ends the unreachable run
		asm.Increment(0),
		asm.LabelDef(end),
	}
	got := asm.Peephole(prog)
	want := asm.Program{
		asm.Jump(end),
		asm.If0(2, end),
		asm.Increment(0),
		asm.LabelDef(end),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPeepholeTransitiveRemap(t *testing.T) {
	a := asm.Label{ID: 1, Kind: asm.IfEnd}
	b := asm.Label{ID: 2, Kind: asm.IfEnd}
	c := asm.Label{ID: 3, Kind: asm.IfEnd}
	prog := asm.Program{
		asm.LabelDef(a),
		asm.LabelDef(b),
		asm.Jump(c),
		asm.Jump(a), // should resolve through a -> c and b -> c to c directly
		asm.LabelDef(c),
	}
	got := asm.Peephole(prog)
	for _, ins := range got {
		if ins.Op == asm.OpJump && ins.Label != c {
			t.Fatalf("jump not fully remapped: %+v", ins)
		}
	}
}
