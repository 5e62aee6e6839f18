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

import (
	"reflect"
	"testing"
)

func words(v ...int) []Word {
	w := make([]Word, len(v))
	for i, x := range v {
		w[i] = Word(x)
	}
	return w
}

func TestDenseStepIf(t *testing.T) {
	d := NewDense(words(1, 9, 5, 10, 1, 0, 0, 11, 0, 1, 20, 21))
	for i := 0; i < 10; i++ {
		d.Step()
	}
	want := words(34, 20, 5, 10, 1, 1, 0, 11, 0, 1, 20, 21)
	if got := d.Cells(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDenseStepSimple(t *testing.T) {
	d := NewDense(words(1, 5, 3, 0, 0, 999))
	d.Step()
	want := words(3, 5, 3, 999, 0, 999)
	if got := d.Cells(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestChunkedMatchesDense(t *testing.T) {
	prog := words(1, 9, 5, 10, 1, 0, 0, 11, 0, 1, 20, 21)
	d := NewDense(append([]Word(nil), prog...))
	c := NewChunked(append([]Word(nil), prog...))
	for i := 0; i < 10; i++ {
		d.Step()
		c.Step()
	}
	want := words(34, 20, 5, 10, 1, 1, 0, 11, 0, 1, 20, 21)
	if got := d.Cells(); !reflect.DeepEqual(got, want) {
		t.Fatalf("dense got %v, want %v", got, want)
	}
	if got := c.AsWords(); !reflect.DeepEqual(got, want) {
		t.Fatalf("chunked got %v, want %v", got, want)
	}
}

func TestChunkedStraddle(t *testing.T) {
	prog := make([]Word, chunkSize+4)
	prog[chunkSize-1] = 1
	prog[chunkSize] = 7
	prog[7] = 42
	c := NewChunked(prog)
	src, dst := c.getPair(chunkSize - 1)
	if src != 1 || dst != 7 {
		t.Fatalf("getPair straddle: got (%d,%d), want (1,7)", src, dst)
	}
}

func TestGenericConstFill(t *testing.T) {
	g := NewGeneric(words(1, 0, 10), 2, ConstFill(3))
	g.Step()
	want := words(3, 0, 10, 3, 3, 3, 3, 3, 3, 3, 3)
	if got := g.Cells(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGenericDoubleFill(t *testing.T) {
	g := NewGeneric(words(1), 2, func(i int) Word { return Word(2 * i) })
	for i := 0; i < 10; i++ {
		g.Step()
	}
	want := words(21, 2, 4, 6, 12, 10, 12, 14, 16, 18, 20, 22, 20, 26, 28, 30, 28,
		34, 36, 38, 44, 42, 44, 46, 48, 50, 52, 54, 60, 58, 60, 62, 64, 66, 68, 70,
		68, 74, 76, 78, 80, 82, 84, 86, 76)
	if got := g.Cells(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
