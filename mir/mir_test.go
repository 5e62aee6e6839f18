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

package mir_test

import (
	"testing"

	"github.com/db47h/cythan/asm"
	"github.com/db47h/cythan/mir"
)

func TestBlockCount(t *testing.T) {
	b := mir.Block{
		mir.Copy(0, asm.NumValue(1)),
		mir.If0(asm.VarValue(0),
			mir.Block{mir.Increment(1)},
			mir.Block{mir.Decrement(1), mir.Stop()},
		),
		mir.Loop(mir.Block{mir.Break()}),
	}
	// top-level: Copy, If0, Loop = 3
	// If0's Then (1) + Else (2) = 3
	// Loop's Body (1) = 1
	// total = 3 + 3 + 1 = 7
	if got, want := b.Count(), 7; got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}
}
