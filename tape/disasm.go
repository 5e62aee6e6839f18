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
	"fmt"
	"io"
)

// Disassemble writes a raw listing of words as a sequence of (src, dst)
// operand pairs, two words per line, the form every Cythan instruction
// actually takes. Supplements the machine's opaque tape with something a
// human can read without running it.
func Disassemble(w io.Writer, words []Word) error {
	for pc := 0; pc+1 < len(words); pc += 2 {
		if _, err := fmt.Fprintf(w, "%6d: copy [%d] -> [%d]\n", pc, words[pc], words[pc+1]); err != nil {
			return err
		}
	}
	if len(words)%2 == 1 {
		if _, err := fmt.Fprintf(w, "%6d: copy [%d] -> [?]\n", len(words)-1, words[len(words)-1]); err != nil {
			return err
		}
	}
	return nil
}
