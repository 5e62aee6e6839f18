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

package mir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a textual, indented listing of b, the "v3" intermediate form
// named by the build CLI verb. Mirrors db47h-ngaro's vm/image.go
// Disassemble in spirit: a human-readable rendering of an otherwise opaque
// intermediate, not meant to be parsed back.
func Dump(w io.Writer, b Block) error {
	return dumpBlock(w, b, 0)
}

func dumpBlock(w io.Writer, b Block, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, ins := range b {
		if err := dumpInstr(w, ins, indent, depth); err != nil {
			return err
		}
	}
	return nil
}

func dumpInstr(w io.Writer, ins Instr, indent string, depth int) error {
	switch ins.Op {
	case OpCopy:
		_, err := fmt.Fprintf(w, "%scopy %s <- %s\n", indent, ins.Dst, ins.Src)
		return err
	case OpIncrement:
		_, err := fmt.Fprintf(w, "%sinc %s\n", indent, ins.Dst)
		return err
	case OpDecrement:
		_, err := fmt.Fprintf(w, "%sdec %s\n", indent, ins.Dst)
		return err
	case OpIf0:
		if _, err := fmt.Fprintf(w, "%sif0 %s then\n", indent, ins.Cond); err != nil {
			return err
		}
		if err := dumpBlock(w, ins.Then, depth+1); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%selse\n", indent); err != nil {
			return err
		}
		if err := dumpBlock(w, ins.Else, depth+1); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%send\n", indent)
		return err
	case OpLoop:
		if _, err := fmt.Fprintf(w, "%sloop\n", indent); err != nil {
			return err
		}
		if err := dumpBlock(w, ins.Body, depth+1); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%send\n", indent)
		return err
	case OpBreak:
		_, err := fmt.Fprintf(w, "%sbreak\n", indent)
		return err
	case OpContinue:
		_, err := fmt.Fprintf(w, "%scontinue\n", indent)
		return err
	case OpStop:
		_, err := fmt.Fprintf(w, "%sstop\n", indent)
		return err
	case OpReadRegister:
		_, err := fmt.Fprintf(w, "%s%s <- reg[%d]\n", indent, ins.Dst, ins.Reg)
		return err
	case OpWriteRegister:
		_, err := fmt.Fprintf(w, "%sreg[%d] <- %s\n", indent, ins.Reg, ins.Src)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s<unknown op %d>\n", indent, ins.Op)
		return err
	}
}
