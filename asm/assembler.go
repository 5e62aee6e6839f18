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

package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrAsm collects every parse error found in one Parse call, up to
// maxAsmErrors, each tagged with the source line it occurred on.
//
// Grounded on db47h-ngaro/asm/parser.go's ErrAsm: a flat list of
// position-tagged messages rather than a stop-at-first-error design.
type ErrAsm []struct {
	Line int
	Msg  string
}

func (e ErrAsm) Error() string {
	l := make([]string, 0, len(e))
	for _, err := range e {
		l = append(l, fmt.Sprintf("line %d: %s", err.Line, err.Msg))
	}
	return strings.Join(l, "\n")
}

const maxAsmErrors = 10

var labelKindByName = map[string]LabelKind{
	"loop_start": LoopStart,
	"loop_end":   LoopEnd,
	"fn_end":     FunctionEnd,
	"if_start":   IfStart,
	"else_start": ElseStart,
	"if_end":     IfEnd,
	"label":      LoopStart, // fallback kind used by Label.String's default case
}

// parseLabel parses the text produced by Label.String, e.g. "L3_if_end".
func parseLabel(s string) (Label, bool) {
	if len(s) < 2 || s[0] != 'L' {
		return Label{}, false
	}
	rest := s[1:]
	us := strings.IndexByte(rest, '_')
	if us < 0 {
		return Label{}, false
	}
	id, err := strconv.Atoi(rest[:us])
	if err != nil {
		return Label{}, false
	}
	kind, ok := labelKindByName[rest[us+1:]]
	if !ok {
		return Label{}, false
	}
	return Label{ID: id, Kind: kind}, true
}

func parseVar(s string) (Var, bool) {
	if len(s) < 2 || s[0] != 'v' {
		return 0, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, false
	}
	return Var(n), true
}

func parseValue(s string) (AsmValue, bool) {
	if v, ok := parseVar(s); ok {
		return VarValue(v), true
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return AsmValue{}, false
	}
	return NumValue(Number(n)), true
}

// Parse parses the textual template an Emitter produced (the CODE section's
// lines only — VAR_DEF declarations carry no executable meaning, since
// Program.Vars derives them) back into a Program.
//
// Grounded on db47h-ngaro/asm/parser.go's two-pass shape: a first scan
// collects every instruction and accumulates positional errors rather than
// stopping at the first one; there is no second pass here because our
// labels are already fully qualified tokens; forward references need no
// fix-up table the way ngaro's numeric jump targets do.
func Parse(text string) (Program, error) {
	var (
		prog Program
		errs ErrAsm
	)
	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "var ") {
			continue
		}
		if len(errs) >= maxAsmErrors {
			break
		}
		fields := strings.Fields(line)
		ins, err := parseLine(fields)
		if err != "" {
			errs = append(errs, struct {
				Line int
				Msg  string
			}{i + 1, err})
			continue
		}
		prog = append(prog, ins)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return prog, nil
}

func parseLine(f []string) (Instruction, string) {
	if len(f) == 0 {
		return Instruction{}, "empty instruction"
	}
	switch f[0] {
	case "copy":
		if len(f) != 3 {
			return Instruction{}, "copy expects 2 operands"
		}
		dst, ok := parseVar(f[1])
		if !ok {
			return Instruction{}, "copy: bad destination " + f[1]
		}
		src, ok := parseValue(f[2])
		if !ok {
			return Instruction{}, "copy: bad source " + f[2]
		}
		return Copy(dst, src), ""
	case "inc":
		if len(f) != 2 {
			return Instruction{}, "inc expects 1 operand"
		}
		v, ok := parseVar(f[1])
		if !ok {
			return Instruction{}, "inc: bad operand " + f[1]
		}
		return Increment(v), ""
	case "dec":
		if len(f) != 2 {
			return Instruction{}, "dec expects 1 operand"
		}
		v, ok := parseVar(f[1])
		if !ok {
			return Instruction{}, "dec: bad operand " + f[1]
		}
		return Decrement(v), ""
	case "jump":
		if len(f) != 2 {
			return Instruction{}, "jump expects 1 operand"
		}
		l, ok := parseLabel(f[1])
		if !ok {
			return Instruction{}, "jump: bad label " + f[1]
		}
		return Jump(l), ""
	case "label":
		if len(f) != 2 {
			return Instruction{}, "label expects 1 operand"
		}
		l, ok := parseLabel(f[1])
		if !ok {
			return Instruction{}, "label: bad label " + f[1]
		}
		return LabelDef(l), ""
	case "if0":
		if len(f) != 3 {
			return Instruction{}, "if0 expects 2 operands"
		}
		v, ok := parseVar(f[1])
		if !ok {
			return Instruction{}, "if0: bad condition " + f[1]
		}
		l, ok := parseLabel(f[2])
		if !ok {
			return Instruction{}, "if0: bad label " + f[2]
		}
		return If0(v, l), ""
	case "stop":
		if len(f) != 1 {
			return Instruction{}, "stop takes no operands"
		}
		return Stop(), ""
	case "read_reg":
		if len(f) != 3 {
			return Instruction{}, "read_reg expects 2 operands"
		}
		v, ok := parseVar(f[1])
		if !ok {
			return Instruction{}, "read_reg: bad destination " + f[1]
		}
		reg, err := strconv.ParseUint(f[2], 10, 64)
		if err != nil {
			return Instruction{}, "read_reg: bad register " + f[2]
		}
		return ReadRegister(v, Number(reg)), ""
	case "write_reg":
		if len(f) != 3 {
			return Instruction{}, "write_reg expects 2 operands"
		}
		reg, err := strconv.ParseUint(f[1], 10, 64)
		if err != nil {
			return Instruction{}, "write_reg: bad register " + f[1]
		}
		src, ok := parseValue(f[2])
		if !ok {
			return Instruction{}, "write_reg: bad source " + f[2]
		}
		return WriteRegister(Number(reg), src), ""
	default:
		return Instruction{}, "unknown instruction " + f[0]
	}
}
