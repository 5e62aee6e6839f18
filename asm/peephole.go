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

// Peephole runs a single linear pass over prog that forwards labels
// sitting directly above a Jump, drops unreachable instructions between a
// Jump and the next Label/If0, and remaps every remaining Jump/Label/If0
// operand through the transitive closure of the forwarding table. A label
// the Jump's target already resolves to (such as one directly above a jump
// to itself) is kept rather than forwarded.
//
// Grounded on the commented-out opt_asm/remap functions in
// original_source/src/compiler/asm.rs.
func Peephole(prog Program) Program {
	if len(prog) == 0 {
		return prog
	}
	labelMap := make(map[Label]Label)
	out := make(Program, 0, len(prog))
	inJump := false

	for _, ins := range prog {
		if ins.Op == OpJump {
			inJump = true
			for len(out) > 0 && out[len(out)-1].Op == OpLabel {
				a := out[len(out)-1].Label
				if resolveLabel(ins.Label, labelMap, make(map[Label]Label)) == a {
					break
				}
				out = out[:len(out)-1]
				labelMap[a] = ins.Label
			}
			out = append(out, ins)
			continue
		}
		if inJump && (ins.Op == OpLabel || ins.Op == OpIf0) {
			inJump = false
		}
		if inJump {
			continue
		}
		out = append(out, ins)
	}

	remap(out, labelMap)
	return out
}

// remap rewrites every Jump/Label/If0 operand through the transitive
// closure of amap, guarding against a malformed (cyclic) table rather
// than looping forever — acyclicity is an invariant of how Peephole
// builds the table.
func remap(prog Program, amap map[Label]Label) {
	resolved := make(map[Label]Label, len(amap))
	for i := range prog {
		switch prog[i].Op {
		case OpJump, OpLabel, OpIf0:
			prog[i].Label = resolveLabel(prog[i].Label, amap, resolved)
		}
	}
}

func resolveLabel(l Label, amap map[Label]Label, resolved map[Label]Label) Label {
	if r, ok := resolved[l]; ok {
		return r
	}
	cur := l
	seen := make(map[Label]bool)
	for {
		next, ok := amap[cur]
		if !ok {
			break
		}
		if seen[next] {
			// cyclic forwarding table: a construction bug upstream, not a
			// case this pass can resolve. Stop here rather than loop.
			break
		}
		seen[cur] = true
		cur = next
	}
	resolved[l] = cur
	return cur
}
