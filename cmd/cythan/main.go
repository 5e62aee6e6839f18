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
	"fmt"
	"os"
	"strconv"
)

// defaultBase is the Cythan base used when the CLI's optional [base]
// argument is omitted, per spec.md 6.
const defaultBase = 4

// parseBaseArg reads an optional trailing numeric base argument at index i,
// falling back to defaultBase when args is too short.
func parseBaseArg(args []string, i int) uint {
	if i >= len(args) {
		return defaultBase
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n <= 0 {
		fmt.Fprintf(os.Stderr, "invalid base %q\n", args[i])
		os.Exit(2)
	}
	return uint(n)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: cythan <run|build> ...")
		os.Exit(2)
	}
	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "build":
		buildCmd(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q: want run or build\n", os.Args[1])
		os.Exit(2)
	}
}
