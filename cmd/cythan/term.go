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
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// setRawIO switches stdin to raw mode for interactive `run`, returning a
// func to restore the previous terminal state.
//
// Grounded on cmd/retro/term.go's setRawIO/ioctl pair, replaced with
// golang.org/x/term (see DESIGN.md's dropped-dependency note) which covers
// the same raw-mode-around-a-file-descriptor need without a hand-rolled
// termios/ioctl syscall pair per OS.
func setRawIO() (func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	prev, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "term.MakeRaw failed")
	}
	return func() { term.Restore(fd, prev) }, nil
}
