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

// Package tape implements the Cythan abstract machine: a tape of words
// stepped by copying one cell to another under the direction of a program
// counter stored at cell zero.
//
// Two back-ends satisfy the same Machine contract: Dense keeps a flat
// growable slice and is fastest for small to moderate programs; Chunked
// keeps fixed-size blocks and wins on very large, sparsely used tapes.
// InterruptedMachine layers byte-granular host IO on top of either one.
package tape
