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

import "testing"

type byteSink struct{ got []byte }

func (s *byteSink) WriteByte(b byte) error {
	s.got = append(s.got, b)
	return nil
}

type byteSource struct {
	data []byte
	pos  int
}

func (s *byteSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, errEOF
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errEOF = sentinelErr("no more input")

func TestInterruptedEmit(t *testing.T) {
	base := uint(4)
	if InterruptCell(base) != 34 {
		t.Fatalf("InterruptCell(4) = %d, want 34", InterruptCell(base))
	}
	m := NewDense(nil)
	sink := &byteSink{}
	im := NewInterrupted(m, base, sink, nil)
	im.Set(35, 0x4)
	im.Set(36, 0x8)
	im.Set(34, 1)
	if len(sink.got) != 1 || sink.got[0] != 0x48 {
		t.Fatalf("got %x, want [0x48]", sink.got)
	}
}

func TestInterruptedAbsorb(t *testing.T) {
	base := uint(4)
	m := NewDense(nil)
	src := &byteSource{data: []byte{0xAB}}
	im := NewInterrupted(m, base, nil, src)
	im.Set(34, 2)
	if got := im.Get(35); got != 0xA {
		t.Fatalf("cell 35 = %d, want 10", got)
	}
	if got := im.Get(36); got != 0xB {
		t.Fatalf("cell 36 = %d, want 11", got)
	}
}
