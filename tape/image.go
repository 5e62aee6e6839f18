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
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// magic identifies the tape image wire format.
var magic = [4]byte{0xC1, 0x4B, 0xA4, 0x01}

// Image is a decoded tape image: the base the program was compiled for, the
// starting program counter, and the tape words themselves.
type Image struct {
	Base    byte
	StartPC uint64
	Words   []Word
}

// Encode writes img to w in the wire format: 4-byte magic, 1-byte base,
// varint start_pc, then a varint-encoded word per tape cell.
//
// Grounded on db47h-ngaro's vm/mem.go Save, generalized from fixed uint32
// cells to LEB128 varints so arbitrarily large Cythan bases pack tightly.
func Encode(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return errors.Wrap(err, "writing image magic")
	}
	if err := bw.WriteByte(img.Base); err != nil {
		return errors.Wrap(err, "writing image base")
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], img.StartPC)
	if _, err := bw.Write(buf[:n]); err != nil {
		return errors.Wrap(err, "writing start pc")
	}
	for _, word := range img.Words {
		n := binary.PutUvarint(buf[:], uint64(word))
		if _, err := bw.Write(buf[:n]); err != nil {
			return errors.Wrap(err, "writing tape word")
		}
	}
	return errors.Wrap(bw.Flush(), "flushing image")
}

// Decode reads a tape image previously written by Encode.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)
	var got [4]byte
	if _, err := io.ReadFull(br, got[:]); err != nil {
		return nil, errors.Wrap(err, "reading image magic")
	}
	if got != magic {
		return nil, errors.Errorf("bad image magic: got %x, want %x", got, magic)
	}
	base, err := br.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "reading image base")
	}
	startPC, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, errors.Wrap(err, "reading start pc")
	}
	img := &Image{Base: base, StartPC: startPC}
	for {
		word, err := binary.ReadUvarint(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading tape word")
		}
		img.Words = append(img.Words, Word(word))
	}
	return img, nil
}
