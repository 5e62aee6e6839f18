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
	"bytes"
	"reflect"
	"testing"
)

func TestImageRoundTrip(t *testing.T) {
	img := &Image{
		Base:    4,
		StartPC: 0,
		Words:   words(1, 9, 5, 10, 1, 0, 0, 11, 0, 1, 20, 21, 300, 70000),
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Base != img.Base || got.StartPC != img.StartPC {
		t.Fatalf("header mismatch: got %+v", got)
	}
	if !reflect.DeepEqual(got.Words, img.Words) {
		t.Fatalf("words mismatch: got %v, want %v", got.Words, img.Words)
	}
}

func TestDecodeBadMagic(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte{0, 0, 0, 0, 4, 0})); err == nil {
		t.Fatal("expected error for bad magic")
	}
}
