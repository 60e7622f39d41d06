// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"encoding/hex"
	"errors"
	"io"

	"github.com/zeebo/blake3"
)

var (
	ErrGenerateHash = errors.New("could not generate hash")
)

// Fingerprint accumulates a 16-byte blake3 digest over a sequence of writes
type Fingerprint struct {
	h *blake3.Hasher
}

func NewFingerprint() *Fingerprint {
	return &Fingerprint{
		h: blake3.New(),
	}
}

// Writer exposes the underlying hasher so callers can fmt.Fprintf into it
func (f *Fingerprint) Writer() io.Writer {
	return f.h
}

// Write adds each part to the digest followed by a separator so that
// ("ab", "c") and ("a", "bc") hash differently
func (f *Fingerprint) Write(parts ...string) error {
	for _, part := range parts {
		if _, err := f.h.Write([]byte(part)); err != nil {
			return err
		}
		if _, err := f.h.Write([]byte{0}); err != nil {
			return err
		}
	}
	return nil
}

// Sum returns the hex encoded digest
func (f *Fingerprint) Sum() (string, error) {
	digest := f.h.Digest()
	buf := make([]byte, 16)
	n, err := digest.Read(buf)
	if err != nil {
		return "", err
	}
	if n != 16 {
		return "", ErrGenerateHash
	}

	return hex.EncodeToString(buf), nil
}
