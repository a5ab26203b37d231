// Copyright (C) 2026 GR Compiler Contributors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package codemodel

import (
	"bytes"
	"encoding/hex"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// BuildID is a content hash of a Project's YAML dump, stable across
// compiles of the same program. The dump leaves out the fields tagged
// json:"-" (State.Init, UnitaryProgram.Statements, InstrNode.Expr), so
// two Projects that differ only in those fields share a BuildID.
type BuildID string

// Identify computes p's BuildID from its canonical YAML encoding.
func (p *Project) Identify() (BuildID, error) {
	b, err := p.Dump()
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(b)
	return BuildID(hex.EncodeToString(sum[:])), nil
}

// DumpCompressed is Dump followed by zstd compression, for spilling a
// compiled Project to an on-disk build cache without the YAML bulk a
// large service graph's handler bodies produce.
func (p *Project) DumpCompressed() ([]byte, error) {
	raw, err := p.Dump()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadCompressed reverses DumpCompressed, decoding the zstd frame and
// unmarshaling the recovered YAML back into a Project.
func LoadCompressed(data []byte) (*Project, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	return Load(raw)
}
