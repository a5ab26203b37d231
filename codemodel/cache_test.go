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

import "testing"

func sampleProject() *Project {
	return &Project{
		Components: []ComponentModel{
			{
				Name:  "n",
				Input: Input{Fields: []Field{{Name: "x", Type: "int"}}},
				State: State{Memory: []Field{{Name: "y", Type: "int"}}},
			},
		},
		Services: []Runtime{
			{
				Name:    "svc",
				Inputs:  []IVariant{{Name: "s", Type: "int"}},
				Outputs: []OVariant{{Name: "o", Type: "int"}},
			},
		},
	}
}

func TestIdentifyIsDeterministic(t *testing.T) {
	p := sampleProject()
	id1, err := p.Identify()
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	id2, err := sampleProject().Identify()
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("BuildID not deterministic: %s vs %s", id1, id2)
	}
	if other, _ := (&Project{}).Identify(); other == id1 {
		t.Fatalf("distinct projects produced the same BuildID")
	}
}

func TestDumpCompressedRoundTrip(t *testing.T) {
	p := sampleProject()
	blob, err := p.DumpCompressed()
	if err != nil {
		t.Fatalf("DumpCompressed: %v", err)
	}
	got, err := LoadCompressed(blob)
	if err != nil {
		t.Fatalf("LoadCompressed: %v", err)
	}
	if len(got.Components) != 1 || got.Components[0].Name != "n" {
		t.Fatalf("round-tripped project mismatch: %+v", got)
	}
	if len(got.Services) != 1 || got.Services[0].Name != "svc" {
		t.Fatalf("round-tripped service mismatch: %+v", got)
	}
}
