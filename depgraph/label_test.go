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

package depgraph

import "testing"

func TestLabelAddAndInc(t *testing.T) {
	if got := Weight(2).Add(Weight(3)); got != Weight(5) {
		t.Fatalf("Weight(2).Add(Weight(3)) = %v, want Weight(5)", got)
	}
	if got := Weight(2).Inc(); got != Weight(3) {
		t.Fatalf("Weight(2).Inc() = %v, want Weight(3)", got)
	}
	if got := Top.Inc(); !got.IsTop() {
		t.Fatal("Top.Inc() should still be Top")
	}
}

func TestLabelAddWithTopIsAbsorbing(t *testing.T) {
	if got := Weight(1).Add(Top); !got.IsTop() {
		t.Fatal("Weight(1).Add(Top) should be Top")
	}
	if got := Top.Add(Top); !got.IsTop() {
		t.Fatal("Top.Add(Top) should be Top")
	}
}

func TestLabelLess(t *testing.T) {
	if !Weight(0).Less(Weight(1)) {
		t.Fatal("Weight(0) should be less than Weight(1)")
	}
	if Weight(1).Less(Weight(1)) {
		t.Fatal("Weight(1) should not be less than itself")
	}
	if !Weight(5).Less(Top) {
		t.Fatal("any finite weight should be less than Top")
	}
	if Top.Less(Weight(0)) {
		t.Fatal("Top should never be less than a finite weight")
	}
}

func TestLabelJoinKeepsTheMoreDirectPath(t *testing.T) {
	if got := Weight(0).Join(Weight(3)); got != Weight(0) {
		t.Fatalf("Join should keep the lower weight, got %v", got)
	}
	if got := Weight(2).Join(Top); got != Weight(2) {
		t.Fatalf("Join(finite, Top) should keep the finite weight, got %v", got)
	}
}

func TestLabelNPanicsOnTop(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("N() on Top should panic")
		}
	}()
	Top.N()
}
