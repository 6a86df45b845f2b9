package catalog

import "testing"

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	if len(first) != 6 {
		t.Fatalf("expected 6 courses, got %d", len(first))
	}
	first[0].Name = "changed"

	if All()[0].Name != "Intro to Comp Sci" {
		t.Error("mutating the result of All must not change the catalog")
	}
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("c3")
	if !ok {
		t.Fatal("expected c3 to exist")
	}
	if c.Code != "PHYS-101" || c.Duration != 2 || c.Credits != 4 {
		t.Errorf("unexpected course %+v", c)
	}
	if _, ok := Lookup("c99"); ok {
		t.Error("c99 should not exist")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		ref    string
		wantID string
		wantOK bool
	}{
		{ref: "c1", wantID: "c1", wantOK: true},
		{ref: "MATH-201", wantID: "c2", wantOK: true},
		{ref: "math-201", wantID: "c2", wantOK: true},
		{ref: "study", wantID: StudySessionID, wantOK: true},
		{ref: "BIO-1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			c, ok := Resolve(tt.ref)
			if ok != tt.wantOK || c.ID != tt.wantID {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.ref, c.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"c1", "c2", "c3", "c4", "c5", "c6"}},
		{query: "  ", want: []string{"c1", "c2", "c3", "c4", "c5", "c6"}},
		{query: "101", want: []string{"c1", "c3"}},
		{query: "DESIGN", want: []string{"c5"}},
		{query: "calc", want: []string{"c2"}},
		{query: "zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Search(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d courses, want %d", tt.query, len(got), len(tt.want))
			}
			for i, c := range got {
				if c.ID != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %s, want %s", tt.query, i, c.ID, tt.want[i])
				}
			}
		})
	}
}
