package grading

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		name      string
		supplied  string
		canonical string
		want      bool
	}{
		{"exact", "paris", "paris", true},
		{"case folded", "PARIS", "paris", true},
		{"surrounding whitespace", " Paris ", "paris", true},
		{"both padded", "  london\t", " LONDON ", true},
		{"different answer", "lyon", "paris", false},
		{"interior whitespace differs", "new york", "newyork", false},
		{"empty supplied", "", "paris", false},
		{"both empty", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Match(tc.supplied, tc.canonical); got != tc.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tc.supplied, tc.canonical, got, tc.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	if got := Score(" Paris ", "paris", 2); got != 2 {
		t.Errorf("expected full points on match, got %v", got)
	}
	if got := Score("lyon", "paris", 2); got != 0 {
		t.Errorf("expected zero on mismatch, got %v", got)
	}
	// zero or negative weights fall back to the default of 1
	if got := Score("paris", "paris", 0); got != 1 {
		t.Errorf("expected default weight 1, got %v", got)
	}
}

func TestBand(t *testing.T) {
	cases := []struct {
		name              string
		awarded, possible float64
		want              float64
	}{
		{"all wrong", 0, 10, 0},
		{"all correct", 10, 10, 9},
		{"half correct", 5, 10, 4.5},
		{"no questions", 0, 0, 0},
		{"weighted", 3, 12, 2.25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Band(tc.awarded, tc.possible); got != tc.want {
				t.Errorf("Band(%v, %v) = %v, want %v", tc.awarded, tc.possible, got, tc.want)
			}
		})
	}
}
