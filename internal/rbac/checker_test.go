package rbac

import "testing"

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"student", "exam:view", true},
		{"student", "exam:submit", true},
		{"student", "violation:record", true},
		{"student", "exam:create", false},
		{"student", "exam:purge", false},
		{"student", "admin:stats", false},
		{"admin", "exam:purge", true},
		{"admin", "admin:deleted", true},
		{"", "exam:view", false},
		{"proctor", "exam:view", false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestPrefixMatch(t *testing.T) {
	c := NewChecker(map[string][]string{"grader": {"exam:*"}})
	if !c.Has("grader", "exam:view") {
		t.Error("prefix pattern should match exam:view")
	}
	if c.Has("grader", "admin:stats") {
		t.Error("prefix pattern must not match other namespaces")
	}
	if !c.Any("grader", "admin:stats", "exam:submit") {
		t.Error("Any should pass when one permission matches")
	}
}
