package exam

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusActive, true},
		{StatusDraft, StatusArchived, true},
		{StatusActive, StatusArchived, true},
		{StatusActive, StatusDraft, true},
		{StatusArchived, StatusActive, true},
		{StatusArchived, StatusDraft, false},
		{StatusDraft, StatusDeleted, false}, // delete goes through DeleteExam
		{StatusDeleted, StatusDraft, false}, // restore goes through RestoreExam
		{StatusActive, StatusActive, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestReadableBy(t *testing.T) {
	if !ReadableBy(StatusActive, "student") {
		t.Error("students should read active exams")
	}
	if ReadableBy(StatusDraft, "student") {
		t.Error("students must not read draft exams")
	}
	if ReadableBy(StatusArchived, "student") {
		t.Error("students must not read archived exams")
	}
	if !ReadableBy(StatusDraft, "admin") {
		t.Error("admins should read draft exams")
	}
	if ReadableBy(StatusDeleted, "admin") {
		t.Error("deleted exams are only reachable via the deleted listing")
	}
}
