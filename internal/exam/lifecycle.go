package exam

// Lifecycle: draft -> active -> archived, with deleted reachable from
// any state and reversible via restore. Purge is only valid from
// deleted and is irreversible.

func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusActive, StatusArchived, StatusDeleted:
		return true
	}
	return false
}

// CanTransition reports whether a direct status patch from -> to is
// allowed. Delete/restore/purge go through their own operations, so a
// plain status patch may not enter or leave the deleted state.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusDraft:
		return to == StatusActive || to == StatusArchived
	case StatusActive:
		return to == StatusArchived || to == StatusDraft
	case StatusArchived:
		return to == StatusActive
	}
	return false
}

// ReadableBy reports whether a caller with the given role may fetch an
// exam in this status. Students only see active exams; privileged
// callers see everything that has not been deleted.
func ReadableBy(s Status, role string) bool {
	if role == "admin" {
		return s != StatusDeleted
	}
	return s == StatusActive
}
