package jobs

import "strings"

const (
	StatusOffered   = "offered"
	StatusAssigned  = "assigned"
	StatusCompleted = "completed"
)

// Legacy data spells "the work happened" four different ways, plus two
// boolean flags. The canonical status is "completed"; everything below is
// accepted on read so old rows keep counting.
var completedStatuses = map[string]struct{}{
	StatusCompleted: {},
	"done":          {},
	"worked":        {},
	"finished":      {},
}

func IsCompletedStatus(status string) bool {
	_, ok := completedStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// Completed reports whether the assignment counts for earnings. Unrecognized
// status strings contribute nothing rather than erroring.
func (a Assignment) Completed() bool {
	return a.Done || a.IsPast || IsCompletedStatus(a.Status)
}

// CanonicalStatus maps the legacy completed spellings onto the canonical
// value for data entry and migration. Unknown strings pass through unchanged.
func CanonicalStatus(status string) string {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if _, ok := completedStatuses[normalized]; ok {
		return StatusCompleted
	}
	return normalized
}
