// Package audit is the matching and status resolution engine: it ties
// enumerated devices and modules to deprecation database entries and builds
// the final report for a target OS version.
package audit

import "github.com/hwcompat/hwcompat/internal/compatdb"

// Status classifies a database entry against the target OS version.
type Status string

const (
	StatusOK           Status = "ok"
	StatusRemoved      Status = "removed"
	StatusUnmaintained Status = "unmaintained"
)

// Resolve maps an entry to its support status in the target version. A nil
// entry means the database has nothing to say, which is ok. A version
// listed in neither set is removed.
func Resolve(ent *compatdb.Entry, target int) Status {
	switch {
	case ent == nil:
		return StatusOK
	case !ent.AvailableIn(target):
		return StatusRemoved
	case !ent.MaintainedIn(target):
		return StatusUnmaintained
	default:
		return StatusOK
	}
}
