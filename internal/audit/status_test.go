package audit

import (
	"testing"

	"github.com/hwcompat/hwcompat/internal/compatdb"
)

func TestResolve(t *testing.T) {
	ent := &compatdb.Entry{
		AvailableInRHEL:  []int{7, 8},
		MaintainedInRHEL: []int{7},
	}

	tests := []struct {
		name   string
		entry  *compatdb.Entry
		target int
		want   Status
	}{
		{"nil entry is always ok", nil, 9, StatusOK},
		{"nil entry any version", nil, 0, StatusOK},
		{"available and maintained", ent, 7, StatusOK},
		{"available but unmaintained", ent, 8, StatusUnmaintained},
		{"not available", ent, 9, StatusRemoved},
		{"version in neither set", ent, 42, StatusRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.entry, tt.target); got != tt.want {
				t.Errorf("Resolve(%v, %d) = %q, want %q", tt.entry, tt.target, got, tt.want)
			}
		})
	}
}

func TestResolveEmptySets(t *testing.T) {
	// removed takes precedence over unmaintained when both sets miss
	ent := &compatdb.Entry{}
	if got := Resolve(ent, 9); got != StatusRemoved {
		t.Errorf("Resolve = %q, want removed", got)
	}
}
