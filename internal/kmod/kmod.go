// Package kmod answers whether any installable driver module exists for a
// hardware alias, by querying the module dependency indexes.
package kmod

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Resolver looks up hardware aliases in a module index. Implementations
// hold an index handle that must be released with Close exactly once.
type Resolver interface {
	// HasModule reports whether any module is installable for the alias.
	HasModule(alias string) (bool, error)
	Close() error
}

// ModprobeResolver queries the module indexes through modprobe.
type ModprobeResolver struct {
	dir string // index root passed as 'modprobe -d', empty for the default
}

// NewModprobeResolver opens a resolver over the module index rooted at dir.
// An empty dir uses the running system's modules.
func NewModprobeResolver(dir string) (*ModprobeResolver, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("kmod index dir: %w", err)
		}
	}
	return &ModprobeResolver{dir: dir}, nil
}

func (r *ModprobeResolver) HasModule(alias string) (bool, error) {
	args := []string{"-q", "--resolve-alias"}
	if r.dir != "" {
		args = append(args, "-d", r.dir)
	}
	args = append(args, alias)

	out, err := exec.Command("modprobe", args...).Output()
	if err != nil {
		// a non-zero exit means the alias resolved to nothing
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("module lookup for %s: %w", alias, err)
	}
	return len(bytes.TrimSpace(out)) > 0, nil
}

func (r *ModprobeResolver) Close() error {
	return nil
}
