package kmod

import "errors"

// FakeResolver is a deterministic in-memory Resolver for tests.
type FakeResolver struct {
	// Modules maps aliases to lookup results.
	Modules map[string]bool
	// Err, when set, is returned by every lookup.
	Err error

	Lookups []string
	closed  bool
}

func (r *FakeResolver) HasModule(alias string) (bool, error) {
	if r.closed {
		return false, errors.New("lookup on closed resolver")
	}
	r.Lookups = append(r.Lookups, alias)
	if r.Err != nil {
		return false, r.Err
	}
	return r.Modules[alias], nil
}

func (r *FakeResolver) Close() error {
	if r.closed {
		return errors.New("resolver closed twice")
	}
	r.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (r *FakeResolver) Closed() bool {
	return r.closed
}
