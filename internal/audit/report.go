package audit

import (
	"fmt"
	"sort"

	"github.com/hwcompat/hwcompat/internal/compatdb"
	"github.com/hwcompat/hwcompat/internal/exceptions"
	"github.com/hwcompat/hwcompat/internal/kmod"
)

// Finding kinds.
const (
	KindDevice = "device"
	KindModule = "module"
)

// Finding is one reportable incompatibility.
type Finding struct {
	Kind    string          `json:"type"`
	Subject string          `json:"object"`
	Status  Status          `json:"status"`
	Reason  string          `json:"reason"`
	Entry   *compatdb.Entry `json:"entry"`
}

// Input collects everything the report builder consumes.
type Input struct {
	Records  []MatchRecord   // device match results, inventory order
	Claimed  map[string]bool // module names claimed by some device
	Loaded   map[string]bool // currently loaded modules
	Builtin  map[string]bool // modules built into the running kernel
	Index    *compatdb.Index
	Target   int
	Resolver kmod.Resolver // nil when the driver-presence check is disabled
	Except   exceptions.Matcher
}

// BuildReport computes the ordered incompatibility findings for the target
// version: devices first, in match order, then loaded modules no device
// claimed. Excepted names are dropped; everything else is reported exactly
// once.
func BuildReport(in Input) ([]Finding, error) {
	var findings []Finding
	add := func(f Finding, name string) {
		if in.Except.Match(name) {
			return
		}
		findings = append(findings, f)
	}

	for _, rec := range in.Records {
		f, ok, err := deviceFinding(rec, in)
		if err != nil {
			return nil, err
		}
		if ok {
			add(f, rec.Device.Alias())
		}
	}

	for _, mod := range orphanModules(in.Loaded, in.Claimed) {
		ent := in.Index.ModuleEntry(mod)
		st := Resolve(ent, in.Target)
		if st == StatusOK {
			continue
		}
		add(Finding{Kind: KindModule, Subject: mod, Status: st, Entry: ent}, mod)
	}

	return findings, nil
}

// deviceFinding evaluates one match record. A device without a database
// entry is only reported when the module index has no driver at all for its
// alias; that check needs a resolvable current module and is skipped when
// the resolver is disabled.
func deviceFinding(rec MatchRecord, in Input) (Finding, bool, error) {
	dev := rec.Device

	if rec.Entry == nil {
		if rec.Module == "" {
			return Finding{}, false, nil
		}
		if len(dev.Candidates()) == 0 && !in.Builtin[rec.Module] {
			return Finding{}, false, nil
		}
		if in.Resolver == nil {
			return Finding{}, false, nil
		}
		has, err := in.Resolver.HasModule(dev.Alias())
		if err != nil {
			return Finding{}, false, err
		}
		if has {
			// some driver exists even though the database is silent
			return Finding{}, false, nil
		}
		return Finding{
			Kind:    KindDevice,
			Subject: dev.String(),
			Status:  StatusRemoved,
			Reason:  fmt.Sprintf("no module found for alias %s", dev.Alias()),
		}, true, nil
	}

	st := Resolve(rec.Entry, in.Target)
	if st == StatusOK {
		return Finding{}, false, nil
	}

	var reason string
	if rec.Module == "" {
		reason = fmt.Sprintf("Device with ID %s is %s", rec.Entry.DeviceID, st)
	} else {
		reason = fmt.Sprintf("Module %s is %s", rec.Module, st)
	}
	return Finding{
		Kind:    KindDevice,
		Subject: dev.String(),
		Status:  st,
		Reason:  reason,
		Entry:   rec.Entry,
	}, true, nil
}

// orphanModules returns the loaded modules no device claimed, sorted so the
// report is stable across runs.
func orphanModules(loaded, claimed map[string]bool) []string {
	var orphans []string
	for mod := range loaded {
		if !claimed[mod] {
			orphans = append(orphans, mod)
		}
	}
	sort.Strings(orphans)
	return orphans
}
