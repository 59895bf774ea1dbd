package audit

import (
	"github.com/hwcompat/hwcompat/internal/compatdb"
	"github.com/hwcompat/hwcompat/internal/inventory"
)

// MatchRecord ties one device to the most specific database entry found for
// it. Immutable after creation.
type MatchRecord struct {
	Device inventory.Node
	Module string          // resolved current module, empty for ID-keyed matches
	Entry  *compatdb.Entry // nil when the database has no entry
}

// MatchDevices resolves every device to at most one database entry.
//
// PCI devices are matched by ID first, trying the full 4-component tuple,
// then the (vendor, device, subvendor) prefix, then (vendor, device). An ID
// match records no module: ID identity takes precedence over module
// identity. PCI devices without any ID match fall through to module
// matching together with the non-PCI devices, keyed by their current
// module.
//
// The returned set holds every candidate driver name seen on any device;
// loaded modules outside it are orphans.
func MatchDevices(pci []*inventory.PCIDevice, misc []*inventory.MiscDevice, loaded map[string]bool, idx *compatdb.Index) ([]MatchRecord, map[string]bool) {
	var records []MatchRecord
	claimed := make(map[string]bool)

	checkMod := make([]inventory.Node, 0, len(misc)+len(pci))
	for _, dev := range misc {
		checkMod = append(checkMod, dev)
	}

	for _, dev := range pci {
		for _, mod := range dev.Modules {
			claimed[mod] = true
		}
		if ent := lookupPCI(idx, dev.ID); ent != nil {
			records = append(records, MatchRecord{Device: dev, Entry: ent})
			continue
		}
		checkMod = append(checkMod, dev)
	}

	for _, dev := range checkMod {
		for _, mod := range dev.Candidates() {
			claimed[mod] = true
		}
		mod := currentModule(dev, loaded)
		records = append(records, MatchRecord{
			Device: dev,
			Module: mod,
			Entry:  idx.ModuleEntry(mod),
		})
	}
	return records, claimed
}

// lookupPCI walks the ID prefix hierarchy from most to least specific.
func lookupPCI(idx *compatdb.Index, id compatdb.DeviceID) *compatdb.Entry {
	for _, n := range []int{4, 3, 2} {
		if ent := idx.PCIEntry(id, n); ent != nil {
			return ent
		}
	}
	return nil
}

// currentModule is the device's bound module when there is one. A device
// with exactly one candidate driver that is already loaded is treated as
// bound to it.
func currentModule(dev inventory.Node, loaded map[string]bool) string {
	if mod := dev.Bound(); mod != "" {
		return mod
	}
	if c := dev.Candidates(); len(c) == 1 && loaded[c[0]] {
		return c[0]
	}
	return ""
}
