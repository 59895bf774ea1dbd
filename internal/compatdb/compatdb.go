package compatdb

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultPath is the default deprecation database location
const DefaultPath = "device_driver_deprecation_data.json"

// DeviceID is a PCI ID tuple of up to four 16-bit components
// (vendor, device, subvendor, subdevice). On the wire it is a
// colon-separated hex string, possibly empty.
type DeviceID []uint16

// ParseDeviceID parses a colon-separated hex ID string. An empty string is a
// valid, empty ID (the entry is keyed by driver name instead).
func ParseDeviceID(s string) (DeviceID, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 4 {
		return nil, fmt.Errorf("device id %q has more than 4 components", s)
	}
	id := make(DeviceID, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(part, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid device id %q: %w", s, err)
		}
		id = append(id, uint16(v))
	}
	return id, nil
}

func (id DeviceID) String() string {
	parts := make([]string, len(id))
	for i, v := range id {
		parts[i] = fmt.Sprintf("%04x", v)
	}
	return strings.Join(parts, ":")
}

// Key returns the canonical lookup key for the first n components.
func (id DeviceID) Key(n int) string {
	return id[:n].String()
}

func (id *DeviceID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDeviceID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id DeviceID) MarshalJSON() ([]byte, error) {
	if len(id) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(id.String())
}

// Entry is one row of the deprecation database. Entries with a non-empty
// DeviceID describe PCI hardware; entries with an empty DeviceID describe a
// driver by name.
type Entry struct {
	DeviceType       string   `json:"device_type"`
	DeviceID         DeviceID `json:"device_id"`
	DriverName       string   `json:"driver_name"`
	AvailableInRHEL  []int    `json:"available_in_rhel"`
	MaintainedInRHEL []int    `json:"maintained_in_rhel"`
}

// AvailableIn reports whether the entry still ships in version v.
func (e *Entry) AvailableIn(v int) bool {
	return containsInt(e.AvailableInRHEL, v)
}

// MaintainedIn reports whether the entry is still maintained in version v.
func (e *Entry) MaintainedIn(v int) bool {
	return containsInt(e.MaintainedInRHEL, v)
}

func containsInt(vals []int, v int) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

// NormalizeModuleName maps a driver name to its canonical module form.
// The kernel treats hyphens and underscores in module names as equivalent.
func NormalizeModuleName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Load reads and parses the deprecation database file.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deprecation database: %w", err)
	}

	var db struct {
		Data []Entry `json:"data"`
	}
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse deprecation database %s: %w", path, err)
	}
	return db.Data, nil
}

// Index holds the two lookup maps built once per run from the loaded
// database. It is immutable after construction.
type Index struct {
	pciID  map[string]*Entry
	module map[string]*Entry
}

// NewIndex builds the lookup maps from the database entries. PCI entries are
// keyed by their ID tuple, name-keyed entries by normalized driver name.
// When two entries share a key the later one wins; the shipped database
// relies on that ordering.
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		pciID:  make(map[string]*Entry),
		module: make(map[string]*Entry),
	}
	for i := range entries {
		ent := &entries[i]
		switch {
		case ent.DeviceType == "pci" && len(ent.DeviceID) > 0:
			idx.pciID[ent.DeviceID.Key(len(ent.DeviceID))] = ent
		case len(ent.DeviceID) == 0:
			idx.module[NormalizeModuleName(ent.DriverName)] = ent
		}
	}
	return idx
}

// PCIEntry returns the entry matching the first n components of id, or nil.
func (x *Index) PCIEntry(id DeviceID, n int) *Entry {
	if n > len(id) {
		return nil
	}
	return x.pciID[id.Key(n)]
}

// ModuleEntry returns the entry for a module name, or nil. The name is
// normalized before lookup; an empty name never matches.
func (x *Index) ModuleEntry(name string) *Entry {
	if name == "" {
		return nil
	}
	return x.module[NormalizeModuleName(name)]
}
