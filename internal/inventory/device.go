// Package inventory enumerates the machine's devices and kernel modules.
// It collects from lspci, sysfs and procfs; it never wakes, binds or
// otherwise touches a device.
package inventory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hwcompat/hwcompat/internal/compatdb"
)

// Node is the device surface the audit engine consumes.
type Node interface {
	fmt.Stringer
	// Alias returns the hardware alias (modalias) reported by the kernel.
	Alias() string
	// Candidates returns the normalized candidate driver names.
	Candidates() []string
	// Bound returns the currently bound module, empty when unbound.
	Bound() string
}

// Device holds the attributes common to every enumerated device node.
type Device struct {
	SysfsPath     string   // device node under /sys
	Modalias      string   // hardware alias reported by the kernel
	Modules       []string // candidate driver names, normalized
	CurrentModule string   // bound driver module, empty when unbound
}

func (d *Device) Alias() string        { return d.Modalias }
func (d *Device) Candidates() []string { return d.Modules }
func (d *Device) Bound() string        { return d.CurrentModule }

// PCIDevice is a PCI function enumerated via lspci.
type PCIDevice struct {
	Device
	ID        compatdb.DeviceID // vendor, device, subvendor, subdevice
	Slot      string            // full domain:bus:dev.fn address
	Vendor    string            // descriptive vendor name from lspci
	Name      string            // descriptive device name from lspci
	Subvendor string
	Subname   string
}

func (d *PCIDevice) String() string {
	return d.Slot + " " + d.Vendor + " " + d.Name
}

// MiscDevice is any non-PCI device node that exposes a modalias.
type MiscDevice struct {
	Device
}

func (d *MiscDevice) String() string {
	return d.SysfsPath
}

// readBoundModule resolves the driver/module symlink under a device node.
// A missing link means no module is bound, which is not an error.
func readBoundModule(sysfsPath string) string {
	target, err := os.Readlink(filepath.Join(sysfsPath, "driver/module"))
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}
