package inventory

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hwcompat/hwcompat/internal/compatdb"
)

const pciSysfsBase = "/sys/bus/pci/devices"

var (
	lspciTagRe = regexp.MustCompile(`(?m)^(\w+):\t(.*)$`)
	lspciIDRe  = regexp.MustCompile(`^\s*(.*) \[([0-9a-fA-F]+)\]$`)
)

// CollectPCIDevices enumerates PCI functions via lspci and fills in their
// sysfs attributes.
func CollectPCIDevices() ([]*PCIDevice, error) {
	out, err := exec.Command("lspci", "-vmmknnD").Output()
	if err != nil {
		return nil, fmt.Errorf("lspci: %w", err)
	}

	devs, err := parseLspci(string(out))
	if err != nil {
		return nil, err
	}

	for _, dev := range devs {
		if err := dev.readSysfs(); err != nil {
			return nil, err
		}
	}
	return devs, nil
}

// parseLspci parses 'lspci -vmmknnD' output: blank-line separated blocks of
// 'Tag:\tValue' lines, the Module tag repeating once per candidate driver.
func parseLspci(out string) ([]*PCIDevice, error) {
	var devs []*PCIDevice

	for _, block := range strings.Split(out, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}

		attrs := make(map[string]string)
		var modules []string
		for _, m := range lspciTagRe.FindAllStringSubmatch(block, -1) {
			tag, val := m[1], m[2]
			if tag == "Module" {
				modules = append(modules, compatdb.NormalizeModuleName(val))
			} else {
				attrs[tag] = val
			}
		}

		slot := attrs["Slot"]
		if slot == "" {
			return nil, fmt.Errorf("lspci block without Slot tag: %q", block)
		}

		vendorName, vendorID, err := parseIDField(attrs["Vendor"])
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", slot, err)
		}
		devName, devID, err := parseIDField(attrs["Device"])
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", slot, err)
		}
		// SVendor/SDevice are absent for devices without a subsystem
		subvName, subvID, err := parseIDField(attrs["SVendor"])
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", slot, err)
		}
		subdName, subdID, err := parseIDField(attrs["SDevice"])
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", slot, err)
		}

		devs = append(devs, &PCIDevice{
			Device: Device{
				SysfsPath: filepath.Join(pciSysfsBase, slot),
				Modules:   modules,
			},
			ID:        compatdb.DeviceID{vendorID, devID, subvID, subdID},
			Slot:      slot,
			Vendor:    vendorName,
			Name:      devName,
			Subvendor: subvName,
			Subname:   subdName,
		})
	}
	return devs, nil
}

// parseIDField splits a 'Description [hexid]' lspci field. An empty field
// yields a zero ID with no description.
func parseIDField(field string) (string, uint16, error) {
	if field == "" {
		return "", 0, nil
	}
	m := lspciIDRe.FindStringSubmatch(field)
	if m == nil {
		return "", 0, fmt.Errorf("unparseable lspci id field %q", field)
	}
	v, err := strconv.ParseUint(m[2], 16, 16)
	if err != nil {
		return "", 0, fmt.Errorf("unparseable lspci id field %q: %w", field, err)
	}
	return m[1], uint16(v), nil
}

// readSysfs fills in the modalias and bound module for the device. The
// modalias file is required; the driver link is optional.
func (d *PCIDevice) readSysfs() error {
	data, err := os.ReadFile(filepath.Join(d.SysfsPath, "modalias"))
	if err != nil {
		return fmt.Errorf("device %s: %w", d.Slot, err)
	}
	d.Modalias = strings.TrimSpace(string(data))
	d.CurrentModule = readBoundModule(d.SysfsPath)
	return nil
}
