package inventory

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hwcompat/hwcompat/internal/cache"
)

const sysDevicesBase = "/sys/devices"

// CollectMiscDevices walks the sysfs device tree and returns every non-PCI
// node that exposes a modalias. Candidate drivers are resolved through
// modprobe, memoized per alias since many nodes share one.
func CollectMiscDevices() ([]*MiscDevice, error) {
	return collectMiscDevices(sysDevicesBase, ResolveAlias)
}

func collectMiscDevices(base string, resolve func(string) []string) ([]*MiscDevice, error) {
	var devs []*MiscDevice

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "modalias" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		alias := strings.TrimSpace(string(data))

		// PCI devices are matched by ID; CPU feature aliases are not devices
		if strings.HasPrefix(alias, "pci:") || strings.HasPrefix(alias, "x86cpu:") {
			return nil
		}

		sysfsPath := filepath.Dir(path)
		devs = append(devs, &MiscDevice{Device{
			SysfsPath:     sysfsPath,
			Modalias:      alias,
			Modules:       resolveAliasCached(alias, resolve),
			CurrentModule: readBoundModule(sysfsPath),
		}})
		return nil
	}

	if err := filepath.WalkDir(base, walk); err != nil {
		return nil, fmt.Errorf("walk %s: %w", base, err)
	}
	return devs, nil
}

// resolveAliasCached memoizes alias resolution; the mapping is stable for
// the lifetime of the running kernel.
func resolveAliasCached(alias string, resolve func(string) []string) []string {
	c := cache.Global()
	key := "alias:" + alias

	if cached := c.Get(key); cached != nil {
		return cached.([]string)
	}
	modules := resolve(alias)
	if modules == nil {
		// cache the negative result too
		modules = []string{}
	}
	c.SetStatic(key, modules)
	return modules
}
