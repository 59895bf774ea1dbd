package inventory

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hwcompat/hwcompat/internal/compatdb"
)

// ResolveAlias returns the candidate modules for a hardware alias using
// modprobe. An alias that resolves to nothing is not an error.
func ResolveAlias(alias string) []string {
	out, err := exec.Command("modprobe", "--resolve-alias", alias).Output()
	if err != nil {
		return nil
	}

	var modules []string
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		modules = append(modules, compatdb.NormalizeModuleName(line))
	}
	return modules
}

// LoadedModules returns the normalized names of all currently loaded
// modules from /proc/modules.
func LoadedModules() (map[string]bool, error) {
	data, err := os.ReadFile("/proc/modules")
	if err != nil {
		return nil, fmt.Errorf("read /proc/modules: %w", err)
	}
	return parseLoadedModules(string(data)), nil
}

func parseLoadedModules(content string) map[string]bool {
	modules := make(map[string]bool)
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		modules[compatdb.NormalizeModuleName(fields[0])] = true
	}
	return modules
}

// AllModules returns every module known to the running kernel, loaded or
// built in, from /sys/module.
func AllModules() (map[string]bool, error) {
	entries, err := os.ReadDir("/sys/module")
	if err != nil {
		return nil, fmt.Errorf("read /sys/module: %w", err)
	}

	modules := make(map[string]bool, len(entries))
	for _, e := range entries {
		modules[compatdb.NormalizeModuleName(e.Name())] = true
	}
	return modules, nil
}

// BuiltinModules returns the modules compiled into the kernel: everything
// under /sys/module that is not in the loaded set.
func BuiltinModules(loaded map[string]bool) (map[string]bool, error) {
	all, err := AllModules()
	if err != nil {
		return nil, err
	}

	builtin := make(map[string]bool)
	for mod := range all {
		if !loaded[mod] {
			builtin[mod] = true
		}
	}
	return builtin, nil
}
