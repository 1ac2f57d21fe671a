//go:build linux

package v4l2

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Roots of the filesystem views used for discovery. Tests point them at a
// temporary tree.
var (
	sysfsRoot = "/sys/class/video4linux"
	devRoot   = "/dev"
	byIDRoot  = "/dev/v4l/by-id"
)

// FindNodes lists the video4linux character device nodes, sorted by path.
// It falls back to matching /dev/video* when sysfs is unavailable.
func FindNodes() ([]Node, error) {
	names, err := sysfsNames()
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(names))
	for _, name := range names {
		path := filepath.Join(devRoot, name)
		fi, err := os.Stat(path)
		if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
			continue
		}

		index := readSysfsInt(filepath.Join(sysfsRoot, name, "index"))
		nodes = append(nodes, Node{
			Path:  path,
			Name:  name,
			Index: index,
			ID:    findStableID(name, index),
		})
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes, nil
}

func sysfsNames() ([]string, error) {
	entries, err := os.ReadDir(sysfsRoot)
	if err == nil {
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		return names, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read video4linux directory: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(devRoot, "video*"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names, nil
}

// findStableID looks for a stable ID symlink in /dev/v4l/by-id/.
func findStableID(name string, index int) string {
	entries, err := os.ReadDir(byIDRoot)
	if err != nil {
		return ""
	}

	suffix := fmt.Sprintf("-video-index%d", index)
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		target, err := os.Readlink(filepath.Join(byIDRoot, entry.Name()))
		if err != nil {
			continue
		}
		if filepath.Base(target) == name {
			return entry.Name()
		}
	}
	return ""
}

// readSysfsInt reads an integer value from a sysfs file.
func readSysfsInt(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	val, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return val
}
