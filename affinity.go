package facepipe

import (
	"fmt"
	"strconv"
	"strings"
)

// CPUCoreMask calculates the core mask by passing in the CPU core numbers as a
// slice, eg: []int{4,5,6,7}
func CPUCoreMask(cores []int) uintptr {

	var mask uintptr

	for _, core := range cores {
		mask |= 1 << core
	}

	return mask
}

// ParseCPUCores parses a comma separated list of core numbers such as
// "4,5,6,7".  An empty string returns no cores.
func ParseCPUCores(s string) ([]int, error) {

	s = strings.TrimSpace(s)

	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	cores := make([]int, 0, len(parts))

	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))

		if err != nil || n < 0 || n >= 64 {
			return nil, fmt.Errorf("invalid CPU core %q", p)
		}

		cores = append(cores, n)
	}

	return cores, nil
}
