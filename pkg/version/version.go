// Package version parses and compares Lutron firmware version strings.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Firmware represents a parsed "major.minor.patch" firmware version as
// advertised in the bridge's CODEVER TXT record, e.g. "08.06.01". The
// patch component is optional.
type Firmware struct {
	Major int
	Minor int
	Patch int
}

// Parse parses a firmware version string. Components may carry leading
// zeros.
func Parse(s string) (Firmware, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Firmware{}, fmt.Errorf("invalid version %q: expected major.minor[.patch]", s)
	}

	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Firmware{}, fmt.Errorf("invalid version %q: bad component %q", s, part)
		}
		nums[i] = n
	}

	fw := Firmware{Major: nums[0], Minor: nums[1]}
	if len(nums) == 3 {
		fw.Patch = nums[2]
	}
	return fw, nil
}

// String returns the version as "major.minor.patch" with two-digit
// components, matching the bridge's own formatting.
func (v Firmware) String() string {
	return fmt.Sprintf("%02d.%02d.%02d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 if v is older than, equal to or newer
// than other.
func (v Firmware) Compare(other Firmware) int {
	if v.Major != other.Major {
		return sign(v.Major - other.Major)
	}
	if v.Minor != other.Minor {
		return sign(v.Minor - other.Minor)
	}
	return sign(v.Patch - other.Patch)
}

// AtLeast reports whether v is the same as or newer than other.
func (v Firmware) AtLeast(other Firmware) bool {
	return v.Compare(other) >= 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
