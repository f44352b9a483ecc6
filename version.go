package ftext

import "fmt"

// Version constants
const (
	// Major is the major version number
	Major = 0

	// Minor is the minor version number
	Minor = 2

	// Patch is the patch version number
	Patch = 0
)

// VersionInfo contains version information.
type VersionInfo struct {
	Major  uint8
	Minor  uint8
	Patch  uint8
	Commit string
	Date   string
}

// Version returns the version string of ftext.
func Version() string {
	return fmt.Sprintf("ftext %d.%d.%d", Major, Minor, Patch)
}

// GetVersionInfo returns version information. Commit and date are filled
// in by the caller from build flags when known.
func GetVersionInfo(commit, date string) VersionInfo {
	return VersionInfo{
		Major:  Major,
		Minor:  Minor,
		Patch:  Patch,
		Commit: commit,
		Date:   date,
	}
}

func (v VersionInfo) String() string {
	s := fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Commit != "" {
		s += " (" + v.Commit
		if v.Date != "" {
			s += ", " + v.Date
		}
		s += ")"
	}
	return s
}
