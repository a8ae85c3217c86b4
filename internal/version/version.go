// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides a single location to house the version information
// for packd.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// semanticAlphabet defines the allowed characters for the pre-release and
// build metadata portions of a semantic version string.
const semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// semverRE parses a semantic version string into its constituent parts.
var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*` +
	`[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

var (
	// Version is the application version per the semantic versioning 2.0.0
	// spec (https://semver.org/).
	//
	// It may be overridden at build time with:
	// '-ldflags "-X github.com/kabletop/packd/internal/version.Version=fullsemver"'
	//
	// It MUST be a full semantic version or the package will panic at
	// runtime.
	Version = "0.1.0-pre"

	// The following are set by init from Version.  BuildMetadata defaults
	// to the VCS commit the binary was built from when Version carries no
	// build metadata.
	Major         uint
	Minor         uint
	Patch         uint
	PreRelease    string
	BuildMetadata string
)

// parseUint converts the passed string to an unsigned integer or returns an
// error if it is invalid.
func parseUint(s string, fieldName string) (uint, error) {
	val, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("malformed semver %s: %w", fieldName, err)
	}
	return uint(val), nil
}

// checkSemString returns an error if the passed string contains characters
// outside of semanticAlphabet.
func checkSemString(s, fieldName string) error {
	for _, r := range s {
		if !strings.ContainsRune(semanticAlphabet, r) {
			return fmt.Errorf("malformed semver %s: %q invalid", fieldName, r)
		}
	}
	return nil
}

// semVer is a parsed semantic version.
type semVer struct {
	major, minor, patch uint
	pre, build          string
}

// parseSemVer parses the semver components of the provided string.
func parseSemVer(s string) (*semVer, error) {
	m := semverRE.FindStringSubmatch(s)
	if m == nil {
		return nil, fmt.Errorf("malformed version string %q: does not "+
			"conform to semver specification", s)
	}

	var v semVer
	var err error
	if v.major, err = parseUint(m[1], "major"); err != nil {
		return nil, err
	}
	if v.minor, err = parseUint(m[2], "minor"); err != nil {
		return nil, err
	}
	if v.patch, err = parseUint(m[3], "patch"); err != nil {
		return nil, err
	}
	v.pre, v.build = m[4], m[5]
	if err := checkSemString(v.pre, "pre-release"); err != nil {
		return nil, err
	}
	if err := checkSemString(v.build, "buildmetadata"); err != nil {
		return nil, err
	}
	return &v, nil
}

func init() {
	v, err := parseSemVer(Version)
	if err != nil {
		panic(err)
	}
	Major, Minor, Patch = v.major, v.minor, v.patch
	PreRelease, BuildMetadata = v.pre, v.build
	if BuildMetadata == "" {
		BuildMetadata = normalizeString(vcsCommitID())
		if BuildMetadata != "" {
			Version = fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
			if PreRelease != "" {
				Version += "-" + PreRelease
			}
			Version += "+" + BuildMetadata
		}
	}
}

// String returns the application version as a properly formed string per the
// semantic versioning 2.0.0 spec (https://semver.org/).
func String() string {
	return Version
}

// normalizeString returns the passed string stripped of all characters which
// are not in semanticAlphabet.
func normalizeString(str string) string {
	var result strings.Builder
	for _, r := range str {
		if strings.ContainsRune(semanticAlphabet, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
