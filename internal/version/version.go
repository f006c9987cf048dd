// Package version provides centralized version information for cbws.
// All versions follow semantic versioning (semver) conventions.

package version

// CbwsVersion holds the current cbws daemon version.
// Format: major.minor.patch[-prerelease][+build]
const CbwsVersion = "0.1.0-dev"
