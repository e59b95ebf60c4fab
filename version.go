// Package iclean provides the version information for iclean.
package iclean

// Version is the current version of iclean.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
