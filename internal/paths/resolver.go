// Package paths implements the on-disk layout logic: remapping server-reported
// paths to local ones, allocating artwork filenames under a write mode, and
// matching season/album folders against naming conventions.
package paths

import "strings"

// Mapping is a prefix substitution between the media server's view of the
// filesystem and the local one. The zero value is the identity mapping.
type Mapping struct {
	ContainerPrefix string
	HostPrefix      string
}

// Resolve converts a server-reported path to the corresponding local path.
// Only the leading occurrence of the container prefix is substituted; the
// remainder of the path is preserved exactly. Paths that do not start with
// the container prefix pass through unchanged.
func Resolve(reported string, m Mapping) string {
	if m.ContainerPrefix == "" || m.HostPrefix == "" {
		return reported
	}
	if !strings.HasPrefix(reported, m.ContainerPrefix) {
		return reported
	}
	return m.HostPrefix + reported[len(m.ContainerPrefix):]
}
