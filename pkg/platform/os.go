// SPDX-License-Identifier: MPL-2.0

package platform

// Named values for runtime.GOOS so OS checks read as identifiers instead
// of bare string literals. uvipack branches on these when resolving the
// config directory and when deciding whether SELinux labeling applies.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
