// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "fmt"

// DecodeVersion formats a packed Vulkan version as "variant.major.minor.patch".
func DecodeVersion(version uint32) string {
	variant := version >> 29
	major := (version >> 22) & 0x7F
	minor := (version >> 12) & 0x3FF
	patch := version & 0xFFF
	return fmt.Sprintf("%d.%d.%d.%d", variant, major, minor, patch)
}
