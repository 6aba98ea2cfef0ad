// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package art provides vendor logos for the terminal report.
package art

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/devblok/vkfetch/device"
	"github.com/fatih/color"
	"github.com/gobuffalo/packr"
)

// StyleSlots is the number of placeholder characters a logo may use.
const StyleSlots = 5

// Placeholders are the logo characters that get replaced by coloured
// blocks, in style slot order.
var Placeholders = [StyleSlots]rune{'#', '$', '%', '&', '@'}

// Style maps every placeholder slot to a colour, nil slots are left as is.
type Style [StyleSlots]*color.Color

var (
	logos = packr.NewBox("./logos")

	ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

func block(fg color.Attribute) *color.Color {
	return color.New(fg, color.ReverseVideo)
}

var styles = map[device.Vendor]Style{
	device.AMD:    {block(color.FgWhite), block(color.FgGreen), nil, nil, block(color.FgBlack)},
	device.Apple:  {block(color.FgWhite), nil, nil, nil, block(color.FgBlack)},
	device.ARM:    {block(color.FgBlue), nil, nil, nil, block(color.FgBlack)},
	device.Google: {block(color.FgRed), block(color.FgBlue), block(color.FgGreen), block(color.FgYellow), block(color.FgBlack)},
	device.Intel:  {block(color.FgWhite), block(color.FgCyan), nil, nil, block(color.FgBlack)},
	device.Nvidia: {block(color.FgGreen), nil, nil, nil, block(color.FgBlack)},
}

var vulkanStyle = Style{block(color.FgRed), nil, nil, nil, block(color.FgBlack)}

var logoFiles = map[device.Vendor]string{
	device.AMD:    "amd.txt",
	device.Apple:  "apple.txt",
	device.ARM:    "arm.txt",
	device.Google: "google.txt",
	device.Intel:  "intel.txt",
	device.Nvidia: "nvidia.txt",
}

const vulkanLogo = "vulkan.txt"

// StyleFor returns the colour style of the vendor logo.
func StyleFor(v device.Vendor) Style {
	if style, ok := styles[v]; ok {
		return style
	}
	return vulkanStyle
}

// Raw returns the uncoloured logo of the vendor. Vendors without
// a logo of their own get the Vulkan logo.
func Raw(v device.Vendor) ([]string, error) {
	name, ok := logoFiles[v]
	if !ok {
		name = vulkanLogo
	}
	data, err := logos.FindString(name)
	if err != nil {
		return nil, fmt.Errorf("art.Raw(): %s: %s", name, err)
	}
	return strings.Split(strings.TrimRight(data, "\r\n"), "\n"), nil
}

// Logo returns the vendor logo with placeholders replaced by coloured
// blocks. When colour output is disabled the raw logo is returned.
func Logo(v device.Vendor) ([]string, error) {
	lines, err := Raw(v)
	if err != nil {
		return nil, err
	}
	if color.NoColor {
		return lines, nil
	}
	return Paint(lines, StyleFor(v)), nil
}

// Paint replaces every placeholder character with a block in its slot colour.
func Paint(lines []string, style Style) []string {
	var blocks [StyleSlots]string
	for idx, c := range style {
		if c != nil {
			blocks[idx] = c.Sprint(" ")
		}
	}

	painted := make([]string, len(lines))
	for idx, line := range lines {
		var sb strings.Builder
		for _, r := range line {
			slot := placeholderSlot(r)
			if slot < 0 || blocks[slot] == "" {
				sb.WriteRune(r)
				continue
			}
			sb.WriteString(blocks[slot])
		}
		painted[idx] = sb.String()
	}
	return painted
}

func placeholderSlot(r rune) int {
	for idx, p := range Placeholders {
		if p == r {
			return idx
		}
	}
	return -1
}

// VisibleWidth is the number of terminal cells taken by s,
// ignoring colour escape sequences.
func VisibleWidth(s string) int {
	return utf8.RuneCountInString(ansi.ReplaceAllString(s, ""))
}

// Width returns the widest visible line.
func Width(lines []string) int {
	var width int
	for _, line := range lines {
		if w := VisibleWidth(line); w > width {
			width = w
		}
	}
	return width
}
