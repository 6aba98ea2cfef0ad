// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package report formats physical devices for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/devblok/vkfetch/art"
	"github.com/devblok/vkfetch/device"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/shirou/gopsutil/v4/host"
)

// Alignment indents every info line after the title.
const Alignment = "    "

var bold = color.New(color.Bold)

// Lines returns the info lines printed next to the vendor logo.
func Lines(pd device.PhysicalDevice) []string {
	lines := []string{
		bold.Sprint(pd.DeviceName) + " : " + pd.DeviceType.Name(),
		fmt.Sprintf("%sDevice: 0x%X : 0x%X (%s)", Alignment, pd.DeviceID, pd.VendorID, pd.Vendor.Name()),
		fmt.Sprintf("%sDriver: %s : %s", Alignment, pd.DriverName, pd.DriverInfo),
		fmt.Sprintf("%sAPI: %s", Alignment, pd.APIVersion),
		Alignment + "VRAM: " + vram(pd),
	}

	chars := pd.Characteristics
	if compute := compute(chars); compute != "" {
		lines = append(lines, Alignment+"Compute: "+compute)
	}

	lines = append(lines,
		fmt.Sprintf("%sLimits: 2D image %d : shared memory %s : workgroup %d",
			Alignment,
			chars.MaxImageDimension2D,
			humanize.IBytes(uint64(chars.MaxComputeSharedMemorySize)),
			chars.MaxComputeWorkGroupInvocations),
		Alignment+"Features: "+features(chars),
	)
	return lines
}

func vram(pd device.PhysicalDevice) string {
	pressure := pd.Characteristics.MemoryPressure
	if !pressure.Known() {
		return humanize.IBytes(pd.HeapSize)
	}
	var used uint64
	if pd.HeapBudget < pd.HeapSize {
		used = pd.HeapSize - pd.HeapBudget
	}
	return fmt.Sprintf("%s / %s (%.1f%%)", humanize.IBytes(used), humanize.IBytes(pd.HeapSize), pressure.Percent())
}

func compute(chars device.Characteristics) string {
	switch {
	case chars.ShaderCore != nil:
		sc := chars.ShaderCore
		return fmt.Sprintf("%d CU : %d SE x %d SA x %d CU : %d SIMD/CU : wave%d",
			sc.ComputeUnits,
			sc.ShaderEngines,
			sc.ShaderArraysPerEngine,
			sc.ComputeUnitsPerShaderArray,
			sc.SIMDPerComputeUnit,
			sc.WavefrontSize)
	case chars.SM != nil:
		return fmt.Sprintf("%d SM : %d warps/SM", chars.SM.StreamingMultiprocessors, chars.SM.WarpsPerSM)
	}
	return ""
}

func features(chars device.Characteristics) string {
	var list []string
	if chars.DedicatedTransferQueue {
		list = append(list, "transfer queue")
	}
	if chars.DedicatedAsyncComputeQueue {
		list = append(list, "async compute")
	}
	if chars.SupportsRayTracing {
		list = append(list, "ray tracing")
	}
	if len(list) == 0 {
		return "none"
	}
	return strings.Join(list, ", ")
}

// Render prints the logo and info lines side by side, followed by a
// blank line. Logo lines are padded to the widest one.
func Render(w io.Writer, logo, lines []string) error {
	width := art.Width(logo)
	rows := len(logo)
	if len(lines) > rows {
		rows = len(lines)
	}

	for idx := 0; idx < rows; idx++ {
		var logoLine, infoLine string
		if idx < len(logo) {
			logoLine = logo[idx]
		}
		if idx < len(lines) {
			infoLine = lines[idx]
		}

		row := " " + infoLine
		if width > 0 {
			padding := strings.Repeat(" ", width-art.VisibleWidth(logoLine))
			row = " " + logoLine + padding + row
		}
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// JSON writes the devices as an indented JSON array.
func JSON(w io.Writer, devices []device.PhysicalDevice) error {
	if devices == nil {
		devices = []device.PhysicalDevice{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(devices)
}

// HostInfo reads the platform description of the local host.
func HostInfo() (*host.InfoStat, error) {
	info, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("host.Info(): %s", err)
	}
	return info, nil
}

// Host prints a header line describing the host platform.
func Host(w io.Writer, info *host.InfoStat) error {
	platform := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if platform == "" {
		platform = info.OS
	}
	_, err := fmt.Fprintf(w, " %s : %s (%s %s %s)\n\n",
		bold.Sprint(info.Hostname), platform, info.OS, info.KernelVersion, info.KernelArch)
	return err
}
