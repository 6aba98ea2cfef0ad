// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package art_test

import (
	"strings"
	"testing"

	"github.com/devblok/vkfetch/art"
	"github.com/devblok/vkfetch/device"
	"github.com/fatih/color"
)

func withColor(t *testing.T, enabled bool) {
	previous := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = previous })
}

func TestRawFallsBackToVulkan(t *testing.T) {
	vulkan, err := art.Raw(device.Unknown)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []device.Vendor{device.Mesa, device.Qualcomm, device.Pocl} {
		lines, err := art.Raw(v)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Join(lines, "\n") != strings.Join(vulkan, "\n") {
			t.Errorf("%s: expected the Vulkan logo", v)
		}
	}
}

func TestRawVendorLogos(t *testing.T) {
	vulkan, _ := art.Raw(device.Unknown)
	for _, v := range []device.Vendor{device.AMD, device.Apple, device.ARM, device.Google, device.Intel, device.Nvidia} {
		lines, err := art.Raw(v)
		if err != nil {
			t.Fatalf("%s: %s", v, err)
		}
		if len(lines) == 0 {
			t.Fatalf("%s: empty logo", v)
		}
		if strings.Join(lines, "\n") == strings.Join(vulkan, "\n") {
			t.Errorf("%s: expected a logo of its own", v)
		}
		if strings.HasSuffix(lines[len(lines)-1], "\n") || lines[len(lines)-1] == "" {
			t.Errorf("%s: trailing empty line", v)
		}
	}
}

func TestLogoWithoutColorIsRaw(t *testing.T) {
	withColor(t, false)
	raw, _ := art.Raw(device.AMD)
	logo, err := art.Logo(device.AMD)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(raw, "\n") != strings.Join(logo, "\n") {
		t.Error("expected the raw logo when colour is disabled")
	}
}

func TestLogoKeepsWidth(t *testing.T) {
	withColor(t, true)
	for _, v := range []device.Vendor{device.AMD, device.Google, device.Intel, device.Unknown} {
		raw, _ := art.Raw(v)
		logo, err := art.Logo(v)
		if err != nil {
			t.Fatal(err)
		}
		if len(raw) != len(logo) {
			t.Fatalf("%s: line count changed", v)
		}
		for idx := range raw {
			if art.VisibleWidth(raw[idx]) != art.VisibleWidth(logo[idx]) {
				t.Errorf("%s line %d: width %d, expected %d", v, idx, art.VisibleWidth(logo[idx]), art.VisibleWidth(raw[idx]))
			}
		}
	}
}

func TestPaint(t *testing.T) {
	withColor(t, true)
	style := art.Style{color.New(color.FgRed, color.ReverseVideo)}
	painted := art.Paint([]string{"#$ #"}, style)
	block := color.New(color.FgRed, color.ReverseVideo).Sprint(" ")

	expected := block + "$ " + block
	if painted[0] != expected {
		t.Errorf("expected %q, got %q", expected, painted[0])
	}
}

func TestStyleFor(t *testing.T) {
	if art.StyleFor(device.Mesa) != art.StyleFor(device.Unknown) {
		t.Error("expected vendors without a style to share the Vulkan style")
	}
	if art.StyleFor(device.ARM)[0] == nil {
		t.Error("expected ARM to colour its first slot")
	}
	if art.StyleFor(device.Google)[3] == nil {
		t.Error("expected Google to colour all four letters")
	}
}

func TestWidth(t *testing.T) {
	lines := []string{"ab", "\x1b[31;7m \x1b[0mabc", ""}
	if w := art.Width(lines); w != 4 {
		t.Errorf("expected width 4, got %d", w)
	}
	if w := art.Width(nil); w != 0 {
		t.Errorf("expected width 0, got %d", w)
	}
}

func BenchmarkLogo(b *testing.B) {
	color.NoColor = false
	for idx := 0; idx < b.N; idx++ {
		art.Logo(device.Google)
	}
}
