// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

// Vendor is a GPU vendor, the value is its Vulkan vendor ID.
type Vendor uint32

// Known vendors
const (
	AMD       Vendor = 0x1002
	ImgTec    Vendor = 0x1010
	Apple     Vendor = 0x106B
	Nvidia    Vendor = 0x10DE
	ARM       Vendor = 0x13B5
	Google    Vendor = 0x1AE0
	Qualcomm  Vendor = 0x5143
	Intel     Vendor = 0x8086
	Unknown   Vendor = 0xFFFF
	VIV       Vendor = 0x10001
	VSI       Vendor = 0x10002
	Kazan     Vendor = 0x10003
	Codeplay  Vendor = 0x10004
	Mesa      Vendor = 0x10005
	Pocl      Vendor = 0x10006
	MobileEye Vendor = 0x10007
)

var vendorNames = map[Vendor]string{
	AMD:       "AMD",
	ImgTec:    "ImgTec",
	Apple:     "Apple",
	Nvidia:    "Nvidia",
	ARM:       "ARM",
	Google:    "Google",
	Qualcomm:  "Qualcomm",
	Intel:     "Intel",
	Unknown:   "Unknown",
	VIV:       "VIV",
	VSI:       "VSI",
	Kazan:     "Kazan",
	Codeplay:  "Codeplay",
	Mesa:      "Mesa",
	Pocl:      "Pocl",
	MobileEye: "MobileEye",
}

// VendorFromID resolves a vendor ID reported by the driver.
// IDs outside the table yield an *UnknownVendorError.
func VendorFromID(id uint32) (Vendor, error) {
	v := Vendor(id)
	if _, ok := vendorNames[v]; !ok {
		return 0, &UnknownVendorError{VendorID: id}
	}
	return v, nil
}

// Name returns the display name of the vendor.
func (v Vendor) Name() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return vendorNames[Unknown]
}

func (v Vendor) String() string {
	return v.Name()
}

// MarshalText implements encoding.TextMarshaler
func (v Vendor) MarshalText() ([]byte, error) {
	return []byte(v.Name()), nil
}
