// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "fmt"

// UnknownVendorError is returned when a device reports a vendor ID
// that is not in the vendor table.
type UnknownVendorError struct {
	VendorID uint32
}

func (e *UnknownVendorError) Error() string {
	return fmt.Sprintf("unknown vendor: 0x%X", e.VendorID)
}

// QueryError is returned by a Querier when the driver call itself failed.
type QueryError struct {
	Call string
	Err  error
}

func (e *QueryError) Error() string {
	return e.Call + "(): " + e.Err.Error()
}

// Unwrap returns the underlying cause
func (e *QueryError) Unwrap() error {
	return e.Err
}
