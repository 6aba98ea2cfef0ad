// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core owns the graphics API instance and answers
// device property queries against it.
package core

import "github.com/devblok/vkfetch/device"

// Instance describes a graphics API instance and supporting methods.
// Once created it is ready to use.
type Instance interface {
	device.Querier

	// Devices returns handles of the physical devices in the
	// order the driver enumerated them
	Devices() []device.Handle

	// APIVersion returns the API version the instance was created with
	APIVersion() uint32

	// InstanceExtensions returns the enabled instance extensions
	InstanceExtensions() []string

	// Destroy destroys internal members
	Destroy()
}
