// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"

	"github.com/devblok/vkfetch/device"
	vk "github.com/devblok/vulkan"
	log "github.com/sirupsen/logrus"
)

// Layer and extension names used by the instance
const (
	ValidationLayerName                      = "VK_LAYER_KHRONOS_validation"
	KhrGetPhysicalDeviceProperties2Extension = "VK_KHR_get_physical_device_properties2"
)

// DefaultVulkanApplicationInfo application info describes a Vulkan application
var DefaultVulkanApplicationInfo = &vk.ApplicationInfo{
	SType:              vk.StructureTypeApplicationInfo,
	ApiVersion:         vk.MakeVersion(1, 0, 0),
	ApplicationVersion: vk.MakeVersion(1, 0, 0),
	PApplicationName:   safeString("vkfetch"),
	PEngineName:        safeString("vkfetch"),
}

// NewVulkanInstance loads the Vulkan loader and creates an instance with
// the newest API version from cfg that the loader accepts.
func NewVulkanInstance(appInfo *vk.ApplicationInfo, cfg InstanceConfiguration) (*VulkanInstance, error) {
	if len(cfg.APIVersions) == 0 {
		return nil, errors.New("core.NewVulkanInstance(): no API versions configured")
	}

	if cfg.DebugMode && !contains(cfg.Layers, ValidationLayerName) {
		cfg.Layers = append(cfg.Layers, ValidationLayerName)
	}

	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.New("vk.InstanceProcAddr(): " + err.Error())
	}

	if err := vk.Init(); err != nil {
		return nil, errors.New("vk.Init(): " + err.Error())
	}

	var (
		instance   vk.Instance
		apiVersion uint32
		extensions []string
		lastErr    error
	)
	for _, version := range cfg.APIVersions {
		extensions = append([]string(nil), cfg.Extensions...)
		if version < MakeVersion(1, 1, 0) && !contains(extensions, KhrGetPhysicalDeviceProperties2Extension) {
			// properties2 is core from 1.1 onwards
			extensions = append(extensions, KhrGetPhysicalDeviceProperties2Extension)
		}

		info := *appInfo
		info.ApiVersion = version

		/* Create instance */
		instanceInfo := vk.InstanceCreateInfo{
			SType:                   vk.StructureTypeInstanceCreateInfo,
			PApplicationInfo:        &info,
			EnabledExtensionCount:   uint32(len(extensions)),
			PpEnabledExtensionNames: safeStrings(extensions),
			EnabledLayerCount:       uint32(len(cfg.Layers)),
			PpEnabledLayerNames:     safeStrings(cfg.Layers),
		}

		var candidate vk.Instance
		if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &candidate)); err != nil {
			lastErr = errors.New("vk.CreateInstance(): " + err.Error())
			log.WithError(err).WithField("api", device.DecodeVersion(version)).Debug("instance creation failed")
			continue
		}
		instance = candidate
		apiVersion = version
		break
	}
	if instance == nil {
		return nil, lastErr
	}
	vk.InitInstance(instance)
	log.WithField("api", device.DecodeVersion(apiVersion)).Debug("instance created")

	/* Enumerate devices */
	physicalDevices, err := enumerateDevices(instance)
	if err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.New("core.enumerateDevices(): " + err.Error())
	}

	cfg.Extensions = extensions
	return &VulkanInstance{
		configuration:    cfg,
		instance:         instance,
		apiVersion:       apiVersion,
		availableDevices: physicalDevices,
	}, nil
}

// VulkanInstance describes a Vulkan API Instance, it is also the
// property query capability for the devices it enumerated.
type VulkanInstance struct {
	configuration InstanceConfiguration

	availableDevices []vk.PhysicalDevice
	instance         vk.Instance
	apiVersion       uint32
}

func enumerateDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var deviceCount uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, nil)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	availableDevices := make([]vk.PhysicalDevice, deviceCount)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &deviceCount, availableDevices)); err != nil {
		return nil, fmt.Errorf("vulkan physical device enumeration failed: %s", err)
	}
	return availableDevices[:deviceCount], nil
}

func (v *VulkanInstance) physicalDevice(h device.Handle, call string) (vk.PhysicalDevice, error) {
	if int(h) < 0 || int(h) >= len(v.availableDevices) {
		return nil, &device.QueryError{
			Call: call,
			Err:  fmt.Errorf("no physical device with handle %d", h),
		}
	}
	return v.availableDevices[h], nil
}

// Devices implements interface
func (v *VulkanInstance) Devices() []device.Handle {
	handles := make([]device.Handle, len(v.availableDevices))
	for idx := range handles {
		handles[idx] = device.Handle(idx)
	}
	return handles
}

// CoreProperties implements interface
func (v *VulkanInstance) CoreProperties(h device.Handle) (device.CoreProperties, error) {
	pd, err := v.physicalDevice(h, "vkGetPhysicalDeviceProperties")
	if err != nil {
		return device.CoreProperties{}, err
	}

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &properties)
	properties.Deref()
	properties.Limits.Deref()

	name := make([]byte, len(properties.DeviceName))
	copy(name, properties.DeviceName[:])

	return device.CoreProperties{
		DeviceName:    name,
		DeviceType:    int32(properties.DeviceType),
		VendorID:      properties.VendorID,
		DeviceID:      properties.DeviceID,
		APIVersion:    properties.ApiVersion,
		DriverVersion: properties.DriverVersion,
		Limits: device.Limits{
			MaxImageDimension2D:            properties.Limits.MaxImageDimension2D,
			MaxComputeSharedMemorySize:     properties.Limits.MaxComputeSharedMemorySize,
			MaxComputeWorkGroupInvocations: properties.Limits.MaxComputeWorkGroupInvocations,
		},
	}, nil
}

// QueueFamilies implements interface
func (v *VulkanInstance) QueueFamilies(h device.Handle) ([]device.QueueFamily, error) {
	pd, err := v.physicalDevice(h, "vkGetPhysicalDeviceQueueFamilyProperties")
	if err != nil {
		return nil, err
	}

	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, nil)
	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &queueFamilyCount, queueFamilies)

	families := make([]device.QueueFamily, 0, queueFamilyCount)
	for idx := uint32(0); idx < queueFamilyCount; idx++ {
		queueFamilies[idx].Deref()
		families = append(families, device.QueueFamily{
			Flags: device.QueueFlags(queueFamilies[idx].QueueFlags),
			Count: queueFamilies[idx].QueueCount,
		})
	}
	return families, nil
}

// Extensions implements device.Querier, it lists the extensions supported
// by the device behind h.
func (v *VulkanInstance) Extensions(h device.Handle) ([]string, error) {
	const call = "vkEnumerateDeviceExtensionProperties"
	pd, err := v.physicalDevice(h, call)
	if err != nil {
		return nil, err
	}

	var numDeviceExtensions uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, nil)); err != nil {
		return nil, &device.QueryError{Call: call, Err: err}
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(pd, "", &numDeviceExtensions, deviceExt)); err != nil {
		return nil, &device.QueryError{Call: call, Err: err}
	}

	extensions := make([]string, 0, numDeviceExtensions)
	for _, ext := range deviceExt[:numDeviceExtensions] {
		ext.Deref()
		extensions = append(extensions, vk.ToString(ext.ExtensionName[:]))
	}
	return extensions, nil
}

// APIVersion implements interface
func (v *VulkanInstance) APIVersion() uint32 {
	return v.apiVersion
}

// InstanceExtensions returns the instance extensions that were enabled.
func (v *VulkanInstance) InstanceExtensions() []string {
	return v.configuration.Extensions
}

// Destroy implements interface
func (v *VulkanInstance) Destroy() {
	if v == nil || v.instance == nil {
		return
	}
	v.availableDevices = nil
	vk.DestroyInstance(v.instance, nil)
	v.instance = nil
}
