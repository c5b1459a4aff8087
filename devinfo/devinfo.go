// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package devinfo implements reading of the standard 180a Bluetooth
// device information service characteristics.
package devinfo

import (
	"fmt"
	"strings"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/internal/forkbeard"
)

const (
	ServiceID          = "180a"
	ManufacturerID     = "2a29"
	ModelNumberID      = "2a24"
	SerialNumberID     = "2a25"
	FirmwareRevisionID = "2a26"
	HardwareRevisionID = "2a27"
)

var (
	devInfoService   = must(bluetooth.ParseUUID(ServiceID))
	manufacturer     = must(bluetooth.ParseUUID(ManufacturerID))
	modelNumber      = must(bluetooth.ParseUUID(ModelNumberID))
	serialNumber     = must(bluetooth.ParseUUID(SerialNumberID))
	firmwareRevision = must(bluetooth.ParseUUID(FirmwareRevisionID))
	hardwareRevision = must(bluetooth.ParseUUID(HardwareRevisionID))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Info holds the device information service characteristics published
// by a device. Characteristics the device does not implement are left
// empty.
type Info struct {
	Manufacturer string
	Model        string
	Serial       string
	Firmware     string
	Hardware     string
}

// String returns a single line summary of the non-empty fields of the
// Info.
func (i Info) String() string {
	fields := make([]string, 0, 5)
	for _, f := range []string{i.Manufacturer, i.Model, i.Serial, i.Firmware, i.Hardware} {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return strings.Join(fields, " ")
}

// Read returns the device information for the provided Bluetooth
// device.
func Read(dev *bluetooth.Device) (Info, error) {
	// https://www.bluetooth.com/specifications/specs/device-information-service-1-1/

	var info Info
	srvs, err := dev.DiscoverServices([]bluetooth.UUID{devInfoService})
	if err != nil {
		return info, fmt.Errorf("failed to discover device information service: %w", err)
	}
	for _, srv := range srvs {
		chars, err := srv.DiscoverCharacteristics(nil)
		if err != nil {
			return info, fmt.Errorf("failed to discover device information characteristics: %w", err)
		}
		for _, char := range chars {
			var dst *string
			switch char.UUID() {
			case manufacturer:
				dst = &info.Manufacturer
			case modelNumber:
				dst = &info.Model
			case serialNumber:
				dst = &info.Serial
			case firmwareRevision:
				dst = &info.Firmware
			case hardwareRevision:
				dst = &info.Hardware
			default:
				continue
			}
			resp, err := forkbeard.ReadCharacteristic(char)
			if err != nil {
				return info, fmt.Errorf("failed read device information characteristic %s: %w", char.UUID(), err)
			}
			*dst = strings.TrimRight(string(resp), "\x00")
		}
	}
	return info, nil
}
