// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package forkbeard provides helper functions for interacting with
// Bluetooth devices.
package forkbeard

import (
	"fmt"
	"io"

	"tinygo.org/x/bluetooth"
)

// Connect scans for a device with the provided address and connects
// to it. Scanning continues until the device is found or the adapter
// fails the scan.
func Connect(adapter *bluetooth.Adapter, addr bluetooth.Address) (bluetooth.Device, error) {
	var (
		dev     bluetooth.Device
		connErr error
	)
	err := adapter.Scan(func(adapter *bluetooth.Adapter, device bluetooth.ScanResult) {
		if device.Address != addr {
			return
		}
		dev, connErr = adapter.Connect(device.Address, bluetooth.ConnectionParams{})
		adapter.StopScan()
	})
	if err != nil {
		return dev, fmt.Errorf("failed to scan for %s: %w", addr, err)
	}
	if connErr != nil {
		return dev, fmt.Errorf("failed to connect to %s: %w", addr, connErr)
	}
	return dev, nil
}

// ServiceProfile describes a discovered Bluetooth service and its
// characteristics.
type ServiceProfile struct {
	UUID            bluetooth.UUID
	Characteristics []bluetooth.UUID
}

// Profile enumerates the services offered by the device and the
// characteristics of each.
func Profile(dev *bluetooth.Device) ([]ServiceProfile, error) {
	srvs, err := dev.DiscoverServices(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to discover services: %w", err)
	}
	profile := make([]ServiceProfile, 0, len(srvs))
	for _, srv := range srvs {
		p := ServiceProfile{UUID: srv.UUID()}
		chars, err := srv.DiscoverCharacteristics(nil)
		if err != nil {
			return profile, fmt.Errorf("failed to discover characteristics of %s: %w", srv.UUID(), err)
		}
		for _, char := range chars {
			p.Characteristics = append(p.Characteristics, char.UUID())
		}
		profile = append(profile, p)
	}
	return profile, nil
}

// DeviceCharacteristic returns a specified bluetooth.DeviceCharacteristic
// from a Bluetooth service.
func DeviceCharacteristic(dev *bluetooth.Device, srvID, charID bluetooth.UUID) (bluetooth.DeviceCharacteristic, error) {
	srv, err := dev.DiscoverServices([]bluetooth.UUID{srvID})
	if err != nil {
		return bluetooth.DeviceCharacteristic{}, fmt.Errorf("failed to discover service %s: %w", srvID, err)
	}
	for _, s := range srv {
		char, err := s.DiscoverCharacteristics([]bluetooth.UUID{charID})
		if err != nil {
			return bluetooth.DeviceCharacteristic{}, fmt.Errorf("failed to discover characteristic %s: %w", charID, err)
		}
		if len(char) == 0 {
			break
		}
		return char[0], nil
	}
	return bluetooth.DeviceCharacteristic{}, fmt.Errorf("device characteristic not found")
}

// ReadCharacteristic reads data from a Bluetooth characteristic.
func ReadCharacteristic(char bluetooth.DeviceCharacteristic) ([]byte, error) {
	mtu, err := char.GetMTU()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain mtu of characteristic: %w", err)
	}
	buf := make([]byte, mtu)
	n, err := char.Read(buf)
	if err != nil && err != io.EOF {
		return buf[:n], fmt.Errorf("failed to read response from characteristic: %w", err)
	}
	return buf[:n], nil
}
