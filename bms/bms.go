// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bms implements interaction with the Bluetooth service of
// smart battery management system monitors.
//
// The monitor exposes a vendor service with a single characteristic
// used for both command writes and data notifications. Commands are
// fixed 20 byte frames and responses arrive asynchronously as
// notifications on the same characteristic, so a notification cannot
// be paired with the write that provoked it. The protocol is not
// published by the vendor; the frames and fields here are the
// commonly reverse engineered subset.
package bms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/internal/forkbeard"
)

// Service and characteristic identifiers.
const (
	ServiceID = "ffe0"
	ControlID = "ffe1"
)

var (
	bmsService = must(bluetooth.ParseUUID(ServiceID))
	bmsControl = must(bluetooth.ParseUUID(ControlID))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Monitor implements BMS notification listening and command writes.
type Monitor struct {
	dev *bluetooth.Device

	control bluetooth.DeviceCharacteristic

	mu      sync.Mutex
	handler func(buf []byte)
	pending chan []byte
}

// NewMonitor returns a new Monitor for the provided Bluetooth device.
func NewMonitor(dev *bluetooth.Device) (*Monitor, error) {
	control, err := forkbeard.DeviceCharacteristic(dev, bmsService, bmsControl)
	if err != nil {
		return nil, fmt.Errorf("failed to get device control characteristic: %w", err)
	}
	m := &Monitor{dev: dev, control: control}
	err = control.EnableNotifications(m.dispatch)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Monitor) dispatch(buf []byte) {
	if len(buf) == 0 {
		return
	}
	m.mu.Lock()
	handle := m.handler
	pending := m.pending
	m.mu.Unlock()
	data := bytes.Clone(buf)
	if pending != nil {
		select {
		case pending <- data:
		default:
		}
	}
	if handle != nil {
		handle(data)
	}
}

// SetHandler sets the notification handler. The function is called
// with the data of each notification from the control characteristic.
// A nil handler stops delivery.
func (m *Monitor) SetHandler(h func(buf []byte)) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
}

// Request writes the command's frame to the control characteristic.
// The device answers with a notification; register a handler with
// SetHandler or use Poll to collect it.
func (m *Monitor) Request(com Command) error {
	frame, err := com.Frame()
	if err != nil {
		return err
	}
	_, err = m.control.WriteWithoutResponse(frame[:])
	if err != nil {
		return fmt.Errorf("failed to write %v command: %w", com, err)
	}
	return nil
}

// Poll requests cell info from the device and returns the next
// decodable response. Notifications too short to hold the reading,
// including the device's command acknowledgements, are skipped.
func (m *Monitor) Poll(ctx context.Context) (Reading, error) {
	resp := make(chan []byte, 1)
	m.mu.Lock()
	m.pending = resp
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.pending = nil
		m.mu.Unlock()
	}()
	err := m.Request(CellInfo)
	if err != nil {
		return Reading{}, err
	}
	for {
		select {
		case <-ctx.Done():
			return Reading{}, ctx.Err()
		case buf := <-resp:
			var r Reading
			err := r.UnmarshalBinary(buf)
			if errors.Is(err, ErrShortPayload) {
				continue
			}
			return r, err
		}
	}
}

// Close disables notifications and disconnects the device.
func (m *Monitor) Close() error {
	m.SetHandler(nil)
	m.control.EnableNotifications(nil)
	return m.dev.Disconnect()
}
