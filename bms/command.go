// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bms

import "fmt"

// Command is a BMS control command.
type Command uint8

const (
	DeviceInfo Command = 0x97
	CellInfo   Command = 0x96
)

func (c Command) String() string {
	switch c {
	case DeviceInfo:
		return "device info"
	case CellInfo:
		return "cell info"
	default:
		return fmt.Sprintf("Command(%#02x)", uint8(c))
	}
}

// CommandFrame is a fixed 20 byte command frame.
type CommandFrame [20]byte

// The visible layout of a frame is a four byte header, the command at
// index 4, fourteen zero bytes and a final sum byte, but the vendor
// documents neither the convention nor any other command, so the two
// known frames are kept as literals.
var commandFrames = map[Command]CommandFrame{
	DeviceInfo: {0xaa, 0x55, 0x90, 0xeb, 0x97, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x11},
	CellInfo:   {0xaa, 0x55, 0x90, 0xeb, 0x96, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x10},
}

// Frame returns the frame for the command.
func (c Command) Frame() (CommandFrame, error) {
	frame, ok := commandFrames[c]
	if !ok {
		return CommandFrame{}, fmt.Errorf("unknown command: %v", c)
	}
	return frame, nil
}

// DeviceInfoCommand returns the frame requesting a device information
// notification.
func DeviceInfoCommand() CommandFrame {
	return commandFrames[DeviceInfo]
}

// CellInfoCommand returns the frame requesting a cell information
// notification.
func CellInfoCommand() CommandFrame {
	return commandFrames[CellInfo]
}
