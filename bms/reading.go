// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bms

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Cell info payload offsets. Only the temperature field is decoded;
// the meaning of the remainder of the payload is not documented and
// varies between firmware versions.
const (
	temperatureOffset = 130
	minPayload        = temperatureOffset + 2
)

// ErrShortPayload indicates a notification payload too short to hold
// the fields of a Reading.
var ErrShortPayload = errors.New("short payload")

// Reading is a decoded cell info notification.
type Reading struct {
	Temperature float64 // °C
}

// UnmarshalBinary decodes the data of a cell info notification into
// the Reading. Payloads too short to hold the temperature field
// result in an error satisfying errors.Is(err, ErrShortPayload) and
// leave the Reading unmodified.
func (r *Reading) UnmarshalBinary(data []byte) error {
	if len(data) < minPayload {
		return fmt.Errorf("%w: %d bytes", ErrShortPayload, len(data))
	}
	raw := int16(binary.LittleEndian.Uint16(data[temperatureOffset:]))
	*r = Reading{
		Temperature: float64(raw) / 10,
	}
	return nil
}
