package bms

import (
	"errors"
	"reflect"
	"testing"
)

// cellInfoPayload returns an n byte payload with the given temperature
// field bytes when n is long enough to hold them.
func cellInfoPayload(n int, lo, hi byte) []byte {
	p := make([]byte, n)
	if n >= minPayload {
		p[temperatureOffset] = lo
		p[temperatureOffset+1] = hi
	}
	return p
}

var readingTests = []struct {
	name    string
	data    []byte
	want    Reading
	wantErr error
}{
	{
		name: "zero",
		data: cellInfoPayload(132, 0x00, 0x00),
		want: Reading{Temperature: 0},
	},
	{
		name: "low_byte_first",
		data: cellInfoPayload(132, 0x0a, 0x00),
		want: Reading{Temperature: 1},
	},
	{
		name: "negative",
		data: cellInfoPayload(132, 0xf6, 0xff),
		want: Reading{Temperature: -1},
	},
	{
		name: "room_temperature",
		data: cellInfoPayload(132, 0xff, 0x00),
		want: Reading{Temperature: 25.5},
	},
	{
		name: "long_payload",
		data: cellInfoPayload(300, 0x39, 0x01),
		want: Reading{Temperature: 31.3},
	},
	{
		name: "minimum",
		data: cellInfoPayload(132, 0x00, 0x80),
		want: Reading{Temperature: -3276.8},
	},
	{
		name:    "one_short",
		data:    cellInfoPayload(131, 0, 0),
		wantErr: ErrShortPayload,
	},
	{
		name:    "command_ack",
		data:    cellInfoPayload(20, 0, 0),
		wantErr: ErrShortPayload,
	},
	{
		name:    "empty",
		data:    nil,
		wantErr: ErrShortPayload,
	},
}

func TestReadingUnmarshalBinary(t *testing.T) {
	for _, test := range readingTests {
		t.Run(test.name, func(t *testing.T) {
			var got Reading
			err := got.UnmarshalBinary(test.data)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("unexpected error: got:%v want:%v", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected result:\ngot: %#v\nwant:%#v", got, test.want)
			}
		})
	}
}

func TestReadingUnmarshalBinaryDeterministic(t *testing.T) {
	data := cellInfoPayload(132, 0x39, 0x01)
	var first, second Reading
	err := errors.Join(first.UnmarshalBinary(data), second.UnmarshalBinary(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected identical readings:\nfirst: %#v\nsecond:%#v", first, second)
	}
}

func TestReadingUnmarshalBinaryShortLeavesDst(t *testing.T) {
	r := Reading{Temperature: 42}
	err := r.UnmarshalBinary(cellInfoPayload(131, 0, 0))
	if !errors.Is(err, ErrShortPayload) {
		t.Fatalf("unexpected error: got:%v want:%v", err, ErrShortPayload)
	}
	if r.Temperature != 42 {
		t.Errorf("short payload modified reading: got:%v want:42", r.Temperature)
	}
}
