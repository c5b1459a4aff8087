package bms

import (
	"reflect"
	"testing"
)

var commandTests = []struct {
	name string
	ops  func() any
	want any
}{
	{
		name: "device_info",
		ops: func() any {
			return DeviceInfoCommand()
		},
		want: CommandFrame{0xaa, 0x55, 0x90, 0xeb, 0x97, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x11},
	},
	{
		name: "cell_info",
		ops: func() any {
			return CellInfoCommand()
		},
		want: CommandFrame{0xaa, 0x55, 0x90, 0xeb, 0x96, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x10},
	},
	{
		name: "device_info_frame",
		ops: func() any {
			frame, err := DeviceInfo.Frame()
			return []any{frame, err}
		},
		want: []any{
			CommandFrame{0xaa, 0x55, 0x90, 0xeb, 0x97, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x11},
			error(nil),
		},
	},
	{
		name: "cell_info_frame",
		ops: func() any {
			frame, err := CellInfo.Frame()
			return []any{frame, err}
		},
		want: []any{
			CommandFrame{0xaa, 0x55, 0x90, 0xeb, 0x96, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x10},
			error(nil),
		},
	},
	{
		name: "stable_across_calls",
		ops: func() any {
			return DeviceInfoCommand() == DeviceInfoCommand() && CellInfoCommand() == CellInfoCommand()
		},
		want: true,
	},
	{
		name: "strings",
		ops: func() any {
			return []string{DeviceInfo.String(), CellInfo.String(), Command(0x42).String()}
		},
		want: []string{"device info", "cell info", "Command(0x42)"},
	},
}

func TestCommand(t *testing.T) {
	for _, test := range commandTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.ops()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected result:\ngot: %#v\nwant:%#v", got, test.want)
			}
		})
	}
}

func TestCommandFrameUnknown(t *testing.T) {
	_, err := Command(0x42).Frame()
	if err == nil {
		t.Error("expected error for unknown command")
	}
}
