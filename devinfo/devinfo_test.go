package devinfo

import "testing"

var infoStringTests = []struct {
	name string
	info Info
	want string
}{
	{
		name: "empty",
		info: Info{},
		want: "",
	},
	{
		name: "full",
		info: Info{
			Manufacturer: "BMS",
			Model:        "BD6A20S10P",
			Serial:       "2060",
			Firmware:     "11.28",
			Hardware:     "11.A",
		},
		want: "BMS BD6A20S10P 2060 11.28 11.A",
	},
	{
		name: "sparse",
		info: Info{
			Model:    "BD6A20S10P",
			Firmware: "11.28",
		},
		want: "BD6A20S10P 11.28",
	},
}

func TestInfoString(t *testing.T) {
	for _, test := range infoStringTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.info.String()
			if got != test.want {
				t.Errorf("expected result:\ngot: %q\nwant:%q", got, test.want)
			}
		})
	}
}
