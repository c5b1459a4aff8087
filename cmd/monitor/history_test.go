package main

import (
	"image"
	"strings"
	"testing"
	"time"
)

var historyTests = []struct {
	name string
	vals []float64
	want string
}{
	{
		name: "partial",
		vals: []float64{25.5, 25.6, -1},
		want: `time,celsius
2025-06-01T10:00:00Z,25.50
2025-06-01T10:01:00Z,25.60
2025-06-01T10:02:00Z,-1.00
`,
	},
	{
		name: "wrapped",
		vals: []float64{1, 2, 3, 4, 5, 6},
		want: `time,celsius
2025-06-01T10:02:00Z,3.00
2025-06-01T10:03:00Z,4.00
2025-06-01T10:04:00Z,5.00
2025-06-01T10:05:00Z,6.00
`,
	},
	{
		name: "empty",
		vals: nil,
		want: "time,celsius\n",
	},
}

func TestTemperatureHistoryWriteCSV(t *testing.T) {
	t0 := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	for _, test := range historyTests {
		t.Run(test.name, func(t *testing.T) {
			h := newTemperatureHistory(image.NewGray(image.Rectangle{Max: image.Point{X: 4, Y: 8}}))
			for i, v := range test.vals {
				h.add(sample{when: t0.Add(time.Duration(i) * time.Minute), celsius: v})
			}
			var buf strings.Builder
			err := h.writeCSV(&buf)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != test.want {
				t.Errorf("expected result:\ngot: %q\nwant:%q", buf.String(), test.want)
			}
		})
	}
}
