package ring

import (
	"reflect"
	"testing"
)

var bufferTests = []struct {
	name string
	ops  func() any
	want any
}{
	{
		name: "new_4_float64",
		ops: func() any {
			return NewBuffer[float64](4)
		},
		want: &Buffer[float64]{data: make([]float64, 4)},
	},
	{
		name: "new_4_float64_push_2",
		ops: func() any {
			r := NewBuffer[float64](4)
			r.Push(1)
			r.Push(2)
			return r
		},
		want: &Buffer[float64]{data: []float64{1, 2, 0, 0}, next: 2},
	},
	{
		name: "new_4_float64_push_4",
		ops: func() any {
			r := NewBuffer[float64](4)
			for _, v := range []float64{1, 2, 3, 4} {
				r.Push(v)
			}
			return r
		},
		want: &Buffer[float64]{data: []float64{1, 2, 3, 4}, next: 0, full: true},
	},
	{
		name: "new_4_float64_push_6",
		ops: func() any {
			r := NewBuffer[float64](4)
			for _, v := range []float64{1, 2, 3, 4, 5, 6} {
				r.Push(v)
			}
			return r
		},
		want: &Buffer[float64]{data: []float64{5, 6, 3, 4}, next: 2, full: true},
	},
	{
		name: "len_partial",
		ops: func() any {
			r := NewBuffer[float64](4)
			r.Push(1)
			r.Push(2)
			return []int{r.Len(), r.Size()}
		},
		want: []int{2, 4},
	},
	{
		name: "len_wrapped",
		ops: func() any {
			r := NewBuffer[float64](4)
			for _, v := range []float64{1, 2, 3, 4, 5, 6} {
				r.Push(v)
			}
			return []int{r.Len(), r.Size()}
		},
		want: []int{4, 4},
	},
	{
		name: "copy_to_partial",
		ops: func() any {
			r := NewBuffer[float64](4)
			r.Push(1)
			r.Push(2)
			var buf [4]float64
			n := r.CopyTo(buf[:])
			return buf[:n]
		},
		want: []float64{1, 2},
	},
	{
		name: "copy_to_wrapped",
		ops: func() any {
			r := NewBuffer[float64](4)
			for _, v := range []float64{1, 2, 3, 4, 5, 6} {
				r.Push(v)
			}
			var buf [4]float64
			n := r.CopyTo(buf[:])
			return buf[:n]
		},
		want: []float64{3, 4, 5, 6},
	},
	{
		name: "copy_to_short_dst",
		ops: func() any {
			r := NewBuffer[float64](4)
			for _, v := range []float64{1, 2, 3, 4, 5} {
				r.Push(v)
			}
			var buf [2]float64
			n := r.CopyTo(buf[:])
			return buf[:n]
		},
		want: []float64{2, 3},
	},
	{
		name: "reset",
		ops: func() any {
			r := NewBuffer[float64](4)
			for _, v := range []float64{1, 2, 3, 4, 5} {
				r.Push(v)
			}
			r.Reset()
			var buf [4]float64
			n := r.CopyTo(buf[:])
			return []any{r.Len(), buf[:n]}
		},
		want: []any{0, []float64{}},
	},
}

func TestBuffer(t *testing.T) {
	for _, test := range bufferTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.ops()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected result:\ngot: %#v\nwant:%#v", got, test.want)
			}
		})
	}
}
