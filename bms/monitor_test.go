package bms

import (
	"reflect"
	"testing"
)

func TestMonitorDispatch(t *testing.T) {
	var (
		m   Monitor
		got [][]byte
	)
	m.SetHandler(func(buf []byte) {
		got = append(got, buf)
	})
	pending := make(chan []byte, 1)
	m.mu.Lock()
	m.pending = pending
	m.mu.Unlock()

	src := []byte{1, 2, 3}
	m.dispatch(src)
	m.dispatch(nil)
	src[0] = 0xff

	want := [][]byte{{1, 2, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected handler data:\ngot: %#v\nwant:%#v", got, want)
	}
	select {
	case buf := <-pending:
		if !reflect.DeepEqual(buf, []byte{1, 2, 3}) {
			t.Errorf("expected pending data:\ngot: %#v\nwant:%#v", buf, []byte{1, 2, 3})
		}
	default:
		t.Error("expected pending delivery")
	}

	m.SetHandler(nil)
	m.dispatch([]byte{4})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected no delivery after clearing handler:\ngot: %#v\nwant:%#v", got, want)
	}
}
