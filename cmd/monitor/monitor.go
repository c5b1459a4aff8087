// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"image"
	"io"
	"log"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/bms"
	"github.com/kortschak/cellmon/devinfo"
	"github.com/kortschak/cellmon/internal/forkbeard"
)

// State is the condition of the link to the device.
type State int

//go:generate go tool golang.org/x/tools/cmd/stringer -type State -trimprefix State
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateFailed
)

// screen is a rendered card image and the link state it was rendered
// under.
type screen struct {
	img   image.Image
	state State
}

type monitor struct {
	adapter *bluetooth.Adapter
	addr    bluetooth.Address

	update chan screen

	toggle  chan struct{}
	request chan bms.Command
	export  chan io.WriteCloser

	cancel context.CancelFunc
	done   chan struct{}

	// The fields below are accessed only by the run goroutine.
	state     State
	dev       *bms.Monitor
	info      devinfo.Info
	lastErr   error
	rawUntil  time.Time
	notes     chan []byte
	connected chan connection

	card    *image.Gray
	status  *statusCard
	temp    *temperatureCard
	history *temperatureHistory
}

type connection struct {
	dev bluetooth.Device
	err error
}

func newMonitor(ctx context.Context, adapter *bluetooth.Adapter, addr bluetooth.Address, update chan screen) *monitor {
	card := image.NewGray(image.Rectangle{Max: image.Point{X: 296, Y: 128}})
	blank(card)

	m := &monitor{
		adapter:   adapter,
		addr:      addr,
		update:    update,
		toggle:    make(chan struct{}, 1),
		request:   make(chan bms.Command, 1),
		export:    make(chan io.WriteCloser),
		done:      make(chan struct{}),
		notes:     make(chan []byte, 1),
		connected: make(chan connection),
		card:      card,
		status: newStatusCard(addr, subDrawImage(card, image.Rectangle{
			Min: image.Point{X: 0, Y: 0},
			Max: image.Point{X: 296, Y: 40},
		})),
		temp: newTemperatureCard(subDrawImage(card, image.Rectangle{
			Min: image.Point{X: 0, Y: 40},
			Max: image.Point{X: 110, Y: 128},
		})),
		history: newTemperatureHistory(subDrawImage(card, image.Rectangle{
			Min: image.Point{X: 110, Y: 40},
			Max: image.Point{X: 296, Y: 128},
		})),
	}
	ctx, m.cancel = context.WithCancel(ctx)
	go m.run(ctx)
	return m
}

func (m *monitor) run(ctx context.Context) {
	defer close(m.done)
	m.redraw()
	for {
		select {
		case <-ctx.Done():
			m.disconnect()
			return
		case <-m.toggle:
			switch m.state {
			case StateConnected:
				m.disconnect()
				m.redraw()
			case StateDisconnected, StateFailed:
				m.state = StateConnecting
				m.redraw()
				go func() {
					dev, err := forkbeard.Connect(m.adapter, m.addr)
					m.connected <- connection{dev: dev, err: err}
				}()
			}
		case conn := <-m.connected:
			if conn.err != nil {
				m.state = StateFailed
				m.lastErr = conn.err
				log.Printf("failed to connect: %v", conn.err)
				m.redraw()
				continue
			}
			m.attach(conn.dev)
			m.redraw()
		case com := <-m.request:
			if m.dev == nil {
				continue
			}
			if com == bms.DeviceInfo {
				// Notifications cannot be paired with the
				// write that provoked them, so device info
				// responses are identified by arrival time.
				m.rawUntil = time.Now().Add(time.Second)
			}
			err := m.dev.Request(com)
			if err != nil {
				log.Printf("failed to request %v: %v", com, err)
			}
		case buf := <-m.notes:
			if m.state != StateConnected {
				continue
			}
			if time.Now().Before(m.rawUntil) {
				log.Printf("device response: %#x", buf)
				continue
			}
			var r bms.Reading
			err := r.UnmarshalBinary(buf)
			if err != nil {
				if !errors.Is(err, bms.ErrShortPayload) {
					log.Printf("failed to decode notification: %v", err)
				}
				continue
			}
			now := time.Now()
			m.temp.add(now, r.Temperature)
			m.history.add(sample{when: now, celsius: r.Temperature})
			m.redraw()
		case f := <-m.export:
			err := m.history.writeCSV(f)
			err = errors.Join(err, f.Close())
			if err != nil {
				log.Printf("failed to export history: %v", err)
			}
		}
	}
}

func (m *monitor) attach(dev bluetooth.Device) {
	bdev, err := bms.NewMonitor(&dev)
	if err != nil {
		m.state = StateFailed
		m.lastErr = err
		dev.Disconnect()
		log.Printf("failed to create monitor: %v", err)
		return
	}
	bdev.SetHandler(func(buf []byte) {
		select {
		case m.notes <- buf:
		default:
		}
	})
	info, err := devinfo.Read(&dev)
	if err != nil {
		log.Printf("failed to read device information: %v", err)
	}
	profile, err := forkbeard.Profile(&dev)
	if err != nil {
		log.Printf("failed to profile device: %v", err)
	}
	for _, p := range profile {
		log.Printf("service %s characteristics %s", p.UUID, p.Characteristics)
	}
	m.dev = bdev
	m.info = info
	m.state = StateConnected
	m.lastErr = nil
}

func (m *monitor) disconnect() {
	if m.dev == nil {
		return
	}
	err := m.dev.Close()
	if err != nil {
		log.Printf("failed to close connection: %v", err)
	}
	m.dev = nil
	m.info = devinfo.Info{}
	m.state = StateDisconnected
}

func (m *monitor) redraw() {
	m.status.draw(m.state, m.info, m.lastErr)
	m.update <- screen{img: m.card, state: m.state}
}

// Toggle requests a connection state change, connecting when
// disconnected and disconnecting when connected.
func (m *monitor) Toggle() {
	select {
	case m.toggle <- struct{}{}:
	default:
	}
}

// Request asks the device for the data of the provided command.
func (m *monitor) Request(com bms.Command) {
	select {
	case m.request <- com:
	default:
	}
}

// Export writes the temperature history to f as CSV and closes it.
func (m *monitor) Export(f io.WriteCloser) {
	m.export <- f
}

// Close terminates the session, disconnecting any connected device.
func (m *monitor) Close() error {
	m.cancel()
	for {
		select {
		case <-m.update:
		case <-m.done:
			return nil
		}
	}
}
