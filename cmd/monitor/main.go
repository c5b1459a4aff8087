// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The monitor command is a demonstration of the bms and devinfo
// packages for battery management system temperature data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"tinygo.org/x/bluetooth"

	"github.com/kortschak/cellmon/bms"
)

func main() {
	addr := flag.String("addr", "", "monitor bluetooth address")
	flag.Parse()
	if *addr == "" {
		flag.Usage()
		os.Exit(2)
	}
	var macAddr bluetooth.Address
	err := macAddr.UnmarshalText([]byte(*addr))
	if err != nil {
		flag.Usage()
		os.Exit(2)
	}

	adapter := bluetooth.DefaultAdapter
	err = adapter.Enable()
	if err != nil {
		fmt.Printf("failed to enable bluetooth: %v", err)
		os.Exit(1)
	}

	update := make(chan screen)
	m := newMonitor(context.Background(), adapter, macAddr, update)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		m.Close()
		os.Exit(0)
	}()

	go func() {
		w := new(app.Window)
		w.Option(app.Title("cellmon"), app.Size(600, 330))
		if err := loop(w, m, update); err != nil {
			log.Fatal(err)
		}
		m.Close()
		os.Exit(0)
	}()
	app.Main()
}

func loop(w *app.Window, m *monitor, update chan screen) error {
	expl := explorer.NewExplorer(w)
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	events := make(chan event.Event)
	ack := make(chan struct{})

	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-ack
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	var (
		connect  widget.Clickable
		devInfo  widget.Clickable
		cellInfo widget.Clickable
		export   widget.Clickable

		scr screen
		ops op.Ops
	)
	for {
		select {
		case scr = <-update:
			w.Invalidate()
		case e := <-events:
			expl.ListenEvents(e)
			switch e := e.(type) {
			case app.DestroyEvent:
				ack <- struct{}{}
				return e.Err
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				if connect.Clicked(gtx) {
					m.Toggle()
				}
				if devInfo.Clicked(gtx) {
					m.Request(bms.DeviceInfo)
				}
				if cellInfo.Clicked(gtx) {
					m.Request(bms.CellInfo)
				}
				if export.Clicked(gtx) {
					go func() {
						f, err := expl.CreateFile("cellmon.csv")
						if err != nil {
							log.Printf("failed to create export file: %v", err)
							return
						}
						m.Export(f)
					}()
				}
				label := "Connect"
				switch scr.state {
				case StateConnecting:
					label = "Connecting..."
				case StateConnected:
					label = "Disconnect"
				}
				layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
							button(th, &connect, label),
							button(th, &devInfo, "Device Info"),
							button(th, &cellInfo, "Cell Info"),
							button(th, &export, "Export CSV"),
						)
					}),
					layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
						if scr.img == nil {
							return layout.Dimensions{}
						}
						return widget.Image{
							Src: paint.NewImageOp(scr.img),
							Fit: widget.Contain,
						}.Layout(gtx)
					}),
				)
				e.Frame(gtx.Ops)
			}
			ack <- struct{}{}
		}
	}
}

func button(th *material.Theme, click *widget.Clickable, label string) layout.FlexChild {
	return layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(4)).Layout(gtx, material.Button(th, click, label).Layout)
	})
}
