// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/csv"
	"image/color"
	"image/draw"
	"io"
	"strconv"
	"time"

	"tinygo.org/x/bluetooth"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"

	"github.com/kortschak/cellmon/cmd/internal/ring"
	"github.com/kortschak/cellmon/devinfo"
)

type statusCard struct {
	addr bluetooth.Address
	img  draw.Image
}

func newStatusCard(addr bluetooth.Address, img draw.Image) *statusCard {
	return &statusCard{addr: addr, img: img}
}

func (s *statusCard) draw(state State, info devinfo.Info, err error) {
	blank(s.img)

	const (
		line1Y = 15
		line2Y = 34
	)
	font := &freesans.Regular9pt7b
	tinyfont.WriteLine(
		displayShim{s.img},
		font,
		2, line1Y, s.addr.String()+" "+state.String(),
		color.RGBA{A: 0xff},
	)
	line2 := info.String()
	if state == StateFailed && err != nil {
		line2 = err.Error()
	}
	tinyfont.WriteLine(
		displayShim{s.img},
		font,
		2, line2Y, line2,
		color.RGBA{A: 0xff},
	)
}

type temperatureCard struct {
	img draw.Image
}

func newTemperatureCard(img draw.Image) *temperatureCard {
	c := &temperatureCard{img: img}
	c.draw("-", "")
	return c
}

func (c *temperatureCard) add(ts time.Time, celsius float64) {
	c.draw(strconv.FormatFloat(celsius, 'f', 1, 64), ts.Format("15:04:05"))
}

func (c *temperatureCard) draw(temp, when string) {
	blank(c.img)

	width := c.img.Bounds().Dx()
	yOffset := -4

	tempFont := &freesans.Bold18pt7b
	_, tempW := tinyfont.LineWidth(tempFont, temp)
	tinyfont.WriteLine(
		displayShim{c.img},
		tempFont,
		int16(width-int(tempW))/2, int16(int(tempFont.YAdvance)+yOffset), temp,
		color.RGBA{A: 0xff},
	)

	whenFont := &freesans.Regular9pt7b
	_, whenW := tinyfont.LineWidth(whenFont, when)
	tinyfont.WriteLine(
		displayShim{c.img},
		whenFont,
		int16(width-int(whenW))/2, int16(int(whenFont.YAdvance)+int(tempFont.YAdvance)+yOffset), when,
		color.RGBA{A: 0xff},
	)
}

type sample struct {
	when    time.Time
	celsius float64
}

type temperatureHistory struct {
	ring *ring.Buffer[sample]
	img  draw.Image
	buf  []sample
	vals []float64
}

func newTemperatureHistory(img draw.Image) *temperatureHistory {
	n := img.Bounds().Dx()
	return &temperatureHistory{
		ring: ring.NewBuffer[sample](n),
		img:  img,
		buf:  make([]sample, n),
		vals: make([]float64, n),
	}
}

func (h *temperatureHistory) add(s sample) {
	h.ring.Push(s)
	h.plot()
}

func (h *temperatureHistory) plot() {
	blank(h.img)

	n := h.ring.CopyTo(h.buf)
	if n < 2 {
		return
	}
	for i, s := range h.buf[:n] {
		h.vals[i] = s.celsius
	}
	minVal := h.vals[0]
	maxVal := minVal
	for _, v := range h.vals[1:n] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	// Spread flat traces over at least 2°C so sensor noise is not
	// rendered as swings.
	const minRange = 2
	height := h.img.Bounds().Dy()
	y0 := scale(h.vals[0], minVal, maxVal, minRange, height)
	h.img.Set(0, y0, color.Black)
	for i, v := range h.vals[1:n] {
		y1 := scale(v, minVal, maxVal, minRange, height)
		vspan(h.img, i+1, y0, y1, color.Black)
		y0 = y1
	}
}

func (h *temperatureHistory) writeCSV(w io.Writer) error {
	n := h.ring.CopyTo(h.buf)
	cw := csv.NewWriter(w)
	err := cw.Write([]string{"time", "celsius"})
	if err != nil {
		return err
	}
	for _, s := range h.buf[:n] {
		err = cw.Write([]string{
			s.when.Format(time.RFC3339),
			strconv.FormatFloat(s.celsius, 'f', 2, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
