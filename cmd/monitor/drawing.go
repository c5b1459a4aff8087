// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"image/draw"
)

type subImager interface {
	draw.Image
	SubImage(image.Rectangle) image.Image
}

func subDrawImage(img subImager, rect image.Rectangle) draw.Image {
	return drawOffset{
		Image:  img.SubImage(rect).(draw.Image),
		offset: rect.Min,
	}
}

type drawOffset struct {
	draw.Image
	offset image.Point
}

func (i drawOffset) Set(x, y int, c color.Color) {
	i.Image.Set(x+i.offset.X, y+i.offset.Y, c)
}

func (i drawOffset) At(x, y int) color.Color {
	return i.Image.At(x-i.offset.X, y-i.offset.Y)
}

// scale maps v on [min,max] to an image row, top row for the maximum
// value. Ranges narrower than minRange are centred within minRange.
func scale(v, min, max, minRange float64, height int) int {
	v -= min
	spread := max - min
	if spread < minRange {
		v += (minRange - spread) / 2
		spread = minRange
	}
	y := int(v / spread * float64(height-1))
	return height - 1 - y
}

// vspan draws the vertical span between rows y0 and y1 of column x.
func vspan(img draw.Image, x, y0, y1 int, c color.Color) {
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for ; y0 <= y1; y0++ {
		img.Set(x, y0, c)
	}
}

func blank(img draw.Image) {
	b := img.Bounds()
	dx := b.Dx()
	dy := b.Dy()
	for x := range dx {
		for y := range dy {
			img.Set(x, y, color.White)
		}
	}
}

type displayShim struct {
	// ¯\_(ツ)_/¯
	img draw.Image
}

func (d displayShim) SetPixel(x, y int16, c color.RGBA) {
	d.img.Set(int(x), int(y), c)
}

func (d displayShim) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d displayShim) Display() error { return nil }
