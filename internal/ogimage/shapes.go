package ogimage

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

var (
	colorWhite      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorInk        = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorNeutral900 = color.RGBA{0x17, 0x17, 0x17, 0xff}
	colorNeutral700 = color.RGBA{0x40, 0x40, 0x40, 0xff}
	colorMuted      = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorGray50     = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	colorGray100    = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorGray200    = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorGray500    = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorGray600    = color.RGBA{0x4b, 0x55, 0x63, 0xff}
	colorBrand      = color.RGBA{0x3b, 0x82, 0xf6, 0xff}
	colorAmber50    = color.RGBA{0xfe, 0xf3, 0xc7, 0xff}
	colorAmber600   = color.RGBA{0xd9, 0x77, 0x06, 0xff}
	colorBlue50     = color.RGBA{0xef, 0xf6, 0xff, 0xff}
	colorBlue800    = color.RGBA{0x1e, 0x40, 0xaf, 0xff}
	colorIndigo100  = color.RGBA{0xe0, 0xe7, 0xff, 0xff}
	colorIndigo800  = color.RGBA{0x37, 0x30, 0xa3, 0xff}
)

// roundedMask is an anti-aliased alpha mask of a rounded rectangle in
// destination coordinates. A radius of half the side yields a circle.
type roundedMask struct {
	rect   image.Rectangle
	radius float64
}

func newRoundedMask(r image.Rectangle, radius int) roundedMask {
	maxR := min(r.Dx(), r.Dy()) / 2
	return roundedMask{rect: r, radius: float64(max(0, min(radius, maxR)))}
}

func (m roundedMask) ColorModel() color.Model { return color.AlphaModel }

func (m roundedMask) Bounds() image.Rectangle { return m.rect }

func (m roundedMask) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.rect)) {
		return color.Alpha{}
	}
	if m.radius == 0 {
		return color.Alpha{A: 0xff}
	}
	px, py := float64(x)+0.5, float64(y)+0.5
	cx := clamp(px, float64(m.rect.Min.X)+m.radius, float64(m.rect.Max.X)-m.radius)
	cy := clamp(py, float64(m.rect.Min.Y)+m.radius, float64(m.rect.Max.Y)-m.radius)
	a := clamp(m.radius+0.5-math.Hypot(px-cx, py-cy), 0, 1)
	return color.Alpha{A: uint8(a * 0xff)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func fillRounded(dst draw.Image, r image.Rectangle, radius int, c color.Color) {
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, newRoundedMask(r, radius), r.Min, draw.Over)
}

func fillCircle(dst draw.Image, r image.Rectangle, c color.Color) {
	fillRounded(dst, r, r.Dx()/2, c)
}

// dotGrid paints 2px dots every step pixels.
func dotGrid(dst draw.Image, step int, c color.Color) {
	b := dst.Bounds()
	for y := b.Min.Y + step/2; y < b.Max.Y; y += step {
		for x := b.Min.X + step/2; x < b.Max.X; x += step {
			fillRect(dst, image.Rect(x, y, x+2, y+2), c)
		}
	}
}

// coverRect is the centered square crop of b, matching CSS object-fit: cover
// for a square target.
func coverRect(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}
