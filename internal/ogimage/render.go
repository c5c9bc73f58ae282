package ogimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // avatar formats
	_ "image/jpeg" // avatar formats
	"image/png"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // avatar formats

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/logfields"
	"git.home.luguber.info/sqrtlabs/contentfeed/internal/metrics"
)

// ArtifactName labels render metrics.
const ArtifactName = "opengraph-image"

var errRemoteAsset = errors.New("remote assets are not fetched")

// Renderer rasterizes cards. Assets resolves avatar paths and the logo; a nil
// Assets disables both and the drawn fallbacks are used.
//
// A Renderer must not be copied after first use. Render is safe for concurrent use.
type Renderer struct {
	Assets   fs.FS
	LogoName string
	Logger   *slog.Logger
	Recorder metrics.Recorder

	logoOnce sync.Once
	logo     image.Image
}

// Render draws card and encodes it as PNG.
func (r *Renderer) Render(card Card) ([]byte, error) {
	start := time.Now()
	img, err := r.Draw(card)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to draw preview image").
			WithContext("kind", string(card.Kind)).
			Build()
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to encode preview image").
			WithContext("kind", string(card.Kind)).
			Build()
	}
	metrics.OrNoop(r.Recorder).ObserveRenderDuration(ArtifactName, time.Since(start))
	return buf.Bytes(), nil
}

// Draw rasterizes card onto a fresh Width×Height canvas.
func (r *Renderer) Draw(card Card) (*image.RGBA, error) {
	set, err := loadFonts()
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	faces := newFaceCache(set)
	defer faces.close()

	c := &canvas{img: image.NewRGBA(image.Rect(0, 0, Width, Height)), faces: faces}
	th := themeFor(card)
	area := c.img.Bounds()

	switch {
	case card.Style == StylePanel && !card.NotFound:
		fillRect(c.img, area, colorGray50)
		dotGrid(c.img, 30, colorGray200)
	default:
		fillRect(c.img, area, colorWhite)
	}

	blocks := r.compose(c, card, th)
	if card.Style == StylePanel && !card.NotFound {
		h := min(stackHeight(c, blocks)+2*panelPadding, Height-2*panelMargin)
		panel := image.Rect(0, 0, Width*9/10, h).Add(image.Pt((Width-Width*9/10)/2, (Height-h)/2))
		fillRounded(c.img, panel.Inset(-1), 21, colorGray200)
		fillRounded(c.img, panel, 20, colorWhite)
		if card.Ribbon != "" {
			rb := pillBlock{text: card.Ribbon, size: 20, bold: true, fg: colorAmber600, bg: colorAmber50, padX: 16, padY: 6, radius: 20}
			w, _ := rb.measure(c)
			rb.draw(c, panel.Max.X-panelPadding/2-w/2, panel.Min.Y+panelPadding/2)
		}
		area = panel
	}
	drawStack(c, blocks, area)

	if faces.err != nil {
		return nil, faces.err
	}
	return c.img, nil
}

const (
	panelPadding = 60
	panelMargin  = 30
)

type theme struct {
	markSize   int
	headerSize float64
	headerInk  color.Color
	titleSize  float64
	titleInk   color.Color
	titleWidth int
	subSize    float64
	subInk     color.Color
	chip       pillBlock
}

func themeFor(card Card) theme {
	th := theme{
		markSize:   80,
		titleSize:  56,
		titleInk:   colorInk,
		titleWidth: 1040,
		subSize:    32,
		subInk:     colorMuted,
		headerInk:  colorNeutral900,
	}
	if card.NotFound {
		th.titleSize = 48
		return th
	}
	switch card.Kind {
	case KindSite:
		th.markSize, th.headerSize = 60, 50
		th.subInk = colorNeutral700
		th.chip = pillBlock{size: 24, fg: colorMuted, bg: colorGray100, padX: 20, padY: 10, radius: 10}
	case KindWork:
		th.markSize, th.headerSize = 30, 24
		th.titleSize, th.titleInk, th.titleWidth = 64, colorNeutral900, 940
		th.subSize, th.subInk = 30, colorGray600
		th.chip = pillBlock{size: 20, fg: colorBlue800, bg: colorBlue50, padX: 16, padY: 8, radius: 8}
	case KindTeam:
		th.markSize, th.headerSize = 50, 30
		th.titleInk, th.titleWidth = colorNeutral900, 940
	}
	return th
}

// compose turns the card into a vertical stack of blocks.
func (r *Renderer) compose(c *canvas, card Card, th theme) []spaced {
	var out []spaced
	add := func(gap int, b block) { out = append(out, spaced{gap: gap, block: b}) }

	switch card.Mark {
	case MarkCircle:
		add(0, brandCircle{diameter: th.markSize})
	case MarkRadical:
		add(0, header{glyph: "√", glyphSize: float64(th.markSize), text: card.Header, size: th.headerSize, ink: th.headerInk})
	case MarkLogo:
		add(0, header{logo: r.loadLogo(), markSize: th.markSize, text: card.Header, size: th.headerSize, ink: th.headerInk})
	}
	if card.Rule {
		add(24, rule{w: 100, h: 4, ink: colorBrand})
	}
	if card.Badge != "" {
		if card.Style == StylePanel {
			add(30, textBlock{lines: []string{strings.ToUpper(card.Badge)}, size: 20, ink: colorGray500, leading: 1.2})
		} else {
			add(40, pillBlock{text: card.Badge, size: 24, bold: true, fg: colorGray600, bg: colorGray100, padX: 16, padY: 8, radius: 20})
		}
	}
	if card.Avatar != nil {
		add(30, avatar{img: r.loadAvatar(card), glyph: card.Avatar.Glyph, diameter: 150, border: 4})
	}
	if card.Title != "" {
		face := c.faces.face(th.titleSize, true)
		add(30, textBlock{lines: wrap(face, card.Title, th.titleWidth, 3), size: th.titleSize, bold: true, ink: th.titleInk, leading: 1.15})
	}
	if card.Subtitle != "" {
		face := c.faces.face(th.subSize, false)
		add(20, textBlock{lines: wrap(face, card.Subtitle, th.titleWidth, 2), size: th.subSize, ink: th.subInk, leading: 1.3})
	}
	if card.Pill != "" {
		add(20, pillBlock{text: card.Pill, size: 32, fg: colorGray600, bg: colorGray100, padX: 30, padY: 10, radius: 50})
	}
	if len(card.Chips) > 0 {
		add(30, chips{items: card.Chips, style: th.chip, gap: 12})
	}
	if card.Footer != "" {
		add(24, textBlock{lines: []string{card.Footer}, size: 24, ink: colorGray500, leading: 1.2})
	}
	return out
}

// loadLogo reads the logo asset once; nil means the brand circle is drawn instead.
func (r *Renderer) loadLogo() image.Image {
	r.logoOnce.Do(func() {
		if r.LogoName == "" {
			return
		}
		img, err := r.loadImage(r.LogoName)
		if err != nil {
			r.logger().Warn("Logo unavailable, using drawn brand mark",
				logfields.File(r.LogoName), logfields.Error(err))
			return
		}
		r.logo = img
	})
	return r.logo
}

func (r *Renderer) loadAvatar(card Card) image.Image {
	p := card.Avatar.ImagePath
	if p == "" {
		return nil
	}
	img, err := r.loadImage(p)
	if err != nil {
		r.logger().Warn("Avatar unavailable, using initial",
			logfields.EntityKind(string(card.Kind)), logfields.Path(p), logfields.Error(err))
		return nil
	}
	return img
}

func (r *Renderer) loadImage(name string) (image.Image, error) {
	if strings.Contains(name, "://") {
		return nil, errRemoteAsset
	}
	if r.Assets == nil {
		return nil, fs.ErrNotExist
	}
	name = path.Clean(strings.TrimPrefix(name, "/"))
	if !fs.ValidPath(name) {
		return nil, fs.ErrInvalid
	}
	data, err := fs.ReadFile(r.Assets, name)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decode %s: empty image", name)
	}
	return img, nil
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

type canvas struct {
	img   *image.RGBA
	faces *faceCache
}

// block is one horizontally centered element of the stack.
type block interface {
	measure(c *canvas) (w, h int)
	draw(c *canvas, cx, top int)
}

type spaced struct {
	gap int
	block
}

func stackHeight(c *canvas, blocks []spaced) int {
	total := 0
	for i, b := range blocks {
		_, h := b.measure(c)
		total += h
		if i > 0 {
			total += b.gap
		}
	}
	return total
}

func drawStack(c *canvas, blocks []spaced, area image.Rectangle) {
	top := area.Min.Y + (area.Dy()-stackHeight(c, blocks))/2
	cx := area.Min.X + area.Dx()/2
	for i, b := range blocks {
		if i > 0 {
			top += b.gap
		}
		_, h := b.measure(c)
		b.draw(c, cx, top)
		top += h
	}
}

type textBlock struct {
	lines   []string
	size    float64
	bold    bool
	ink     color.Color
	leading float64
}

func (t textBlock) lineHeight() int { return int(t.size * t.leading) }

func (t textBlock) measure(c *canvas) (int, int) {
	face := c.faces.face(t.size, t.bold)
	w := 0
	for _, l := range t.lines {
		w = max(w, textWidth(face, l))
	}
	return w, len(t.lines) * t.lineHeight()
}

func (t textBlock) draw(c *canvas, cx, top int) {
	face := c.faces.face(t.size, t.bold)
	lh := t.lineHeight()
	for i, l := range t.lines {
		drawLine(c.img, face, l, t.ink, cx, top+i*lh, lh)
	}
}

type pillBlock struct {
	text       string
	size       float64
	bold       bool
	fg, bg     color.Color
	padX, padY int
	radius     int
}

func (p pillBlock) measure(c *canvas) (int, int) {
	face := c.faces.face(p.size, p.bold)
	return textWidth(face, p.text) + 2*p.padX, int(p.size*1.2) + 2*p.padY
}

func (p pillBlock) draw(c *canvas, cx, top int) {
	w, h := p.measure(c)
	r := image.Rect(cx-w/2, top, cx-w/2+w, top+h)
	fillRounded(c.img, r, p.radius, p.bg)
	drawLine(c.img, c.faces.face(p.size, p.bold), p.text, p.fg, cx, top, h)
}

type chips struct {
	items []string
	style pillBlock
	gap   int
}

func (ch chips) pill(s string) pillBlock {
	p := ch.style
	p.text = s
	return p
}

func (ch chips) measure(c *canvas) (int, int) {
	w, h := 0, 0
	for i, s := range ch.items {
		pw, ph := ch.pill(s).measure(c)
		w += pw
		if i > 0 {
			w += ch.gap
		}
		h = max(h, ph)
	}
	return w, h
}

func (ch chips) draw(c *canvas, cx, top int) {
	total, _ := ch.measure(c)
	x := cx - total/2
	for _, s := range ch.items {
		p := ch.pill(s)
		w, _ := p.measure(c)
		p.draw(c, x+w/2, top)
		x += w + ch.gap
	}
}

// brandCircle is the blue "√L" disc.
type brandCircle struct {
	diameter int
}

func (b brandCircle) measure(*canvas) (int, int) { return b.diameter, b.diameter }

func (b brandCircle) draw(c *canvas, cx, top int) {
	r := image.Rect(cx-b.diameter/2, top, cx-b.diameter/2+b.diameter, top+b.diameter)
	fillCircle(c.img, r, colorBrand)
	drawLine(c.img, c.faces.face(float64(b.diameter)/2, true), "√L", colorWhite, cx, top, b.diameter)
}

// header is a mark followed by a bold caption on one row.
type header struct {
	glyph     string
	glyphSize float64
	logo      image.Image
	markSize  int
	text      string
	size      float64
	ink       color.Color
}

const headerGap = 14

func (h header) markWidth(c *canvas) int {
	if h.glyph != "" {
		return textWidth(c.faces.face(h.glyphSize, true), h.glyph)
	}
	return h.markSize
}

func (h header) measure(c *canvas) (int, int) {
	w := h.markWidth(c)
	ht := max(h.markSize, int(h.glyphSize*1.2))
	if h.text != "" {
		w += headerGap + textWidth(c.faces.face(h.size, true), h.text)
		ht = max(ht, int(h.size*1.2))
	}
	return w, ht
}

func (h header) draw(c *canvas, cx, top int) {
	w, ht := h.measure(c)
	x := cx - w/2
	mw := h.markWidth(c)
	switch {
	case h.glyph != "":
		drawLine(c.img, c.faces.face(h.glyphSize, true), h.glyph, h.ink, x+mw/2, top, ht)
	case h.logo != nil:
		dst := image.Rect(x, top+(ht-h.markSize)/2, x+h.markSize, top+(ht-h.markSize)/2+h.markSize)
		xdraw.CatmullRom.Scale(c.img, dst, h.logo, h.logo.Bounds(), xdraw.Over, nil)
	default:
		brandCircle{diameter: h.markSize}.draw(c, x+mw/2, top+(ht-h.markSize)/2)
	}
	if h.text != "" {
		face := c.faces.face(h.size, true)
		tx := x + mw + headerGap
		drawLine(c.img, face, h.text, h.ink, tx+textWidth(face, h.text)/2, top, ht)
	}
}

type rule struct {
	w, h int
	ink  color.Color
}

func (r rule) measure(*canvas) (int, int) { return r.w, r.h }

func (r rule) draw(c *canvas, cx, top int) {
	fillRect(c.img, image.Rect(cx-r.w/2, top, cx-r.w/2+r.w, top+r.h), r.ink)
}

// avatar is a bordered circular portrait; without an image the glyph is drawn
// on a tinted disc.
type avatar struct {
	img      image.Image
	glyph    string
	diameter int
	border   int
}

func (a avatar) measure(*canvas) (int, int) {
	d := a.diameter + 2*a.border
	return d, d
}

func (a avatar) draw(c *canvas, cx, top int) {
	outer, _ := a.measure(c)
	fillCircle(c.img, image.Rect(cx-outer/2, top, cx-outer/2+outer, top+outer), colorIndigo800)
	inner := image.Rect(cx-a.diameter/2, top+a.border, cx-a.diameter/2+a.diameter, top+a.border+a.diameter)
	if a.img == nil {
		fillCircle(c.img, inner, colorIndigo100)
		drawLine(c.img, c.faces.face(60, true), a.glyph, colorIndigo800, cx, inner.Min.Y, a.diameter)
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, a.diameter, a.diameter))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), a.img, coverRect(a.img.Bounds()), xdraw.Src, nil)
	draw.DrawMask(c.img, inner, scaled, image.Point{}, newRoundedMask(inner, a.diameter/2), inner.Min, draw.Over)
}
