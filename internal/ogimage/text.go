package ogimage

import (
	"image"
	"image/color"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const ellipsis = "…"

type fontSet struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var (
	fontsOnce sync.Once
	fonts     fontSet
	fontsErr  error
)

// loadFonts parses the embedded Go fonts once per process. Parsed fonts are
// shared; faces derived from them are not safe for concurrent use.
func loadFonts() (fontSet, error) {
	fontsOnce.Do(func() {
		if fonts.regular, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		fonts.bold, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fonts, fontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// faceCache hands out sized faces for a single render.
type faceCache struct {
	fonts fontSet
	faces map[faceKey]font.Face
	err   error
}

func newFaceCache(fs fontSet) *faceCache {
	return &faceCache{fonts: fs, faces: map[faceKey]font.Face{}}
}

func (fc *faceCache) face(size float64, bold bool) font.Face {
	k := faceKey{size: size, bold: bold}
	if f, ok := fc.faces[k]; ok {
		return f
	}
	src := fc.fonts.regular
	if bold {
		src = fc.fonts.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		if fc.err == nil {
			fc.err = err
		}
		return basicfont.Face7x13
	}
	fc.faces[k] = f
	return f
}

func (fc *faceCache) close() {
	for _, f := range fc.faces {
		_ = f.Close()
	}
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// drawLine draws s centered horizontally on cx and vertically within [top, top+h).
func drawLine(dst *image.RGBA, face font.Face, s string, c color.Color, cx, top, h int) {
	m := face.Metrics()
	baseline := top + (h+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(cx-textWidth(face, s)/2, baseline),
	}
	d.DrawString(s)
}

// wrap breaks s into lines no wider than maxW. Output is clamped to maxLines,
// the last kept line ending in an ellipsis when text was dropped.
func wrap(face font.Face, s string, maxW, maxLines int) []string {
	words := strings.Fields(s)
	if len(words) == 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	cur := ""
	for _, w := range words {
		for textWidth(face, w) > maxW {
			head, tail := splitToWidth(face, w, maxW)
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, head)
			w = tail
		}
		if w == "" {
			continue
		}
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if textWidth(face, candidate) <= maxW {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(face, lines[maxLines-1], maxW)
	}
	return lines
}

// splitToWidth returns the longest prefix of w that fits maxW (at least one rune) and the rest.
func splitToWidth(face font.Face, w string, maxW int) (string, string) {
	cut := 0
	for i, r := range w {
		next := i + utf8.RuneLen(r)
		if cut > 0 && textWidth(face, w[:next]) > maxW {
			break
		}
		cut = next
	}
	return w[:cut], w[cut:]
}

func ellipsize(face font.Face, s string, maxW int) string {
	for s != "" {
		if candidate := strings.TrimRight(s, " ") + ellipsis; textWidth(face, candidate) <= maxW {
			return candidate
		}
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return ellipsis
}
