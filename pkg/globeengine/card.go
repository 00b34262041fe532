package globeengine

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sudorandom/pr-globe/pkg/globe"
	"github.com/sudorandom/pr-globe/pkg/sources"
)

const (
	cardOffsetX = 10
	cardOffsetY = 16
)

func (e *Engine) drawLegend(screen *ebiten.Image) {
	if e.fontSource == nil {
		return
	}
	margin, fontSize, spacing, swatchSize := 40.0, 16.0, 30.0, 12.0
	if e.Width > 2000 {
		margin, fontSize, spacing, swatchSize = 80.0, 32.0, 60.0, 24.0
	}
	fontSize *= e.Scale

	items := []struct {
		Label string
		Color color.RGBA
	}{
		{fmt.Sprintf("%s pull requests opened", humanize.Comma(int64(e.spikes.Count()))), globe.ColorSpike},
		{fmt.Sprintf("%s pull requests merged", humanize.Comma(int64(e.arcs.Len()))), globe.ColorArc},
	}

	face := &text.GoTextFace{Source: e.fontSource, Size: fontSize}
	lx := margin
	ly := float64(e.Height) - margin - float64(len(items))*spacing
	for i, it := range items {
		ty := ly + float64(i)*spacing
		vector.DrawFilledCircle(screen, float32(lx+swatchSize/2), float32(ty+swatchSize/2), float32(swatchSize/2), it.Color, true)

		top := &text.DrawOptions{}
		top.GeoM.Translate(lx+swatchSize+15, ty+(swatchSize/2)-(fontSize/2))
		top.ColorScale.Scale(1, 1, 1, 0.8)
		text.Draw(screen, it.Label, face, top)
	}
}

// drawStatus shows frame rate and how many arcs are in flight.
func (e *Engine) drawStatus(screen *ebiten.Image) {
	if e.monoSource == nil {
		return
	}
	margin, fontSize := 40.0, 12.0
	if e.Width > 2000 {
		margin, fontSize = 80.0, 24.0
	}
	fontSize *= e.Scale
	face := &text.GoTextFace{Source: e.monoSource, Size: fontSize}

	stats := e.Stats()
	label := fmt.Sprintf("%5.1f fps  %3d drawing  %3d landing", ebiten.ActualFPS(), stats.Active, stats.Retiring)
	tw, _ := text.Measure(label, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(e.Width)-margin-tw, margin)
	op.ColorScale.Scale(1, 1, 1, 0.4)
	text.Draw(screen, label, face, op)
}

func (e *Engine) drawCard(screen *ebiten.Image) {
	if e.fontSource == nil || e.hover.kind == hoverNone {
		return
	}
	info := e.info(e.hover.dataIndex)

	fontSize, pad := 16.0, 12.0
	if e.Width > 2000 {
		fontSize, pad = 32.0, 24.0
	}
	fontSize *= e.Scale
	lineHeight := fontSize * 1.4
	face := &text.GoTextFace{Source: e.fontSource, Size: fontSize}
	bodyFace := &text.GoTextFace{Source: e.fontSource, Size: fontSize * .85}

	lines := cardLines(info)
	boxW := 0.0
	for i, line := range lines {
		f := bodyFace
		if i == 0 {
			f = face
		}
		if w, _ := text.Measure(line, f, 0); w > boxW {
			boxW = w
		}
	}
	boxW += pad*2 + 4
	boxH := float64(len(lines))*lineHeight + pad*2

	x, y := cardPosition(e.pointerX, e.pointerY, boxW, boxH, float64(e.Width), float64(e.Height))

	accent := globe.ColorArc
	if info.Type == sources.TypeOpened {
		accent = globe.ColorSpike
	}
	if c, ok := parseHexColor(info.LanguageColor); ok {
		accent = c
	}
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), color.RGBA{0, 0, 0, 200}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(boxW), float32(boxH), 1, ColorCardBorder, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), 4, float32(boxH), accent, false)

	for i, line := range lines {
		f, alpha := bodyFace, float32(.6)
		if i == 0 {
			f, alpha = face, 1
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+pad+4, y+pad+float64(i)*lineHeight)
		op.ColorScale.Scale(1, 1, 1, alpha)
		text.Draw(screen, line, f, op)
	}
}

// cardLines is the header, the language if known and the body of a card.
func cardLines(info sources.Info) []string {
	lines := []string{info.Header()}
	if info.Language != "" {
		lines = append(lines, info.Language)
	}
	return append(lines, strings.Split(info.Body(), "\n")...)
}

// cardPosition places a w x h card next to the pointer, keeping it inside
// the screen horizontally and flipping it above the pointer when it would
// run off the bottom.
func cardPosition(px, py, w, h, screenW, screenH float64) (x, y float64) {
	x = min(px+cardOffsetX, screenW-w-cardOffsetX)
	y = py + cardOffsetY
	if y+h > screenH {
		y = py - h - cardOffsetY/2
	}
	return x, y
}

// parseHexColor parses "#rrggbb" or "#rgb".
func parseHexColor(s string) (color.RGBA, bool) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	switch len(s) {
	case 7:
		return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xFF}, true
	case 4:
		return color.RGBA{uint8(v>>8&0xF) * 17, uint8(v>>4&0xF) * 17, uint8(v&0xF) * 17, 0xFF}, true
	}
	return color.RGBA{}, false
}
