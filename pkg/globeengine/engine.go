// Package globeengine draws the pull-request globe in an ebiten window and
// lets the user spin it and hover arcs and spikes for details.
package globeengine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/sudorandom/pr-globe/pkg/feed"
	"github.com/sudorandom/pr-globe/pkg/globe"
	"github.com/sudorandom/pr-globe/pkg/sources"
)

var (
	ColorBackground = color.RGBA{0x04, 0x0A, 0x1B, 0xFF}
	ColorOcean      = color.RGBA{0x0A, 0x14, 0x33, 0xFF}
	ColorHalo       = color.RGBA{0x1C, 0x2A, 0x6B, 0xFF}
	ColorCardBorder = color.RGBA{36, 42, 53, 255}
)

// Publisher receives what the globe shows. *feed.Hub satisfies it.
type Publisher interface {
	Publish(ev feed.Event) bool
}

type hoverKind int

const (
	hoverNone hoverKind = iota
	hoverArc
	hoverSpike
)

type hover struct {
	kind      hoverKind
	index     int
	dataIndex int
}

type Engine struct {
	Width, Height int
	FPS           int
	Scale         float64

	// FrameCaptureDir enables PNG capture. Frames are written when P is
	// pressed, and every CaptureInterval frames when that is positive.
	FrameCaptureDir string
	CaptureInterval int

	Config    globe.Config
	Camera    *Camera
	Publisher Publisher

	records []sources.Record
	origins []globe.GeoCoordinate
	dots    *globe.DotField
	spikes  *globe.SpikeField
	arcs    *globe.ArcEngine

	fontSource    *text.GoTextFaceSource
	monoSource    *text.GoTextFaceSource
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
	glowImage     *ebiten.Image

	vertices []ebiten.Vertex
	indices  []uint16

	pointerX, pointerY float64
	pointerIn          bool
	hover              hover

	frame       int
	captureNext bool
}

func NewEngine(width, height int, scale float64) *Engine {
	s, _ := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	m, _ := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))

	return &Engine{
		Width:      width,
		Height:     height,
		FPS:        60,
		Scale:      scale,
		Config:     globe.DefaultConfig(),
		Camera:     NewCamera(width, height),
		fontSource: s,
		monoSource: m,
	}
}

// LoadData fetches the dataset and the land mask and builds the globe.
func (e *Engine) LoadData(l sources.Loader, dataSrc, maskSrc string, maskWidth, maskHeight int) error {
	records, err := l.Records(dataSrc)
	if err != nil {
		return err
	}
	mask, err := l.LandMask(maskSrc, maskWidth, maskHeight)
	if err != nil {
		return err
	}
	return e.Build(records, mask, nil)
}

// Build generates the dot field, spikes and arcs from records. rnd supplies
// spike jitter and may be nil.
func (e *Engine) Build(records []sources.Record, mask image.Image, rnd globe.RandSource) error {
	dots, err := globe.NewDotField(e.Config, mask)
	if err != nil {
		return fmt.Errorf("building dot field: %w", err)
	}
	origins := sources.Origins(records)
	spikes, err := globe.NewSpikeField(e.Config, origins, rnd)
	if err != nil {
		dots.Dispose()
		return fmt.Errorf("building spikes: %w", err)
	}
	arcs, err := globe.NewArcEngine(e.Config, sources.Pairs(records))
	if err != nil {
		dots.Dispose()
		spikes.Dispose()
		return fmt.Errorf("building arcs: %w", err)
	}

	e.Dispose()
	e.records = records
	e.origins = origins
	e.dots = dots
	e.spikes = spikes
	e.arcs = arcs
	e.hover = hover{}

	log.Printf("[GLOBE] Built %s land dots, %s spikes (density %d-%d), %s arcs",
		humanize.Comma(int64(dots.Count())),
		humanize.Comma(int64(spikes.Count())), spikes.MinDensity, spikes.MaxDensity,
		humanize.Comma(int64(arcs.Len())))
	return nil
}

// Dispose releases everything Build created.
func (e *Engine) Dispose() {
	if e.dots != nil {
		e.dots.Dispose()
	}
	if e.spikes != nil {
		e.spikes.Dispose()
	}
	if e.arcs != nil {
		e.arcs.Dispose()
	}
	e.dots, e.spikes, e.arcs = nil, nil, nil
}

func (e *Engine) Update() error {
	if e.arcs == nil {
		return nil
	}
	e.handleInput()

	tps := ebiten.TPS()
	if tps <= 0 {
		tps = e.FPS
	}
	e.step(1 / float64(tps))
	return nil
}

func (e *Engine) handleInput() {
	x, y := ebiten.CursorPosition()
	dragging := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if touches := ebiten.AppendTouchIDs(nil); len(touches) > 0 {
		x, y = ebiten.TouchPosition(touches[0])
		dragging = true
	}
	e.setPointer(float64(x), float64(y), x >= 0 && y >= 0 && x < e.Width && y < e.Height)
	e.Camera.SetDragging(dragging && e.pointerIn)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		e.captureNext = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		e.Camera.Reset()
	}
}

func (e *Engine) setPointer(x, y float64, inside bool) {
	e.pointerX, e.pointerY, e.pointerIn = x, y, inside
	e.Camera.SetPointer(x, y)
	if !inside {
		e.Camera.SetDragging(false)
	}
}

// step advances the globe by delta seconds.
func (e *Engine) step(delta float64) {
	e.Camera.Update(delta)
	if idx := e.arcs.Update(delta); idx >= 0 {
		e.publishArc(feed.EventActivate, idx)
	}
	e.updateHover()

	e.frame++
	if e.CaptureInterval > 0 && e.frame%e.CaptureInterval == 0 {
		e.captureNext = true
	}
}

func (e *Engine) updateHover() {
	next := hover{}
	if e.pointerIn && !e.Camera.Dragging() {
		if info, ok := e.pickArc(e.pointerX, e.pointerY); ok {
			next = hover{kind: hoverArc, index: info.LineMeshIndex, dataIndex: info.DataIndex}
		} else if hit, ok := e.pickSpike(e.pointerX, e.pointerY); ok {
			next = hover{kind: hoverSpike, index: hit.Index, dataIndex: hit.DataIndex}
		}
	}
	if next.kind == e.hover.kind && next.index == e.hover.index {
		return
	}
	e.hover = next

	switch next.kind {
	case hoverArc:
		e.arcs.Highlight(globe.HitInfo{DataIndex: next.dataIndex, LineMeshIndex: next.index})
		e.publishArc(feed.EventHighlight, next.index)
	case hoverSpike:
		e.arcs.ResetHighlight()
		e.publishSpike(next.index)
	default:
		e.arcs.ResetHighlight()
	}
	e.Camera.PauseAutoRotation(next.kind != hoverNone)
}

func (e *Engine) info(dataIndex int) sources.Info {
	if dataIndex < 0 || dataIndex >= len(e.records) {
		return sources.Info{}
	}
	return e.records[dataIndex].Info()
}

func (e *Engine) publishArc(t feed.EventType, idx int) {
	if e.Publisher == nil {
		return
	}
	arc := e.arcs.Arc(idx)
	e.Publisher.Publish(feed.NewEvent(t, idx, arc.DataIndex, arc.Origin, arc.Merge, e.info(arc.DataIndex)))
}

func (e *Engine) publishSpike(idx int) {
	if e.Publisher == nil {
		return
	}
	dataIndex := e.spikes.DataIndex[idx]
	none := globe.GeoCoordinate{Lat: math.NaN(), Lon: math.NaN()}
	e.Publisher.Publish(feed.NewEvent(feed.EventSpike, idx, dataIndex, e.origins[dataIndex], none, e.info(dataIndex)))
}

// Stats is a snapshot of what the engine is animating.
type Stats struct {
	Frame    int
	Dots     int
	Spikes   int
	Arcs     int
	Active   int
	Retiring int
}

func (e *Engine) Stats() Stats {
	s := Stats{Frame: e.frame}
	if e.arcs == nil {
		return s
	}
	s.Dots = e.dots.Count()
	s.Spikes = e.spikes.Count()
	s.Arcs = e.arcs.Len()
	s.Active = e.arcs.ActiveCount()
	s.Retiring = e.arcs.RetiringCount()
	return s
}

func (e *Engine) Layout(w, h int) (int, int) { return e.Width, e.Height }
