package render

import (
	"image"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/photodrift/photodrift/internal/config"
	"github.com/photodrift/photodrift/internal/sequencer"
	"github.com/photodrift/photodrift/internal/viewer"
)

const (
	overlayPadding   = 8.0
	weatherIconSize  = 64.0
	overlayBackAlpha = 140
)

// App drives the sequencer and viewer from the Ebitengine game loop and
// draws whatever state the viewer holds each frame.
type App struct {
	viewer *viewer.Viewer
	seq    *sequencer.Sequencer

	textures map[image.Image]*ebiten.Image
	live     map[image.Image]bool
	scratch  *ebiten.Image
}

func newApp(v *viewer.Viewer, seq *sequencer.Sequencer) *App {
	return &App{
		viewer:   v,
		seq:      seq,
		textures: make(map[image.Image]*ebiten.Image),
		live:     make(map[image.Image]bool),
	}
}

// Run opens the fullscreen window and blocks until the sequencer stops or
// the window is closed.
func Run(v *viewer.Viewer, seq *sequencer.Sequencer, cfg *config.Settings) error {
	ebiten.SetWindowTitle("photodrift")
	ebiten.SetFullscreen(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	if cfg.FramerateLimit > 0 {
		ebiten.SetTPS(cfg.FramerateLimit)
	}

	log.Debugf("starting render loop at %d fps", cfg.FramerateLimit)

	return ebiten.RunGame(newApp(v, seq))
}

func (a *App) Update() error {
	a.handleInput()

	a.seq.Tick()
	if a.seq.Stopped() {
		return ebiten.Termination
	}

	a.viewer.Advance()
	return nil
}

func (a *App) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape), inpututil.IsKeyJustPressed(ebiten.KeyQ):
		a.seq.EnqueueCommand(sequencer.Command{Type: sequencer.CommandStop})
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		a.seq.EnqueueCommand(sequencer.Command{Type: sequencer.CommandTogglePause})
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeyN):
		a.seq.EnqueueCommand(sequencer.Command{Type: sequencer.CommandNext})
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft), inpututil.IsKeyJustPressed(ebiten.KeyP):
		a.seq.EnqueueCommand(sequencer.Command{Type: sequencer.CommandPrev})
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.viewer.SetViewport(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	view := a.viewer.View()

	if img := a.viewer.CurrentImage(); img != nil {
		w, h := a.viewer.CurrentSize()
		a.drawLayer(screen, a.texture(img), w, h, a.viewer.CurrentPose(), view, 1)
	}
	if img := a.viewer.IncomingImage(); img != nil {
		w, h := a.viewer.IncomingSize()
		a.drawLayer(screen, a.texture(img), w, h, a.viewer.IncomingPose(), view, a.viewer.IncomingPixelRatio())
	}
	a.drawTiles(screen, view)
	a.drawOverlay(screen)

	a.pruneTextures()
}

// drawLayer renders one image layer. The view matrix maps image coordinates
// to the viewport; the pose applies on top, about the mapped image center.
// A pixelRatio below 1 renders through a shrunken offscreen with nearest
// upscaling.
func (a *App) drawLayer(screen, tex *ebiten.Image, w, h int, pose viewer.Pose, view viewer.Affine, pixelRatio float64) {
	if tex == nil || pose.Opacity <= 0 || w <= 0 || h <= 0 {
		return
	}

	src := tex
	var g ebiten.GeoM
	filter := ebiten.FilterLinear

	if pixelRatio > 0 && pixelRatio < 1 {
		pw := maxInt(1, int(math.Round(float64(w)*pixelRatio)))
		ph := maxInt(1, int(math.Round(float64(h)*pixelRatio)))
		src = a.pixelated(tex, w, h, pw, ph)
		g.Scale(float64(w)/float64(pw), float64(h)/float64(ph))
		filter = ebiten.FilterNearest
	}

	g.Concat(geoM(view))

	if pose.DX != 0 || pose.DY != 0 || pose.Scale != 1 || pose.Rotation != 0 {
		cx, cy := view.Apply(float64(w)/2, float64(h)/2)
		g.Translate(-cx, -cy)
		g.Rotate(pose.Rotation * math.Pi / 180)
		g.Scale(pose.Scale, pose.Scale)
		g.Translate(cx+pose.DX, cy+pose.DY)
	}

	op := &ebiten.DrawImageOptions{Filter: filter}
	op.GeoM = g
	op.ColorScale.ScaleAlpha(float32(pose.Opacity))
	screen.DrawImage(src, op)
}

// pixelated draws tex into a pw×ph offscreen so the nearest upscale in
// drawLayer produces hard pixel blocks.
func (a *App) pixelated(tex *ebiten.Image, w, h, pw, ph int) *ebiten.Image {
	if a.scratch == nil || a.scratch.Bounds().Dx() != pw || a.scratch.Bounds().Dy() != ph {
		if a.scratch != nil {
			a.scratch.Deallocate()
		}
		a.scratch = ebiten.NewImage(pw, ph)
	}
	a.scratch.Clear()

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(pw)/float64(w), float64(ph)/float64(h))
	a.scratch.DrawImage(tex, op)
	return a.scratch
}

func (a *App) drawTiles(screen *ebiten.Image, view viewer.Affine) {
	tiles := a.viewer.Tiles()
	if len(tiles) == 0 {
		return
	}
	img := a.viewer.CurrentImage()
	if img == nil {
		return
	}
	tex := a.texture(img)

	for i := range tiles {
		t := &tiles[i]
		if t.Opacity <= 0 {
			continue
		}
		sub, ok := tex.SubImage(t.Rect).(*ebiten.Image)
		if !ok {
			continue
		}

		var g ebiten.GeoM
		g.Translate(t.X, t.Y)
		g.Concat(geoM(view))

		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM = g
		op.ColorScale.ScaleAlpha(float32(t.Opacity))
		screen.DrawImage(sub, op)
	}
}

func (a *App) drawOverlay(screen *ebiten.Image) {
	overlay := a.viewer.Overlay()

	for _, line := range overlay.Meta {
		a.drawLine(screen, line)
	}
	for _, line := range overlay.Weather {
		a.drawLine(screen, line)
	}

	if icon := a.viewer.WeatherIcon(); icon != nil && len(overlay.Weather) > 0 {
		a.drawWeatherIcon(screen, icon, overlay.Weather[0])
	}
}

func (a *App) drawLine(screen *ebiten.Image, line viewer.Line) {
	if line.Text == "" {
		return
	}
	vector.DrawFilledRect(screen,
		float32(line.X-overlayPadding), float32(line.Y-overlayPadding/2),
		float32(line.W+2*overlayPadding), float32(line.H+overlayPadding),
		color.RGBA{A: overlayBackAlpha}, false)
	drawText(screen, line.Text, line.Size, line.X, line.Y)
}

// drawWeatherIcon places the condition icon to the left of the first
// weather line, vertically centered on it.
func (a *App) drawWeatherIcon(screen *ebiten.Image, icon image.Image, first viewer.Line) {
	tex := a.texture(icon)
	b := tex.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}

	scale := weatherIconSize / float64(b.Dx())
	var g ebiten.GeoM
	g.Scale(scale, scale)
	g.Translate(first.X-weatherIconSize-overlayPadding,
		first.Y+first.H/2-float64(b.Dy())*scale/2)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM = g
	screen.DrawImage(tex, op)
}

// texture returns the GPU image for img, uploading it on first use. Entries
// are marked live and pruned after each frame so swapped-out photos do not
// pin GPU memory.
func (a *App) texture(img image.Image) *ebiten.Image {
	if tex, ok := a.textures[img]; ok {
		a.live[img] = true
		return tex
	}
	tex := ebiten.NewImageFromImage(img)
	a.textures[img] = tex
	a.live[img] = true
	return tex
}

func (a *App) pruneTextures() {
	for img, tex := range a.textures {
		if !a.live[img] {
			tex.Deallocate()
			delete(a.textures, img)
		}
	}
	clear(a.live)
}

func geoM(m viewer.Affine) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(0, 1, m[2])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 0, m[1])
	g.SetElement(1, 1, m[3])
	g.SetElement(1, 2, m[5])
	return g
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
