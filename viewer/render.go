package viewer

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"ebiten-floors/config"
	"ebiten-floors/geometry"
)

// Ticks between two auto-walk steps
const walkDelay = 4

var moveKeys = map[ebiten.Key]geometry.Coord{
	ebiten.KeyArrowUp:    geometry.C(0, -1),
	ebiten.KeyArrowDown:  geometry.C(0, 1),
	ebiten.KeyArrowLeft:  geometry.C(-1, 0),
	ebiten.KeyArrowRight: geometry.C(1, 0),
	ebiten.KeyNumpad8:    geometry.C(0, -1),
	ebiten.KeyNumpad2:    geometry.C(0, 1),
	ebiten.KeyNumpad4:    geometry.C(-1, 0),
	ebiten.KeyNumpad6:    geometry.C(1, 0),
	ebiten.KeyNumpad7:    geometry.C(-1, -1),
	ebiten.KeyNumpad9:    geometry.C(1, -1),
	ebiten.KeyNumpad1:    geometry.C(-1, 1),
	ebiten.KeyNumpad3:    geometry.C(1, 1),
}

var (
	statusColor = color.RGBA{255, 230, 150, 255}
	pathColor   = color.RGBA{60, 90, 160, 120}
)

// Inspector implements ebiten.Game for a Session
type Inspector struct {
	session *Session
	cfg     config.ViewerConfig
	glyphs  GlyphDrawer
	ticks   int
}

// NewInspector creates the window front end. The session camera is resized
// to the map area of the window.
func NewInspector(s *Session, cfg config.ViewerConfig, glyphs GlyphDrawer) *Inspector {
	s.Camera.Width, s.Camera.Height = cfg.Width, cfg.MapRows()
	s.ShowFOV = cfg.ShowFOV
	s.refresh()
	return &Inspector{session: s, cfg: cfg, glyphs: glyphs}
}

// Update handles input
func (in *Inspector) Update() error {
	s := in.session
	in.ticks++

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		s.ShowFOV = !s.ShowFOV
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := s.Regenerate(); err != nil {
			s.Log.Addf(MessageAlert, "Regenerate failed: %v", err)
			s.log.Error("regenerate", zap.Error(err))
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.ShowFloor(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		s.ShowFloor(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		s.ShowLastFloor()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter), inpututil.IsKeyJustPressed(ebiten.KeyPeriod):
		s.TakeStairs()
	}

	for key, dir := range moveKeys {
		if inpututil.IsKeyJustPressed(key) {
			s.path = nil
			s.Step(dir)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		tile := geometry.C(x/in.cfg.TileSize, y/in.cfg.TileSize)
		if tile.Y < in.cfg.MapRows() {
			s.PathTo(s.Camera.ScreenToWorld(tile))
		}
	}
	if in.ticks%walkDelay == 0 {
		s.FollowPath()
	}
	return nil
}

// Draw renders the map, the planned path and the message log
func (in *Inspector) Draw(screen *ebiten.Image) {
	s := in.session
	ts := float32(in.cfg.TileSize)

	for sy := 0; sy < s.Camera.Height; sy++ {
		for sx := 0; sx < s.Camera.Width; sx++ {
			g, ok := s.GlyphAt(s.Camera.ScreenToWorld(geometry.C(sx, sy)))
			if !ok {
				continue
			}
			if g.BG.A > 0 {
				vector.DrawFilledRect(screen, float32(sx)*ts, float32(sy)*ts, ts, ts, g.BG, false)
			}
			in.glyphs.DrawGlyph(screen, g.Rune, sx, sy, g.FG)
		}
	}

	for _, p := range s.Path() {
		if !s.Camera.IsVisible(p) {
			continue
		}
		sp := s.Camera.WorldToScreen(p)
		vector.DrawFilledRect(screen, float32(sp.X)*ts, float32(sp.Y)*ts, ts, ts, pathColor, false)
	}

	row := in.cfg.MapRows()
	DrawString(in.glyphs, screen, s.Status(), 0, row, statusColor)
	for i, m := range s.Log.RecentMessages(in.cfg.LogLines - 1) {
		DrawString(in.glyphs, screen, m.Text, 1, row+1+i, m.Color())
	}
}

// Layout implements ebiten.Game's Layout
func (in *Inspector) Layout(outsideWidth, outsideHeight int) (int, int) {
	return in.cfg.WindowSize()
}

// RunWindow opens the inspector window and blocks until it closes
func RunWindow(s *Session, cfg config.ViewerConfig) error {
	var glyphs GlyphDrawer = NewDebugFont(cfg.TileSize)
	if cfg.SpriteSheet != "" {
		sheet, err := NewTileset(cfg.SpriteSheet, cfg.TileSize)
		if err != nil {
			return err
		}
		glyphs = sheet
	}

	w, h := cfg.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Floor Inspector")
	ebiten.SetFullscreen(cfg.Fullscreen)

	err := ebiten.RunGame(NewInspector(s, cfg, glyphs))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
