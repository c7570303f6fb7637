package viewer

import (
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"ebiten-floors/config"
	"ebiten-floors/geometry"
)

var arrowKeys = map[tcell.Key]geometry.Coord{
	tcell.KeyUp:    geometry.C(0, -1),
	tcell.KeyDown:  geometry.C(0, 1),
	tcell.KeyLeft:  geometry.C(-1, 0),
	tcell.KeyRight: geometry.C(1, 0),
}

// vi keys, diagonals included
var runeKeys = map[rune]geometry.Coord{
	'k': geometry.C(0, -1),
	'j': geometry.C(0, 1),
	'h': geometry.C(-1, 0),
	'l': geometry.C(1, 0),
	'y': geometry.C(-1, -1),
	'u': geometry.C(1, -1),
	'b': geometry.C(-1, 1),
	'n': geometry.C(1, 1),
}

// Terminal is the tcell front end for a Session
type Terminal struct {
	session  *Session
	screen   tcell.Screen
	logLines int
}

// NewTerminal wraps an initialized screen
func NewTerminal(s *Session, screen tcell.Screen, logLines int) *Terminal {
	t := &Terminal{session: s, screen: screen, logLines: logLines}
	t.resize()
	return t
}

func (t *Terminal) resize() {
	w, h := t.screen.Size()
	t.session.Camera.Width = w
	t.session.Camera.Height = max(h-t.logLines, 1)
	t.session.refresh()
}

// Handle applies one screen event. It returns false when the user quits.
func (t *Terminal) Handle(ev tcell.Event) bool {
	s := t.session
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if dir, ok := arrowKeys[ev.Key()]; ok {
			s.path = nil
			s.Step(dir)
			return true
		}
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyPgUp:
			s.ShowFloor(-1)
		case tcell.KeyPgDn:
			s.ShowFloor(1)
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			s.ShowLastFloor()
		case tcell.KeyEnter:
			s.TakeStairs()
		case tcell.KeyRune:
			return t.handleRune(ev.Rune())
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			if y < s.Camera.Height {
				s.PathTo(s.Camera.ScreenToWorld(geometry.C(x, y)))
			}
		}

	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
	}
	return true
}

func (t *Terminal) handleRune(r rune) bool {
	s := t.session
	if dir, ok := runeKeys[r]; ok {
		s.path = nil
		s.Step(dir)
		return true
	}
	switch r {
	case 'q':
		return false
	case '>', '<':
		s.TakeStairs()
	case 'v':
		s.ShowFOV = !s.ShowFOV
	case 'r':
		if err := s.Regenerate(); err != nil {
			s.Log.Addf(MessageAlert, "Regenerate failed: %v", err)
			s.log.Error("regenerate", zap.Error(err))
		}
	}
	return true
}

func styleOf(g Glyph) tcell.Style {
	style := tcell.StyleDefault.Foreground(rgb(g.FG))
	if g.BG.A > 0 {
		style = style.Background(rgb(g.BG))
	}
	return style
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw renders the map, the planned path and the message log
func (t *Terminal) Draw() {
	s := t.session
	t.screen.Clear()

	for sy := 0; sy < s.Camera.Height; sy++ {
		for sx := 0; sx < s.Camera.Width; sx++ {
			g, ok := s.GlyphAt(s.Camera.ScreenToWorld(geometry.C(sx, sy)))
			if !ok {
				continue
			}
			t.screen.SetContent(sx, sy, g.Rune, nil, styleOf(g))
		}
	}
	for _, p := range s.Path() {
		if !s.Camera.IsVisible(p) {
			continue
		}
		sp := s.Camera.WorldToScreen(p)
		r, _, style, _ := t.screen.GetContent(sp.X, sp.Y)
		t.screen.SetContent(sp.X, sp.Y, r, nil, style.Reverse(true))
	}

	row := s.Camera.Height
	t.drawString(0, row, s.Status(), tcell.StyleDefault.Foreground(rgb(statusColor)))
	for i, m := range s.Log.RecentMessages(t.logLines - 1) {
		t.drawString(1, row+1+i, m.Text, tcell.StyleDefault.Foreground(rgb(m.Color())))
	}
	t.screen.Show()
}

func (t *Terminal) drawString(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// RunTerminal runs the inspector in the terminal until the user quits
func RunTerminal(s *Session, cfg config.ViewerConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	s.ShowFOV = cfg.ShowFOV
	t := NewTerminal(s, screen, cfg.LogLines)
	t.Draw()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			events <- ev
			if ev == nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(60 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev := <-events:
			if ev == nil || !t.Handle(ev) {
				return nil
			}
			t.Draw()
		case <-ticker.C:
			if s.FollowPath() {
				t.Draw()
			}
		}
	}
}
