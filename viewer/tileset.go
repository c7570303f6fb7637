package viewer

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// GlyphDrawer draws one character cell of the inspector grid
type GlyphDrawer interface {
	DrawGlyph(dst *ebiten.Image, r rune, x, y int, clr color.Color)
}

// Tileset draws glyphs from a Code Page 437 sprite sheet laid out 16 tiles across
type Tileset struct {
	Image    *ebiten.Image
	TileSize int // Size drawn on screen
	SrcSize  int // Size of one tile in the sheet
	Width    int // Tiles across the sheet
	Height   int // Tiles down the sheet
}

// NewTileset loads a sprite sheet from a PNG file
func NewTileset(filename string, tileSize int) (*Tileset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	sheet := ebiten.NewImageFromImage(img)
	bounds := sheet.Bounds()
	src := bounds.Dx() / 16
	if src == 0 {
		return nil, fmt.Errorf("%s is too small for a 16 column sheet", filename)
	}

	return &Tileset{
		Image:    sheet,
		TileSize: tileSize,
		SrcSize:  src,
		Width:    16,
		Height:   bounds.Dy() / src,
	}, nil
}

// DrawGlyph draws the sheet tile for r at grid position x, y tinted with clr
func (t *Tileset) DrawGlyph(dst *ebiten.Image, r rune, x, y int, clr color.Color) {
	index := int(r)
	if index > 255 {
		index = '?'
	}
	tx, ty := index%t.Width, index/t.Width
	if ty >= t.Height {
		return
	}

	sx, sy := tx*t.SrcSize, ty*t.SrcSize
	op := &ebiten.DrawImageOptions{}
	scale := float64(t.TileSize) / float64(t.SrcSize)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(float64(x*t.TileSize), float64(y*t.TileSize))
	op.ColorScale.ScaleWithColor(clr)

	rect := image.Rect(sx, sy, sx+t.SrcSize, sy+t.SrcSize)
	dst.DrawImage(t.Image.SubImage(rect).(*ebiten.Image), op)
}

// Debug glyph cell size of ebitenutil's built in font
const (
	debugGlyphW = 6
	debugGlyphH = 16
)

// DebugFont draws glyphs with ebiten's built in debug font, used when no
// sprite sheet is configured. Each rune is rendered once and cached.
type DebugFont struct {
	TileSize int
	cache    map[rune]*ebiten.Image
}

// NewDebugFont creates a debug font drawer
func NewDebugFont(tileSize int) *DebugFont {
	return &DebugFont{TileSize: tileSize, cache: make(map[rune]*ebiten.Image)}
}

// DrawGlyph draws r centered in the grid cell at x, y tinted with clr
func (d *DebugFont) DrawGlyph(dst *ebiten.Image, r rune, x, y int, clr color.Color) {
	img, ok := d.cache[r]
	if !ok {
		img = ebiten.NewImage(debugGlyphW, debugGlyphH)
		ebitenutil.DebugPrintAt(img, string(r), 0, 0)
		d.cache[r] = img
	}

	op := &ebiten.DrawImageOptions{}
	scale := float64(d.TileSize) / debugGlyphH
	op.GeoM.Scale(scale, scale)
	offset := (float64(d.TileSize) - debugGlyphW*scale) / 2
	op.GeoM.Translate(float64(x*d.TileSize)+offset, float64(y*d.TileSize))
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(img, op)
}

// DrawString draws text one glyph per grid cell starting at x, y
func DrawString(g GlyphDrawer, dst *ebiten.Image, text string, x, y int, clr color.Color) {
	i := 0
	for _, r := range text {
		g.DrawGlyph(dst, r, x+i, y, clr)
		i++
	}
}
