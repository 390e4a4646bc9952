// Package exporter renders a stored board snapshot to a PNG image.
package exporter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"sort"

	"github.com/arnold/visionboard-api/internal/board"
	"github.com/arnold/visionboard-api/internal/models"
	xdraw "golang.org/x/image/draw"
)

type Exporter interface {
	Render(ctx context.Context, snap models.Snapshot) ([]byte, error)
}

const (
	defaultCanvasWidth  = 1200
	defaultCanvasHeight = 800
	maxCanvasSide       = 4096

	margin      = 24
	columnWidth = 280
	columnGap   = 16
	headerH     = 40
	cardGap     = 12
	cardPad     = 10
	thumbH      = 120
)

var (
	kanbanBackground = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	columnBackground = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	cardBackground   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	placeholder      = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	titleColor       = color.RGBA{0x11, 0x18, 0x27, 0xff}
	mutedColor       = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	accentColor      = color.RGBA{0x66, 0x7e, 0xea, 0xff}
)

var categoryLabels = map[models.Category]string{
	models.CategoryHealth:         "Saúde",
	models.CategoryCareer:         "Carreira",
	models.CategoryRelationships:  "Relacionamentos",
	models.CategoryFinance:        "Finanças",
	models.CategoryPersonalGrowth: "Crescimento Pessoal",
	models.CategoryTravel:         "Viagens",
	models.CategoryEducation:      "Educação",
	models.CategoryFamily:         "Família",
	models.CategoryCreative:       "Criatividade",
	models.CategoryOther:          "Outros",
}

// PNG draws kanban boards as one column per non-empty category and canvas
// boards element by element in z-order.
type PNG struct {
	images ImageFetcher
}

func NewPNG(images ImageFetcher) *PNG {
	return &PNG{images: images}
}

func (p *PNG) Render(ctx context.Context, snap models.Snapshot) ([]byte, error) {
	var (
		img *image.RGBA
		err error
	)
	switch s := snap.(type) {
	case *models.KanbanData:
		img, err = p.kanban(ctx, s)
	case *models.CanvasData:
		img, err = p.canvas(ctx, s)
	default:
		return nil, fmt.Errorf("render: %w: %T", models.ErrUnknownSnapshot, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type column struct {
	category models.Category
	goals    []models.Goal
	heights  []int
}

func (p *PNG) kanban(ctx context.Context, k *models.KanbanData) (*image.RGBA, error) {
	store := board.FromData(*k)
	textWidth := columnWidth - 2*cardPad

	var cols []column
	tallest := 0
	for _, c := range models.Categories {
		goals := store.GoalsByCategory(c)
		if len(goals) == 0 {
			continue
		}
		col := column{category: c, goals: goals}
		h := headerH
		for _, g := range goals {
			ch := cardHeight(g, textWidth)
			col.heights = append(col.heights, ch)
			h += ch + cardGap
		}
		if h > tallest {
			tallest = h
		}
		cols = append(cols, col)
	}

	width := 2*margin + columnWidth
	if n := len(cols); n > 0 {
		width = 2*margin + n*columnWidth + (n-1)*columnGap
	}
	height := 2*margin + max(tallest, headerH)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), kanbanBackground)

	for i, col := range cols {
		x := margin + i*(columnWidth+columnGap)
		fill(img, image.Rect(x, margin, x+columnWidth, height-margin), columnBackground)
		drawText(img, x+cardPad, margin+12, fmt.Sprintf("%s (%d)", categoryLabels[col.category], len(col.goals)), titleColor)

		y := margin + headerH
		for j, g := range col.goals {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p.card(ctx, img, image.Rect(x+cardPad/2, y, x+columnWidth-cardPad/2, y+col.heights[j]), g, textWidth)
			y += col.heights[j] + cardGap
		}
	}
	return img, nil
}

func cardHeight(g models.Goal, textWidth int) int {
	h := 2*cardPad + len(wrap(g.Title, textWidth))*lineHeight
	if g.Description != "" {
		h += len(wrap(g.Description, textWidth)) * lineHeight
	}
	if g.ImageURL != "" {
		h += thumbH + cardPad
	} else if g.Icon != "" {
		h += lineHeight
	}
	return h
}

func (p *PNG) card(ctx context.Context, img *image.RGBA, r image.Rectangle, g models.Goal, textWidth int) {
	fill(img, r, cardBackground)
	x, y := r.Min.X+cardPad/2, r.Min.Y+cardPad

	if g.ImageURL != "" {
		thumb := image.Rect(r.Min.X, y-cardPad, r.Max.X, y-cardPad+thumbH)
		p.picture(ctx, img, thumb, g.ImageURL, g.Title)
		y += thumbH
	}
	for _, line := range wrap(g.Title, textWidth) {
		drawText(img, x, y, line, titleColor)
		y += lineHeight
	}
	for _, line := range wrap(g.Description, textWidth) {
		if line == "" {
			continue
		}
		drawText(img, x, y, line, mutedColor)
		y += lineHeight
	}
	if g.ImageURL == "" && g.Icon != "" {
		drawText(img, x, y, "["+g.Icon+"]", accentColor)
	}
}

func (p *PNG) canvas(ctx context.Context, c *models.CanvasData) (*image.RGBA, error) {
	w, h := int(c.Canvas.Width), int(c.Canvas.Height)
	if w <= 0 || h <= 0 {
		w, h = defaultCanvasWidth, defaultCanvasHeight
	}
	w, h = min(w, maxCanvasSide), min(h, maxCanvasSide)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), parseColor(c.Canvas.BackgroundColor, cardBackground))

	elements := append([]models.CanvasElement(nil), c.Elements...)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Base().ZIndex < elements[j].Base().ZIndex
	})

	for _, el := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pos := el.Base().Position
		x, y := int(pos.X), int(pos.Y)

		switch e := el.(type) {
		case *models.ImageElement:
			r := image.Rect(x, y, x+int(e.Size.Width), y+int(e.Size.Height))
			p.picture(ctx, img, r, e.URL, e.Alt)
		case *models.TextElement:
			col := titleColor
			if e.Style != nil {
				col = parseColor(e.Style.Color, titleColor)
			}
			width := int(e.MaxWidth)
			if width <= 0 {
				width = w - x
			}
			for _, line := range wrap(e.Content, width) {
				drawText(img, x, y, line, col)
				y += lineHeight
			}
		default:
			return nil, fmt.Errorf("%w: %T", models.ErrUnknownElement, el)
		}
	}
	return img, nil
}

// picture scales the image at url into r. A picture that cannot be loaded
// is drawn as a grey box labelled with alt.
func (p *PNG) picture(ctx context.Context, img *image.RGBA, r image.Rectangle, url, alt string) {
	if r.Empty() {
		return
	}
	if p.images != nil && url != "" {
		src, err := p.images.Fetch(ctx, url)
		if err == nil {
			xdraw.ApproxBiLinear.Scale(img, r, src, src.Bounds(), xdraw.Over, nil)
			return
		}
		log.Printf("Export: image %s skipped: %v", url, err)
	}
	fill(img, r, placeholder)
	if alt != "" {
		for i, line := range wrap(alt, r.Dx()-2*cardPad) {
			drawText(img, r.Min.X+cardPad, r.Min.Y+cardPad+i*lineHeight, line, mutedColor)
		}
	}
}
