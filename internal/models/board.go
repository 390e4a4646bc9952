package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	KanbanVersion = "2.0"
	CanvasVersion = "1.0"
)

var (
	ErrUnknownSnapshot = errors.New("goals data is neither a kanban nor a canvas board")
	ErrUnknownElement  = errors.New("unknown canvas element type")
)

// Snapshot is a serialized board. It is implemented by *KanbanData and
// *CanvasData only.
type Snapshot interface {
	FormatVersion() string
	ItemCount() int
	snapshot()
}

// KanbanData is the exportable state of a kanban board.
type KanbanData struct {
	Version   string     `json:"version"`
	Goals     []Goal     `json:"goals"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

func (k *KanbanData) FormatVersion() string { return KanbanVersion }
func (k *KanbanData) ItemCount() int        { return len(k.Goals) }
func (k *KanbanData) snapshot()             {}

type CanvasConfig struct {
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
}

// CanvasData is the free-form board format: absolutely positioned image and
// text elements on a fixed-size canvas.
type CanvasData struct {
	Version    string          `json:"version"`
	Canvas     CanvasConfig    `json:"canvas"`
	Elements   []CanvasElement `json:"elements"`
	Categories []Category      `json:"categories"`
	CreatedAt  *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

func (c *CanvasData) FormatVersion() string { return CanvasVersion }
func (c *CanvasData) ItemCount() int        { return len(c.Elements) }
func (c *CanvasData) snapshot()             {}

func (c *CanvasData) UnmarshalJSON(data []byte) error {
	type alias CanvasData
	var raw struct {
		alias
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = CanvasData(raw.alias)
	c.Elements = make([]CanvasElement, 0, len(raw.Elements))
	for i, msg := range raw.Elements {
		el, err := decodeElement(msg)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		c.Elements = append(c.Elements, el)
	}
	return nil
}

// DecodeSnapshot detects the board format of raw goals data and decodes it.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var probe struct {
		Version  string          `json:"version"`
		Goals    json.RawMessage `json:"goals"`
		Elements json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode goals data: %w", err)
	}

	switch {
	case probe.Elements != nil:
		var canvas CanvasData
		if err := json.Unmarshal(raw, &canvas); err != nil {
			return nil, fmt.Errorf("decode canvas board: %w", err)
		}
		return &canvas, nil
	case probe.Goals != nil || probe.Version == KanbanVersion:
		var kanban KanbanData
		if err := json.Unmarshal(raw, &kanban); err != nil {
			return nil, fmt.Errorf("decode kanban board: %w", err)
		}
		return &kanban, nil
	default:
		return nil, ErrUnknownSnapshot
	}
}
