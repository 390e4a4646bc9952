package models

import (
	"encoding/json"
	"fmt"
)

type ElementKind string

const (
	ElementImage ElementKind = "image"
	ElementText  ElementKind = "text"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type TextStyle struct {
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontFamily string  `json:"fontFamily,omitempty"`
	Color      string  `json:"color,omitempty"`
	TextAlign  string  `json:"textAlign,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Underline  bool    `json:"underline,omitempty"`
}

// ElementBase holds the fields shared by every canvas element.
type ElementBase struct {
	ID       string    `json:"id"`
	Position Position  `json:"position"`
	Category *Category `json:"category,omitempty"`
	ZIndex   int       `json:"zIndex,omitempty"`
}

// CanvasElement is either an *ImageElement or a *TextElement. Consumers
// switch on the concrete type and treat anything else as an error.
type CanvasElement interface {
	Kind() ElementKind
	Base() ElementBase
	canvasElement()
}

type ImageElement struct {
	ElementBase
	URL  string `json:"url"`
	Size Size   `json:"size"`
	Alt  string `json:"alt,omitempty"`
}

func (e *ImageElement) Kind() ElementKind { return ElementImage }
func (e *ImageElement) Base() ElementBase { return e.ElementBase }
func (e *ImageElement) canvasElement()    {}

func (e *ImageElement) MarshalJSON() ([]byte, error) {
	type alias ImageElement
	return json.Marshal(struct {
		Type ElementKind `json:"type"`
		*alias
	}{ElementImage, (*alias)(e)})
}

type TextElement struct {
	ElementBase
	Content  string     `json:"content"`
	Style    *TextStyle `json:"style,omitempty"`
	MaxWidth float64    `json:"maxWidth,omitempty"`
}

func (e *TextElement) Kind() ElementKind { return ElementText }
func (e *TextElement) Base() ElementBase { return e.ElementBase }
func (e *TextElement) canvasElement()    {}

func (e *TextElement) MarshalJSON() ([]byte, error) {
	type alias TextElement
	return json.Marshal(struct {
		Type ElementKind `json:"type"`
		*alias
	}{ElementText, (*alias)(e)})
}

func decodeElement(msg json.RawMessage) (CanvasElement, error) {
	var tag struct {
		Type ElementKind `json:"type"`
	}
	if err := json.Unmarshal(msg, &tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case ElementImage:
		var el ImageElement
		if err := json.Unmarshal(msg, &el); err != nil {
			return nil, err
		}
		return &el, nil
	case ElementText:
		var el TextElement
		if err := json.Unmarshal(msg, &el); err != nil {
			return nil, err
		}
		return &el, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownElement, tag.Type)
	}
}
