// Package board holds the editable state of a kanban vision board: the goal
// store, the drag-and-drop move rules, and the draft document that persists
// a board between edits.
package board

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/arnold/visionboard-api/internal/models"
	"github.com/google/uuid"
)

var (
	ErrGoalNotFound    = errors.New("goal not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidOrder    = errors.New("order must not be negative")
	ErrInvalidDisplay  = errors.New("display style must be grid or list")
)

// NewGoal is the input to AddGoal. A nil Order appends the goal to the end
// of its category.
type NewGoal struct {
	Title        string
	Description  string
	Category     models.Category
	ImageURL     string
	Icon         string
	DisplayStyle models.DisplayStyle
	Order        *int
}

// GoalPatch lists the fields UpdateGoal merges; nil fields are left alone.
type GoalPatch struct {
	Title        *string
	Description  *string
	Category     *models.Category
	ImageURL     *string
	Icon         *string
	DisplayStyle *models.DisplayStyle
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithIconPicker(pick func(models.Category) string) Option {
	return func(s *Store) { s.pickIcon = pick }
}

// Store is a single-owner, in-memory board. Goals are kept in insertion
// order; that order breaks ties between goals with equal Order values.
type Store struct {
	goals     []models.Goal
	createdAt *time.Time

	now      func() time.Time
	newID    func() string
	pickIcon func(models.Category) string
}

func New(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		newID:    uuid.NewString,
		pickIcon: RandomIcon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromData builds a store holding a copy of data's goals.
func FromData(data models.KanbanData, opts ...Option) *Store {
	s := New(opts...)
	s.goals = append([]models.Goal(nil), data.Goals...)
	s.createdAt = data.CreatedAt
	return s
}

// Data returns a copy of the board in its exportable form.
func (s *Store) Data() models.KanbanData {
	updated := s.now()
	created := s.createdAt
	if created == nil {
		created = &updated
	}
	return models.KanbanData{
		Version:   models.KanbanVersion,
		Goals:     s.Goals(),
		CreatedAt: created,
		UpdatedAt: &updated,
	}
}

// Goals returns a copy of every goal in storage order.
func (s *Store) Goals() []models.Goal {
	out := make([]models.Goal, len(s.goals))
	copy(out, s.goals)
	return out
}

func (s *Store) Len() int { return len(s.goals) }

func (s *Store) Goal(id string) (models.Goal, bool) {
	i := s.index(id)
	if i < 0 {
		return models.Goal{}, false
	}
	return s.goals[i], true
}

func (s *Store) AddGoal(in NewGoal) (models.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Goal{}, ErrTitleRequired
	}
	if !in.Category.Valid() {
		return models.Goal{}, ErrInvalidCategory
	}
	if !in.DisplayStyle.Valid() {
		return models.Goal{}, ErrInvalidDisplay
	}

	order := s.countIn(in.Category)
	if in.Order != nil {
		if *in.Order < 0 {
			return models.Goal{}, ErrInvalidOrder
		}
		order = *in.Order
	}

	now := s.now()
	goal := models.Goal{
		ID:           s.newID(),
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Category:     in.Category,
		ImageURL:     strings.TrimSpace(in.ImageURL),
		Icon:         strings.TrimSpace(in.Icon),
		DisplayStyle: in.DisplayStyle,
		Order:        order,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.applyVisual(&goal)

	s.goals = append(s.goals, goal)
	return goal, nil
}

func (s *Store) UpdateGoal(id string, p GoalPatch) (models.Goal, error) {
	i := s.index(id)
	if i < 0 {
		return models.Goal{}, ErrGoalNotFound
	}
	goal := s.goals[i]

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return models.Goal{}, ErrTitleRequired
		}
		goal.Title = title
	}
	if p.Description != nil {
		goal.Description = strings.TrimSpace(*p.Description)
	}
	if p.Category != nil {
		if !p.Category.Valid() {
			return models.Goal{}, ErrInvalidCategory
		}
		goal.Category = *p.Category
	}
	if p.DisplayStyle != nil {
		if !p.DisplayStyle.Valid() {
			return models.Goal{}, ErrInvalidDisplay
		}
		goal.DisplayStyle = *p.DisplayStyle
	}
	if p.Icon != nil {
		goal.Icon = strings.TrimSpace(*p.Icon)
	}
	if p.ImageURL != nil {
		goal.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	s.applyVisual(&goal)

	goal.UpdatedAt = s.now()
	s.goals[i] = goal
	return goal, nil
}

// DeleteGoal removes a goal. Sibling orders are not renumbered.
func (s *Store) DeleteGoal(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrGoalNotFound
	}
	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	return nil
}

// GoalsByCategory returns the goals of one category sorted by ascending
// Order. Equal orders keep their storage order.
func (s *Store) GoalsByCategory(c models.Category) []models.Goal {
	var out []models.Goal
	for _, g := range s.goals {
		if g.Category == c {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

func (s *Store) ClearAll() {
	s.goals = nil
	s.createdAt = nil
}

// applyVisual keeps image and icon mutually exclusive. An image wins; a goal
// with neither gets an icon picked for its category.
func (s *Store) applyVisual(g *models.Goal) {
	if g.ImageURL != "" {
		g.Icon = ""
		return
	}
	if g.Icon == "" {
		g.Icon = s.pickIcon(g.Category)
	}
}

func (s *Store) index(id string) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) countIn(c models.Category) int {
	n := 0
	for _, g := range s.goals {
		if g.Category == c {
			n++
		}
	}
	return n
}
