package board

import (
	"github.com/arnold/visionboard-api/internal/models"
)

// MoveGoal drops a goal at position newOrder of targetCategory.
//
// Within the goal's own category only the goal's Order changes. Across
// categories, every other goal of the target category with Order >= newOrder
// shifts up by one to make room; the source category keeps its orders, gap
// included. Only the moved goal's UpdatedAt is refreshed.
func (s *Store) MoveGoal(id string, targetCategory models.Category, newOrder int) error {
	if !targetCategory.Valid() {
		return ErrInvalidCategory
	}
	if newOrder < 0 {
		return ErrInvalidOrder
	}
	i := s.index(id)
	if i < 0 {
		return ErrGoalNotFound
	}

	if s.goals[i].Category == targetCategory {
		return s.ReorderGoal(id, newOrder)
	}

	for j := range s.goals {
		if j == i {
			continue
		}
		if s.goals[j].Category == targetCategory && s.goals[j].Order >= newOrder {
			s.goals[j].Order++
		}
	}

	s.goals[i].Category = targetCategory
	s.goals[i].Order = newOrder
	s.goals[i].UpdatedAt = s.now()
	return nil
}

// ReorderGoal sets a goal's Order within its current category. No sibling
// is shifted; readers sort by Order.
func (s *Store) ReorderGoal(id string, newOrder int) error {
	if newOrder < 0 {
		return ErrInvalidOrder
	}
	i := s.index(id)
	if i < 0 {
		return ErrGoalNotFound
	}

	s.goals[i].Order = newOrder
	s.goals[i].UpdatedAt = s.now()
	return nil
}
