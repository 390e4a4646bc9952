package handlers

import (
	"github.com/arnold/visionboard-api/internal/board"
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/arnold/visionboard-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func draftJSON(d *board.Draft) fiber.Map {
	data := d.Board.Data()
	return fiber.Map{
		"id":       d.ID,
		"revision": d.Revision(),
		"version":  data.Version,
		"goals":    data.Goals,
	}
}

func (h *Handler) CreateDraft(c *fiber.Ctx) error {
	d, err := h.drafts.Create(c.UserContext())
	if err != nil {
		return fail(c, err, "Failed to create draft")
	}
	return c.Status(fiber.StatusCreated).JSON(draftJSON(d))
}

// GetDraft returns the whole board, or one category column in display
// order when ?category= is given.
func (h *Handler) GetDraft(c *fiber.Ctx) error {
	d, err := h.drafts.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to load draft")
	}

	if raw := c.Query("category"); raw != "" {
		category := models.Category(raw)
		if !category.Valid() {
			return fail(c, board.ErrInvalidCategory, "")
		}
		return c.JSON(fiber.Map{
			"category": category,
			"goals":    d.Board.GoalsByCategory(category),
		})
	}
	return c.JSON(draftJSON(d))
}

func (h *Handler) ClearDraft(c *fiber.Ctx) error {
	d, err := h.drafts.Edit(c.UserContext(), c.Params("id"), func(b *board.Store) error {
		b.ClearAll()
		return nil
	})
	if err != nil {
		return fail(c, err, "Failed to clear draft")
	}
	return c.JSON(draftJSON(d))
}

func (h *Handler) AddGoal(c *fiber.Ctx) error {
	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := services.Validate(req); err != nil {
		return fail(c, err, "")
	}

	var goal models.Goal
	d, err := h.drafts.Edit(c.UserContext(), c.Params("id"), func(b *board.Store) (err error) {
		goal, err = b.AddGoal(board.NewGoal{
			Title:        req.Title,
			Description:  req.Description,
			Category:     req.Category,
			ImageURL:     req.ImageURL,
			Icon:         req.Icon,
			DisplayStyle: req.DisplayStyle,
			Order:        req.Order,
		})
		return err
	})
	if err != nil {
		return fail(c, err, "Failed to add goal")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"goal":     goal,
		"revision": d.Revision(),
	})
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	var goal models.Goal
	d, err := h.drafts.Edit(c.UserContext(), c.Params("id"), func(b *board.Store) (err error) {
		goal, err = b.UpdateGoal(c.Params("goalId"), board.GoalPatch{
			Title:        req.Title,
			Description:  req.Description,
			Category:     req.Category,
			ImageURL:     req.ImageURL,
			Icon:         req.Icon,
			DisplayStyle: req.DisplayStyle,
		})
		return err
	})
	if err != nil {
		return fail(c, err, "Failed to update goal")
	}
	return c.JSON(fiber.Map{
		"goal":     goal,
		"revision": d.Revision(),
	})
}

func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	_, err := h.drafts.Edit(c.UserContext(), c.Params("id"), func(b *board.Store) error {
		return b.DeleteGoal(c.Params("goalId"))
	})
	if err != nil {
		return fail(c, err, "Failed to delete goal")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MoveGoal handles a drop onto another category column.
func (h *Handler) MoveGoal(c *fiber.Ctx) error {
	var req models.MoveGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := services.Validate(req); err != nil {
		return fail(c, err, "")
	}

	d, err := h.drafts.Edit(c.UserContext(), c.Params("id"), func(b *board.Store) error {
		return b.MoveGoal(c.Params("goalId"), req.Category, *req.Order)
	})
	if err != nil {
		return fail(c, err, "Failed to move goal")
	}
	return c.JSON(draftJSON(d))
}

func (h *Handler) ReorderGoal(c *fiber.Ctx) error {
	var req models.ReorderGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := services.Validate(req); err != nil {
		return fail(c, err, "")
	}

	d, err := h.drafts.Edit(c.UserContext(), c.Params("id"), func(b *board.Store) error {
		return b.ReorderGoal(c.Params("goalId"), *req.Order)
	})
	if err != nil {
		return fail(c, err, "Failed to reorder goal")
	}
	return c.JSON(draftJSON(d))
}
