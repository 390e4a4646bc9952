package handlers

import (
	"github.com/arnold/visionboard-api/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateSubmission(c *fiber.Ctx) error {
	var req models.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	sub, err := h.submissions.Submit(c.UserContext(), req)
	if err != nil {
		return fail(c, err, "Failed to create submission")
	}
	return c.JSON(fiber.Map{
		"submissionId": sub.ID,
	})
}

func (h *Handler) GetSubmission(c *fiber.Ctx) error {
	sub, err := h.submissions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Failed to load submission")
	}
	return c.JSON(sub.StatusResponse())
}
