package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"reportvault/internal/http/middleware"
	"reportvault/internal/service"
)

// ownerIDFromCtx reads the verified owner id stored by middleware.Auth.
func ownerIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.OwnerIDLocalKey).(string); ok {
		return s
	}
	return ""
}

type createReportRequest struct {
	Name string `json:"name"`
}

type updateReportRequest struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
}

// CreateReport handles POST /reports.
func CreateReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createReportRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		rep, err := svc.Create(c.UserContext(), ownerIDFromCtx(c), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rep)
	}
}

// ListReports handles GET /reports. A non-empty q query parameter switches
// from plain listing to substring search.
func ListReports(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := ownerIDFromCtx(c)

		if q := c.Query("q"); q != "" {
			reports, err := svc.Search(c.UserContext(), ownerID, q)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.JSON(reports)
		}

		reports, err := svc.List(c.UserContext(), ownerID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(reports)
	}
}

// GetReport handles GET /reports/:id.
func GetReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rep, err := svc.Get(c.UserContext(), id, ownerIDFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rep)
	}
}

// UpdateReport handles PATCH /reports/:id.
func UpdateReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateReportRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		rep, err := svc.Update(c.UserContext(), id, ownerIDFromCtx(c), req.Name, req.Content)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rep)
	}
}

// DeleteReport handles DELETE /reports/:id.
func DeleteReport(svc service.ReportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id, ownerIDFromCtx(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
