package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"reportvault/internal/http/middleware"
	"reportvault/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: parameter validation and body decoding only, the services own
// the semantics. Everything under /reports and /documents requires a valid
// bearer token.
func RegisterRoutes(app *fiber.App, db *sql.DB, reports service.ReportService, documents service.DocumentService, jwtSecret string) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	authed := app.Group("", middleware.Auth(jwtSecret))

	authed.Post("/reports", CreateReport(reports))
	authed.Get("/reports", ListReports(reports))
	authed.Get("/reports/:id", GetReport(reports))
	authed.Patch("/reports/:id", UpdateReport(reports))
	authed.Delete("/reports/:id", DeleteReport(reports))

	authed.Get("/reports/:id/documents", ListDocuments(documents))
	authed.Post("/reports/:id/documents", UploadDocument(documents))

	authed.Get("/documents/:id", GetDocument(documents))
	authed.Get("/documents/:id/content", DownloadDocument(documents))
	authed.Patch("/documents/:id", UpdateDocument(documents))
	authed.Delete("/documents/:id", DeleteDocument(documents))
}
