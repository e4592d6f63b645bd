package httpserver

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/service"
)

const (
	defaultModel    = "turbo"
	defaultLanguage = "en"
)

// Server is the HTTP surface of the transcription service.
type Server struct {
	app  *fiber.App
	addr string
}

func New(cfg *config.ServerConfig, svc *service.Service) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	h := &handlers{svc: svc}
	app.Get("/", h.health)
	app.Get("/models", h.models)
	app.Post("/transcribe", h.transcribe)
	app.Post("/v1/audio/transcriptions", h.transcribeCompat)

	return &Server{app: app, addr: cfg.Addr()}
}

func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the router for in-process request tests.
func (s *Server) App() *fiber.App {
	return s.app
}

type handlers struct {
	svc *service.Service
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(h.svc.Health())
}

func (h *handlers) models(c *fiber.Ctx) error {
	return c.JSON(h.svc.Models())
}

func (h *handlers) transcribe(c *fiber.Ctx) error {
	up, params, err := parseTranscribeForm(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	slog.Info("transcription requested", "file", up.Filename, "model", params.Model, "language", params.Language)
	result, err := h.svc.Transcribe(c.UserContext(), up, params)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(result)
}

// transcribeCompat re-exposes transcribe under the envelope external tooling
// expects: text and language only.
func (h *handlers) transcribeCompat(c *fiber.Ctx) error {
	up, params, err := parseTranscribeForm(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	result, err := h.svc.Transcribe(c.UserContext(), up, params)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"text":     result.Text,
		"language": result.Language,
	})
}

func parseTranscribeForm(c *fiber.Ctx) (service.Upload, service.Params, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return service.Upload{}, service.Params{}, &service.Error{Status: fiber.StatusBadRequest, Detail: "file is required"}
	}

	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, service.Params{}, &service.Error{Status: fiber.StatusBadRequest, Detail: "file is unreadable"}
	}
	defer func() {
		_ = f.Close()
	}()
	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, service.Params{}, &service.Error{Status: fiber.StatusBadRequest, Detail: "file is unreadable"}
	}

	up := service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	params := service.Params{
		Model:    c.FormValue("model", defaultModel),
		Language: c.FormValue("language", defaultLanguage),
		Prompt:   c.FormValue("prompt"),
	}
	return up, params, nil
}

func writeServiceError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		return c.Status(se.Status).JSON(fiber.Map{"detail": se.Detail})
	}
	slog.Error("unexpected handler error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "internal error"})
}
