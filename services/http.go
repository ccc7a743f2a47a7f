package services

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	serviceContext "github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/vzorr/musta-website/middleware"
	"github.com/vzorr/musta-website/services/handlers"
	"github.com/vzorr/musta-website/shared"
)

type HttpService struct {
	serviceContext.DefaultService

	submissionSvc *SubmissionService
	gdprSvc       *GdprService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *serviceContext.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.submissionSvc = svc.Service(SUBMISSION_SVC).(*SubmissionService)
	svc.gdprSvc = svc.Service(GDPR_SVC).(*GdprService)

	svc.server = svc.buildApp()

	log.Info().Int("port", svc.port).Msg("API server started")
	return svc.server.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	app.Use(middleware.SecurityHeaders())
	app.Use(svc.requestMetrics)

	submissionHandler := handlers.NewSubmissionHandler(svc.submissionSvc)
	gdprHandler := handlers.NewGdprHandler(svc.gdprSvc)

	app.Get("/ping", svc.ping)

	api := app.Group("/api")
	api.Post("/register", submissionHandler.Register)
	api.Post("/waitlist", submissionHandler.Waitlist)
	api.Post("/contact", submissionHandler.Contact)
	api.Post("/recommend", submissionHandler.Recommend)
	api.Post("/gdpr", gdprHandler.Submit)

	return app
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseSuccess(c, "pong")
}

func (svc *HttpService) requestMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok {
			status = appErr.StatusCode
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	RecordHTTPRequest(c.Route().Path, c.Method(), strconv.Itoa(status), time.Since(start))
	return err
}

// handleError maps pipeline rejections onto the response envelope. Anything
// outside the taxonomy is logged and reported as a generic internal error so
// internals never leak to callers.
func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseAppError(c, appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		code := shared.ErrCodeInternal
		if fiberErr.Code == fiber.StatusMethodNotAllowed {
			code = shared.ErrCodeInvalidMethod
		}
		return shared.ResponseError(c, fiberErr.Code, code, fiberErr.Message)
	}

	event := log.Error().Err(err).Str("path", c.Path())
	if os.Getenv("ENV") != "production" {
		event = event.Bytes("stack", debug.Stack())
	}
	event.Msg("unhandled request error")

	return shared.ResponseError(c, fiber.StatusInternalServerError, shared.ErrCodeInternal, "Something went wrong. Please try again later.")
}
