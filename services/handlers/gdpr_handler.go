package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vzorr/musta-website/dto"
	"github.com/vzorr/musta-website/shared"
)

type GdprHandler struct {
	gdprSvc GdprServiceInterface
}

func NewGdprHandler(gdprSvc GdprServiceInterface) *GdprHandler {
	return &GdprHandler{
		gdprSvc: gdprSvc,
	}
}

// @Summary Submit a data subject request
// @Description Accepts GDPR access, export, delete and rectify requests
// @Tags gdpr
// @Accept  json
// @Produce json
// @Param gdprRequest body dto.GdprRequest true "Data subject request"
// @Success 200 {object} shared.Response
// @Router /api/gdpr [post]
func (h *GdprHandler) Submit(c *fiber.Ctx) error {
	var req dto.GdprRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	message, err := h.gdprSvc.Submit(&req, requestMeta(c))
	if err != nil {
		return err
	}

	return shared.ResponseSuccess(c, message)
}
