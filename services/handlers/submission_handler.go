package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vzorr/musta-website/dto"
	"github.com/vzorr/musta-website/middleware"
	"github.com/vzorr/musta-website/shared"
)

type SubmissionHandler struct {
	submissionSvc SubmissionServiceInterface
}

func NewSubmissionHandler(submissionSvc SubmissionServiceInterface) *SubmissionHandler {
	return &SubmissionHandler{
		submissionSvc: submissionSvc,
	}
}

func requestMeta(c *fiber.Ctx) dto.RequestMeta {
	return dto.RequestMeta{
		ClientKey: middleware.ClientKey(c),
		UserAgent: c.Get("User-Agent"),
	}
}

// @Summary Register interest
// @Description Registers interest in the platform ahead of launch
// @Tags intake
// @Accept  json
// @Produce json
// @Param registerRequest body dto.RegisterRequest true "Registration"
// @Success 200 {object} shared.Response
// @Router /api/register [post]
func (h *SubmissionHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	message, err := h.submissionSvc.SubmitRegistration(shared.CategoryRegistration, &req, requestMeta(c))
	if err != nil {
		return err
	}

	return shared.ResponseSuccess(c, message)
}

// @Summary Join the waitlist
// @Description Adds the submitter to the launch waitlist
// @Tags intake
// @Accept  json
// @Produce json
// @Param waitlistRequest body dto.RegisterRequest true "Waitlist signup"
// @Success 200 {object} shared.Response
// @Router /api/waitlist [post]
func (h *SubmissionHandler) Waitlist(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	message, err := h.submissionSvc.SubmitRegistration(shared.CategoryWaitlist, &req, requestMeta(c))
	if err != nil {
		return err
	}

	return shared.ResponseSuccess(c, message)
}

// @Summary Send a contact message
// @Description Accepts a contact form message
// @Tags intake
// @Accept  json
// @Produce json
// @Param contactRequest body dto.ContactRequest true "Contact message"
// @Success 200 {object} shared.Response
// @Router /api/contact [post]
func (h *SubmissionHandler) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	message, err := h.submissionSvc.SubmitContact(&req, requestMeta(c))
	if err != nil {
		return err
	}

	return shared.ResponseSuccess(c, message)
}

// @Summary Recommend a professional
// @Description Accepts a professional self-registration or third-party recommendation
// @Tags intake
// @Accept  json
// @Produce json
// @Param recommendRequest body dto.RecommendRequest true "Recommendation"
// @Success 200 {object} shared.Response
// @Router /api/recommend [post]
func (h *SubmissionHandler) Recommend(c *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	message, err := h.submissionSvc.SubmitRecommendation(&req, requestMeta(c))
	if err != nil {
		return err
	}

	return shared.ResponseSuccess(c, message)
}
