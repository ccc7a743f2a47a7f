package shared

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every API endpoint returns.
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	RetryAfter int    `json:"retryAfter,omitempty"`
	Timestamp  string `json:"timestamp"`
}

var jsonAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

func writeJSON(c *fiber.Ctx, httpCode int, resp Response) error {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)

	body, err := jsonAPI.Marshal(resp)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "application/json; charset=utf-8")
	return c.Status(httpCode).Send(body)
}

// ResponseSuccess writes the 200 envelope with a localized message.
func ResponseSuccess(c *fiber.Ctx, message string) error {
	return writeJSON(c, fiber.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// ResponseError writes a rejection envelope carrying the taxonomy code.
func ResponseError(c *fiber.Ctx, httpCode int, code, message string) error {
	return writeJSON(c, httpCode, Response{
		Success: false,
		Message: message,
		Error:   code,
	})
}

// ResponseRateLimited writes the 429 envelope with the retry hint.
func ResponseRateLimited(c *fiber.Ctx, message string, retryAfter int) error {
	return writeJSON(c, fiber.StatusTooManyRequests, Response{
		Success:    false,
		Message:    message,
		Error:      ErrCodeRateLimited,
		RetryAfter: retryAfter,
	})
}

// ResponseAppError maps an AppError onto the envelope.
func ResponseAppError(c *fiber.Ctx, appErr *AppError) error {
	if appErr.Code == ErrCodeRateLimited {
		return ResponseRateLimited(c, appErr.Message, appErr.RetryAfter)
	}
	return ResponseError(c, appErr.StatusCode, appErr.Code, appErr.Message)
}
