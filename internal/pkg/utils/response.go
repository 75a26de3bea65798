package utils

import (
	"github.com/departures-microservice/internal/pkg/errors"
	"github.com/gofiber/fiber/v2"
)

// SuccessResponse - стандартный конверт успешного ответа API.
// Minimal-формат его не использует и отдаёт плоскую структуру.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Error   *string     `json:"error"`
	Data    interface{} `json:"data"`
}

type ErrorResponse struct {
	Success  bool             `json:"success"`
	Error    string           `json:"error"`
	Data     interface{}      `json:"data"`
	Details  *errors.AppError `json:"details,omitempty"`
	Examples interface{}      `json:"examples,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return c.JSON(SuccessResponse{
		Success: true,
		Error:   nil,
		Data:    data,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Success: false,
			Error:   appErr.Message,
			Data:    nil,
			Details: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(500).JSON(ErrorResponse{
		Success: false,
		Error:   errors.ErrInternalServer.Message,
		Data:    nil,
		Details: errors.ErrInternalServer,
	})
}

// SendErrorWithExamples - ошибка валидации вместе с примерами корректных
// запросов, как того требует публичный API.
func SendErrorWithExamples(c *fiber.Ctx, err *errors.AppError, examples interface{}) error {
	return c.Status(err.StatusCode).JSON(ErrorResponse{
		Success:  false,
		Error:    err.Message,
		Data:     nil,
		Details:  err,
		Examples: examples,
	})
}
