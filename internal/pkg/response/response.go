package response

import "github.com/gofiber/fiber/v3"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Status int    `json:"status"`
}

const (
	KindMissingField  = "MissingField"
	KindInvalidField  = "InvalidField"
	KindNotFound      = "NotFound"
	KindNotConfigured = "NotConfigured"
	KindProviderError = "ProviderError"
	KindUnauthorized  = "Unauthorized"
	KindRateLimited   = "RateLimited"
	KindBadRequest    = "BadRequest"
	KindInternal      = "Internal"
	KindError         = "Error"
)

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageMethodNotAllowed    = "method not allowed"
	MessageTooManyRequests     = "too many requests"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

// JSON writes data as the whole body.
func JSON(c fiber.Ctx, status int, data any) error {
	return c.Status(normalizeStatus(status)).JSON(data)
}

func NoContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func Error(c fiber.Ctx, status int, kind, message string) error {
	st := normalizeStatus(status)
	if kind == "" {
		kind = KindForStatus(st)
	}
	if message == "" {
		message = DefaultMessageForStatus(st)
	}
	return c.Status(st).JSON(ErrorResponse{Error: message, Kind: kind, Status: st})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func KindForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return KindBadRequest
	case fiber.StatusUnauthorized:
		return KindUnauthorized
	case fiber.StatusNotFound:
		return KindNotFound
	case fiber.StatusTooManyRequests:
		return KindRateLimited
	case fiber.StatusServiceUnavailable:
		return KindNotConfigured
	case fiber.StatusBadGateway:
		return KindProviderError
	default:
		if status >= 500 {
			return KindInternal
		}
		return KindError
	}
}

func DefaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusMethodNotAllowed:
		return MessageMethodNotAllowed
	case fiber.StatusTooManyRequests:
		return MessageTooManyRequests
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
