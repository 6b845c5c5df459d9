package handler

import "github.com/masgolf/backend/internal/interfaces/http/dto"

// The types below only describe response bodies for swag; handlers build the
// real bodies with the dto constructors.

// APIResponse wraps one resource
type APIResponse[T any] struct {
	Success bool `json:"success" example:"true"`
	Data    T    `json:"data"`
}

// PageResponse wraps one page of a list. Meta is always present.
type PageResponse[T any] struct {
	Success bool     `json:"success" example:"true"`
	Data    T        `json:"data"`
	Meta    dto.Meta `json:"meta"`
}

// ErrorResponse is the body of every 4xx and 5xx answer
type ErrorResponse struct {
	Success bool          `json:"success" example:"false"`
	Error   dto.ErrorInfo `json:"error"`
}

// RedirectData tells the admin UI where to go next
type RedirectData struct {
	Redirect string `json:"redirect" example:"/admin/login"`
}
