package types

// SuccessEnvelope is the shape of every 2xx JSON response.
type SuccessEnvelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Meta    *PageMeta `json:"meta,omitempty"`
}

// ErrorEnvelope is the shape of every non-2xx JSON response.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// PageMeta carries pagination info for list endpoints.
type PageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
