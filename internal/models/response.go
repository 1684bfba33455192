package models

// helper to calculate pagination metadata
func CalculatePaginationMeta(page, limit, total int) (totalPages int, hasNext, hasPrev bool) {
	if limit <= 0 {
		limit = 1 // avoid division by zero
	}
	totalPages = (total + limit - 1) / limit // ceiling division
	hasNext = page < totalPages
	hasPrev = page > 1
	return
}

// pagination block of GET /questions/paged
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	Limit       int `json:"limit"`
}

// Envelope is the uniform response body: {success, data|error|message, ...}.
type Envelope struct {
	Success    bool        `json:"success"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Data       any         `json:"data,omitempty"`
}

// DataEnvelope wraps a successful payload.
func DataEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// ListEnvelope wraps a list payload together with its length.
func ListEnvelope(data any, count int) Envelope {
	return Envelope{Success: true, Count: &count, Data: data}
}

// ErrorEnvelope wraps a failure message.
func ErrorEnvelope(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
