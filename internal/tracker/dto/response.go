package dto

// ErrorResponse is the JSON body returned by every failing API endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
