package transport

// MessageResponse is the body returned by the greeting endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
