package transport

// StatusHealthy is the only status the liveness probe reports.
const StatusHealthy = "healthy"

// HealthResponse is the body returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
