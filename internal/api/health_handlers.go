package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Health states, ordered from best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports whether a page is being served and the search index is filled",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// Check is the state of one part of the preview server.
type Check struct {
	Status  string `json:"status" enum:"healthy,degraded,unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Time the check took"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the overall state plus each check.
type HealthResponse struct {
	Status     string           `json:"status" enum:"healthy,degraded,unhealthy" doc:"Worst status of all checks"`
	Components map[string]Check `json:"components"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	checks := map[string]Check{
		"page":   s.checkPage(),
		"search": s.checkSearchIndex(),
	}

	overall := statusHealthy
	for _, c := range checks {
		overall = worse(overall, c.Status)
	}
	return &HealthOutput{Body: HealthResponse{Status: overall, Components: checks}}, nil
}

func worse(a, b string) string {
	rank := map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

func (s *Server) checkPage() Check {
	if s.preview == nil {
		return Check{Status: statusUnhealthy, Message: "preview not configured"}
	}
	_, renderedAt, err := s.preview.Page()
	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error()}
	}
	return Check{
		Status:  statusHealthy,
		Message: "rendered at " + renderedAt.UTC().Format(time.RFC3339),
	}
}

// checkSearchIndex reports an empty index as degraded: search works but
// finds nothing until the first render fills it.
func (s *Server) checkSearchIndex() Check {
	if s.index == nil {
		return Check{Status: statusDegraded, Message: "search index not configured"}
	}

	start := time.Now()
	count, err := s.index.DocumentCount()
	latency := time.Since(start).String()

	switch {
	case err != nil:
		return Check{Status: statusUnhealthy, Latency: latency, Message: "search index unreachable"}
	case count == 0:
		return Check{Status: statusDegraded, Latency: latency, Message: "search index empty"}
	default:
		return Check{Status: statusHealthy, Latency: latency, Message: fmt.Sprintf("%d books indexed", count)}
	}
}
