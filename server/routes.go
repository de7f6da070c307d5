package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/task"
	"github.com/kbukum/speechkit/version"
)

// HealthChecker reports component health. *component.Registry satisfies it.
type HealthChecker interface {
	HealthAll(ctx context.Context) []component.Health
}

// TaskResult is the data payload of a task run.
type TaskResult struct {
	Result   map[string]any `json:"result"`
	Previews []task.Preview `json:"previews"`
}

// HealthReport is the body of GET /health.
type HealthReport struct {
	Status     component.HealthStatus `json:"status"`
	Components []component.Health     `json:"components"`
}

// RegisterRoutes mounts the task API plus /health and /version.
// A nil checker reports healthy with no components.
func (s *Server) RegisterRoutes(runner *task.Runner, checker HealthChecker) {
	s.engine.GET("/health", healthHandler(checker))
	s.engine.GET("/version", versionHandler)

	v1 := s.engine.Group("/v1")
	v1.GET("/tasks", listTasksHandler(runner))
	v1.POST("/tasks/:name", runTaskHandler(runner))
}

func runTaskHandler(runner *task.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		params, err := bindParams(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		rec := &task.Recorder{}
		result, err := runner.Run(c.Request.Context(), c.Param("name"), rec, params)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, TaskResult{Result: result, Previews: rec.Previews()})
	}
}

// bindParams decodes the JSON object body. An empty body is an empty map.
func bindParams(c *gin.Context) (map[string]any, error) {
	params := map[string]any{}
	err := c.ShouldBindJSON(&params)
	if err == nil || stderrors.Is(err, io.EOF) {
		return params, nil
	}

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body too large", http.StatusRequestEntityTooLarge).
			WithDetail("limit", tooLarge.Limit)
	}
	return nil, errors.InvalidInput("body", "must be a JSON object: "+err.Error())
}

func listTasksHandler(runner *task.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, gin.H{"tasks": runner.Registry().Names()})
	}
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := HealthReport{Status: component.StatusHealthy, Components: []component.Health{}}
		if checker != nil {
			report.Components = checker.HealthAll(c.Request.Context())
			report.Status = component.Overall(report.Components)
		}

		status := http.StatusOK
		if report.Status == component.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}

func versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
