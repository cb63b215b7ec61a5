package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Probe reports whether one dependency is reachable.
type Probe func(ctx context.Context) error

type HealthHandler struct {
	probes  map[string]Probe
	timeout time.Duration
}

// NewHealthHandler answers /healthcheck. Without probes it is a plain
// liveness check.
func NewHealthHandler(probes map[string]Probe) *HealthHandler {
	return &HealthHandler{probes: probes, timeout: 2 * time.Second}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if len(h.probes) == 0 {
		c.String(http.StatusOK, "ok")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.probes))
	errs := make([]error, 0, len(h.probes))
	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
		errs = append(errs, nil)
	}
	var g errgroup.Group
	for i, name := range names {
		probe := h.probes[name]
		g.Go(func() error {
			errs[i] = probe(ctx)
			return nil
		})
	}
	_ = g.Wait()

	status := http.StatusOK
	for i, name := range names {
		results[name] = "ok"
		if errs[i] != nil {
			results[name] = errs[i].Error()
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "checks": results})
}
