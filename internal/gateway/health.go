package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/soa-tours/platform/internal/pkg/logger"
)

type ServiceHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details any    `json:"details,omitempty"`
}

type HealthChecker struct {
	routes     []Route
	httpClient *http.Client
	log        *logger.Logger
}

func NewHealthChecker(cfg *Config, log *logger.Logger) *HealthChecker {
	return &HealthChecker{
		routes:     cfg.Routes,
		httpClient: &http.Client{Timeout: 3 * time.Second},
		log:        log.With("component", "healthchecker"),
	}
}

// Check polls every backend's /health concurrently.
func (hc *HealthChecker) Check(ctx context.Context) []ServiceHealth {
	results := make([]ServiceHealth, len(hc.routes))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	for i, route := range hc.routes {
		i, route := i, route
		group.Go(func() error {
			health := hc.checkOne(groupCtx, route)
			mu.Lock()
			results[i] = health
			mu.Unlock()
			return nil
		})
	}
	// Probes record failures as statuses, never as errors.
	_ = group.Wait()
	return results
}

func (hc *HealthChecker) checkOne(ctx context.Context, route Route) ServiceHealth {
	health := ServiceHealth{Name: route.Name, Status: "unreachable"}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, route.Target+"/health", nil)
	if err != nil {
		return health
	}
	resp, err := hc.httpClient.Do(req)
	if err != nil {
		hc.log.Warn("health probe failed", "service", route.Name, "error", err)
		return health
	}
	defer resp.Body.Close()

	var details map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&details); err == nil {
		health.Details = details
	}
	if resp.StatusCode == http.StatusOK {
		health.Status = "ok"
	} else {
		health.Status = "degraded"
	}
	return health
}

func (hc *HealthChecker) Handler(c *gin.Context) {
	services := hc.Check(c.Request.Context())
	overall := "ok"
	status := http.StatusOK
	for _, health := range services {
		if health.Status != "ok" {
			overall = "degraded"
			status = http.StatusServiceUnavailable
			break
		}
	}
	c.JSON(status, gin.H{"status": overall, "services": services})
}
