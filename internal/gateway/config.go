// Package gateway is the edge reverse proxy. It routes path prefixes to
// the backing services and aggregates their health.
package gateway

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soa-tours/platform/internal/pkg/envutil"
	"github.com/soa-tours/platform/internal/pkg/logger"
)

type Route struct {
	// Prefix is matched against the incoming path and stripped before
	// proxying, so /stakeholders/api/auth/login reaches the backend as
	// /api/auth/login.
	Prefix string `yaml:"prefix"`
	Target string `yaml:"target"`
	Name   string `yaml:"name"`
}

type Config struct {
	Listen string  `yaml:"listen"`
	Routes []Route `yaml:"routes"`
}

// Load reads GATEWAY_CONFIG if set, else falls back to defaults that
// match docker-compose service names. Environment variables override
// the per-service targets either way.
func Load(log *logger.Logger) (*Config, error) {
	cfg := &Config{
		Listen: ":8080",
		Routes: []Route{
			{Prefix: "/stakeholders", Target: "http://stakeholders:8081", Name: "stakeholders"},
			{Prefix: "/content", Target: "http://content:8082", Name: "content"},
			{Prefix: "/commerce", Target: "http://commerce:8083", Name: "commerce"},
		},
	}

	if path := envutil.Get("GATEWAY_CONFIG", "", log); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read gateway config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse gateway config: %w", err)
		}
	}

	for i := range cfg.Routes {
		envKey := fmt.Sprintf("%s_URL", upperSnake(cfg.Routes[i].Name))
		cfg.Routes[i].Target = envutil.Get(envKey, cfg.Routes[i].Target, log)
	}
	if listen := envutil.Get("GATEWAY_LISTEN", "", log); listen != "" {
		cfg.Listen = listen
	}
	return cfg, nil
}

func upperSnake(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '-' || r == ' ' {
			out = append(out, '_')
			continue
		}
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
