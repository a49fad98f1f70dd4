// Package stakeholders is the HTTP client the content service uses to
// consult the stakeholders service for follow based permissions.
package stakeholders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/logger"
)

type CommentPermission struct {
	CanComment bool   `json:"can_comment"`
	Reason     string `json:"reason"`
}

type Client interface {
	CanComment(ctx context.Context, userID, authorID int64) (*CommentPermission, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(baseURL string, log *logger.Logger) Client {
	return &client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		log:        log.With("client", "stakeholders"),
	}
}

func (c *client) CanComment(ctx context.Context, userID, authorID int64) (*CommentPermission, error) {
	url := fmt.Sprintf("%s/api/internal/can-comment?user_id=%d&author_id=%d", c.baseURL, userID, authorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to build can-comment request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("can-comment request failed", "error", err)
		return nil, apierr.Dependency(err, "stakeholders service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apierr.Dependency(fmt.Errorf("stakeholders responded %d", resp.StatusCode), "can-comment check failed")
	}
	var permission CommentPermission
	if err := json.NewDecoder(resp.Body).Decode(&permission); err != nil {
		return nil, apierr.Dependency(err, "failed to decode can-comment response")
	}
	return &permission, nil
}
