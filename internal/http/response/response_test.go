package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/soa-tours/platform/internal/pkg/apierr"
)

func record(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	RespondError(c, err)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(recorder.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return recorder, envelope
}

func TestRespondErrorMapsAPIErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apierr.Validation("bad input"), http.StatusBadRequest, "validation_error"},
		{"precondition", apierr.Precondition("set a position first"), http.StatusBadRequest, "precondition_error"},
		{"conflict", apierr.Conflict("already active"), http.StatusConflict, "conflict_error"},
		{"not_found", apierr.NotFound("missing"), http.StatusNotFound, "not_found"},
		{"dependency", apierr.Dependency(errors.New("down"), "store failed"), http.StatusBadGateway, "dependency_error"},
		{"unauthorized", apierr.Unauthorized("no token"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apierr.Forbidden("not yours"), http.StatusForbidden, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder, envelope := record(t, tc.err)
			if recorder.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", recorder.Code, tc.wantStatus)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
			}
			if envelope.Error.Message == "" {
				t.Fatalf("message must not be empty")
			}
		})
	}
}

func TestRespondErrorHidesUnknownErrors(t *testing.T) {
	recorder, envelope := record(t, errors.New("pq: connection reset"))
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", recorder.Code)
	}
	if envelope.Error.Code != "internal_error" || envelope.Error.Message != "internal server error" {
		t.Fatalf("internals leaked: %+v", envelope.Error)
	}
}

func TestWrappedAPIErrorStillMaps(t *testing.T) {
	wrapped := fmtWrap(apierr.NotFound("tour not found"))
	recorder, envelope := record(t, wrapped)
	if recorder.Code != http.StatusNotFound || envelope.Error.Code != "not_found" {
		t.Fatalf("wrapped error not unwrapped: %d %+v", recorder.Code, envelope.Error)
	}
}

func fmtWrap(err error) error {
	return &wrapError{err}
}

type wrapError struct{ inner error }

func (w *wrapError) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrapError) Unwrap() error { return w.inner }
