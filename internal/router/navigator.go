// Package router connects navigation links to the HTTP routes that serve
// their destinations.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"ai-forum-web/pkg/navigation"
)

// NavigationError reports a destination that did not answer with a 2xx status.
type NavigationError struct {
	Path   string
	Status int
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed with status %d", e.Path, e.Status)
}

// Navigator dispatches navigation requests through an http.Handler in
// process, the same way in-page navigation requests reach the server.
type Navigator struct {
	handler http.Handler
}

var _ navigation.Navigator = (*Navigator)(nil)

func NewNavigator(handler http.Handler) *Navigator {
	return &Navigator{handler: handler}
}

func (n *Navigator) Navigate(ctx context.Context, path string) error {
	if ctx == nil {
		return errors.New("navigation: context is required")
	}
	if n == nil || n.handler == nil {
		return errors.New("navigation: handler is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("navigation: path %q must be absolute", path)
	}

	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	req.Header.Set(navigation.PartialHeader, "1")

	recorder := httptest.NewRecorder()
	n.handler.ServeHTTP(recorder, req)

	resp := recorder.Result()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NavigationError{Path: path, Status: resp.StatusCode}
	}
	return nil
}
