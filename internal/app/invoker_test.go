package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netapp-lib/webservice-go/internal/config"
	"github.com/netapp-lib/webservice-go/pkg/webservice"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, string, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return srv, u.Hostname(), u.Port()
}

func TestInvokerRunWritesResponse(t *testing.T) {
	_, host, port := newServer(t, http.StatusOK, `{"ok":true}`)

	inv, err := NewInvoker(&config.Config{
		Scheme:        "http",
		Host:          host,
		Port:          port,
		ServicePath:   "/api/v1",
		RequestMethod: http.MethodGet,
	}, nil)
	if err != nil {
		t.Fatalf("NewInvoker: %v", err)
	}

	var out bytes.Buffer
	if err := inv.Run(context.Background(), &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "200 OK\n{\"ok\":true}" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestInvokerProfileSelectsEvaluator(t *testing.T) {
	_, host, port := newServer(t, http.StatusInternalServerError, "backend down")

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	raw := "profiles:\n" +
		"  - id: filer\n" +
		"    scheme: http\n" +
		"    host: " + host + "\n" +
		"    port: " + port + "\n" +
		"    service_path: /api/v1\n" +
		"    evaluator: status\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}

	inv, err := NewInvoker(&config.Config{
		ProfilesFile:      path,
		Profile:           "filer",
		ResponseEvaluator: "none",
	}, nil)
	if err != nil {
		t.Fatalf("NewInvoker: %v", err)
	}

	err = inv.Run(context.Background(), &bytes.Buffer{})
	var statusErr *webservice.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || !strings.Contains(statusErr.Snippet, "backend down") {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
}

func TestNewInvokerErrors(t *testing.T) {
	if _, err := NewInvoker(nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}

	_, err := NewInvoker(&config.Config{Scheme: "ftp", Host: "h", Port: "21"}, nil)
	if !errors.Is(err, webservice.ErrInvalidArgument) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	_, err = NewInvoker(&config.Config{Scheme: "http", Host: "h", Port: "80", ResponseEvaluator: "bogus"}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown evaluator")
	}

	_, err = NewInvoker(&config.Config{Profile: "x", ProfilesFile: filepath.Join(t.TempDir(), "none.yaml")}, nil)
	if err == nil {
		t.Fatalf("expected error for missing profiles file")
	}
}
