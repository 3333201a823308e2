package artifact_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rmap/internal/domain"
	"rmap/internal/services/artifact"
	"rmap/internal/transport"
)

func newService(t *testing.T, handler http.HandlerFunc) *artifact.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return artifact.New(transport.New(transport.Config{Base: srv.URL}), "application/pdf")
}

func TestRetrieve(t *testing.T) {
	payload := []byte("%PDF-1.7 watermarked content")
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get-version/abc123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	})

	art, err := svc.Retrieve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if art.ContentType != "application/pdf" {
		t.Fatalf("content type %q", art.ContentType)
	}
	if art.Size() != len(payload) {
		t.Fatalf("size %d, want %d", art.Size(), len(payload))
	}
	if string(art.Bytes) != string(payload) {
		t.Fatal("artifact bytes differ")
	}
}

func TestRetrieveContentTypeMismatch(t *testing.T) {
	// A 200 with an HTML error page must not pass for a document.
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login expired</html>"))
	})

	_, err := svc.Retrieve(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrArtifact) {
		t.Fatalf("want ErrArtifact, got %v", err)
	}
}

func TestRetrieveNonSuccessStatus(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := svc.Retrieve(context.Background(), "expired-token")
	if !errors.Is(err, domain.ErrArtifact) {
		t.Fatalf("want ErrArtifact, got %v", err)
	}
}

func TestRetrieveAcceptsCharsetParameter(t *testing.T) {
	// Media type comparison is exact, parameters are not part of the type.
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; charset=binary")
		w.Write([]byte("%PDF"))
	})

	art, err := svc.Retrieve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if art.ContentType != "application/pdf" {
		t.Fatalf("content type %q", art.ContentType)
	}
}
