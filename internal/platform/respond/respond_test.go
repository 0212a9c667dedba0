package respond

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"

	appmiddleware "github.com/janisto/loveconnect/internal/platform/middleware"
)

func decodeProblem(t *testing.T, resp *httptest.ResponseRecorder) problem {
	t.Helper()
	var p problem
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	return p
}

func varySet(h http.Header) map[string]int {
	set := make(map[string]int)
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			set[strings.TrimSpace(part)]++
		}
	}
	return set
}

func TestNotFoundHandlerReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected application/problem+json, got %q", ct)
	}
	if link := resp.Header().Get("Link"); !strings.Contains(link, schemaPath) || !strings.Contains(link, "describedBy") {
		t.Fatalf("expected Link header with schema, got %q", link)
	}
	p := decodeProblem(t, resp)
	if p.Status != http.StatusNotFound || p.Title != "Not Found" || p.Detail != "resource not found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if !strings.HasPrefix(p.Schema, "http://example.com/") {
		t.Fatalf("expected $schema on request host, got %q", p.Schema)
	}
}

func TestMethodNotAllowedHandlerListsAllowedMethods(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Get("/v1/theme", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Post("/v1/theme", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/v1/theme", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	allow := resp.Header().Get("Allow")
	if !strings.Contains(allow, http.MethodGet) || !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("expected Allow to list GET and POST, got %q", allow)
	}
	if p := decodeProblem(t, resp); !strings.Contains(p.Detail, "DELETE") {
		t.Fatalf("expected detail to mention DELETE, got %q", p.Detail)
	}
}

func TestNotFoundHandlerReturnsCBORWhenAccepted(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept", "application/cbor")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); ct != "application/problem+cbor" {
		t.Fatalf("expected application/problem+cbor, got %q", ct)
	}
	var p huma.ErrorModel
	if err := cbor.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal CBOR problem: %v", err)
	}
	if p.Status != http.StatusNotFound || p.Title != "Not Found" {
		t.Fatalf("unexpected problem: %+v", p)
	}
}

func TestRecovererReturnsProblemDetails(t *testing.T) {
	router := chi.NewRouter()
	router.Use(appmiddleware.RequestID(), Recoverer())
	api := humachi.New(router, huma.DefaultConfig("Test", "test"))
	huma.Get(api, "/panic", func(context.Context, *struct{}) (*struct{}, error) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	p := decodeProblem(t, resp)
	if p.Title != "Internal Server Error" || p.Detail != "internal server error" {
		t.Fatalf("unexpected problem: %+v", p)
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/abort", func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, http.ErrAbortHandler) {
			t.Fatalf("expected http.ErrAbortHandler to be re-panicked, got %v", err)
		}
	}()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Fatal("expected panic to propagate")
}

func TestRecovererSkipsWriteWhenHeaderAlreadyWritten(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial response"))
		panic("panic after write")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "partial response" {
		t.Fatalf("expected original response preserved, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestWriteProblemVaryHeader(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding, Accept")
		WriteProblem(w, r, http.StatusBadRequest, "bad")
	})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	set := varySet(resp.Header())
	if set["Accept-Encoding"] != 1 || set["Origin"] != 1 || set["Accept"] != 1 {
		t.Fatalf("expected merged Vary without duplicates, got %v", resp.Header().Values("Vary"))
	}
}

func TestWriteProblemHTTPSSchema(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Host = "api.loveconnect.test"
	resp := httptest.NewRecorder()
	WriteProblem(resp, req, http.StatusNotFound, "gone")

	if p := decodeProblem(t, resp); p.Schema != "https://api.loveconnect.test"+schemaPath {
		t.Fatalf("unexpected schema %q", p.Schema)
	}
}

func TestWriteProblemNoHTMLEscaping(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteProblem(resp, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "<bad>")

	if strings.Contains(resp.Body.String(), `\u003c`) || !strings.Contains(resp.Body.String(), "<bad>") {
		t.Fatalf("expected unescaped body, got %s", resp.Body.String())
	}
}

func TestSelectFormat(t *testing.T) {
	tests := []struct {
		accept string
		cbor   bool
	}{
		{"", false},
		{"*/*", false},
		{"application/*", false},
		{"application/json", false},
		{"application/cbor", true},
		{"application/cbor;q=1.0", true},
		{"application/json, application/cbor", false},
		{"application/json;q=0.9, application/cbor", true},
		{"application/problem+cbor", true},
		{"application/problem+json", false},
		{"application/*+cbor", true},
		{"application/*+json", false},
		{"text/html", false},
		{"application/json;q=0, application/cbor;q=0", false},
		{"*/*;q=0", false},
	}
	for _, tt := range tests {
		if got := selectFormat(tt.accept); got != tt.cbor {
			t.Errorf("selectFormat(%q) = %v, want %v", tt.accept, got, tt.cbor)
		}
	}
}

func TestParseAccept(t *testing.T) {
	ranges := parseAccept("text, , application/json;q=invalid, application/cbor;q=2.0, */*;q=0.5")
	if len(ranges) != 4 {
		t.Fatalf("expected 4 ranges, got %d", len(ranges))
	}
	if ranges[0].typ != "text" || ranges[0].subtype != "*" {
		t.Fatalf("expected text/*, got %s/%s", ranges[0].typ, ranges[0].subtype)
	}
	if ranges[1].q != 1 || ranges[2].q != 1 {
		t.Fatal("expected invalid q values to count as 1")
	}
	if ranges[3].q != 0.5 {
		t.Fatalf("expected q=0.5, got %f", ranges[3].q)
	}
}

func TestAllowedMethodsWithoutRouteContext(t *testing.T) {
	if got := allowedMethods(httptest.NewRequest(http.MethodGet, "/", nil)); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
