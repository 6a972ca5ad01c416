package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	facepipe "github.com/swdee/go-facepipe"
	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/result"
	"go.uber.org/zap"
)

type nullEngine struct{}

func (nullEngine) Run(f *frame.Frame, opts result.Options,
	kind result.RunKind) (result.Detection, result.Measure, error) {
	return result.Empty(kind), result.Measure{}, nil
}

func newTestControl(t *testing.T) (*control, *http.ServeMux) {
	t.Helper()

	p := facepipe.New(nullEngine{}, facepipe.WithDisplay(facepipe.Inline))
	t.Cleanup(func() { p.Close() })

	c := &control{p: p, log: zap.NewNop()}
	mux := http.NewServeMux()
	c.routes(mux)

	return c, mux
}

func postForm(mux *http.ServeMux, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func TestControlRequests(t *testing.T) {

	c, mux := newTestControl(t)

	tests := []struct {
		name string
		path string
		form url.Values
		want int
	}{
		{"kind", "/kind", url.Values{"value": {"ocr"}}, http.StatusNoContent},
		{"bad kind", "/kind", url.Values{"value": {"cat"}}, http.StatusBadRequest},
		{"bypass", "/bypass", url.Values{"on": {"true"}}, http.StatusNoContent},
		{"bad bypass", "/bypass", url.Values{"on": {"maybe"}}, http.StatusBadRequest},
		{"tap", "/tap", url.Values{"x": {"10.5"}, "y": {"4"}}, http.StatusNoContent},
		{"tap missing y", "/tap", url.Values{"x": {"1"}}, http.StatusBadRequest},
		{"facing", "/facing", url.Values{"value": {"front"}}, http.StatusNoContent},
		{"bad facing", "/facing", url.Values{"value": {"up"}}, http.StatusBadRequest},
		{"log", "/log", url.Values{"on": {"1"}}, http.StatusNoContent},
		{"reset", "/reset", nil, http.StatusNoContent},
	}

	for _, tc := range tests {
		if rec := postForm(mux, tc.path, tc.form); rec.Code != tc.want {
			t.Errorf("%s: expected status %d, got %d", tc.name, tc.want, rec.Code)
		}
	}

	if c.p.RunKind() != result.RunDocument {
		t.Errorf("expected document run kind, got %s", c.p.RunKind())
	}

	if !c.p.Bypass() {
		t.Errorf("expected bypass on")
	}

	if c.p.Facing() != frame.FacingFront {
		t.Errorf("expected front facing")
	}
}

func TestControlRejectsGet(t *testing.T) {

	_, mux := newTestControl(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reset", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestControlStats(t *testing.T) {

	_, mux := newTestControl(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var got map[string]any

	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("error decoding stats: %v", err)
	}

	if got["kind"] != "face" || got["fps"] != float64(-1) || got["Delivered"] != float64(0) {
		t.Errorf("unexpected stats %v", got)
	}
}

func TestControlPhotoNotRunning(t *testing.T) {

	_, mux := newTestControl(t)

	var buf bytes.Buffer

	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("error encoding png: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/photo", &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	// the pipeline was never started
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/photo", strings.NewReader("not an image"))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for garbage, got %d", rec.Code)
	}
}

func TestStreamPublish(t *testing.T) {

	s := newStream(zap.NewNop())

	a := s.subscribe()
	b := s.subscribe()

	s.publish([]byte{1})
	// b has not read the first frame so it misses the second
	s.publish([]byte{2})

	if got := <-a; got[0] != 1 {
		t.Errorf("expected first frame, got %v", got)
	}

	if got := <-b; got[0] != 1 {
		t.Errorf("expected first frame, got %v", got)
	}

	s.unsubscribe(a)

	if n := s.count(); n != 1 {
		t.Errorf("expected 1 client, got %d", n)
	}
}
