package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	facepipe "github.com/swdee/go-facepipe"
	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/result"
	"go.uber.org/zap"
)

// maxPhotoSize limits uploaded reference photos
const maxPhotoSize = 16 << 20

// control exposes the pipeline's runtime switches over HTTP
type control struct {
	p   *facepipe.Pipeline
	log *zap.Logger
}

// routes registers the control handlers on mux
func (c *control) routes(mux *http.ServeMux) {
	mux.HandleFunc("/tap", c.post(c.tap))
	mux.HandleFunc("/kind", c.post(c.kind))
	mux.HandleFunc("/bypass", c.post(c.bypass))
	mux.HandleFunc("/log", c.post(c.logging))
	mux.HandleFunc("/facing", c.post(c.facing))
	mux.HandleFunc("/reset", c.post(c.reset))
	mux.HandleFunc("/photo", c.post(c.photo))
	mux.HandleFunc("/stats", c.stats)
}

// post wraps a handler that changes state, replying 204 on success
func (c *control) post(fn func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := fn(r); err != nil {
			c.log.Debug("control request failed", zap.String("path", r.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *control) tap(r *http.Request) error {

	x, err := strconv.ParseFloat(r.FormValue("x"), 64)

	if err != nil {
		return fmt.Errorf("invalid x: %w", err)
	}

	y, err := strconv.ParseFloat(r.FormValue("y"), 64)

	if err != nil {
		return fmt.Errorf("invalid y: %w", err)
	}

	c.p.RequestPick(x, y)
	return nil
}

func (c *control) kind(r *http.Request) error {

	kind, err := result.ParseRunKind(r.FormValue("value"))

	if err != nil {
		return err
	}

	c.p.SetRunKind(kind)
	c.log.Info("run kind changed", zap.Stringer("kind", kind))

	return nil
}

func (c *control) bypass(r *http.Request) error {

	on, err := strconv.ParseBool(r.FormValue("on"))

	if err != nil {
		return fmt.Errorf("invalid on: %w", err)
	}

	c.p.SetBypass(on)
	return nil
}

func (c *control) logging(r *http.Request) error {

	on, err := strconv.ParseBool(r.FormValue("on"))

	if err != nil {
		return fmt.Errorf("invalid on: %w", err)
	}

	c.p.SetLogging(on)
	return nil
}

func (c *control) facing(r *http.Request) error {

	f, err := frame.ParseFacing(r.FormValue("value"))

	if err != nil {
		return err
	}

	return c.p.SetFacing(f)
}

func (c *control) reset(r *http.Request) error {
	c.p.ResetComparer()
	return nil
}

// photo takes an uploaded image as the comparison reference source
func (c *control) photo(r *http.Request) error {

	img, err := imaging.Decode(io.LimitReader(r.Body, maxPhotoSize), imaging.AutoOrientation(true))

	if err != nil {
		return fmt.Errorf("error decoding photo: %w", err)
	}

	// Clone yields tightly packed NRGBA pixels
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()

	f, err := frame.New(b.Dx(), b.Dy(), frame.LayoutRGBA, nrgba.Pix)

	if err != nil {
		return err
	}

	return c.p.CapturePhoto(f, 0)
}

func (c *control) stats(w http.ResponseWriter, r *http.Request) {

	st := c.p.Stats()

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(struct {
		facepipe.Stats
		FPS  float64 `json:"fps"`
		Kind string  `json:"kind"`
	}{st, c.p.FPS(), c.p.RunKind().String()})
}
