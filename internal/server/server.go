// Package server exposes field rendering over HTTP and websockets.
//
// Routes:
//
//	GET /presets      preset viewports as JSON
//	GET /render.png   one frame; query cr, ci, span, w, h or preset
//	GET /ws           websocket; each text message is a JSON Request, each
//	                  reply a binary PNG frame
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/san-kum/fractal/internal/compute"
	"github.com/san-kum/fractal/internal/config"
	"github.com/san-kum/fractal/internal/field"
	"github.com/san-kum/fractal/internal/raster"
)

// MaxPixels bounds a single frame so one request cannot pin every core.
const MaxPixels = 4096 * 4096

// Request describes one frame.
type Request struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Viewport field.Viewport `json:"viewport"`
}

func (r Request) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("size %dx%d: %w", r.Width, r.Height, field.ErrInvalidDimensions)
	}
	if r.Width > MaxPixels/r.Height {
		return fmt.Errorf("size %dx%d exceeds %d pixels", r.Width, r.Height, MaxPixels)
	}
	return r.Viewport.Validate()
}

type Server struct {
	backend compute.Backend
	logger  *log.Logger
	router  chi.Router
}

func New(backend compute.Backend, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{backend: backend, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/presets", s.handlePresets)
	r.Get("/render.png", s.handleRender)
	r.Get("/ws", s.handleWebsocket)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start).Round(time.Millisecond))
	})
}

type presetJSON struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Viewport    field.Viewport `json:"viewport"`
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make([]presetJSON, 0, len(config.Presets))
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		out = append(out, presetJSON{Name: p.Name, Description: p.Description, Viewport: p.Viewport})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Error("encode presets", "err", err)
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	png, err := s.render(r.Context(), req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("render", "err", err)
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}

// parseQuery reads a Request from the URL. A preset supplies the viewport;
// explicit cr, ci and span override it.
func parseQuery(r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{
		Width:    config.DefaultWidth,
		Height:   config.DefaultHeight,
		Viewport: config.Presets[config.DefaultPreset].Viewport,
	}

	if name := q.Get("preset"); name != "" {
		p, ok := config.GetPreset(name)
		if !ok {
			return req, fmt.Errorf("unknown preset %q", name)
		}
		req.Viewport = p.Viewport
	}

	ints := map[string]*int{"w": &req.Width, "h": &req.Height}
	for key, dst := range ints {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return req, fmt.Errorf("%s: %w", key, err)
			}
			*dst = v
		}
	}

	floats := map[string]*float64{
		"cr":   &req.Viewport.CenterReal,
		"ci":   &req.Viewport.CenterImag,
		"span": &req.Viewport.Span,
	}
	for key, dst := range floats {
		if raw := q.Get(key); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return req, fmt.Errorf("%s: %w", key, err)
			}
			*dst = v
		}
	}
	return req, nil
}

// render computes one frame on a private field and encodes it.
func (s *Server) render(ctx context.Context, req Request) ([]byte, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	f, err := field.New(req.Width, req.Height, field.WithBackend(s.backend), field.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	if err := f.Compute(ctx, req.Viewport); err != nil {
		return nil, err
	}

	sink := raster.NewImageSink(req.Width, req.Height)
	f.Render(sink)

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf, sink.Image()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
