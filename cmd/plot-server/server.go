package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/njchilds90/goplot"
	"github.com/njchilds90/goplot/render"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// server serializes updates; a Coordinator carries state between them.
type server struct {
	mu     sync.Mutex
	coord  *goplot.Coordinator
	logger *slog.Logger
}

func newServer(coord *goplot.Coordinator, logger *slog.Logger) *server {
	return &server{coord: coord, logger: logger}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/sample", s.recovered(s.handleSample))
	mux.HandleFunc("/png", s.recovered(s.handlePNG))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	return mux
}

func (s *server) recovered(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic", "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		h(w, r)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// update decodes a request body and runs it through the coordinator.
func (s *server) update(w http.ResponseWriter, r *http.Request) (goplot.Response, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return goplot.Response{}, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var in wireRequest
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return goplot.Response{}, false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON: trailing data"))
		return goplot.Response{}, false
	}
	req, err := in.request()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return goplot.Response{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	resp, err := s.coord.Update(req)
	switch {
	case errors.Is(err, goplot.ErrUnsupportedBound):
		writeError(w, http.StatusUnprocessableEntity, err)
		return goplot.Response{}, false
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return goplot.Response{}, false
	}
	return resp, true
}

func (s *server) handleSample(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.update(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *server) handlePNG(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.update(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.PNG(w, resp.Outputs); err != nil {
		s.logger.Error("png", "err", err)
	}
}

// ============================================================
// Wire format
// ============================================================

// wireRequest is the JSON form of goplot.Request. A bound with start_y
// or end_y set is 3D.
type wireRequest struct {
	Names      []goplot.Name `json:"names"`
	Bound      *wireBound    `json:"bound"`
	Target     *int          `json:"target"`
	Hidden     []int         `json:"hidden"`
	Reference  *[2]float64   `json:"reference"`
	SliceIndex int           `json:"slice_index"`
	ViewX      bool          `json:"view_x"`
}

type wireBound struct {
	Start  float64  `json:"start"`
	End    float64  `json:"end"`
	StartY *float64 `json:"start_y"`
	EndY   *float64 `json:"end_y"`
	Mult   *float64 `json:"mult"`
	Size   *[2]int  `json:"size"`
	Slice  *float64 `json:"slice"`
}

func (b *wireBound) prec() (goplot.Prec, error) {
	var p goplot.Prec
	n := 0
	if b.Mult != nil {
		p, n = goplot.Mult(*b.Mult), n+1
	}
	if b.Size != nil {
		p, n = goplot.Dimension{X: b.Size[0], Y: b.Size[1]}, n+1
	}
	if b.Slice != nil {
		p, n = goplot.Slice(*b.Slice), n+1
	}
	if n > 1 {
		return nil, errors.New("bound: only one of mult, size or slice")
	}
	return p, nil
}

func (in wireRequest) request() (goplot.Request, error) {
	req := goplot.Request{
		Names:      in.Names,
		Target:     in.Target,
		Hidden:     in.Hidden,
		SliceIndex: in.SliceIndex,
		ViewX:      in.ViewX,
	}
	if in.Reference != nil {
		req.Reference = &goplot.Point2{X: in.Reference[0], Y: in.Reference[1]}
	}
	if b := in.Bound; b != nil {
		p, err := b.prec()
		if err != nil {
			return req, err
		}
		if b.StartY != nil || b.EndY != nil {
			if b.StartY == nil || b.EndY == nil {
				return req, errors.New("bound: start_y needs end_y")
			}
			req.Bound = goplot.Width3D{StartX: b.Start, StartY: *b.StartY, EndX: b.End, EndY: *b.EndY, Prec: p}
		} else {
			req.Bound = goplot.Width{Start: b.Start, End: b.End, Prec: p}
		}
	}
	return req, nil
}
