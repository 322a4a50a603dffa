package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/quiver/pkg/buildinfo"
	"github.com/matzehuels/quiver/pkg/errors"
	"github.com/matzehuels/quiver/pkg/grid"
	"github.com/matzehuels/quiver/pkg/pipeline"
	"github.com/matzehuels/quiver/pkg/proj"
	"github.com/matzehuels/quiver/pkg/render/sink"
	"github.com/matzehuels/quiver/pkg/vector"
)

// RenderRequest is the body of POST /v1/render. X and Y are grids in the
// JSON grid format; Options override the server defaults field by field.
type RenderRequest struct {
	X       json.RawMessage `json:"x"`
	Y       json.RawMessage `json:"y"`
	Options json.RawMessage `json:"options,omitempty"`
}

// RenderResponse is the JSON reply of POST /v1/render. PDF artifacts are
// base64 encoded by encoding/json; text formats are returned as strings.
type RenderResponse struct {
	ID        string            `json:"id"`
	FieldHash string            `json:"field_hash"`
	Mode      string            `json:"mode"`
	Cached    bool              `json:"cached"`
	Report    vector.Report     `json:"report"`
	Legend    *vector.Legend    `json:"legend,omitempty"`
	Artifacts map[string]string `json:"artifacts,omitempty"`
	Binary    map[string][]byte `json:"binary,omitempty"`
}

// LegendRequest is the body of POST /v1/legend.
type LegendRequest struct {
	Region     proj.Region     `json:"region"`
	Geographic bool            `json:"geographic"`
	Options    json.RawMessage `json:"options,omitempty"`
}

// LegendResponse is the reply of POST /v1/legend.
type LegendResponse struct {
	vector.Legend
	Cached bool `json:"cached"`
}

type errorBody struct {
	Error struct {
		Code      errors.Code `json:"code"`
		Message   string      `json:"message"`
		RequestID string      `json:"request_id,omitempty"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.ready(r.Context()); err != nil {
		s.logger.Warn("not ready", "error", err)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ready\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleRender renders the posted field. With ?raw=1 and a single format
// the artifact itself is returned with its content type.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.X) == 0 || len(req.Y) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "both x and y grids are required"))
		return
	}
	x, err := grid.ReadJSON(bytes.NewReader(req.X))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := grid.ReadJSON(bytes.NewReader(req.Y))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", requestIDFromContext(r.Context()))

	res, err := s.runner.Execute(r.Context(), x, y, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("raw") == "1" && len(res.Artifacts) == 1 {
		for f, data := range res.Artifacts {
			w.Header().Set("Content-Type", sink.Format(f).ContentType())
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(data)
		}
		return
	}

	resp := RenderResponse{
		ID:        res.ID,
		FieldHash: res.FieldHash,
		Mode:      res.Mode,
		Cached:    res.CacheInfo.Hit,
		Report:    res.Report,
		Legend:    res.Legend,
	}
	for f, data := range res.Artifacts {
		if sink.Format(f) == sink.FormatPDF {
			if resp.Binary == nil {
				resp.Binary = map[string][]byte{}
			}
			resp.Binary[f] = data
			continue
		}
		if resp.Artifacts == nil {
			resp.Artifacts = map[string]string{}
		}
		resp.Artifacts[f] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLegend(w http.ResponseWriter, r *http.Request) {
	var req LegendRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Region.Valid() {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid region %s", req.Region))
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger.With("request_id", requestIDFromContext(r.Context()))

	h := grid.Header{
		West: req.Region.West, East: req.Region.East,
		South: req.Region.South, North: req.Region.North,
		Geographic: req.Geographic,
	}
	l, hit, err := s.runner.Legend(r.Context(), h, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LegendResponse{Legend: *l, Cached: hit})
}

// decode reads a JSON body of at most maxBody bytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

// options overlays the request options on the server defaults.
func (s *Server) options(raw json.RawMessage) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = append([]string(nil), s.defaults.Formats...)
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&opts); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
		}
	}
	return opts, nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeDomainMismatch, errors.ErrCodeConflictingOptions:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	if errors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	body.Error.RequestID = requestIDFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", body.Error.RequestID, "error", err)
		body.Error.Message = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
