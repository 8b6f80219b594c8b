package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/realjck/scorm-iframe-packager/internal/packager"
	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// errorResponse is the JSON body of every non-2xx API reply.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// decodeConfig reads and validates a package definition. It writes the
// error response itself and reports false when the request is rejected.
func (s *Server) decodeConfig(w http.ResponseWriter, r *http.Request) (scorm.PackageConfig, bool) {
	var cfg scorm.PackageConfig

	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse{Error: fmt.Sprintf("invalid package definition: %v", err)})
		return cfg, false
	}

	if err := cfg.Validate(); err != nil {
		resp := errorResponse{Error: "invalid package definition", Fields: map[string]string{}}
		for _, fe := range fieldErrors(err) {
			resp.Fields[fe.Field] = fe.Err.Error()
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return cfg, false
	}
	return cfg, true
}

// fieldErrors flattens the errors.Join tree returned by Validate.
func fieldErrors(err error) []*scorm.FieldError {
	var out []*scorm.FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, fieldErrors(e)...)
		}
		return out
	}
	var fe *scorm.FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeConfig(w, r)
	if !ok {
		return
	}

	trigger := &packager.WriterTrigger{
		W: w,
		Before: func(name string, size int) {
			h := w.Header()
			h.Set("Content-Type", "application/zip")
			h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
			h.Set("Content-Length", strconv.Itoa(size))
			w.WriteHeader(http.StatusOK)
		},
	}

	pkg, err := s.service.Generate(r.Context(), cfg, trigger)
	if err != nil {
		// Headers are already out once delivery has started.
		if w.Header().Get("Content-Type") == "application/zip" {
			s.logger.Error("streaming package", "err", err)
			return
		}
		s.logger.Error("generating package", "title", cfg.DisplayTitle(), "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Info("package generated", "name", pkg.Name, "version", pkg.Version, "bytes", pkg.Size(), "placeholders", len(pkg.Placeholders))
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeConfig(w, r)
	if !ok {
		return
	}

	manifest := s.service.Assembler.Manifest.Build(cfg)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(manifest))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.decodeConfig(w, r)
	if !ok {
		return
	}

	renderer := s.service.Assembler.Page
	if renderer == nil {
		renderer = scorm.NewPageRenderer()
	}
	page, err := renderer.Render(r.Context(), cfg)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(page))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
