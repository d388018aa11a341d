package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	skierrors "github.com/matzehuels/skijump/pkg/errors"
	"github.com/matzehuels/skijump/pkg/pipeline"
)

// uploadField is the multipart field carrying the CSV or XLSX file.
const uploadField = "file"

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// handleIndex renders the demo leaderboard with the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts := s.Defaults
	opts.Demo = true
	opts.Formats = []string{pipeline.FormatHTML}
	opts.UploadAction = uploadPath
	s.render(w, r, opts, pipeline.FormatHTML)
}

// handleUpload renders an uploaded table as HTML.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.MaxUploadBytes {
		s.tooLarge(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.tooLarge(w, r)
			return
		}
		s.writeError(w, r, pipeline.FormatHTML, skierrors.Wrap(skierrors.ErrCodeInvalidInput, err, "invalid upload form"))
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		s.writeError(w, r, pipeline.FormatHTML,
			skierrors.New(skierrors.ErrCodeInvalidInput, "a CSV or XLSX file is required (form field %q)", uploadField))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, pipeline.FormatHTML, skierrors.Wrap(skierrors.ErrCodeIngestion, err, "read upload"))
		return
	}

	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, pipeline.FormatHTML, err)
		return
	}
	opts.Data = data
	opts.Filename = header.Filename
	opts.Formats = []string{pipeline.FormatHTML}
	opts.UploadAction = uploadPath

	s.render(w, r, opts, pipeline.FormatHTML)
}

// handleLeaderboard renders the demo dataset in the format named by the path.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, pipeline.FormatHTML, err)
		return
	}

	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, format, err)
		return
	}
	opts.Demo = true
	opts.Formats = []string{format}

	s.render(w, r, opts, format)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options, format string) {
	result, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, format, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", pipeline.FormatContentTypes[format])
	w.Header().Set("X-Render-Id", result.ID)
	w.Header().Set("X-Cache", cacheStatus)
	_, _ = w.Write(result.Artifacts[format])
}

// requestOptions overlays the request's render fields on the server defaults.
// It works for query strings and for parsed multipart forms.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.Defaults

	if v := r.FormValue("metric"); v != "" {
		opts.MetricLabel = v
	}

	switch r.FormValue("direction") {
	case "":
	case "lower":
		opts.HigherIsBetter = false
	case "higher":
		opts.HigherIsBetter = true
	default:
		return opts, skierrors.New(skierrors.ErrCodeInvalidInput, "direction must be lower or higher")
	}

	var err error
	if opts.AvatarSize, err = intField(r, "avatar_size", opts.AvatarSize); err != nil {
		return opts, err
	}
	if opts.MaxEntries, err = intField(r, "max", opts.MaxEntries); err != nil {
		return opts, err
	}
	if v := r.FormValue("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, skierrors.New(skierrors.ErrCodeInvalidInput, "seed must be a non-negative integer, got %q", v)
		}
		opts.Seed = pipeline.SeedOf(seed)
	}

	// The upload form sends a hidden "false" before the checkbox, so the
	// last value wins.
	if vals := r.Form["show_rank"]; len(vals) > 0 {
		show, err := parseBool(vals[len(vals)-1])
		if err != nil {
			return opts, err
		}
		opts.HideRank = !show
	}

	return opts, nil
}

func intField(r *http.Request, name string, def int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, skierrors.New(skierrors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return n, nil
}

func parseBool(v string) (bool, error) {
	if v == "on" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, skierrors.New(skierrors.ErrCodeInvalidInput, "show_rank must be true or false, got %q", v)
	}
	return b, nil
}

// =============================================================================
// Errors
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch skierrors.GetCode(err) {
	case skierrors.ErrCodeIngestion,
		skierrors.ErrCodeSchema,
		skierrors.ErrCodeInvalidInput,
		skierrors.ErrCodeInvalidFormat,
		skierrors.ErrCodeInvalidPath,
		skierrors.ErrCodeFileNotFound:
		return http.StatusBadRequest
	case skierrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err as JSON for the json format and as plain text
// otherwise.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, format string, err error) {
	status := statusFor(err)
	msg := skierrors.UserMessage(err)

	logger := s.Logger.With("id", middleware.GetReqID(r.Context()))
	if status >= http.StatusInternalServerError {
		logger.Error("render failed", "err", err)
	} else {
		logger.Debug("rejected request", "status", status, "err", err)
	}

	if format == pipeline.FormatJSON {
		w.Header().Set("Content-Type", pipeline.FormatContentTypes[pipeline.FormatJSON])
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(errorBody{Error: msg, Code: string(skierrors.GetCode(err))})
		return
	}
	http.Error(w, msg, status)
}

func (s *Server) tooLarge(w http.ResponseWriter, r *http.Request) {
	err := skierrors.New(skierrors.ErrCodeInvalidInput, "upload exceeds %d MiB", s.MaxUploadBytes>>20)
	s.Logger.Debug("rejected upload", "id", middleware.GetReqID(r.Context()), "err", err)
	http.Error(w, skierrors.UserMessage(err), http.StatusRequestEntityTooLarge)
}
