package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/popper/pkg/buildinfo"
	"github.com/matzehuels/popper/pkg/errors"
	"github.com/matzehuels/popper/pkg/popper"
	"github.com/matzehuels/popper/pkg/render"
	"github.com/matzehuels/popper/pkg/scene"
)

// PlaceResponse is the body returned by POST /v1/place.
type PlaceResponse struct {
	Result scene.Result  `json:"result"`
	Events []EventResult `json:"events,omitempty"`
}

// EventResult is the outcome of one replayed event. Result is nil when the
// event did not trigger an update.
type EventResult struct {
	Index  int           `json:"index"`
	Event  scene.Event   `json:"event"`
	Result *scene.Result `json:"result,omitempty"`
}

// ModifierInfo describes a built-in modifier.
type ModifierInfo struct {
	Name          string   `json:"name"`
	Default       bool     `json:"default"`
	Prerequisites []string `json:"prerequisites,omitempty"`
}

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Current()})
}

func (s *Server) handleModifiers(w http.ResponseWriter, r *http.Request) {
	mods := popper.DefaultModifiers()
	out := make([]ModifierInfo, len(mods))
	for i, m := range mods {
		out[i] = ModifierInfo{Name: m.Name, Default: true, Prerequisites: m.Prerequisites()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	st, e, err := s.stage(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer e.Close()

	resp := PlaceResponse{Result: st.NewResult(e)}
	if len(st.Scene.Events) > 0 {
		resp.Events = make([]EventResult, 0, len(st.Scene.Events))
		err = st.Replay(e, func(i int, ev scene.Event, d *popper.Data) {
			er := EventResult{Index: i, Event: ev}
			if d != nil {
				res := st.NewResult(e)
				er.Result = &res
			}
			resp.Events = append(resp.Events, er)
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	sc, err := s.decode(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := sc.Build(s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}
	dot := render.PipelineDOT(st.Options.Modifiers, render.PipelineOptions{
		Ignored: st.Options.ModifiersIgnored,
		Restart: true,
	})
	switch r.URL.Query().Get("format") {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "", "svg":
		svg, hit, err := render.CachedSVG(r.Context(), s.svgs, dot)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Cache", cacheStatus(hit))
		_, _ = w.Write(svg)
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want svg or dot)", r.URL.Query().Get("format")))
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	scale := 1.0
	if v := r.URL.Query().Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 || f > 4 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, 4]"))
			return
		}
		scale = f
	}
	st, e, err := s.stage(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer e.Close()

	img, err := render.Snapshot(st, e, render.WithScale(scale))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := render.EncodePNG(w, img); err != nil {
		s.logger.Error("snapshot", "err", err)
	}
}

// stage decodes, builds and places the request's scene.
func (s *Server) stage(w http.ResponseWriter, r *http.Request) (*scene.Stage, *popper.Engine, error) {
	sc, err := s.decode(w, r)
	if err != nil {
		return nil, nil, err
	}
	st, err := sc.Build(s.logger)
	if err != nil {
		return nil, nil, err
	}
	e, err := st.Engine()
	if err != nil {
		return nil, nil, err
	}
	return st, e, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*scene.Scene, error) {
	format := scene.FormatJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type")
		}
		switch mt {
		case "application/json":
		case "application/toml":
			format = scene.FormatTOML
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = scene.FormatYAML
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
		}
	}
	sc, err := scene.Decode(http.MaxBytesReader(w, r.Body, s.maxBody), format)
	if err != nil {
		return nil, err
	}
	if sc.HTMLFile != "" || len(sc.Options.Scripts) > 0 {
		return nil, errors.New(errors.ErrCodeUnsupported, "scenes served over HTTP cannot reference files")
	}
	return sc, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// statusOf maps error codes to HTTP statuses.
func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPlacement,
		errors.ErrCodeInvalidScene, errors.ErrCodeInvalidSelector, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeInvalidFormat:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeNotFound, errors.ErrCodeElementNotFound, errors.ErrCodeParentNotFound,
		errors.ErrCodeFileNotFound, errors.ErrCodeScript:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusOf(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
