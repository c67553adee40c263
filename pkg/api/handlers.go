package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
	canvasio "github.com/matzehuels/canvaskit/pkg/io"
)

// =============================================================================
// Documents
// =============================================================================

// validateResponse reports a document that passed validation.
type validateResponse struct {
	Valid           bool     `json:"valid"`
	Name            string   `json:"name"`
	Kind            string   `json:"kind,omitempty"`
	Version         string   `json:"version"`
	VersionMismatch bool     `json:"versionMismatch,omitempty"`
	Nodes           int      `json:"nodes"`
	Edges           int      `json:"edges"`
	Dropped         []string `json:"dropped,omitempty"`
	Cached          bool     `json:"cached"`
}

func (s *Server) validateDocument(w http.ResponseWriter, r *http.Request) {
	data, format, err := readBody(r)
	if err != nil {
		respondError(w, err)
		return
	}
	res, cached, err := s.runner.ParseWithCacheInfo(r.Context(), data, format)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summarize(res, cached))
}

// mergeRequest carries two interchange documents. Offset overrides the
// server's merge offset.
type mergeRequest struct {
	Existing json.RawMessage `json:"existing"`
	Imported json.RawMessage `json:"imported"`
	Offset   *diagram.Point  `json:"offset,omitempty"`
}

type mergeResponse struct {
	Document canvasio.Document `json:"document"`
	Renamed  map[string]string `json:"renamed"`
}

func (s *Server) mergeDocuments(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInvalidJSON, err, "request is not valid JSON"))
		return
	}
	if len(req.Imported) == 0 {
		respondError(w, errors.New(errors.ErrCodeInvalidInput, "imported document is required"))
		return
	}

	var existing canvasio.Result
	if len(req.Existing) > 0 {
		var err error
		if existing, err = s.parsePart(r, "existing", req.Existing); err != nil {
			respondError(w, err)
			return
		}
	}
	imported, err := s.parsePart(r, "imported", req.Imported)
	if err != nil {
		respondError(w, err)
		return
	}

	offset := s.runner.MergeOffset
	if req.Offset != nil {
		offset = *req.Offset
	}
	merged := canvasio.Merge(existing.Graph, imported.Graph, offset)

	name, kind := existing.Name, existing.Kind
	if len(req.Existing) == 0 {
		name, kind = imported.Name, imported.Kind
	}
	respondJSON(w, http.StatusOK, mergeResponse{
		Document: canvasio.Export(merged.Graph, name, kind, s.now()),
		Renamed:  merged.Renamed,
	})
}

// parsePart validates one document of a merge request. Field paths in
// the report are prefixed with the part's name.
func (s *Server) parsePart(r *http.Request, part string, data []byte) (canvasio.Result, error) {
	res, _, err := s.runner.ParseWithCacheInfo(r.Context(), data, canvasio.FormatJSON)
	if fields := errors.Fields(err); len(fields) > 0 {
		prefixed := make(errors.ValidationErrors, len(fields))
		for i, fe := range fields {
			prefixed[i] = errors.FieldError{Field: part + "." + fe.Field, Message: fe.Message}
			if fe.Field == "" {
				prefixed[i].Field = part
			}
		}
		return res, prefixed
	}
	if err != nil {
		return res, errors.Wrap(errors.GetCode(err), err, "%s document", part)
	}
	return res, nil
}

// =============================================================================
// Diagrams
// =============================================================================

type listResponse struct {
	Diagrams any `json:"diagrams"`
}

func (s *Server) listDiagrams(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, listResponse{Diagrams: infos})
}

// getDiagram loads a stored document and serves it re-exported from the
// parsed graph. A stored document that no longer validates is reported as
// an integrity failure.
func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	data, err := s.store.Get(r.Context(), name)
	if err != nil {
		respondError(w, err)
		return
	}
	res, _, err := s.runner.ParseWithCacheInfo(r.Context(), data, canvasio.FormatJSON)
	if err != nil {
		s.logger.Error("stored diagram is invalid", "name", name, "err", err)
		respondError(w, errors.Wrap(errors.ErrCodeIntegrity, err, "stored diagram %q is invalid", name))
		return
	}

	doc := canvasio.Export(res.Graph, res.Name, res.Kind, s.now())
	if wantsYAML(r) {
		w.Header().Set("Content-Type", "application/yaml")
		_ = canvasio.WriteYAML(doc, w)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// putDiagram validates a document and stores it in canonical JSON form.
// Dangling edges are dropped before storing and listed in the response.
func (s *Server) putDiagram(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateDiagramName(name); err != nil {
		respondError(w, err)
		return
	}
	data, format, err := readBody(r)
	if err != nil {
		respondError(w, err)
		return
	}
	res, _, err := s.runner.ParseWithCacheInfo(r.Context(), data, format)
	if err != nil {
		respondError(w, err)
		return
	}

	out, err := json.Marshal(canvasio.Export(res.Graph, res.Name, res.Kind, s.now()))
	if err != nil {
		respondError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode document"))
		return
	}
	if err := s.store.Put(r.Context(), name, out); err != nil {
		respondError(w, err)
		return
	}
	s.logger.Info("diagram stored", "name", name, "nodes", len(res.Graph.Nodes), "edges", len(res.Graph.Edges))
	respondJSON(w, http.StatusOK, summarize(res, false))
}

func (s *Server) deleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func summarize(res canvasio.Result, cached bool) validateResponse {
	out := validateResponse{
		Valid:           true,
		Name:            res.Name,
		Kind:            string(res.Kind),
		Nodes:           len(res.Graph.Nodes),
		Edges:           len(res.Graph.Edges),
		Version:         res.Version,
		VersionMismatch: res.VersionMismatch(),
		Cached:          cached,
	}
	for _, e := range res.Dropped {
		out.Dropped = append(out.Dropped, e.ID)
	}
	return out
}

// readBody reads the request body and works out its format from the
// format query parameter, falling back to the Content-Type.
func readBody(r *http.Request) ([]byte, canvasio.Format, error) {
	format := canvasio.FormatJSON
	if isYAML(r.Header.Get("Content-Type")) {
		format = canvasio.FormatYAML
	}
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := canvasio.ParseFormat(q)
		if err != nil {
			return nil, "", err
		}
		format = f
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, "", errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, format, nil
}

// wantsYAML reports whether the client asked for a YAML response.
func wantsYAML(r *http.Request) bool {
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := canvasio.ParseFormat(q)
		return err == nil && f == canvasio.FormatYAML
	}
	return isYAML(r.Header.Get("Accept"))
}

func isYAML(header string) bool {
	mt, _, _ := mime.ParseMediaType(header)
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return true
	}
	return false
}
