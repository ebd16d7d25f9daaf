package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/alnah/go-txt2pdf"
)

// multipartOverhead is allowed on top of the import size limit.
const multipartOverhead = 1 << 20

// documentResponse is the body of document endpoints.
type documentResponse struct {
	Content string        `json:"content"`
	Title   string        `json:"title"`
	State   txt2pdf.State `json:"state"`
}

type commandRequest struct {
	Command string `json:"command"`
	Value   string `json:"value"`
}

type contentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.document())
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.editor.SetContent(req.Content); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.document())
}

// handleDeleteDocument clears the editor and forgets the saved copy.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.ApplyCommand(txt2pdf.CmdClear, ""); err != nil {
		s.fail(w, err)
		return
	}
	if s.saver != nil {
		if err := s.saver.Forget(r.Context()); err != nil {
			s.fail(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.editor.ApplyCommand(req.Command, req.Value); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.editor.QueryState())
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req txt2pdf.Selection
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.editor.Select(req.Start, req.End); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.editor.QueryState())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req txt2pdf.Layout
	if !decodeJSON(w, r, &req) {
		return
	}
	s.editor.SetLayout(req)
	writeJSON(w, http.StatusOK, s.editor.Layout())
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if limit := s.importLimit(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, txt2pdf.ErrFileTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}

	name := filepath.Base(header.Filename)
	title, err := s.importer.ImportInto(r.Context(), s.editor, name, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("imported", "file", name, "bytes", len(data), "title", title)

	resp := s.document()
	resp.Title = title
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"title": txt2pdf.DetectTitle(s.editor)})
}

// handleExport streams the artifact as an attachment. The title defaults to
// the detected one; pass title= with an empty value to omit it.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := txt2pdf.ParseFormat(q.Get("format"))
	if err != nil {
		s.fail(w, err)
		return
	}
	title, ok := q["title"]
	req := txt2pdf.ExportRequest{Format: format}
	if ok {
		req.Title = title[0]
	} else {
		req.Title = txt2pdf.DetectTitle(s.editor)
	}

	res, err := s.exporter.ExportWith(r.Context(), s.editor, req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.log.Info("exported", "id", res.ID, "format", res.Format, "bytes", len(res.Data), "pages", res.Pages)

	h := w.Header()
	h.Set("Content-Type", res.Format.MIMEType())
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	h.Set("Content-Length", strconv.Itoa(len(res.Data)))
	h.Set("X-Export-Id", res.ID)
	h.Set("X-Export-Checksum", res.Checksum)
	if res.Pages > 0 {
		h.Set("X-Export-Pages", strconv.Itoa(res.Pages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (s *Server) document() documentResponse {
	return documentResponse{
		Content: s.editor.Content(),
		Title:   txt2pdf.DetectTitle(s.editor),
		State:   s.editor.QueryState(),
	}
}

// importLimit mirrors Importer.MaxBytes: zero is the default, negative is
// unlimited.
func (s *Server) importLimit() int64 {
	if s.importer.MaxBytes == 0 {
		return txt2pdf.DefaultMaxImportBytes
	}
	return s.importer.MaxBytes
}

// fail maps library errors to HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "status", status, "error", err)
	}
	jsonError(w, err.Error(), status)
}

// StatusFor returns the HTTP status for an error returned by the library.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, txt2pdf.ErrInvalidFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, txt2pdf.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, txt2pdf.ErrEmptyDocument),
		errors.Is(err, txt2pdf.ErrInvalidCommandValue),
		errors.Is(err, txt2pdf.ErrInvalidSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, txt2pdf.ErrExportInProgress):
		return http.StatusConflict
	case errors.Is(err, txt2pdf.ErrUnknownCommand),
		errors.Is(err, txt2pdf.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, txt2pdf.ErrExportFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 32<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		jsonError(w, fmt.Sprintf("invalid JSON body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
