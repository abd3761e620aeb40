package restserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/chrissnell/tsdiagram/internal/diagram"
	"github.com/chrissnell/tsdiagram/internal/locale"
	"github.com/chrissnell/tsdiagram/internal/log"
	"github.com/chrissnell/tsdiagram/internal/profile"
	"github.com/chrissnell/tsdiagram/internal/render"
	"github.com/chrissnell/tsdiagram/pkg/config"
	"github.com/chrissnell/tsdiagram/pkg/responseformat"
	"github.com/chrissnell/tsdiagram/pkg/seawater"
	"github.com/gorilla/mux"
)

// multipart parts beyond this size are spooled to disk by net/http
const maxMemory = 8 << 20

var errTooManyFiles = errors.New("too many files")

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// labels picks the display language: the lang query parameter first, then
// the configured language, negotiating from Accept-Language when that is "auto"
func (h *Handlers) labels(req *http.Request) locale.Labels {
	if lang := req.URL.Query().Get("lang"); lang != "" {
		return locale.For(lang)
	}
	if strings.EqualFold(h.controller.diagramConfig.Language, LanguageAuto) {
		return locale.Negotiate(req.Header.Get("Accept-Language"))
	}
	return h.controller.diagramOpts.Labels
}

// requestOptions applies the per-request overrides (quantity, policy,
// invert) on top of the configured diagram options
func (h *Handlers) requestOptions(req *http.Request) (diagram.Options, error) {
	opts := h.controller.diagramOpts
	opts.Labels = h.labels(req)
	q := req.URL.Query()

	if v := q.Get("quantity"); v != "" {
		quantity, err := seawater.ParseQuantity(v)
		if err != nil {
			return opts, err
		}
		if quantity != opts.Quantity {
			opts.Quantity = quantity
			opts.Levels = diagram.DefaultLevelPolicy(quantity)
		}
	}

	switch strings.ToLower(q.Get("policy")) {
	case "":
	case config.LevelPolicyFixed:
		opts.Levels = diagram.FixedLevels(opts.Quantity)
	case config.LevelPolicyDerived:
		opts.Levels = diagram.DerivedLevels(opts.Quantity)
	default:
		return opts, fmt.Errorf("unknown level policy %q", q.Get("policy"))
	}

	if v := q.Get("invert"); v != "" {
		invert, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid invert value %q", v)
		}
		opts.InvertTemperature = invert
	}

	return opts, nil
}

// readUploads collects the "files" parts of a multipart request. A request
// that is not multipart carries no uploads. A part that cannot be opened
// becomes an upload whose reader fails, so it is reported per file.
func (h *Handlers) readUploads(w http.ResponseWriter, req *http.Request) ([]profile.Upload, error) {
	req.Body = http.MaxBytesReader(w, req.Body, h.controller.serverConfig.MaxUploadBytes)

	if err := req.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	defer req.MultipartForm.RemoveAll()

	headers := req.MultipartForm.File["files"]
	getRequestInfo(req).files = len(headers)
	if len(headers) > h.controller.serverConfig.MaxFiles {
		return nil, fmt.Errorf("%w: %d uploaded, limit is %d", errTooManyFiles, len(headers), h.controller.serverConfig.MaxFiles)
	}

	uploads := make([]profile.Upload, 0, len(headers))
	for _, fh := range headers {
		upload := profile.Upload{Name: fh.Filename}

		f, err := fh.Open()
		if err != nil {
			upload.Data = failingReader{err}
			uploads = append(uploads, upload)
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			upload.Data = failingReader{err}
		} else {
			upload.Data = bytes.NewReader(data)
		}
		uploads = append(uploads, upload)
	}

	return uploads, nil
}

// buildReport runs the upload pipeline for a request, writing an error
// response and returning false if the request itself is unusable
func (h *Handlers) buildReport(w http.ResponseWriter, req *http.Request) (diagram.Report, bool) {
	opts, err := h.requestOptions(req)
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err.Error())
		return diagram.Report{}, false
	}

	uploads, err := h.readUploads(w, req)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.formatter.WriteError(w, req, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, errTooManyFiles):
			h.formatter.WriteError(w, req, http.StatusRequestEntityTooLarge, err.Error())
		default:
			h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Sprintf("could not read upload: %v", err))
		}
		return diagram.Report{}, false
	}

	report := diagram.Render(uploads, opts)
	if d := h.controller.renderer.FontDiagnostic(opts.Labels); d != nil {
		report.Diagnostics = append(report.Diagnostics, *d)
	}

	for _, d := range report.Diagnostics {
		if d.Severity != profile.SeverityInfo {
			log.Debugw("upload diagnostic", "request_id", getRequestInfo(req).id, "file", d.File, "kind", d.Kind, "message", d.Message)
		}
	}

	return report, true
}

// PostScene returns the diagram scene and diagnostics for the uploaded files
func (h *Handlers) PostScene(w http.ResponseWriter, req *http.Request) {
	report, ok := h.buildReport(w, req)
	if !ok {
		return
	}

	if err := h.formatter.WriteResponse(w, req, report, nil); err != nil {
		log.Errorf("error writing scene response: %v", err)
	}
}

// PostDiagram renders the uploaded files as an image. When no scene can be
// built the diagnostics are returned instead with 422 Unprocessable Entity.
func (h *Handlers) PostDiagram(w http.ResponseWriter, req *http.Request) {
	ext := mux.Vars(req)["ext"]
	contentType, ok := render.ContentType(ext)
	if !ok {
		h.formatter.WriteError(w, req, http.StatusNotFound, fmt.Sprintf("unsupported format %q", ext))
		return
	}

	report, ok := h.buildReport(w, req)
	if !ok {
		return
	}
	if !report.HasScene() {
		h.formatter.WriteStatus(w, req, http.StatusUnprocessableEntity, report, nil)
		return
	}

	var buf bytes.Buffer
	if err := h.controller.renderer.Render(&buf, report.Scene, ext); err != nil {
		log.Errorf("error rendering diagram: %v", err)
		h.formatter.WriteError(w, req, http.StatusInternalServerError, "could not render diagram")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Diagnostic-Count", strconv.Itoa(len(report.Diagnostics)))
	w.Write(buf.Bytes())
}

// GetHealth reports that the server is up
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteResponse(w, req, map[string]string{"status": "ok"}, nil)
}

// ServeIndexTemplate renders the upload page
func (h *Handlers) ServeIndexTemplate(w http.ResponseWriter, req *http.Request) {
	view := struct {
		Labels   locale.Labels
		Quantity string
		Invert   bool
	}{
		Labels:   h.labels(req),
		Quantity: h.controller.diagramOpts.Quantity.String(),
		Invert:   h.controller.diagramOpts.InvertTemperature,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.controller.index.Execute(w, view); err != nil {
		log.Errorf("error rendering index template: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}
