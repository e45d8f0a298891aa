package wageshandler

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"wagesheet/internal/domain/session"
	"wagesheet/internal/domain/wages"
	"wagesheet/internal/export"
	"wagesheet/internal/platform/metrics"
	"wagesheet/internal/transport/http/api"
	"wagesheet/internal/transport/http/middleware"
	"wagesheet/internal/transport/http/shared"
)

// maxMultipartMemory is how much of an upload is buffered in memory; the rest spills to disk.
const maxMultipartMemory = 8 << 20

type Handler struct {
	Calc           *wages.Calculator
	Sessions       *session.Store
	Metrics        *metrics.Collector
	MaxUploadBytes int64
	Now            func() time.Time
}

func NewHandler(calc *wages.Calculator, sessions *session.Store, collector *metrics.Collector, maxUploadBytes int64) *Handler {
	return &Handler{Calc: calc, Sessions: sessions, Metrics: collector, MaxUploadBytes: maxUploadBytes, Now: time.Now}
}

type recordsResponse struct {
	Records []wages.Record `json:"records"`
	Totals  wages.Totals   `json:"totals"`
}

type importResponse struct {
	Imported int              `json:"imported"`
	Rejected []wages.RowError `json:"rejected"`
	Total    int              `json:"total"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/wages", func(r chi.Router) {
		r.Get("/policy", h.handlePolicy)
		r.Post("/compute", h.handleCompute)
		r.Get("/records", h.handleListRecords)
		r.Post("/records", h.handleAppendRecord)
		r.Delete("/records", h.handleClearRecords)
		r.Post("/records/import", h.handleImportRecords)
		r.Get("/export/xlsx", h.handleExportXLSX)
		r.Get("/export/pdf", h.handleExportPDF)
		r.Get("/print", h.handlePrint)
	})
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := middleware.GetSessionID(r)
	if id == "" {
		api.Fail(w, http.StatusUnauthorized, "session_required", "session required", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return id, true
}

// records reads the session's records without creating a sheet for an unknown session.
func (h *Handler) records(w http.ResponseWriter, r *http.Request) ([]wages.Record, bool) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return nil, false
	}
	sheet, found := h.Sessions.Get(id)
	if !found {
		return []wages.Record{}, true
	}
	return sheet.Records(), true
}

func (h *Handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Calc.Policy(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (wages.Record, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload wages.RawInput
	if err := shared.DecodeJSON(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return wages.Record{}, false
	}
	record, err := h.Calc.ComputeRaw(payload)
	if err != nil {
		if shared.RejectValidation(w, requestID, err) {
			h.Metrics.ValidationFailed()
			return wages.Record{}, false
		}
		log.WithError(err).WithField("requestId", requestID).Error("wage computation failed")
		api.Fail(w, http.StatusInternalServerError, "compute_failed", "failed to compute wages", requestID)
		return wages.Record{}, false
	}
	h.Metrics.RecordsComputed(1)
	return record, true
}

func (h *Handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	record, ok := h.compute(w, r)
	if !ok {
		return
	}
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, ok := h.records(w, r)
	if !ok {
		return
	}
	api.Success(w, recordsResponse{Records: records, Totals: wages.Sum(records)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAppendRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	record, ok := h.compute(w, r)
	if !ok {
		return
	}
	count := h.Sessions.Ensure(id).Append(record)
	log.WithFields(log.Fields{
		"requestId": middleware.GetRequestID(r.Context()),
		"records":   count,
		"warnings":  record.Warnings,
	}).Debug("wage record appended")
	api.Created(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}
	removed := 0
	if sheet, found := h.Sessions.Get(id); found {
		removed = sheet.Clear()
	}
	api.Success(w, map[string]int{"removed": removed}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleImportRecords(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	body, err := h.readImportBody(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large",
				"csv payload exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unable to read csv payload", requestID)
		return
	}
	raws, err := wages.ReadBatch(bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, wages.ErrEmptyBatch) {
			api.Fail(w, http.StatusBadRequest, "empty_batch", "csv payload has no rows", requestID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid csv payload", requestID)
		return
	}
	result, err := h.Calc.ComputeBatch(raws)
	if err != nil {
		log.WithError(err).WithField("requestId", requestID).Error("wage batch failed")
		api.Fail(w, http.StatusInternalServerError, "compute_failed", "failed to compute wages", requestID)
		return
	}

	total := h.Sessions.Ensure(id).Append(result.Records...)
	h.Metrics.RecordsComputed(len(result.Records))
	api.Success(w, importResponse{
		Imported: len(result.Records),
		Rejected: result.Rejected,
		Total:    total,
	}, requestID)
}

// readImportBody accepts either a raw CSV body or a multipart upload in the "file" field.
// A body over MaxUploadBytes fails with *http.MaxBytesError instead of being truncated.
func (h *Handler) readImportBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}

func (h *Handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.writeExport(w, r, "xlsx", export.ContentTypeXLSX, export.FileNameXLSX, func(out io.Writer, records []wages.Record) error {
		return export.WriteXLSX(out, records)
	})
}

func (h *Handler) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	h.writeExport(w, r, "pdf", export.ContentTypePDF, export.FileNamePDF, func(out io.Writer, records []wages.Record) error {
		return export.WritePDF(out, records, h.Now())
	})
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request) {
	h.writeExport(w, r, "print", export.ContentTypeHTML, "", export.RenderPrint)
}

func (h *Handler) writeExport(w http.ResponseWriter, r *http.Request, format, contentType, fileName string, render func(io.Writer, []wages.Record) error) {
	requestID := middleware.GetRequestID(r.Context())
	records, ok := h.records(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, records); err != nil {
		log.WithError(err).WithFields(log.Fields{"requestId": requestID, "format": format}).Error("wage sheet export failed")
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export wage sheet", requestID)
		return
	}
	h.Metrics.Exported(format)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if fileName != "" {
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.WithError(err).WithField("format", format).Warn("export write failed")
	}
}
