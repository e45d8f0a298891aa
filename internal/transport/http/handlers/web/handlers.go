package webhandler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"wagesheet/internal/domain/session"
	"wagesheet/internal/domain/wages"
	"wagesheet/internal/platform/metrics"
	"wagesheet/internal/transport/http/middleware"
)

const maxMultipartMemory = 8 << 20

// Handler serves the server-rendered wage sheet form.
type Handler struct {
	Calc           *wages.Calculator
	Sessions       *session.Store
	Metrics        *metrics.Collector
	MaxUploadBytes int64
}

func NewHandler(calc *wages.Calculator, sessions *session.Store, collector *metrics.Collector, maxUploadBytes int64) *Handler {
	return &Handler{Calc: calc, Sessions: sessions, Metrics: collector, MaxUploadBytes: maxUploadBytes}
}

type pageData struct {
	Currency string
	Columns  []string
	Records  []wages.Record
	Form     wages.RawInput
	Errors   map[string]string
	Notice   string
	Rejected []wages.RowError
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Post("/", h.handleSubmit)
	r.Post("/clear", h.handleClear)
	r.Post("/import", h.handleImport)
}

// records never creates a sheet; a session without one simply has no records yet.
func (h *Handler) records(r *http.Request) []wages.Record {
	sheet, ok := h.Sessions.Get(middleware.GetSessionID(r))
	if !ok {
		return nil
	}
	return sheet.Records()
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	data.Currency = h.Calc.Policy().CurrencySymbol
	data.Columns = wages.Columns
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		log.WithError(err).Error("render wage sheet page failed")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{Records: h.records(r), Notice: r.URL.Query().Get("notice")})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	raw := wages.RawInput{
		Name:       r.PostForm.Get("name"),
		GrossPay:   r.PostForm.Get("grossPay"),
		DaysWorked: r.PostForm.Get("daysWorked"),
		Advance:    r.PostForm.Get("advance"),
	}

	record, err := h.Calc.ComputeRaw(raw)
	if err != nil {
		var verr *wages.ValidationError
		if errors.As(err, &verr) {
			h.Metrics.ValidationFailed()
			fields := make(map[string]string, len(verr.Issues))
			for _, issue := range verr.Issues {
				fields[issue.Field] = issue.Reason
			}
			h.render(w, http.StatusBadRequest, pageData{Records: h.records(r), Form: raw, Errors: fields})
			return
		}
		log.WithError(err).WithField("requestId", middleware.GetRequestID(r.Context())).Error("wage computation failed")
		http.Error(w, "failed to compute wages", http.StatusInternalServerError)
		return
	}

	h.Sessions.Ensure(middleware.GetSessionID(r)).Append(record)
	h.Metrics.RecordsComputed(1)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if sheet, ok := h.Sessions.Get(middleware.GetSessionID(r)); ok {
		sheet.Clear()
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.render(w, http.StatusRequestEntityTooLarge, pageData{
				Records: h.records(r),
				Notice:  fmt.Sprintf("the CSV file is larger than %d bytes", tooLarge.Limit),
			})
			return
		}
		h.render(w, http.StatusBadRequest, pageData{Records: h.records(r), Notice: "upload a CSV file"})
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.render(w, http.StatusBadRequest, pageData{Records: h.records(r), Notice: "upload a CSV file"})
		return
	}
	defer file.Close()

	raws, err := wages.ReadBatch(file)
	if err != nil {
		h.render(w, http.StatusBadRequest, pageData{Records: h.records(r), Notice: "the CSV file could not be read"})
		return
	}
	result, err := h.Calc.ComputeBatch(raws)
	if err != nil {
		log.WithError(err).Error("wage batch failed")
		http.Error(w, "failed to compute wages", http.StatusInternalServerError)
		return
	}
	sheet := h.Sessions.Ensure(middleware.GetSessionID(r))
	sheet.Append(result.Records...)
	h.Metrics.RecordsComputed(len(result.Records))

	h.render(w, http.StatusOK, pageData{
		Records:  sheet.Records(),
		Notice:   fmt.Sprintf("imported %d of %d rows", len(result.Records), len(raws)),
		Rejected: result.Rejected,
	})
}
