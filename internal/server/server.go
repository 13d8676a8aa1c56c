package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/matchday-dashboard/internal/charts"
	"github.com/iwvelando/matchday-dashboard/internal/dashboard"
	"github.com/iwvelando/matchday-dashboard/internal/dataset"
	"github.com/iwvelando/matchday-dashboard/internal/export"
	"github.com/iwvelando/matchday-dashboard/internal/fixture"
	"github.com/iwvelando/matchday-dashboard/internal/risk"
	"github.com/iwvelando/matchday-dashboard/internal/security"
	"github.com/iwvelando/matchday-dashboard/pkg/constants"
	"go.uber.org/zap"
)

// Options tune a handler.
type Options struct {
	MaxUploadSize int64
	Version       string
	// Preview names the sheet and key column expected in uploaded risk workbooks.
	Preview dataset.Source
}

type handler struct {
	logger        *zap.Logger
	dashboard     *dashboard.Dashboard
	maxUploadSize int64
	version       string
	preview       dataset.Source
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the dashboard API.
func NewHandler(logger *zap.Logger, d *dashboard.Dashboard, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	preview := opts.Preview
	if preview.Sheet == "" {
		preview.Sheet = constants.DefaultRiskSheet
	}

	h := &handler{
		logger:        logger,
		dashboard:     d,
		maxUploadSize: maxUploadSize,
		version:       version,
		preview:       preview,
		metrics:       newMetrics(),
	}

	mux := http.NewServeMux()
	mux.Handle("/api/matches", h.metrics.instrument("matches", h.handleMatches))
	mux.Handle("/api/view", h.metrics.instrument("view", h.handleView))
	mux.Handle("/api/risk", h.metrics.instrument("risk", h.handleRisk))
	mux.Handle("/api/risk/preview", h.metrics.instrument("risk_preview", h.handleRiskPreview))
	mux.Handle("/api/security", h.metrics.instrument("security", h.handleSecurity))
	mux.Handle("/api/spend", h.metrics.instrument("spend", h.handleSpend))
	mux.Handle("/api/chart", h.metrics.instrument("chart", h.handleChart))
	mux.Handle("/api/export", h.metrics.instrument("export", h.handleExport))
	mux.Handle("/api/version", h.metrics.instrument("version", h.handleVersion))
	mux.Handle("/metrics", h.metrics.handler())

	return mux
}

type matchResponse struct {
	Match    int    `json:"match"`
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
}

type securityResponse struct {
	Totals  security.Totals  `json:"totals"`
	Entries []security.Entry `json:"entries,omitempty"`
}

type spendResponse struct {
	Team   string  `json:"team"`
	Amount float64 `json:"amount"`
}

type previewResponse struct {
	File      string         `json:"file"`
	Sheet     string         `json:"sheet"`
	Items     []string       `json:"items"`
	Summaries []risk.Summary `json:"summaries"`
	Duration  string         `json:"duration"`
}

func (h *handler) handleMatches(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	matches := h.dashboard.Matches()
	response := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, matchResponse{Match: m.Number, Date: m.FormattedDate(), Opponent: m.Opponent})
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleView(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing date parameter", "server.handleView")
		return
	}

	view, err := h.dashboard.View(date)
	if err != nil {
		h.respondQueryError(w, err, "server.handleView")
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *handler) handleRisk(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	match, err := h.matchParam(r)
	if err != nil {
		h.respondQueryError(w, err, "server.handleRisk")
		return
	}

	summary, err := h.dashboard.RiskSummary(match)
	if err != nil {
		h.respondQueryError(w, err, "server.handleRisk")
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) handleSecurity(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	response := securityResponse{Totals: h.dashboard.SecurityTotals()}
	if detail, _ := strconv.ParseBool(r.URL.Query().Get("entries")); detail {
		response.Entries = h.dashboard.SecurityEntries()
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleSpend(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	spend := h.dashboard.SpendByTeam()
	response := make([]spendResponse, 0, len(spend))
	for _, s := range spend {
		response = append(response, spendResponse{Team: s.Team, Amount: s.AmountMillions})
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	var buf bytes.Buffer
	var err error
	name := r.URL.Query().Get("name")
	switch name {
	case "spend":
		err = charts.SpendByTeam(&buf, h.dashboard.SpendByTeam())
	case "security":
		err = charts.SecurityTotals(&buf, h.dashboard.SecurityTotals())
	case "security-share":
		err = charts.SecurityShare(&buf, h.dashboard.SecurityTotals())
	case "risk":
		var match int
		if match, err = h.matchParam(r); err == nil {
			var summary risk.Summary
			if summary, err = h.dashboard.RiskSummary(match); err == nil {
				err = charts.RiskLevels(&buf, summary)
			}
		}
	default:
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unknown chart %q", name), "server.handleChart")
		return
	}
	if err != nil {
		h.respondQueryError(w, err, "server.handleChart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	h.writeBody(w, &buf, "server.handleChart")
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	f, err := export.Workbook(h.dashboard)
	if err != nil {
		h.respondQueryError(w, err, "server.handleExport")
		return
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to write workbook: %v", err), "server.handleExport")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="matchday-dashboard.xlsx"`)
	w.WriteHeader(http.StatusOK)
	h.writeBody(w, buf, "server.handleExport")
}

// handleRiskPreview summarizes an uploaded risk workbook with the session's
// rating policy. The loaded tables are left untouched.
func (h *handler) handleRiskPreview(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRiskPreview"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.metrics.previews.WithLabelValues("rejected").Inc()
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.metrics.previews.WithLabelValues("rejected").Inc()
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing workbook file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	src := h.preview
	src.Path = header.Filename
	if sheet := strings.TrimSpace(r.FormValue("sheet")); sheet != "" {
		src.Sheet = sheet
	}

	table, err := dataset.Read(file, src)
	if err != nil {
		h.metrics.previews.WithLabelValues("rejected").Inc()
		h.respondQueryError(w, err, op)
		return
	}

	summarizer, err := risk.NewSummarizer(h.logger, table, h.dashboard.Policy())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	summaries, err := summarizer.SummarizeAll()
	if err != nil {
		h.metrics.previews.WithLabelValues("rejected").Inc()
		h.respondQueryError(w, err, op)
		return
	}

	h.metrics.previews.WithLabelValues("accepted").Inc()
	h.logger.Info("previewed risk workbook",
		zap.String("op", op),
		zap.Stringer("resource", src),
		zap.Int("matches", len(summaries)),
	)
	h.writeJSON(w, http.StatusOK, previewResponse{
		File:      src.Path,
		Sheet:     src.Sheet,
		Items:     table.Items(),
		Summaries: summaries,
		Duration:  time.Since(start).String(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

var errBadParameter = errors.New("bad parameter")

// matchParam reads the match either by number or by date.
func (h *handler) matchParam(r *http.Request) (int, error) {
	query := r.URL.Query()
	if raw := strings.TrimSpace(query.Get("match")); raw != "" {
		match, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: match %q is not a number", errBadParameter, raw)
		}
		return match, nil
	}
	if date := strings.TrimSpace(query.Get("date")); date != "" {
		return h.dashboard.SelectMatch(date)
	}
	return 0, fmt.Errorf("%w: missing match or date parameter", errBadParameter)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// statusFor maps query errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadParameter):
		return http.StatusBadRequest
	case errors.Is(err, fixture.ErrDateNotFound),
		errors.Is(err, risk.ErrMatchNotFound),
		errors.Is(err, charts.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, risk.ErrInvalidRating),
		errors.Is(err, dataset.ErrResourceNotFound),
		errors.Is(err, dataset.ErrMalformedResource),
		errors.Is(err, dataset.ErrSchemaMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondQueryError(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusNotFound {
		msg += "; select another match"
	}
	h.respondErrorWithOp(w, status, msg, op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if status >= http.StatusInternalServerError {
		h.logger.Error("dashboard request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	} else {
		h.logger.Warn("dashboard request rejected",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeBody(w io.Writer, body io.Reader, op string) {
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("failed to write response body",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}
