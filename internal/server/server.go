// Package server exposes the deal and market scoring engines over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/carescore/internal/batch"
	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/output"
	"github.com/iwvelando/carescore/pkg/validation"
	"github.com/julienschmidt/httprouter"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options tunes the handler. Zero values select defaults.
type Options struct {
	MaxBodySize int64
	RateLimit   float64 // requests per second per client, negative disables
	RateBurst   int
	Concurrency int
	Version     string
}

type handler struct {
	logger      *zap.Logger
	benchmarks  benchmarks.Benchmarks
	evaluator   *deal.Evaluator
	scorer      *market.Scorer
	runner      *batch.Runner
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the scoring API.
func NewHandler(logger *zap.Logger, bm benchmarks.Benchmarks, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = constants.DefaultMaxBodySizeBytes
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = constants.DefaultRateLimitPerSecond
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = int(opts.RateLimit)
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	evaluator := deal.NewEvaluator(logger, bm.Deal)
	scorer := market.NewScorer(logger, bm.Market)
	h := &handler{
		logger:      logger,
		benchmarks:  bm,
		evaluator:   evaluator,
		scorer:      scorer,
		runner:      batch.NewRunner(logger, scorer, evaluator, opts.Concurrency),
		maxBodySize: opts.MaxBodySize,
		version:     version,
	}

	router := httprouter.New()
	router.POST("/api/deals/evaluate", instrument("deals_evaluate", h.handleEvaluateDeal))
	router.POST("/api/deals/batch", instrument("deals_batch", h.handleDealBatch))
	router.POST("/api/facilities/normalize", instrument("facilities_normalize", h.handleNormalize))
	router.POST("/api/markets/score", instrument("markets_score", h.handleScoreMarket))
	router.POST("/api/markets/batch", instrument("markets_batch", h.handleMarketBatch))
	router.GET("/api/benchmarks", instrument("benchmarks", h.handleBenchmarks))
	router.GET("/api/version", instrument("version", h.handleVersion))
	router.GET("/healthz", h.handleHealth)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	limiter := newRateLimiter(opts.RateLimit, opts.RateBurst)
	return limiter.middleware(h, gzhttp.GzipHandler(router))
}

type evaluationResponse struct {
	EvaluationID string          `json:"evaluationId"`
	Evaluation   deal.Evaluation `json:"evaluation"`
	Duration     string          `json:"duration"`
}

type dealBatchRequest struct {
	Deals []deal.Deal `json:"deals"`
}

type marketBatchRequest struct {
	FacilityType string            `json:"facilityType"`
	Markets      []market.Data     `json:"markets"`
	LaborData    *market.LaborData `json:"laborData,omitempty"`
}

type batchResponse struct {
	RequestID string      `json:"requestId"`
	Results   interface{} `json:"results"`
	Duration  string      `json:"duration"`
}

func (h *handler) handleEvaluateDeal(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleEvaluateDeal"
	start := time.Now()

	var d deal.Deal
	if !h.decodeDocument(w, r, validation.DocumentDeal, &d, op) {
		return
	}

	ev, err := h.evaluator.EvaluateDeal(d, nil)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	dealRecommendations.WithLabelValues(ev.Summary.Recommendation).Inc()

	if format := r.URL.Query().Get("format"); format != "" && format != constants.OutputFormatJSON {
		h.writeRendered(w, format, op, func(out io.Writer) error {
			return output.WriteEvaluation(out, format, ev)
		})
		return
	}

	h.writeJSON(w, http.StatusOK, evaluationResponse{
		EvaluationID: uuid.New().String(),
		Evaluation:   ev,
		Duration:     time.Since(start).String(),
	})
}

func (h *handler) handleDealBatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleDealBatch"
	start := time.Now()

	var req dealBatchRequest
	if !h.decodeDocument(w, r, validation.DocumentDealBatch, &req, op) {
		return
	}

	reqs := make([]batch.DealRequest, len(req.Deals))
	for i, d := range req.Deals {
		reqs[i] = batch.DealRequest{Deal: d}
	}
	results, err := h.runner.EvaluateDeals(r.Context(), reqs)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, fmt.Sprintf("batch aborted: %v", err), op)
		return
	}
	for _, res := range results {
		if res.Evaluation != nil {
			dealRecommendations.WithLabelValues(res.Evaluation.Summary.Recommendation).Inc()
		}
	}

	h.writeJSON(w, http.StatusOK, batchResponse{
		RequestID: uuid.New().String(),
		Results:   results,
		Duration:  time.Since(start).String(),
	})
}

func (h *handler) handleNormalize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleNormalize"

	var f deal.RawFacility
	if !h.decodeDocument(w, r, validation.DocumentFacility, &f, op) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.evaluator.Normalize(f))
}

func (h *handler) handleScoreMarket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleScoreMarket"

	var req batch.MarketRequest
	if !h.decodeDocument(w, r, validation.DocumentMarketScore, &req, op) {
		return
	}

	report, err := h.scorer.Report(req.Market, req.FacilityType, req.LaborData)
	if err != nil {
		h.respondErrorWithOp(w, marketErrorStatus(err), err.Error(), op)
		return
	}
	marketGrades.WithLabelValues(report.FacilityType, report.Grade.Letter).Inc()

	if format := r.URL.Query().Get("format"); format != "" && format != constants.OutputFormatJSON {
		h.writeRendered(w, format, op, func(out io.Writer) error {
			return output.WriteMarketReports(out, format, []market.Report{report})
		})
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *handler) handleMarketBatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	const op = "server.handleMarketBatch"
	start := time.Now()

	var req marketBatchRequest
	if !h.decodeDocument(w, r, validation.DocumentMarketBatch, &req, op) {
		return
	}
	facilityType, err := market.ParseFacilityType(req.FacilityType)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	reqs := make([]batch.MarketRequest, len(req.Markets))
	for i, m := range req.Markets {
		reqs[i] = batch.MarketRequest{FacilityType: facilityType, Market: m, LaborData: req.LaborData}
	}
	results, err := h.runner.ScoreMarkets(r.Context(), reqs)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, fmt.Sprintf("batch aborted: %v", err), op)
		return
	}
	for _, res := range results {
		if res.Report != nil {
			marketGrades.WithLabelValues(res.Report.FacilityType, res.Report.Grade.Letter).Inc()
		}
	}

	h.writeJSON(w, http.StatusOK, batchResponse{
		RequestID: uuid.New().String(),
		Results:   results,
		Duration:  time.Since(start).String(),
	})
}

func (h *handler) handleBenchmarks(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeJSON(w, http.StatusOK, h.benchmarks)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func marketErrorStatus(err error) int {
	switch {
	case errors.Is(err, market.ErrUnknownFacilityType), errors.Is(err, market.ErrMissingMarketData):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeDocument reads the limited body, validates it against the document
// schema and decodes it into v. It writes the error response itself and
// reports whether the handler should continue.
func (h *handler) decodeDocument(w http.ResponseWriter, r *http.Request, doc validation.Document, v interface{}, op string) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err), op)
		return false
	}

	if err := validation.ValidateDocument(doc, body); err != nil {
		schemaRejections.WithLabelValues(string(doc)).Inc()
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return false
	}

	if err := json.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode %s: %v", doc, err), op)
		return false
	}
	return true
}

func (h *handler) writeRendered(w http.ResponseWriter, format, op string, render func(io.Writer) error) {
	if err := validation.ValidateOutputFormat(format); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write response", zap.String("op", op), zap.Error(err))
	}
}

var contentTypes = map[string]string{
	constants.OutputFormatPretty:   "text/plain; charset=utf-8",
	constants.OutputFormatCSV:      "text/csv; charset=utf-8",
	constants.OutputFormatMarkdown: "text/markdown; charset=utf-8",
	constants.OutputFormatHTML:     "text/html; charset=utf-8",
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	level := h.logger.Warn
	if status >= http.StatusInternalServerError {
		level = h.logger.Error
	}
	level("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes the payload before any header is written.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
