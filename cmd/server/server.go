package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/liamcoop/attrition/features"
	"github.com/liamcoop/attrition/internal/logger"
	"github.com/liamcoop/attrition/internal/metrics"
	"github.com/liamcoop/attrition/model"
	"github.com/liamcoop/attrition/predict"
)

const maxHistoryLimit = 100

// ServerConfig carries the collaborators built in main
type ServerConfig struct {
	Service        *predict.Service
	Model          *model.Predictor
	Metrics        *metrics.Recorder
	DB             *sql.DB
	HistoryLimit   int
	RequestTimeout time.Duration
}

type Server struct {
	service        *predict.Service
	model          *model.Predictor
	metrics        *metrics.Recorder
	db             *sql.DB
	historyLimit   int
	requestTimeout time.Duration
	page           *template.Template
	router         *chi.Mux
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Service == nil || cfg.Model == nil {
		return nil, fmt.Errorf("service and model are required")
	}

	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	s := &Server{
		service:        cfg.Service,
		model:          cfg.Model,
		metrics:        cfg.Metrics,
		db:             cfg.DB,
		historyLimit:   cfg.HistoryLimit,
		requestTimeout: cfg.RequestTimeout,
		page:           page,
	}
	if s.historyLimit <= 0 {
		s.historyLimit = 20
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = 60 * time.Second
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	// Form
	r.Get("/", s.handleForm)
	r.Post("/", s.handleFormSubmit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/predict", s.handlePredict)
		r.Get("/example", s.handleExample)
		r.Get("/predictions", s.handleListPredictions)
	})

	r.Handle("/metrics", s.metrics.Handler())

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:         "healthy",
		ModelPath:      s.model.Path(),
		NumFeature:     s.model.NumFeature(),
		NumTrees:       s.model.NumTrees(),
		HistoryEnabled: s.service.HistoryEnabled(),
	}

	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			resp.Status = "unhealthy"
			resp.Error = err.Error()
			logger.HTTPStatus(http.StatusServiceUnavailable)
			respondJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var attrs features.RawAttributes

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&attrs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	out, err := s.service.Submit(r.Context(), attrs)
	if err != nil {
		respondSubmitError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, PredictResponse{
		WillChurn:    out.Prediction.WillChurn,
		Label:        out.Label,
		Features:     out.Record.Map(),
		VectorLength: out.VectorLength,
		RecordID:     out.RecordID,
	})
}

func (s *Server) handleExample(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, features.Example())
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := s.historyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit), err)
			return
		}
		limit = n
	}

	records, err := s.service.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list predictions", err)
		return
	}

	resp := PredictionsListResponse{
		HistoryEnabled: s.service.HistoryEnabled(),
		Predictions:    make([]PredictionResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Predictions = append(resp.Predictions, toPredictionResponse(rec))
	}

	respondJSON(w, http.StatusOK, resp)
}

// respondSubmitError maps a Submit failure to a status
func respondSubmitError(w http.ResponseWriter, err error) {
	var verr *features.ValidationError
	if errors.As(err, &verr) {
		logger.HTTPStatus(http.StatusBadRequest)
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "invalid attributes",
			Fields: verr.Fields,
		})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		respondError(w, http.StatusServiceUnavailable, "request cancelled", err)
		return
	}
	respondError(w, http.StatusInternalServerError, "prediction failed", err)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	logger.HTTPStatus(status)
	response := ErrorResponse{Error: message}
	if err != nil {
		response.Details = err.Error()
		if status >= http.StatusInternalServerError {
			logger.Error(message, "error", err)
		}
	}
	respondJSON(w, status, response)
}
