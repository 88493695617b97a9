package main

import (
	"time"

	"github.com/liamcoop/attrition/history"
	"github.com/liamcoop/attrition/model"
)

// API request and response models

// PredictResponse is the verdict for one submission
type PredictResponse struct {
	WillChurn    bool               `json:"willChurn" example:"false"`
	Label        string             `json:"label" example:"WILL NOT CHURN"`
	Features     map[string]float64 `json:"features"`
	VectorLength int                `json:"vectorLength" example:"2079"`
	RecordID     string             `json:"recordId,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// PredictionResponse is one audited prediction
type PredictionResponse struct {
	ID           string    `json:"id"`
	WillChurn    bool      `json:"willChurn"`
	Label        string    `json:"label"`
	FeatureCount int       `json:"featureCount"`
	ModelPath    string    `json:"modelPath"`
	CreatedAt    time.Time `json:"createdAt" example:"2024-01-15T10:30:00Z"`
}

// PredictionsListResponse lists recent audited predictions
type PredictionsListResponse struct {
	HistoryEnabled bool                 `json:"historyEnabled"`
	Predictions    []PredictionResponse `json:"predictions"`
}

// ErrorResponse is returned for every failed request. Fields is set for
// validation failures, keyed by input name.
type ErrorResponse struct {
	Error   string            `json:"error" example:"invalid attributes"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HealthResponse reports readiness
type HealthResponse struct {
	Status         string `json:"status" example:"healthy"`
	ModelPath      string `json:"modelPath"`
	NumFeature     int    `json:"numFeature" example:"2079"`
	NumTrees       int    `json:"numTrees"`
	HistoryEnabled bool   `json:"historyEnabled"`
	Error          string `json:"error,omitempty"`
}

func toPredictionResponse(rec *history.Record) PredictionResponse {
	return PredictionResponse{
		ID:           rec.ID,
		WillChurn:    rec.WillChurn,
		Label:        model.Prediction{WillChurn: rec.WillChurn}.Label(),
		FeatureCount: rec.FeatureCount,
		ModelPath:    rec.ModelPath,
		CreatedAt:    rec.CreatedAt,
	}
}
