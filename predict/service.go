package predict

import (
	"context"
	"fmt"
	"time"

	"github.com/liamcoop/attrition/features"
	"github.com/liamcoop/attrition/history"
	"github.com/liamcoop/attrition/internal/logger"
	"github.com/liamcoop/attrition/internal/metrics"
	"github.com/liamcoop/attrition/model"
)

// Classifier scores an expanded feature vector
type Classifier interface {
	Predict(vector []float64) (model.Prediction, error)
}

// Outcome is everything a caller renders for one submission
type Outcome struct {
	Prediction   model.Prediction
	Label        string
	Record       *features.Record
	VectorLength int
	// RecordID is set when the submission was written to history
	RecordID string
}

// Service runs one submission through validation, the feature pipeline and
// the classifier. It holds no per-request state.
type Service struct {
	builder    *features.Builder
	classifier Classifier
	store      history.Store
	metrics    *metrics.Recorder
	modelPath  string
}

// Option configures optional collaborators
type Option func(*Service)

// WithHistory audits every successful prediction to store
func WithHistory(store history.Store) Option {
	return func(s *Service) { s.store = store }
}

// WithMetrics counts submissions on rec
func WithMetrics(rec *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = rec }
}

// WithModelPath records the artifact path on history rows
func WithModelPath(path string) Option {
	return func(s *Service) { s.modelPath = path }
}

// NewService wires a builder and classifier
func NewService(builder *features.Builder, classifier Classifier, opts ...Option) *Service {
	s := &Service{builder: builder, classifier: classifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates attrs and returns the verdict. Validation failures are
// returned as *features.ValidationError. A history write failure is logged
// and does not fail the submission.
func (s *Service) Submit(ctx context.Context, attrs features.RawAttributes) (*Outcome, error) {
	if err := features.Validate(attrs); err != nil {
		s.metrics.Rejected()
		return nil, err
	}

	start := time.Now()

	rec, err := s.builder.Build(attrs)
	if err != nil {
		s.metrics.Failure("build")
		return nil, fmt.Errorf("failed to build features: %w", err)
	}
	vector := features.PolynomialExpand(rec.Values)

	pred, err := s.classifier.Predict(vector)
	if err != nil {
		s.metrics.Failure("predict")
		return nil, fmt.Errorf("failed to predict: %w", err)
	}

	took := time.Since(start)
	s.metrics.Prediction(pred.WillChurn, took)
	logger.Debug("prediction served",
		"willChurn", pred.WillChurn,
		"margin", pred.Margin,
		"vectorLength", len(vector),
		"took", took.String(),
	)

	out := &Outcome{
		Prediction:   pred,
		Label:        pred.Label(),
		Record:       rec,
		VectorLength: len(vector),
	}

	if s.store != nil {
		entry := &history.Record{
			Attributes:   attrs,
			WillChurn:    pred.WillChurn,
			FeatureCount: len(vector),
			ModelPath:    s.modelPath,
		}
		if err := s.store.Add(ctx, entry); err != nil {
			s.metrics.Failure("history")
			logger.Error("failed to record prediction", "error", err)
		} else {
			out.RecordID = entry.ID
		}
	}

	return out, nil
}

// Recent lists the newest audited predictions. Without a history store it
// returns an empty list.
func (s *Service) Recent(ctx context.Context, limit int) ([]*history.Record, error) {
	if s.store == nil {
		return []*history.Record{}, nil
	}
	return s.store.ListRecent(ctx, limit)
}

// HistoryEnabled reports whether submissions are audited
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}
