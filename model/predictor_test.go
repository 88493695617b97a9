package model

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liamcoop/attrition/features"
)

func loadFixture(t *testing.T, name string) *Predictor {
	t.Helper()
	p, err := Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", name, err)
	}
	return p
}

func TestLoadSmallModel(t *testing.T) {
	p := loadFixture(t, "small_xgb.json")

	if p.NumFeature() != 3 {
		t.Errorf("NumFeature() = %d, want 3", p.NumFeature())
	}
	if p.NumTrees() != 2 {
		t.Errorf("NumTrees() = %d, want 2", p.NumTrees())
	}
	if p.baseMargin != 0 {
		t.Errorf("base margin = %v, want 0 for base_score 0.5", p.baseMargin)
	}
	if !strings.HasSuffix(p.Path(), "small_xgb.json") {
		t.Errorf("Path() = %q", p.Path())
	}
}

func TestPredictTraversal(t *testing.T) {
	p := loadFixture(t, "small_xgb.json")
	nan := math.NaN()

	testCases := []struct {
		name       string
		vector     []float64
		wantMargin float32
		wantChurn  bool
	}{
		{"Left leaf", []float64{0, 0, 0}, 0.625, true},
		{"Right then left", []float64{2, 0, -2}, -0.125, false},
		{"Right then right", []float64{2, 0, 0}, 1.125, true},
		{"Split value goes right", []float64{1, 0, -1.5}, 1.125, true},
		{"Missing value default left", []float64{nan, 0, -2}, 0.625, true},
		{"Missing value default right", []float64{2, 0, nan}, 1.125, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Predict(tc.vector)
			if err != nil {
				t.Fatalf("Predict() failed: %v", err)
			}
			if got.Margin != tc.wantMargin {
				t.Errorf("Margin = %v, want %v", got.Margin, tc.wantMargin)
			}
			if got.WillChurn != tc.wantChurn {
				t.Errorf("WillChurn = %v, want %v", got.WillChurn, tc.wantChurn)
			}
		})
	}
}

func TestPredictCastsToFloat32(t *testing.T) {
	p := loadFixture(t, "small_xgb.json")

	// 0.99999999999 rounds to 1.0 in float32, so the row is sent right
	got, err := p.Predict([]float64{0.99999999999, 0, 0})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	if got.Margin != 1.125 {
		t.Errorf("Margin = %v, want 1.125", got.Margin)
	}
}

func TestPredictFeatureCountMismatch(t *testing.T) {
	p := loadFixture(t, "small_xgb.json")

	for _, n := range []int{0, 2, 4} {
		_, err := p.Predict(make([]float64, n))
		if !errors.Is(err, ErrFeatureCount) {
			t.Errorf("Predict(len %d) error = %v, want ErrFeatureCount", n, err)
		}
	}
}

func TestPredictionLabel(t *testing.T) {
	if got := (Prediction{WillChurn: true}).Label(); got != "WILL CHURN" {
		t.Errorf("Label() = %q", got)
	}
	if got := (Prediction{}).Label(); got != "WILL NOT CHURN" {
		t.Errorf("Label() = %q", got)
	}
}

// TestPredictEngineeredVector runs the feature pipeline into a model keyed on
// real column positions
func TestPredictEngineeredVector(t *testing.T) {
	p := loadFixture(t, "tiny_xgb.json")

	b, err := features.NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder() failed: %v", err)
	}

	young := features.Example()
	young.Age = 25
	young.MonthlyIncome = 2000

	testCases := []struct {
		name       string
		attrs      features.RawAttributes
		wantMargin float32
		wantChurn  bool
	}{
		{"Example", features.Example(), -0.3, false},
		{"Young low earner on overtime", young, 0.9, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vec, err := b.Vectorize(tc.attrs)
			if err != nil {
				t.Fatalf("Vectorize() failed: %v", err)
			}
			if len(vec) != p.NumFeature() {
				t.Fatalf("len(vector) = %d, model expects %d", len(vec), p.NumFeature())
			}

			got, err := p.Predict(vec)
			if err != nil {
				t.Fatalf("Predict() failed: %v", err)
			}
			if math.Abs(float64(got.Margin-tc.wantMargin)) > 1e-6 {
				t.Errorf("Margin = %v, want %v", got.Margin, tc.wantMargin)
			}
			if got.WillChurn != tc.wantChurn {
				t.Errorf("WillChurn = %v, want %v", got.WillChurn, tc.wantChurn)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestParseRejectsBadModels(t *testing.T) {
	valid, err := os.ReadFile(filepath.Join("testdata", "small_xgb.json"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	doc := string(valid)

	testCases := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"Not JSON", `{"learner":`, "malformed"},
		{"Wrong objective", strings.Replace(doc, "binary:logistic", "reg:squarederror", 1), "unsupported objective"},
		{"Wrong booster", strings.Replace(doc, `"name": "gbtree"`, `"name": "gblinear"`, 1), "unsupported booster"},
		{"Multi-class", strings.Replace(doc, `"num_class": "0"`, `"num_class": "3"`, 1), "multi-class"},
		{"Bad num_feature", strings.Replace(doc, `"num_feature": "3",`+"\n      \"num_target\"", `"num_feature": "x",`+"\n      \"num_target\"", 1), "num_feature"},
		{"Bad base_score", strings.Replace(doc, `"[5E-1]"`, `"[abc]"`, 1), "base_score"},
		{"Base score out of range", strings.Replace(doc, `"[5E-1]"`, `"[1.5]"`, 1), "outside"},
		{"Split on unknown feature", strings.Replace(doc, `"split_indices": [0, 0, 2, 0, 0]`, `"split_indices": [0, 0, 7, 0, 0]`, 1), "splits on feature"},
		{"Child loops back", strings.Replace(doc, `"left_children": [1, -1, 3, -1, -1]`, `"left_children": [1, -1, 0, -1, -1]`, 1), "out-of-range children"},
		{"Ragged arrays", strings.Replace(doc, `"split_conditions": [0.125]`, `"split_conditions": []`, 1), "disagree in length"},
		{"Bad default_left", strings.Replace(doc, `"default_left": [false]`, `"default_left": ["no"]`, 1), "default_left"},
		{"No trees", `{"learner":{"gradient_booster":{"name":"gbtree","model":{"trees":[]}},"learner_model_param":{"base_score":"5E-1","num_feature":"3"},"objective":{"name":"binary:logistic"}}}`, "no trees"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.data == doc {
				t.Fatal("fixture edit did not apply")
			}
			_, err := Parse([]byte(tc.data))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseLogitRaw(t *testing.T) {
	valid, err := os.ReadFile(filepath.Join("testdata", "small_xgb.json"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	doc := strings.Replace(string(valid), "binary:logistic", "binary:logitraw", 1)
	doc = strings.Replace(doc, `"[5E-1]"`, `"[-2.5E-1]"`, 1)

	p, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got, err := p.Predict([]float64{0, 0, 0})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}
	if got.Margin != 0.375 || !got.WillChurn {
		t.Errorf("Predict() = %+v, want margin 0.375 and churn", got)
	}
}

func TestParseBaseScore(t *testing.T) {
	testCases := []struct {
		in   string
		want float32
	}{
		{"5E-1", 0.5},
		{"[5E-1]", 0.5},
		{" [1.6122448E-1] ", 0.16122448},
	}

	for _, tc := range testCases {
		got, err := parseBaseScore(tc.in)
		if err != nil {
			t.Errorf("parseBaseScore(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseBaseScore(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := parseBaseScore("[]"); err == nil {
		t.Error("parseBaseScore(\"[]\") should fail")
	}
}

func TestLoaderMemoises(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")

	l := NewLoader(path)
	if _, err := l.Get(); err == nil {
		t.Fatal("Get() should fail before the artifact exists")
	}

	data, err := os.ReadFile(filepath.Join("testdata", "small_xgb.json"))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}

	first, err := l.Get()
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove model: %v", err)
	}
	second, err := l.Get()
	if err != nil {
		t.Fatalf("Get() after removal failed: %v", err)
	}
	if first != second {
		t.Error("Get() should return the same predictor on every call")
	}
	if l.Path() != path {
		t.Errorf("Path() = %q, want %q", l.Path(), path)
	}
}
