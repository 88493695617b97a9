package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

const (
	objectiveLogistic = "binary:logistic"
	objectiveLogitRaw = "binary:logitraw"
)

// ErrFeatureCount is returned when a vector's length disagrees with the
// artifact's num_feature.
var ErrFeatureCount = errors.New("feature count mismatch")

// Prediction is the classifier's verdict for one vector. Margin is kept for
// logging; it is never shown to the user.
type Prediction struct {
	WillChurn bool
	Margin    float32
}

// Label returns the verdict text shown to the user
func (p Prediction) Label() string {
	if p.WillChurn {
		return "WILL CHURN"
	}
	return "WILL NOT CHURN"
}

// Predictor scores vectors with a binary gradient-boosted tree ensemble.
// It is immutable after Load and safe for concurrent use.
type Predictor struct {
	path       string
	objective  string
	numFeature int
	baseMargin float32
	trees      []tree
}

type tree struct {
	left        []int32
	right       []int32
	splitIndex  []int32
	condition   []float32
	defaultLeft []bool
}

// Load reads an XGBoost JSON model from path
func Load(path string) (*Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}
	p.path = path
	return p, nil
}

// Parse decodes an XGBoost JSON model held in memory
func Parse(data []byte) (*Predictor, error) {
	var m xgbModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("malformed model JSON: %w", err)
	}

	l := m.Learner
	if l.GradientBooster.Name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q (want gbtree)", l.GradientBooster.Name)
	}

	p := &Predictor{objective: l.Objective.Name}
	if p.objective != objectiveLogistic && p.objective != objectiveLogitRaw {
		return nil, fmt.Errorf("unsupported objective %q", p.objective)
	}

	if nc := l.LearnerModelParam.NumClass; nc != "" {
		n, err := parseCount("num_class", nc)
		if err != nil {
			return nil, err
		}
		if n > 1 {
			return nil, fmt.Errorf("multi-class models are not supported (num_class=%d)", n)
		}
	}

	n, err := parseCount("num_feature", l.LearnerModelParam.NumFeature)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("num_feature must be positive, got %d", n)
	}
	p.numFeature = n

	base, err := parseBaseScore(l.LearnerModelParam.BaseScore)
	if err != nil {
		return nil, err
	}
	if p.baseMargin, err = baseMargin(p.objective, base); err != nil {
		return nil, err
	}

	trees := l.GradientBooster.Model.Trees
	if len(trees) == 0 {
		return nil, fmt.Errorf("model has no trees")
	}
	p.trees = make([]tree, 0, len(trees))
	for i, t := range trees {
		ct, err := compileTree(t, p.numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		p.trees = append(p.trees, ct)
	}
	return p, nil
}

// baseMargin converts base_score to margin space the way the objective does
func baseMargin(objective string, base float32) (float32, error) {
	if objective == objectiveLogitRaw {
		return base, nil
	}
	if !(base > 0 && base < 1) {
		return 0, fmt.Errorf("base_score %v outside (0, 1) for %s", base, objective)
	}
	return -float32(math.Log(float64(1/base - 1))), nil
}

func compileTree(t xgbTree, numFeature int) (tree, error) {
	n := len(t.LeftChildren)
	if n == 0 {
		return tree{}, fmt.Errorf("tree has no nodes")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n ||
		len(t.SplitConditions) != n || len(t.DefaultLeft) != n {
		return tree{}, fmt.Errorf("node arrays disagree in length (left=%d right=%d split_indices=%d split_conditions=%d default_left=%d)",
			n, len(t.RightChildren), len(t.SplitIndices), len(t.SplitConditions), len(t.DefaultLeft))
	}

	for i := 0; i < n; i++ {
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l == -1 {
			if r != -1 {
				return tree{}, fmt.Errorf("node %d has a right child but no left child", i)
			}
			continue
		}
		// Children always follow their parent, which rules out cycles
		if l <= int32(i) || int(l) >= n || r <= int32(i) || int(r) >= n {
			return tree{}, fmt.Errorf("node %d has out-of-range children (%d, %d)", i, l, r)
		}
		if idx := t.SplitIndices[i]; idx < 0 || int(idx) >= numFeature {
			return tree{}, fmt.Errorf("node %d splits on feature %d, model has %d", i, idx, numFeature)
		}
	}

	return tree{
		left:        t.LeftChildren,
		right:       t.RightChildren,
		splitIndex:  t.SplitIndices,
		condition:   t.SplitConditions,
		defaultLeft: t.DefaultLeft,
	}, nil
}

// leaf walks the tree for one row and returns the leaf value. At a leaf,
// split_conditions holds the leaf weight.
func (t *tree) leaf(row []float32) float32 {
	i := int32(0)
	for t.left[i] != -1 {
		v := row[t.splitIndex[i]]
		switch {
		case math.IsNaN(float64(v)):
			if t.defaultLeft[i] {
				i = t.left[i]
			} else {
				i = t.right[i]
			}
		case v < t.condition[i]:
			i = t.left[i]
		default:
			i = t.right[i]
		}
	}
	return t.condition[i]
}

// Predict scores one expanded feature vector
func (p *Predictor) Predict(vector []float64) (Prediction, error) {
	if len(vector) != p.numFeature {
		return Prediction{}, fmt.Errorf("%w: got %d values, model expects %d", ErrFeatureCount, len(vector), p.numFeature)
	}

	row := make([]float32, len(vector))
	for i, v := range vector {
		row[i] = float32(v)
	}

	margin := p.baseMargin
	for i := range p.trees {
		margin += p.trees[i].leaf(row)
	}

	return Prediction{WillChurn: sigmoid(margin) > 0.5, Margin: margin}, nil
}

// NumFeature is the vector length the model was trained on
func (p *Predictor) NumFeature() int { return p.numFeature }

// NumTrees is the size of the ensemble
func (p *Predictor) NumTrees() int { return len(p.trees) }

// Path is the file the model was loaded from, empty for Parse
func (p *Predictor) Path() string { return p.path }

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}
