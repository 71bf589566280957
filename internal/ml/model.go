package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Model is a ridge regression over standardized features. The artifact
// records the exact feature names it was trained on so a caller feeding a
// differently shaped vector fails loudly instead of scoring garbage.
type Model struct {
	Version      string    `json:"version"`
	TrainedAt    time.Time `json:"trained_at"`
	FeatureNames []string  `json:"feature_names"`
	Bias         float64   `json:"bias"`
	Weights      []float64 `json:"weights"`
	Means        []float64 `json:"means"`
	Stds         []float64 `json:"stds"`
	MAE          float64   `json:"mae"`
	R2           float64   `json:"r2"`
	TrainRows    int       `json:"train_rows"`
	TestRows     int       `json:"test_rows"`
}

// TrainOptions controls gradient descent. Zero values fall back to defaults.
type TrainOptions struct {
	LearningRate float64
	Epochs       int
	L2           float64
	TestFraction float64
	Seed         int64
}

func (o TrainOptions) withDefaults() TrainOptions {
	if o.LearningRate == 0 {
		o.LearningRate = 0.01
	}
	if o.Epochs == 0 {
		o.Epochs = 2000
	}
	if o.L2 == 0 {
		o.L2 = 0.001
	}
	if o.TestFraction == 0 {
		o.TestFraction = 0.2
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// Train fits a model on labeled rows. The split is seeded so repeated runs
// on the same data produce the same holdout metrics.
func Train(featureNames []string, X [][]float64, y []float64, opts TrainOptions) (*Model, error) {
	opts = opts.withDefaults()

	if len(X) != len(y) {
		return nil, fmt.Errorf("feature rows (%d) and labels (%d) differ", len(X), len(y))
	}
	if len(X) < 10 {
		return nil, fmt.Errorf("not enough training rows: %d", len(X))
	}
	for i, row := range X {
		if len(row) != len(featureNames) {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), len(featureNames))
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	indices := rng.Perm(len(X))
	testSize := int(float64(len(X)) * opts.TestFraction)
	testIdx, trainIdx := indices[:testSize], indices[testSize:]

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]float64, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i], trainY[i] = X[idx], y[idx]
	}

	means, stds := standardization(trainX)

	m := &Model{
		TrainedAt:    time.Now().UTC(),
		FeatureNames: append([]string{}, featureNames...),
		Weights:      make([]float64, len(featureNames)),
		Means:        means,
		Stds:         stds,
		TrainRows:    len(trainIdx),
		TestRows:     len(testIdx),
	}
	m.Version = m.TrainedAt.Format("20060102T150405")

	m.fit(trainX, trainY, opts)

	var testX [][]float64
	var testY []float64
	for _, idx := range testIdx {
		testX = append(testX, X[idx])
		testY = append(testY, y[idx])
	}
	m.MAE, m.R2 = m.evaluate(testX, testY)

	log.Info().
		Str("version", m.Version).
		Int("train_rows", m.TrainRows).
		Int("test_rows", m.TestRows).
		Float64("mae", m.MAE).
		Float64("r2", m.R2).
		Msg("Model trained")

	return m, nil
}

func standardization(X [][]float64) ([]float64, []float64) {
	n := len(X[0])
	means := make([]float64, n)
	stds := make([]float64, n)

	for j := 0; j < n; j++ {
		sum := 0.0
		for _, row := range X {
			sum += row[j]
		}
		means[j] = sum / float64(len(X))

		variance := 0.0
		for _, row := range X {
			d := row[j] - means[j]
			variance += d * d
		}
		stds[j] = math.Sqrt(variance / float64(len(X)))
		if stds[j] == 0 {
			// Constant column, standardize to zero instead of dividing by it
			stds[j] = 1
		}
	}

	return means, stds
}

func (m *Model) standardize(x []float64) []float64 {
	z := make([]float64, len(x))
	for j := range x {
		z[j] = (x[j] - m.Means[j]) / m.Stds[j]
	}
	return z
}

func (m *Model) fit(X [][]float64, y []float64, opts TrainOptions) {
	Z := make([][]float64, len(X))
	for i, row := range X {
		Z[i] = m.standardize(row)
	}

	n := float64(len(Z))
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		gradBias := 0.0
		grad := make([]float64, len(m.Weights))

		for i, z := range Z {
			pred := m.Bias
			for j, w := range m.Weights {
				pred += w * z[j]
			}
			residual := pred - y[i]
			gradBias += residual
			for j := range grad {
				grad[j] += residual * z[j]
			}
		}

		m.Bias -= opts.LearningRate * gradBias / n
		for j := range m.Weights {
			m.Weights[j] -= opts.LearningRate * (grad[j]/n + opts.L2*m.Weights[j])
		}
	}
}

func (m *Model) predictStandardized(x []float64) float64 {
	z := m.standardize(x)
	pred := m.Bias
	for j, w := range m.Weights {
		pred += w * z[j]
	}
	return pred
}

func (m *Model) evaluate(X [][]float64, y []float64) (mae, r2 float64) {
	if len(X) == 0 {
		return 0, 0
	}

	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= float64(len(y))

	var absErr, ssRes, ssTot float64
	for i, row := range X {
		pred := m.predictStandardized(row)
		absErr += math.Abs(pred - y[i])
		ssRes += (pred - y[i]) * (pred - y[i])
		ssTot += (y[i] - meanY) * (y[i] - meanY)
	}

	mae = absErr / float64(len(X))
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return mae, r2
}

// Predict scores one feature vector. The caller's feature names must match
// the artifact's exactly, in order.
func (m *Model) Predict(featureNames []string, x []float64) (float64, error) {
	if len(featureNames) != len(m.FeatureNames) {
		return 0, fmt.Errorf("model %s expects %d features, got %d", m.Version, len(m.FeatureNames), len(featureNames))
	}
	for i, name := range featureNames {
		if name != m.FeatureNames[i] {
			return 0, fmt.Errorf("model %s feature mismatch at %d: artifact has %q, caller has %q", m.Version, i, m.FeatureNames[i], name)
		}
	}
	if len(x) != len(m.FeatureNames) {
		return 0, fmt.Errorf("model %s expects %d values, got %d", m.Version, len(m.FeatureNames), len(x))
	}
	return m.predictStandardized(x), nil
}

// Save writes the model artifact as model_<version>.json under dir
func (m *Model) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create model dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("model_%s.json", m.Version))
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write model artifact: %w", err)
	}

	log.Info().Str("path", path).Msg("Model artifact saved")
	return path, nil
}

// Load reads one model artifact
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if len(m.FeatureNames) == 0 || len(m.Weights) != len(m.FeatureNames) {
		return nil, fmt.Errorf("model artifact %s is malformed", path)
	}
	return &m, nil
}

// LoadLatest loads the newest artifact in dir. Versions are timestamps so
// lexical order is chronological.
func LoadLatest(dir string) (*Model, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "model_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan model dir: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no model artifacts in %s", dir)
	}

	sort.Strings(matches)
	return Load(matches[len(matches)-1])
}
