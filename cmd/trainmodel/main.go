// Command trainmodel fits a regression on the training CSV and saves the
// artifact. The holdout MAE and R2 are logged and stored in the artifact.
package main

import (
	"flag"

	"nhlfantasy/internal/config"
	"nhlfantasy/internal/features"
	"nhlfantasy/internal/ml"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()

	var in, modelDir string
	flag.StringVar(&in, "in", cfg.TrainingSetPath, "training CSV path")
	flag.StringVar(&modelDir, "model-dir", cfg.ModelDir, "artifact output directory")
	flag.Parse()

	X, y, err := features.ReadCSV(in)
	if err != nil {
		log.Fatal().Err(err).Str("path", in).Msg("Failed to read training set")
	}
	log.Info().Int("rows", len(X)).Msg("Training set loaded")

	model, err := ml.Train(features.FeatureNames, X, y, ml.TrainOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}

	path, err := model.Save(modelDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save model artifact")
	}

	log.Info().
		Str("version", model.Version).
		Str("path", path).
		Float64("mae", model.MAE).
		Float64("r2", model.R2).
		Msg("Model training complete")
}
