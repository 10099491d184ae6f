package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"neurosym/cmd/neurosym/ui"
	"neurosym/internal/biometric"
	"neurosym/internal/coherence"
)

var analyzeFile string

// analyzeCmd scores a snapshot loaded from a YAML file
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a four-channel snapshot from a YAML file",
	Long: `analyze reads one signature per channel from a YAML file, computes the
composite coherence score and classification, and prints the pairwise
coherence matrix.

Example file:

  breath:   {frequency: 0.25, amplitude: 1.0, phase: 0.1, complexity: 0.5}
  heart:    {frequency: 1.2,  amplitude: 1.1, phase: 0.2, complexity: 0.55}
  movement: {frequency: 0.5,  amplitude: 0.9, phase: 0.15, complexity: 0.45}
  neural:   {frequency: 10.0, amplitude: 1.0, phase: 0.05, complexity: 0.6}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(analyzeFile)
		if err != nil {
			return err
		}

		engine := coherence.New(
			coherence.WithLogger(logger.Named("engine")),
			coherence.WithThresholds(cfg.Coherence),
		)
		analyzed := engine.Analyze(snap)

		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderAnalysis(analyzed))
		return nil
	},
}

// signatureSpec is the YAML shape of one channel signature.
type signatureSpec struct {
	Frequency   float64 `yaml:"frequency"`
	Amplitude   float64 `yaml:"amplitude"`
	Variability float64 `yaml:"variability"`
	Phase       float64 `yaml:"phase"`
	Complexity  float64 `yaml:"complexity"`
}

// snapshotSpec is the YAML shape of a full snapshot.
type snapshotSpec struct {
	Breath   signatureSpec `yaml:"breath"`
	Heart    signatureSpec `yaml:"heart"`
	Movement signatureSpec `yaml:"movement"`
	Neural   signatureSpec `yaml:"neural"`
}

func (s signatureSpec) signature(stream biometric.Stream, ts time.Time) biometric.Signature {
	return biometric.Signature{
		Stream:      stream,
		Frequency:   s.Frequency,
		Amplitude:   s.Amplitude,
		Variability: s.Variability,
		Phase:       s.Phase,
		Complexity:  s.Complexity,
		Timestamp:   ts,
	}
}

// loadSnapshot reads a snapshot from a YAML file. Missing channels are
// tolerated: their zero frequency simply degrades the affected pairwise
// terms to zero during analysis.
func loadSnapshot(path string) (coherence.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return coherence.Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var spec snapshotSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return coherence.Snapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	now := time.Now()
	return coherence.NewSnapshot(
		spec.Breath.signature(biometric.StreamBreath, now),
		spec.Heart.signature(biometric.StreamHeart, now),
		spec.Movement.signature(biometric.StreamMovement, now),
		spec.Neural.signature(biometric.StreamNeural, now),
		now,
	), nil
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "YAML file with one signature per channel")
	_ = analyzeCmd.MarkFlagRequired("file")
}
