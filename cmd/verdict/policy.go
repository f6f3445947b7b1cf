package main

import (
	"flag"
	"fmt"
	"io"

	coreerrors "github.com/davidahmann/verdict/core/errors"
	"github.com/davidahmann/verdict/core/pipeline"
)

type thresholdPair struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type policyShowOutput struct {
	OK           bool          `json:"ok"`
	RiskAppetite string        `json:"risk_appetite"`
	Stage        string        `json:"stage,omitempty"`
	Base         thresholdPair `json:"base"`
	Effective    thresholdPair `json:"effective"`
}

// runPolicy previews the governance posture: which thresholds a decide run
// would apply for a given appetite and project stage, without needing a run
// request.
func runPolicy(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Show the effective classification thresholds for a risk appetite and project stage.")
	}
	if len(arguments) < 1 || arguments[0] != "show" {
		return writeErrorOutput(
			coreerrors.Wrap(fmt.Errorf("unknown policy subcommand"), coreerrors.CategoryInvalidInput, "subcommand_unknown", "use verdict policy show"),
			exitInvalidInput,
		)
	}

	flagSet := flag.NewFlagSet("policy show", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var flags engineFlags
	var appetite string
	var stage string
	registerEngineFlags(flagSet, &flags)
	flagSet.StringVar(&appetite, "appetite", "", "risk appetite: low, medium or high")
	flagSet.StringVar(&stage, "stage", "", "project stage, e.g. concept or operation")

	if err := flagSet.Parse(arguments[1:]); err != nil {
		return writeErrorOutput(coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "invalid_flags", "run verdict policy show --appetite <level>"), exitInvalidInput)
	}

	configuration, err := loadConfiguration(flags)
	if err != nil {
		return writeErrorOutput(err, exitConfigInvalid)
	}

	low := flags.low
	if low == 0 {
		low = configuration.Engine.BaseLowThreshold
	}
	high := flags.high
	if high == 0 {
		high = configuration.Engine.BaseHighThreshold
	}

	classifier, err := pipeline.NewPolicyClassifier(low, high, appetite, stage)
	if err != nil {
		return writeErrorOutput(err, exitConfigInvalid)
	}

	policy := classifier.Policy()
	effective := classifier.EffectiveThresholds()
	return writeJSONOutput(policyShowOutput{
		OK:           true,
		RiskAppetite: policy.RiskAppetite,
		Stage:        policy.Stage,
		Base:         thresholdPair{Low: low, High: high},
		Effective:    thresholdPair{Low: effective.Low, High: effective.High},
	})
}
