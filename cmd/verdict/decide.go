package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	coredecision "github.com/davidahmann/verdict/core/decision"
	coreerrors "github.com/davidahmann/verdict/core/errors"
	"github.com/davidahmann/verdict/core/fsx"
	"github.com/davidahmann/verdict/core/pipeline"
	"github.com/davidahmann/verdict/core/projectconfig"
	schemadecision "github.com/davidahmann/verdict/core/schema/v1/decision"
	"github.com/davidahmann/verdict/core/schema/validate"
	"github.com/google/uuid"
)

type engineFlags struct {
	configPath    string
	disableConfig bool
	fixed         bool
	low           float64
	high          float64
	topN          int
	scorer        string
	noAudit       bool
}

func registerEngineFlags(flagSet *flag.FlagSet, flags *engineFlags) {
	flagSet.StringVar(&flags.configPath, "config", projectconfig.DefaultPath, "path to project config yaml")
	flagSet.BoolVar(&flags.disableConfig, "no-config", false, "ignore the project config file")
	flagSet.BoolVar(&flags.fixed, "fixed", false, "use fixed thresholds instead of policy-aware scaling")
	flagSet.Float64Var(&flags.low, "low", 0, "base low threshold (default from config)")
	flagSet.Float64Var(&flags.high, "high", 0, "base high threshold (default from config)")
	flagSet.IntVar(&flags.topN, "top-n", 0, "top contributors per domain (default from config)")
	flagSet.StringVar(&flags.scorer, "scorer", "basic", "scoring strategy: basic or responses")
	flagSet.BoolVar(&flags.noAudit, "no-audit", false, "skip audit trail and fingerprinting")
}

func runDecide(arguments []string) int {
	if hasExplainFlag(arguments) {
		return writeExplain("Run the staged decision pipeline over a run request file and write the decision record to stdout.")
	}
	flagSet := flag.NewFlagSet("decide", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var flags engineFlags
	var inputPath string
	var outPath string
	registerEngineFlags(flagSet, &flags)
	flagSet.StringVar(&inputPath, "input", "", "path to run request json")
	flagSet.StringVar(&outPath, "out", "", "optional path for the decision record")

	if err := flagSet.Parse(arguments); err != nil {
		return writeErrorOutput(coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "invalid_flags", "run verdict decide with --input <run.json>"), exitInvalidInput)
	}

	startedAt := time.Now()

	configuration, err := loadConfiguration(flags)
	if err != nil {
		return writeErrorOutput(err, exitConfigInvalid)
	}
	if outPath == "" {
		outPath = configuration.Decide.Out
	}

	request, err := loadRunRequest(inputPath)
	if err != nil {
		return writeErrorOutput(err, exitInvalidInput)
	}
	if request.Context.DecisionID == "" {
		request.Context.DecisionID = uuid.NewString()
	}

	engine, err := buildEngine(flags, request.Context, configuration)
	if err != nil {
		return writeErrorOutput(err, exitConfigInvalid)
	}

	output, err := engine.Run(request.Context, request.Payload)
	if err != nil {
		return writeErrorOutput(err, exitInternalFailure)
	}

	record := schemadecision.FromOutput(output, version, time.Now())

	if outPath != "" {
		encoded, marshalErr := json.MarshalIndent(record, "", "  ")
		if marshalErr != nil {
			return writeErrorOutput(coreerrors.Wrap(marshalErr, coreerrors.CategoryInternalFailure, "encode_failed", "report this as a bug"), exitInternalFailure)
		}
		if writeErr := fsx.WriteFileAtomic(outPath, append(encoded, '\n'), 0o600); writeErr != nil {
			return writeErrorOutput(coreerrors.Wrap(writeErr, coreerrors.CategoryIOFailure, "output_write_failed", "check the --out directory exists and is writable"), exitInternalFailure)
		}
	}

	writeDecisionEvent(configuration, record, time.Since(startedAt))
	return writeJSONOutput(record)
}

func loadConfiguration(flags engineFlags) (projectconfig.Config, error) {
	if flags.disableConfig {
		return projectconfig.Default(), nil
	}
	// The default path may legitimately be absent; an explicit path must exist.
	allowMissing := flags.configPath == projectconfig.DefaultPath
	configuration, err := projectconfig.Load(flags.configPath, allowMissing)
	if err != nil {
		return projectconfig.Config{}, coreerrors.Wrap(err, coreerrors.CategoryConfigInvalid, "config_invalid", "fix or remove "+flags.configPath)
	}
	return configuration, nil
}

func loadRunRequest(path string) (schemadecision.RunRequest, error) {
	if strings.TrimSpace(path) == "" {
		return schemadecision.RunRequest{}, coreerrors.Wrap(fmt.Errorf("--input is required"), coreerrors.CategoryInvalidInput, "input_missing", "pass --input <run.json>")
	}
	// #nosec G304 -- request path is explicit local user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return schemadecision.RunRequest{}, coreerrors.Wrap(fmt.Errorf("read run request: %w", err), coreerrors.CategoryInvalidInput, "input_unreadable", "check the --input path")
	}
	if err := validate.ValidateRunRequest(data); err != nil {
		return schemadecision.RunRequest{}, coreerrors.Wrap(err, coreerrors.CategoryInvalidInput, "input_schema_invalid", "the run request must carry context and payload objects")
	}
	var request schemadecision.RunRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return schemadecision.RunRequest{}, coreerrors.Wrap(fmt.Errorf("decode run request: %w", err), coreerrors.CategoryInvalidInput, "input_decode_failed", "check the run request JSON types")
	}
	return request, nil
}

func buildEngine(flags engineFlags, ctx coredecision.Context, configuration projectconfig.Config) (coredecision.Engine, error) {
	low := flags.low
	if low == 0 {
		low = configuration.Engine.BaseLowThreshold
	}
	high := flags.high
	if high == 0 {
		high = configuration.Engine.BaseHighThreshold
	}
	topN := flags.topN
	if topN <= 0 {
		topN = configuration.Engine.TopN
	}

	var classifier coredecision.Classifier
	var err error
	if flags.fixed {
		classifier, err = pipeline.NewFixedClassifier(low, high)
	} else {
		classifier, err = pipeline.NewPolicyClassifier(low, high, ctx.RiskAppetite, ctx.Stage)
	}
	if err != nil {
		return coredecision.Engine{}, err
	}

	var scorer coredecision.Scorer
	switch strings.ToLower(strings.TrimSpace(flags.scorer)) {
	case "", "basic":
		scorer = pipeline.BasicScorer{}
	case "responses":
		responseScorer, scorerErr := pipeline.NewResponseScorer(1, 5)
		if scorerErr != nil {
			return coredecision.Engine{}, coreerrors.Wrap(scorerErr, coreerrors.CategoryConfigInvalid, "scorer_invalid", "response scale bounds must be ordered")
		}
		scorer = responseScorer
	default:
		return coredecision.Engine{}, coreerrors.Wrap(fmt.Errorf("unknown scorer %q", flags.scorer), coreerrors.CategoryInvalidInput, "scorer_unknown", "use --scorer basic or --scorer responses")
	}

	engine := coredecision.Engine{
		Scorer:     scorer,
		Aggregator: pipeline.BasicAggregator{},
		Classifier: classifier,
		Rules:      pipeline.BasicRules{},
		Explainer:  pipeline.NewExplainer(topN),
	}
	if !flags.noAudit && !configuration.Decide.NoAudit {
		engine.Auditor = pipeline.NewAuditor(configuration.Engine.ModelRef)
	}
	return engine, nil
}
