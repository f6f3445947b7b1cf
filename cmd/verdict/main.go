package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

const (
	exitOK              = 0
	exitInvalidInput    = 2
	exitVerifyFailed    = 3
	exitConfigInvalid   = 4
	exitInternalFailure = 5
)

var currentCorrelationID string

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	currentCorrelationID = uuid.NewString()
	defer func() { currentCorrelationID = "" }()

	if len(arguments) < 2 {
		fmt.Println("verdict", version)
		return exitOK
	}
	if arguments[1] == "--explain" {
		return writeExplain("Verdict is an offline CLI that turns raw risk indicator scores into a governed accept/condition/reject decision with rationale, required actions, and a reproducible audit fingerprint.")
	}

	switch arguments[1] {
	case "decide":
		return runDecide(arguments[2:])
	case "verify":
		return runVerify(arguments[2:])
	case "policy":
		return runPolicy(arguments[2:])
	case "version", "--version", "-v":
		if hasExplainFlag(arguments[2:]) {
			return writeExplain("Print the CLI version.")
		}
		fmt.Println("verdict", version)
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

func hasExplainFlag(arguments []string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == "--explain" {
			return true
		}
	}
	return false
}

func writeExplain(text string) int {
	fmt.Println(text)
	return exitOK
}

func printUsage() {
	fmt.Println("Usage: verdict <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  decide   Run the decision pipeline over a run request file")
	fmt.Println("  verify   Replay a run request and check a recorded fingerprint")
	fmt.Println("  policy   Inspect effective policy-scaled thresholds")
	fmt.Println("  version  Print the CLI version")
}
