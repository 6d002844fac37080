// Command vaultlint statically analyzes a single smart-contract source
// file and reports suspected access-control, account-ownership,
// slippage-check, and rent-exemption defects.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vaultlint/vaultlint/pkg/config"
	"github.com/vaultlint/vaultlint/pkg/diag"
	"github.com/vaultlint/vaultlint/pkg/engine"
	"github.com/vaultlint/vaultlint/pkg/report"
	"github.com/vaultlint/vaultlint/pkg/rules"
	"github.com/vaultlint/vaultlint/pkg/vocab"

	// Rule packages self-register into pkg/rules's global registry on
	// import. pkg/engine calls the four rules directly in fixed order
	// and does not depend on this registration; it exists only so the
	// `rules` and `explain` subcommands have something to list without
	// hand-maintaining a second catalogue.
	_ "github.com/vaultlint/vaultlint/pkg/rules/accesscontrol"
	_ "github.com/vaultlint/vaultlint/pkg/rules/ownership"
	_ "github.com/vaultlint/vaultlint/pkg/rules/rent"
	_ "github.com/vaultlint/vaultlint/pkg/rules/slippage"
)

var version = "dev"

// CLI flags
var (
	flagOutput  string
	flagDebug   bool
	flagNoColor bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "vaultlint <contract_file.rs>",
	Short:   "vaultlint finds access-control, ownership, slippage, and rent-exemption defects in contract source",
	Version: version,
	// SilenceUsage/SilenceErrors: the usage line is written by hand in
	// runAnalyze so its exact wording does not depend on cobra's own
	// usage-string formatting.
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE:          runAnalyze,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the four defect rules vaultlint runs",
	RunE:  runRules,
}

var explainCmd = &cobra.Command{
	Use:   "explain <rule>",
	Short: "Explain a specific rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplain,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "console", "Output format (console, console-verbose, json)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug diagnostics on stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(explainCmd)
}

// runAnalyze is the default entry point: one positional argument, the
// contract file path. Arguments after the first are ignored.
func runAnalyze(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s <contract_file.rs>\n", programName())
		os.Exit(1)
	}
	path := args[0]

	logger := diag.New(flagDebug)
	defer logger.Stage("analyze " + path)()

	vocabulary := vocab.Default()
	if overrides, err := config.LoadFromDir(filepath.Dir(path)); err != nil {
		logger.Debugf("config: %v (using defaults)", err)
	} else if overrides != nil {
		vocabulary = overrides.Apply(vocabulary)
		logger.Debugf("config: loaded overrides from %s", filepath.Dir(path))
	}

	findings := engine.AnalyzeFile(path, vocabulary)
	logger.Debugf("engine: %d finding(s)", len(findings))

	// The tool reports; it never fails the build on findings. Only an
	// output-writing error is ever surfaced as a non-zero exit.
	return writeReport(findings)
}

func writeReport(findings report.List) error {
	switch flagOutput {
	case "json":
		return report.NewJSONWriter(os.Stdout).Write(findings)
	case "console-verbose":
		return report.NewConsoleWriter().
			WithWriter(os.Stdout).
			WithNoColor(flagNoColor).
			WithVerbose(true).
			Write(findings)
	default:
		return report.NewConsoleWriter().
			WithWriter(os.Stdout).
			WithNoColor(flagNoColor).
			Write(findings)
	}
}

func runRules(cmd *cobra.Command, args []string) error {
	all := rules.All()
	if len(all) == 0 {
		fmt.Println("No rules registered.")
		return nil
	}

	fmt.Println("AVAILABLE RULES")
	fmt.Println("===============")
	fmt.Println()
	for _, r := range all {
		info := rules.GetInfo(r)
		fmt.Printf("  %-16s %s [%s]\n", info.Name, info.Description, info.Severity.Label())
	}
	fmt.Printf("\nTotal: %d rules\n", len(all))
	return nil
}

func runExplain(cmd *cobra.Command, args []string) error {
	name := args[0]
	rule, ok := rules.Get(name)
	if !ok {
		return fmt.Errorf("unknown rule: %s", name)
	}

	info := rules.GetInfo(rule)
	fmt.Printf("RULE: %s\n", info.Name)
	fmt.Printf("SEVERITY: %s\n", info.Severity.Label())
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Printf("  %s\n", info.Description)
	return nil
}

func programName() string {
	return filepath.Base(os.Args[0])
}
