package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mbuckley/pairscale/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a pairscale.yaml starter configuration with the default sweep
parameters. With --interactive the values are prompted for instead.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolP("interactive", "i", false, "prompt for the configuration values")
	initCmd.Flags().String("path", config.DefaultConfigFile, "where to write the config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")

	spec := config.Default()
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := promptSpec(spec); err != nil {
			return err
		}
	}

	if err := config.WriteDefault(spec, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// promptSpec fills spec from an interactive form.
func promptSpec(spec *config.BenchSpec) error {
	minStr := strconv.Itoa(spec.MinThreads)
	maxStr := strconv.Itoa(spec.MaxThreads)
	trialsStr := strconv.Itoa(spec.TrialsPerSetting)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Workload command template").
				Description("Use {binfile} and {threads} placeholders").
				Value(&spec.CommandTemplate).
				Validate(func(s string) error {
					if !strings.Contains(s, "{binfile}") || !strings.Contains(s, "{threads}") {
						return fmt.Errorf("template needs {binfile} and {threads}")
					}
					return nil
				}),
			huh.NewInput().
				Title("Bin-edge file").
				Value(&spec.BinfilePath),
			huh.NewInput().
				Title("Sample store path").
				Value(&spec.StorePath),
			huh.NewInput().
				Title("Min threads").
				Value(&minStr).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Max threads").
				Value(&maxStr).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Trials per thread count").
				Description("At least 2; MAD is undefined on a single sample").
				Value(&trialsStr).
				Validate(validatePositiveInt),
			huh.NewConfirm().
				Title("Abort the sweep when a workload invocation fails?").
				Value(&spec.StrictWorkload),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("configuration aborted: %w", err)
	}

	spec.MinThreads, _ = strconv.Atoi(minStr)
	spec.MaxThreads, _ = strconv.Atoi(maxStr)
	spec.TrialsPerSetting, _ = strconv.Atoi(trialsStr)

	return spec.Validate()
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer")
	}
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}
