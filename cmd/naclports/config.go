package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/naclports/naclports/internal/domain/buildconfig"
	"github.com/naclports/naclports/internal/infrastructure/machine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type configOptions struct {
	common    CommonOptions
	arch      string
	toolchain string
	debug     bool
}

var configOpts = configOptions{
	common: DefaultCommonOptions("text", "json", "yaml"),
}

// configCmd prints the resolved build configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved build configuration",
	Long: `Resolve the (arch, toolchain, libc, debug) build configuration.

Explicit flags win over the TOOLCHAIN, NACL_ARCH and NACL_DEBUG environment
variables (or the toolchain, nacl_arch and nacl_debug keys of the config
file). Without either, the toolchain defaults to newlib and the arch is
derived from the toolchain or the host machine.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var debug *bool
		if cmd.Flags().Changed("debug") {
			debug = &configOpts.debug
		}
		return runConfigAction(cmd, &configOpts, debug, viperLookup, machine.Probe)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configOpts.common.RegisterFlags(configCmd)
	configCmd.Flags().StringVar(&configOpts.arch, "arch", "",
		"Target architecture ("+joinNames(buildconfig.Arches())+"); package spellings such as x86-64 are accepted")
	configCmd.Flags().StringVar(&configOpts.toolchain, "toolchain", "",
		"Toolchain ("+joinNames(buildconfig.Toolchains())+")")
	configCmd.Flags().BoolVar(&configOpts.debug, "debug", false, "Debug build")
}

// viperLookup reads resolver inputs through viper so that both the
// environment and the config file can supply them.
func viperLookup(key string) (string, bool) {
	if !viper.IsSet(key) {
		return "", false
	}
	return viper.GetString(key), true
}

func runConfigAction(
	cmd *cobra.Command,
	opts *configOptions,
	debug *bool,
	lookup buildconfig.LookupFunc,
	probe buildconfig.MachineProbe,
) error {
	if err := opts.common.ValidateFlags(); err != nil {
		return err
	}

	arch := opts.arch
	if a, err := buildconfig.ParsePkgArch(arch); err == nil {
		arch = string(a)
	}
	if opts.toolchain != "" && !buildconfig.Toolchain(opts.toolchain).IsKnown() {
		return fmt.Errorf("invalid toolchain: %s (valid: %s)", opts.toolchain, joinNames(buildconfig.Toolchains()))
	}

	cfg, err := buildconfig.Resolve(buildconfig.Options{
		Arch:      arch,
		Toolchain: opts.toolchain,
		Debug:     debug,
	}, buildconfig.EnvironmentFromLookup(lookup), probe)
	if err != nil {
		return err
	}

	writer, closeWriter, err := opts.common.OpenWriter(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeWriter() // Best-effort cleanup
	}()

	return writeValue(writer, opts.common.Format, cfg.Summarize(), cfg.String())
}

func joinNames[T ~string](names []T) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return strings.Join(out, ", ")
}

// writeValue renders v as json or yaml, or writes text for the text format.
func writeValue(w io.Writer, format string, v any, text string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, text)
		return err
	}
}
