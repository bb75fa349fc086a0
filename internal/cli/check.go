package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zoobzio/formz"
)

// ErrInvalid is returned by check when at least one field has errors.
var ErrInvalid = errors.New("form is invalid")

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every field once and print the form state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return runCheck(cmd, cfg)
		},
	}
}

func runCheck(cmd *cobra.Command, cfg *Config) error {
	host := newHost(cfg, formz.WithSyncMode())
	defer host.Close()

	values := make(map[string]any, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if _, err := host.AddSource(f.Name, f.Default); err != nil {
			return err
		}
		if f.File == "" {
			continue
		}
		v, err := readField(f)
		if err != nil {
			return err
		}
		values[f.Name] = v
	}

	host.Init(values)

	var result formz.HostProps
	if err := host.Validate(func(p formz.HostProps) { result = p }); err != nil {
		return err
	}

	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	for _, failure := range host.ErrorHistory() {
		fmt.Fprintln(cmd.ErrOrStderr(), failure)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%w: %d field(s) with errors", ErrInvalid, len(result.Errors))
	}
	return nil
}
