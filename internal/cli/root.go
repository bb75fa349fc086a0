// Package cli implements the formz command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zoobzio/formz"
)

type options struct {
	configPath string
}

// NewRootCommand builds the formz command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "formz",
		Short: "Validate and watch file-backed form fields",
		Long: `formz aggregates named fields into one form state. Each field reads its
value from a file and is validated with a go-playground/validator rule.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "formz.yaml", "form config file")

	root.AddCommand(newCheckCommand(opts))
	root.AddCommand(newWatchCommand(opts))
	return root
}

// newHost creates a Host for cfg.
func newHost(cfg *Config, extra ...formz.Option) *formz.Host {
	opts := []formz.Option{
		formz.WithDebounce(cfg.Debounce),
		formz.WithValidator(formz.NewRuleValidator(cfg.Rules())),
		formz.WithValidationConcurrency(cfg.Concurrency),
		formz.WithErrorHistory(len(cfg.Fields)),
	}
	if cfg.ID != "" {
		opts = append(opts, formz.WithID(cfg.ID))
	}
	if cfg.filterSet {
		opts = append(opts, formz.WithFilterCriteria(cfg.Filter...))
	}
	return formz.New(append(opts, extra...)...)
}

// readField loads and decodes the file behind f.
func readField(f FieldConfig) (any, error) {
	data, err := os.ReadFile(f.File)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", f.Name, err)
	}
	var value any
	if err := formz.CodecFor(f.File).Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("field %q: failed to decode %s: %w", f.Name, f.File, err)
	}
	return value, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
