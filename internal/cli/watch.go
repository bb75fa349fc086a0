package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/formz"
)

func newWatchCommand(opts *options) *cobra.Command {
	var settled bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch field files and print the form state as it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			return runWatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, settled)
		},
	}
	cmd.Flags().BoolVar(&settled, "settled", false, "only print states with no validation in flight")
	return cmd
}

// change is one line of watch output.
type change struct {
	Event  string          `json:"event"`
	Source string          `json:"source,omitempty"`
	State  formz.HostProps `json:"state"`
}

func runWatch(ctx context.Context, stdout, stderr io.Writer, cfg *Config, settled bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	host := newHost(cfg)
	defer host.Close()

	var mu sync.Mutex
	diagnose := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(stderr, format+"\n", args...)
	}

	hostID := host.ID()
	failed := capitan.Hook(formz.ValidationFailed, func(_ context.Context, e *capitan.Event) {
		if id, _ := formz.KeyHost.From(e); id != hostID {
			return
		}
		source, _ := formz.KeySource.From(e)
		msg, _ := formz.KeyError.From(e)
		diagnose("validation of %s failed: %s", source, msg)
	})
	defer failed.Close()

	undecodable := capitan.Hook(formz.WatcherDecodeFailed, func(_ context.Context, e *capitan.Event) {
		if id, _ := formz.KeyHost.From(e); id != hostID {
			return
		}
		source, _ := formz.KeySource.From(e)
		msg, _ := formz.KeyError.From(e)
		diagnose("cannot decode %s: %s", source, msg)
	})
	defer undecodable.Close()

	report := func(p formz.HostProps, event formz.Event, issuer string) {
		if event != formz.EventUpdate && event != formz.EventValidate {
			return
		}
		if settled && p.Busy {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := writeJSON(stdout, change{Event: event.String(), Source: issuer, State: p}); err != nil {
			fmt.Fprintln(stderr, "failed to write state:", err)
		}
	}
	if _, err := host.Listen(formz.EventAny, report); err != nil {
		return err
	}

	for _, f := range cfg.Fields {
		var sourceOpts []formz.SourceOption
		if f.Debounce > 0 {
			sourceOpts = append(sourceOpts, formz.DebounceFor(f.Debounce))
		} else {
			sourceOpts = append(sourceOpts, formz.Debounced())
		}
		if _, err := host.AddSource(f.Name, f.Default, sourceOpts...); err != nil {
			return err
		}
	}
	host.Init(nil)

	for _, f := range cfg.Fields {
		if f.File == "" {
			continue
		}
		if err := host.Bind(ctx, f.Name, formz.NewFileWatcher(f.File), formz.CodecFor(f.File)); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}

	<-ctx.Done()
	return nil
}
