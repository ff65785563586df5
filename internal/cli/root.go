// Package cli implements the veriflow command line interface over the
// compliance state store.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veriflowhq/veriflow/internal/catalog"
	"github.com/veriflowhq/veriflow/internal/kv"
	"github.com/veriflowhq/veriflow/internal/remote"
	"github.com/veriflowhq/veriflow/internal/state"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	Database    string
	Backend     string // "sqlite" | "badger"
	Org         string
	Actor       string
	RemoteURL   string
	RemoteToken string
	Catalogs    []string // extra catalog files
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidBackends defines the allowed storage backends.
var ValidBackends = []string{"sqlite", "badger"}

// NewRootCommand creates the root command for the veriflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "veriflow",
		Short: "Veriflow compliance assessment engine",
		Long:  "Answer compliance controls, track evidence provenance, and reconcile with a remote store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !contains(ValidBackends, opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, ValidBackends)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "veriflow.db", "path to the local store")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "sqlite", "storage backend (sqlite|badger)")
	cmd.PersistentFlags().StringVar(&opts.Org, "org", "default", "organization id")
	cmd.PersistentFlags().StringVar(&opts.Actor, "actor", "", "identity recorded on responses")
	cmd.PersistentFlags().StringVar(&opts.RemoteURL, "remote-url", "", "remote sync base URL (empty = local-only)")
	cmd.PersistentFlags().StringVar(&opts.RemoteToken, "remote-token", "", "bearer token for the remote store")
	cmd.PersistentFlags().StringSliceVar(&opts.Catalogs, "catalog", nil, "additional control catalog files")

	cmd.AddCommand(NewAnswerCommand(opts))
	cmd.AddCommand(NewRemediationCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewGapsCommand(opts))
	cmd.AddCommand(NewControlsCommand(opts))
	cmd.AddCommand(NewCustomCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewOrgsCommand(opts))
	cmd.AddCommand(NewPullCommand(opts))

	return cmd
}

// configureLogging installs the process-wide slog handler.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// openKV opens the configured storage backend.
func openKV(opts *RootOptions) (kv.Store, error) {
	switch opts.Backend {
	case "badger":
		return kv.OpenBadger(kv.DefaultBadgerConfig(opts.Database))
	default:
		return kv.OpenSQLite(opts.Database)
	}
}

// openStore assembles the full state store: backend, catalog, optional
// remote. The returned close function releases the backend.
func openStore(opts *RootOptions) (*state.Store, func(), error) {
	cat, err := catalog.New()
	if err != nil {
		return nil, nil, fmt.Errorf("load built-in catalog: %w", err)
	}
	for _, path := range opts.Catalogs {
		if err := cat.LoadFile(path); err != nil {
			return nil, nil, err
		}
	}

	store, err := openKV(opts)
	if err != nil {
		return nil, nil, err
	}

	stateOpts := []state.Option{state.WithActor(opts.Actor)}
	if opts.RemoteURL != "" {
		client, err := remote.NewClient(opts.RemoteURL, opts.Org, opts.RemoteToken)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		stateOpts = append(stateOpts, state.WithRemote(client))
	}

	st, err := state.New(store, cat, opts.Org, stateOpts...)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	closer := func() {
		st.Flush()
		if err := store.Close(); err != nil {
			slog.Warn("error closing store", "error", err)
		}
	}
	return st, closer, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
