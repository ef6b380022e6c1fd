package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"orgmanager/internal/config"
	"orgmanager/internal/logger"
	"orgmanager/internal/server"
	"orgmanager/internal/version"

	"github.com/spf13/cobra"
)

// svcFn opens the services a command runs against and returns a func
// releasing them.
type svcFn func(ctx context.Context, configPath string) (*server.Services, func() error, error)

func openServices(ctx context.Context, configPath string) (*server.Services, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	store, err := server.OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	services, err := server.InitServices(cfg, store.Repositories, log)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return services, store.Close, nil
}

type cmdBuilder struct {
	svcFn svcFn
	out   io.Writer

	configPath string
	json       bool
}

func newRootCmd(fn svcFn, out io.Writer) *cobra.Command {
	b := &cmdBuilder{svcFn: fn, out: out}

	cmd := &cobra.Command{
		Use:           "orgctl",
		Short:         "Organization directory maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.PersistentFlags().StringVar(&b.configPath, "config", os.Getenv("CONFIG_PATH"), "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&b.json, "json", false, "Output JSON")

	cmd.AddCommand(
		b.cmdList(),
		b.cmdCreate(),
		b.cmdDelete(),
		b.cmdCreateAdmin(),
		b.cmdResetPassword(),
		b.cmdCopyCollection(),
		b.cmdVersion(),
	)
	return cmd
}

// withServices runs fn against freshly opened services.
func (b *cmdBuilder) withServices(cmd *cobra.Command, fn func(ctx context.Context, s *server.Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	services, closeFn, err := b.svcFn(ctx, b.configPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() { _ = closeFn() }()
	return fn(ctx, services)
}

func (b *cmdBuilder) printJSON(v interface{}) error {
	enc := json.NewEncoder(b.out)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}

func (b *cmdBuilder) table(headers ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(b.out, 0, 4, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	return w
}

func (b *cmdBuilder) cmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the orgctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if b.json {
				return b.printJSON(version.Get())
			}
			_, err := fmt.Fprintln(b.out, version.Get().String())
			return err
		},
	}
}
