package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/client"
	"taskboard/internal/config"
	"taskboard/internal/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errNoToken = errors.New("no token: pass --token or set TASKBOARD_TOKEN")

// app holds what every subcommand shares once flags are parsed.
type app struct {
	apiURL  string
	token   string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "board",
		Short:         "Task board client",
		Long:          "board talks to the task board API: manage tasks from the shell or drag them around in an interactive board.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if !cmd.Flags().Changed("api") {
				a.apiURL = cfg.APIURL
			}
			if !cmd.Flags().Changed("token") {
				a.token = cfg.APIToken
			}
			if !cmd.Flags().Changed("timeout") {
				a.timeout = cfg.PersistTimeout
			}
			a.out = cmd.OutOrStdout()

			// ui рисует в терминал, поэтому логи только в verbose режиме
			if !a.verbose {
				return nil
			}
			zc := zap.NewDevelopmentConfig()
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			zc.OutputPaths = []string{"stderr"}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (default $API_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (default $TASKBOARD_TOKEN)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", reconcile.DefaultTimeout, "timeout for each API call")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newRmCmd(a),
		newMoveCmd(a),
		newUICmd(a),
	)
	return root
}

func (a *app) client() *client.Client {
	return client.New(a.apiURL)
}

func (a *app) session() (client.Session, error) {
	if a.token == "" {
		return client.Session{}, errNoToken
	}
	return client.Session{Token: a.token}, nil
}

// loadBoard fetches the user's tasks into a fresh store.
func (a *app) loadBoard(ctx context.Context) (*board.Store, *reconcile.Reconciler, error) {
	sess, err := a.session()
	if err != nil {
		return nil, nil, err
	}
	store := board.NewStore()
	rec := reconcile.New(store, a.client(), sess,
		reconcile.WithTimeout(a.timeout),
		reconcile.WithLogger(a.logger),
	)
	if err := rec.Refetch(ctx); err != nil {
		return nil, nil, errors.New(rec.Message())
	}
	return store, rec, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
