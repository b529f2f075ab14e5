// Command invctl runs equipment CSV imports and exports from the shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/inventory/internal/config"
	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/database"
	"github.com/JonMunkholm/inventory/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "invctl",
		Short:        "Equipment inventory import and export",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Overload()
		},
	}
	cmd.AddCommand(newPreviewCmd(), newImportCmd(), newExportCmd())
	return cmd
}

// session is an opened service plus whatever must be released with it.
type session struct {
	cfg     *config.Config
	service *core.Service
	close   func()
}

// openSession builds the service against PostgreSQL, or against an empty
// in-memory repository when offline is set. Logs go to stderr so stdout
// stays machine-readable.
func openSession(ctx context.Context, offline bool) (*session, error) {
	load := config.Load
	if offline {
		load = config.LoadOffline
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	opts := core.Options{
		MaxConcurrent:   cfg.Import.MaxConcurrent,
		MaxWait:         cfg.Import.MaxWaitTime,
		Timeout:         cfg.Import.Timeout,
		LookupCacheSize: cfg.Import.LookupCacheSize,
	}

	if offline {
		return &session{
			cfg:     cfg,
			service: core.NewService(core.NewMemoryRepository(), nil, opts),
			close:   func() {},
		}, nil
	}

	pool, err := database.Connect(ctx, database.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:     cfg,
		service: core.NewService(core.NewPGRepository(pool), nil, opts),
		close:   pool.Close,
	}, nil
}

// readCSVFile applies the same checks as an HTTP upload.
func readCSVFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("file too large: %d bytes exceeds %d", info.Size(), maxSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := core.CheckUpload(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// userError prefixes err with its user-facing code.
func userError(err error) error {
	msg := core.MapError(err)
	return fmt.Errorf("%s [%s]: %w", msg.Message, msg.Code, err)
}
