package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pubquiz-service/internal/app"
	"pubquiz-service/internal/config"
	"pubquiz-service/internal/domain"
	"pubquiz-service/internal/infra/watch"
	transport "pubquiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that runs the scoring server.
func NewServeCmd(configPath, quizDir, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the quiz API and watch the quiz directory for new rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *quizDir, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, dirFlag, portFlag string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, service, err := buildService(configPath, dirFlag, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := service.Rescan(ctx); err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewMux(service, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting pubquiz server", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Watch.Enabled {
		watcher := watch.New(
			cfg.Quiz.Dir,
			config.Duration(cfg.Watch.Debounce, 500*time.Millisecond),
			func(ctx context.Context) {
				if _, err := service.Rescan(ctx); err != nil {
					logger.Warn("rescan failed", zap.Error(err))
				}
			},
			logger,
		)
		group.Go(func() error {
			err := watcher.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// buildService loads config and constructs the quiz service. The --dir
// flag overrides the configured quiz directory; a missing config file
// is fine when the directory comes from the flag.
func buildService(configPath, dirFlag string, logger *zap.Logger) (config.Config, *app.QuizService, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		if dirFlag == "" {
			return cfg, nil, err
		}
		cfg = config.Config{}
	}
	if dirFlag != "" {
		cfg.Quiz.Dir = dirFlag
	}
	if cfg.Quiz.Dir == "" {
		return cfg, nil, errors.New("no quiz directory: set quiz.dir in config or pass --dir")
	}

	cols := domain.DefaultColumns()
	if cfg.Quiz.TeamIDColumn > 0 {
		cols.TeamID = cfg.Quiz.TeamIDColumn
	}
	if cfg.Quiz.TeamNameColumn > 0 {
		cols.TeamName = cfg.Quiz.TeamNameColumn
	}

	return cfg, app.NewQuizService(cfg.Quiz.Dir, cols, logger), nil
}
