// Package app holds the process plumbing the vectorbridge commands share:
// configuration loading, the common fx graph, start-up failure
// classification and the print-one-line-then-exit contract.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/dig"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/vectorbridge/internal/result"
	"github.com/Aleph-Alpha/vectorbridge/internal/telemetry"
	"github.com/Aleph-Alpha/vectorbridge/pkg/config"
	"github.com/Aleph-Alpha/vectorbridge/pkg/logger"
	"github.com/Aleph-Alpha/vectorbridge/pkg/metrics"
	"github.com/Aleph-Alpha/vectorbridge/pkg/minio"
	"github.com/Aleph-Alpha/vectorbridge/pkg/postgres"
	"github.com/Aleph-Alpha/vectorbridge/pkg/tracer"
	"github.com/Aleph-Alpha/vectorbridge/pkg/vectordb"
)

const stopTimeout = 15 * time.Second

// Defaults adjusts a command's defaults before the config file and the
// environment are applied.
type Defaults func(*config.Config)

// Quiet turns logging off unless ZAP_LOGGER_LEVEL or the config file asks
// for a level. Callers of vectorbridge read stdout and stderr as one stream.
func Quiet(c *config.Config) {
	c.Logger.Level = logger.Off
}

// LoadConfig loads the configuration of the named command. A bad
// configuration is an invalid_argument failure.
func LoadConfig(name string, defaults ...Defaults) (config.Config, error) {
	base := config.DefaultConfig()
	base.Driver = BuiltinDriver
	for _, apply := range defaults {
		apply(&base)
	}
	cfg, err := config.LoadFrom(base)
	if err != nil {
		return cfg, vectordb.NewError("load_config", vectordb.ErrInvalidArgument, err)
	}
	return cfg.WithServiceName(name), nil
}

// Options is the part of the fx graph every command shares: config split,
// logger, metrics, tracer and telemetry.
func Options(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		config.FXModule,
		logger.FXModule,
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Zap}
			zl.UseLogLevel(zapcore.DebugLevel)
			return zl
		}),
		fx.Provide(
			func(l *logger.Logger) minio.Logger { return l },
			func(l *logger.Logger) postgres.Logger { return l },
			func(l *logger.Logger) metrics.Logger { return l },
			func(l *logger.Logger) tracer.Logger { return l },
		),
		metrics.FXModule,
		tracer.FXModule,
		telemetry.FXModule,
	)
}

// StartError classifies a failure to build or start the graph. Errors that
// already carry a kind keep it; anything else means a dependency could not
// be reached.
func StartError(err error) error {
	root := dig.RootCause(err)
	if vectordb.KindOf(root) != vectordb.KindInternal {
		return root
	}
	return vectordb.NewError("connect", vectordb.ErrUnavailable, root)
}

// Command is one invocation of a vectorbridge binary.
type Command struct {
	// Options adds the command's modules and its fx.Populate targets.
	Options func(cfg config.Config) fx.Option

	// OnStartFailure shapes the result when the graph cannot start.
	// Defaults to result.Failure.
	OnStartFailure func(err error) result.Result

	// Run performs the operation once the graph is started.
	Run func(ctx context.Context) result.Result
}

// Execute starts the graph, runs the command, prints exactly one result
// line to out, stops the graph and returns the process exit code.
func Execute(ctx context.Context, out io.Writer, cfg config.Config, cmd Command) int {
	res, stop := execute(ctx, cfg, cmd)
	if err := result.Emit(out, res); err != nil {
		fmt.Fprintf(os.Stderr, "writing result: %v\n", err)
	}
	stop()
	return res.ExitCode()
}

// Fail prints a failure that happened before any graph was built.
func Fail(out io.Writer, err error) int {
	res := result.Failure(err)
	if emitErr := result.Emit(out, res); emitErr != nil {
		fmt.Fprintf(os.Stderr, "writing result: %v\n", emitErr)
	}
	return res.ExitCode()
}

func execute(ctx context.Context, cfg config.Config, cmd Command) (result.Result, func()) {
	onStartFailure := cmd.OnStartFailure
	if onStartFailure == nil {
		onStartFailure = result.Failure
	}

	var (
		log *logger.Logger
		tr  *tracer.Tracer
	)
	application := fx.New(
		Options(cfg),
		cmd.Options(cfg),
		fx.Populate(&log, &tr),
	)
	if err := application.Err(); err != nil {
		return onStartFailure(StartError(err)), func() {}
	}

	startCtx, cancel := context.WithTimeout(ctx, application.StartTimeout())
	defer cancel()
	if err := application.Start(startCtx); err != nil {
		return onStartFailure(StartError(err)), func() {}
	}

	stop := func() {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
		defer cancel()
		if err := application.Stop(stopCtx); err != nil {
			log.Warn("shutdown did not complete cleanly", err)
		}
	}

	ctx = tr.ContextFromTraceParent(ctx, os.Getenv(tracer.TraceParentEnv))
	return cmd.Run(ctx), stop
}
