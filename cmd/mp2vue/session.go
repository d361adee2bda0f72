package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/mp2vue/pkg/assets"
	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
	"github.com/Sumatoshi-tech/mp2vue/pkg/version"
)

// session bundles what a converting command sets up and tears down.
type session struct {
	providers   observability.Providers
	textfile    *observability.TextfileExporter
	metrics     *observability.ConversionMetrics
	engine      *convert.Engine
	metricsFile string
}

func newSession(cfg *config.Config, logOut io.Writer, mode observability.AppMode, projectRoot string) (*session, error) {
	sess := &session{metricsFile: cfg.Telemetry.MetricsFile}

	var readers []sdkmetric.Reader

	if sess.metricsFile != "" {
		textfile, err := observability.NewTextfileExporter()
		if err != nil {
			return nil, fmt.Errorf("metrics textfile: %w", err)
		}

		sess.textfile = textfile
		readers = append(readers, textfile.Reader())
	}

	providers, err := observability.InitWriter(observabilityConfig(cfg, mode), logOut, readers...)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	sess.providers = providers

	metrics, err := observability.NewConversionMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init metrics: %w", err), providers.Shutdown(context.Background()))
	}

	sess.metrics = metrics
	sess.engine = convert.NewEngine(engineOptions(cfg, providers.Logger, projectRoot))

	return sess, nil
}

// close writes the metrics textfile, then flushes telemetry.
func (sess *session) close(ctx context.Context) error {
	var writeErr error
	if sess.textfile != nil {
		writeErr = sess.textfile.WriteFile(sess.metricsFile)
	}

	return errors.Join(writeErr, sess.providers.Shutdown(ctx))
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obs := observability.DefaultConfig()

	obs.ServiceVersion = version.Get().Version
	obs.Environment = cfg.Telemetry.Environment
	obs.Mode = mode
	obs.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = cfg.Telemetry.OTLPHeaders
	obs.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obs.SampleRatio = cfg.Telemetry.SampleRatio
	obs.TraceVerbose = cfg.Telemetry.TraceVerbose
	obs.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obs.LogJSON = cfg.Logging.Format == "json"

	return obs
}

func engineOptions(cfg *config.Config, logger *slog.Logger, projectRoot string) convert.Options {
	return convert.Options{
		ResolveAsset:          assets.New(cfg.Convert.StaticDir).Resolve,
		Logger:                logger,
		ProjectRoot:           projectRoot,
		Platform:              cfg.Convert.Platform,
		RewriteAssetPaths:     cfg.Convert.RewriteAssetPaths,
		RenamePlatformKeyword: cfg.Convert.RenamePlatformKeyword,
		RepairAliasing:        cfg.Convert.RepairAliasing,
		HasVant:               cfg.Convert.HasVant,
	}
}
