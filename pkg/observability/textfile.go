package observability

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ErrEmptyTextfilePath is returned when a textfile export has no target.
var ErrEmptyTextfilePath = errors.New("metrics textfile path is empty")

// TextfileExporter collects OTel instruments into a private Prometheus
// registry and writes them in the node_exporter textfile format.
type TextfileExporter struct {
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

// NewTextfileExporter creates an exporter with its own registry.
func NewTextfileExporter() (*TextfileExporter, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &TextfileExporter{registry: registry, reader: exporter}, nil
}

// Reader returns the metric reader to hand to Init.
func (te *TextfileExporter) Reader() sdkmetric.Reader {
	return te.reader
}

// Gatherer exposes the underlying registry.
func (te *TextfileExporter) Gatherer() prometheus.Gatherer {
	return te.registry
}

// WriteFile writes the current metric values to path atomically.
func (te *TextfileExporter) WriteFile(path string) error {
	if path == "" {
		return ErrEmptyTextfilePath
	}

	if err := prometheus.WriteToTextfile(path, te.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}
