package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records lead funnel instruments through OpenTelemetry.
// A nil *Observability is a valid no-op recorder.
type Observability struct {
	meterProvider *metric.MeterProvider
	submissions   otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
	stepChecks    otelmetric.Int64Counter
}

// New exports through the Prometheus default registry so the instruments
// appear on /metrics next to the client_golang ones.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, err
	}
	return NewWithReader(serviceName, exporter)
}

func NewWithReader(serviceName string, reader metric.Reader) (*Observability, error) {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	submissions, err := meter.Int64Counter(
		"leads.submitted",
		otelmetric.WithDescription("Lead submissions by form and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"leads.submit.duration",
		otelmetric.WithDescription("Lead submission processing time"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	stepChecks, err := meter.Int64Counter(
		"forms.step.validated",
		otelmetric.WithDescription("Wizard step validations by form and result"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider: provider,
		submissions:   submissions,
		duration:      duration,
		stepChecks:    stepChecks,
	}, nil
}

func (o *Observability) RecordSubmission(ctx context.Context, formType, outcome string, elapsed time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("form_type", formType),
		attribute.String("outcome", outcome),
	)
	o.submissions.Add(ctx, 1, attrs)
	o.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

func (o *Observability) RecordStepValidation(ctx context.Context, formType string, step int, canProceed bool) {
	if o == nil {
		return
	}
	o.stepChecks.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("form_type", formType),
		attribute.Int("step", step),
		attribute.Bool("can_proceed", canProceed),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
