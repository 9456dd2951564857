package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config controla el pipeline de exportación de trazas.
type Config struct {
	ServiceName  string
	OTLPEndpoint string
	Console      bool
}

// Setup inicializa el TracerProvider con exportador OTLP por HTTP (y
// opcionalmente uno de consola) detrás de batch processors. Devuelve el
// provider para obtener tracers explícitos y para el shutdown al salir.
func Setup(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
	))
	if err != nil {
		return nil, err
	}

	otlpOpts := []otlptracehttp.Option{}
	if cfg.OTLPEndpoint != "" {
		otlpOpts = append(otlpOpts, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
	}
	otlpExporter, err := otlptracehttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(otlpExporter),
	}

	if cfg.Console {
		consoleExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(consoleExporter))
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)

	// Registrado como global para librerías instrumentadas; el código propio
	// recibe el provider en forma explícita.
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}
