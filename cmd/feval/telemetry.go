package main

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/vito/feval/pkg/feval"
)

// telemetry records the spans and logs of a run as OTLP requests, one JSON
// object per line.
type telemetry struct {
	traces *sdktrace.TracerProvider
	logs   *sdklog.LoggerProvider
}

func newTelemetry(w io.Writer) *telemetry {
	res := resource.NewSchemaless(attribute.String("service.name", "feval"))
	exp := &otlpFileExporter{w: w, res: res}
	return &telemetry{
		traces: sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exp),
			sdktrace.WithResource(res),
		),
		logs: sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)),
			sdklog.WithResource(res),
		),
	}
}

// Install makes the tracer provider global, so feval's spans reach it.
func (tel *telemetry) Install() {
	otel.SetTracerProvider(tel.traces)
}

// Handler wraps next so every record it handles is also emitted as an OTLP
// log, correlated with the span in its context.
func (tel *telemetry) Handler(next slog.Handler) slog.Handler {
	return &otelHandler{
		next:   next,
		logger: tel.logs.Logger(feval.InstrumentationName),
	}
}

func (tel *telemetry) Shutdown(ctx context.Context) error {
	err := tel.traces.Shutdown(ctx)
	if lerr := tel.logs.Shutdown(ctx); err == nil {
		err = lerr
	}
	return err
}

type otlpFileExporter struct {
	mu  sync.Mutex
	w   io.Writer
	res *resource.Resource
}

var _ sdktrace.SpanExporter = (*otlpFileExporter)(nil)
var _ sdklog.Exporter = (*otlpFileExporter)(nil)

func (e *otlpFileExporter) write(msg proto.Message) error {
	payload, err := protojson.Marshal(msg)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(payload); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *otlpFileExporter) resource() *resourcepb.Resource {
	return &resourcepb.Resource{Attributes: attrsToPB(e.res.Attributes())}
}

func (e *otlpFileExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}
	scopes := map[string]*tracepb.ScopeSpans{}
	var order []*tracepb.ScopeSpans
	for _, s := range spans {
		name := s.InstrumentationScope().Name
		ss, ok := scopes[name]
		if !ok {
			ss = &tracepb.ScopeSpans{Scope: &commonpb.InstrumentationScope{Name: name}}
			scopes[name] = ss
			order = append(order, ss)
		}
		ss.Spans = append(ss.Spans, spanToPB(s))
	}
	return e.write(&coltracepb.ExportTraceServiceRequest{
		ResourceSpans: []*tracepb.ResourceSpans{{
			Resource:   e.resource(),
			ScopeSpans: order,
		}},
	})
}

func (e *otlpFileExporter) Export(ctx context.Context, records []sdklog.Record) error {
	if len(records) == 0 {
		return nil
	}
	pbs := make([]*logspb.LogRecord, len(records))
	for i := range records {
		pbs[i] = logToPB(&records[i])
	}
	return e.write(&collogspb.ExportLogsServiceRequest{
		ResourceLogs: []*logspb.ResourceLogs{{
			Resource: e.resource(),
			ScopeLogs: []*logspb.ScopeLogs{{
				Scope:      &commonpb.InstrumentationScope{Name: feval.InstrumentationName},
				LogRecords: pbs,
			}},
		}},
	})
}

func (e *otlpFileExporter) ForceFlush(ctx context.Context) error { return nil }
func (e *otlpFileExporter) Shutdown(ctx context.Context) error   { return nil }

func spanToPB(s sdktrace.ReadOnlySpan) *tracepb.Span {
	sc := s.SpanContext()
	traceID, spanID := sc.TraceID(), sc.SpanID()
	pb := &tracepb.Span{
		TraceId:           traceID[:],
		SpanId:            spanID[:],
		Name:              s.Name(),
		Kind:              tracepb.Span_SPAN_KIND_INTERNAL,
		StartTimeUnixNano: uint64(s.StartTime().UnixNano()),
		EndTimeUnixNano:   uint64(s.EndTime().UnixNano()),
		Attributes:        attrsToPB(s.Attributes()),
	}
	if parent := s.Parent(); parent.IsValid() {
		parentID := parent.SpanID()
		pb.ParentSpanId = parentID[:]
	}
	switch status := s.Status(); status.Code {
	case codes.Error:
		pb.Status = &tracepb.Status{Code: tracepb.Status_STATUS_CODE_ERROR, Message: status.Description}
	case codes.Ok:
		pb.Status = &tracepb.Status{Code: tracepb.Status_STATUS_CODE_OK}
	}
	return pb
}

func logToPB(r *sdklog.Record) *logspb.LogRecord {
	pb := &logspb.LogRecord{
		TimeUnixNano:   uint64(r.Timestamp().UnixNano()),
		SeverityNumber: logspb.SeverityNumber(r.Severity()),
		SeverityText:   r.SeverityText(),
		Body:           logValueToPB(r.Body()),
	}
	r.WalkAttributes(func(kv otellog.KeyValue) bool {
		pb.Attributes = append(pb.Attributes, &commonpb.KeyValue{
			Key:   kv.Key,
			Value: logValueToPB(kv.Value),
		})
		return true
	})
	if traceID := r.TraceID(); traceID.IsValid() {
		pb.TraceId = traceID[:]
	}
	if spanID := r.SpanID(); spanID.IsValid() {
		pb.SpanId = spanID[:]
	}
	return pb
}

func attrsToPB(attrs []attribute.KeyValue) []*commonpb.KeyValue {
	pbs := make([]*commonpb.KeyValue, 0, len(attrs))
	for _, kv := range attrs {
		var v commonpb.AnyValue
		switch kv.Value.Type() {
		case attribute.BOOL:
			v.Value = &commonpb.AnyValue_BoolValue{BoolValue: kv.Value.AsBool()}
		case attribute.INT64:
			v.Value = &commonpb.AnyValue_IntValue{IntValue: kv.Value.AsInt64()}
		case attribute.FLOAT64:
			v.Value = &commonpb.AnyValue_DoubleValue{DoubleValue: kv.Value.AsFloat64()}
		default:
			v.Value = &commonpb.AnyValue_StringValue{StringValue: kv.Value.Emit()}
		}
		pbs = append(pbs, &commonpb.KeyValue{Key: string(kv.Key), Value: &v})
	}
	return pbs
}

func logValueToPB(val otellog.Value) *commonpb.AnyValue {
	switch val.Kind() {
	case otellog.KindBool:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_BoolValue{BoolValue: val.AsBool()}}
	case otellog.KindInt64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: val.AsInt64()}}
	case otellog.KindFloat64:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_DoubleValue{DoubleValue: val.AsFloat64()}}
	case otellog.KindString:
		return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: val.AsString()}}
	}
	return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: val.String()}}
}

// otelHandler tees slog records into an OTLP logger.
type otelHandler struct {
	next   slog.Handler
	logger otellog.Logger
	attrs  []otellog.KeyValue
	group  string
}

func (h *otelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *otelHandler) Handle(ctx context.Context, r slog.Record) error {
	var rec otellog.Record
	rec.SetTimestamp(r.Time)
	rec.SetBody(otellog.StringValue(r.Message))
	rec.SetSeverity(severity(r.Level))
	rec.SetSeverityText(r.Level.String())
	rec.AddAttributes(h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		rec.AddAttributes(h.attr(a))
		return true
	})
	h.logger.Emit(ctx, rec)
	return h.next.Handle(ctx, r)
}

func (h *otelHandler) attr(a slog.Attr) otellog.KeyValue {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindBool:
		return otellog.Bool(key, v.Bool())
	case slog.KindInt64:
		return otellog.Int64(key, v.Int64())
	case slog.KindFloat64:
		return otellog.Float64(key, v.Float64())
	}
	return otellog.String(key, v.String())
}

func (h *otelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.next = h.next.WithAttrs(attrs)
	c.attrs = append([]otellog.KeyValue(nil), h.attrs...)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.attr(a))
	}
	return &c
}

func (h *otelHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.next = h.next.WithGroup(name)
	if c.group != "" {
		name = c.group + "." + name
	}
	c.group = name
	return &c
}

func severity(level slog.Level) otellog.Severity {
	switch {
	case level >= slog.LevelError:
		return otellog.SeverityError
	case level >= slog.LevelWarn:
		return otellog.SeverityWarn
	case level >= slog.LevelInfo:
		return otellog.SeverityInfo
	}
	return otellog.SeverityDebug
}
