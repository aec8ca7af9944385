package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/RyanLisse/flok/internal/logging"
)

// ToolInvocation captures all information about an MCP tool invocation for
// audit logging.
type ToolInvocation struct {
	// Tool name
	Tool string

	// Account is the account name the tool acted on (default, work, personal)
	Account string

	// ServiceName is the Graph service touched (mail, calendar, contacts, drive)
	ServiceName string

	// Operation type (list, get, create, update, delete, send, search)
	Operation string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for structured logging. Account names are
// anonymized so logs stay free of personal identifiers.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.Account != "" {
		attrs = append(attrs, slog.String("account", logging.AnonymizeAccount(ti.Account)))
	}
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// CaptureTraceContext fills TraceID and SpanID from the span in ctx, when one
// is recording.
func (ti *ToolInvocation) CaptureTraceContext(ctx context.Context) {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if sc.HasTraceID() {
		ti.TraceID = sc.TraceID().String()
	}
	if sc.HasSpanID() {
		ti.SpanID = sc.SpanID().String()
	}
}

// Auditor writes tool invocation audit records through slog and the metrics
// recorder.
type Auditor struct {
	logger  *slog.Logger
	metrics *Metrics
}

// NewAuditor creates an auditor. A nil logger uses slog.Default; a nil
// metrics recorder disables metric recording.
func NewAuditor(logger *slog.Logger, metrics *Metrics) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &Metrics{}
	}
	return &Auditor{logger: logger, metrics: metrics}
}

// Record logs the invocation and records its metrics.
func (a *Auditor) Record(ctx context.Context, ti *ToolInvocation) {
	level := slog.LevelInfo
	if !ti.Success {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(ctx, level, "tool invocation", ti.LogAttrs()...)
	a.metrics.RecordToolInvocation(ctx, ti.Tool, ti.Status(), ti.Account, ti.Duration)
}
