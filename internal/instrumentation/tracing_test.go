package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// installSpanRecorder swaps the global tracer provider for one that records
// every span, restoring the previous provider when the test ends.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("list-mail").
		WithService("mail").
		WithOperation(OperationList).
		WithAccount("account:abc123").
		WithResourceID("msg-1").
		WithReadOnly(true).
		Build()

	m := attrMap(attrs)
	if got := m[SpanAttrTool].AsString(); got != "list-mail" {
		t.Errorf("%s = %q", SpanAttrTool, got)
	}
	if got := m[SpanAttrService].AsString(); got != "mail" {
		t.Errorf("%s = %q", SpanAttrService, got)
	}
	if got := m[SpanAttrOperation].AsString(); got != OperationList {
		t.Errorf("%s = %q", SpanAttrOperation, got)
	}
	if got := m[SpanAttrAccount].AsString(); got != "account:abc123" {
		t.Errorf("%s = %q", SpanAttrAccount, got)
	}
	if got := m[SpanAttrResourceID].AsString(); got != "msg-1" {
		t.Errorf("%s = %q", SpanAttrResourceID, got)
	}
	if got := m[SpanAttrReadOnly].AsBool(); !got {
		t.Errorf("%s = %v", SpanAttrReadOnly, got)
	}
}

func TestSpanAttributeBuilderSkipsEmptyValues(t *testing.T) {
	m := attrMap(NewSpanAttributeBuilder().
		WithTool("list-mail").
		WithAccount("").
		WithResourceID("").
		Build())

	if _, ok := m[SpanAttrAccount]; ok {
		t.Errorf("empty account produced a %s attribute", SpanAttrAccount)
	}
	if _, ok := m[SpanAttrResourceID]; ok {
		t.Errorf("empty resource id produced a %s attribute", SpanAttrResourceID)
	}
}

func TestStartSpanEndSpanSuccess(t *testing.T) {
	recorder := installSpanRecorder(t)

	ctx, span := StartSpan(context.Background(), "list-mail",
		NewSpanAttributeBuilder().WithTool("list-mail").Build()...)

	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		t.Error("returned context does not carry the span")
	}

	EndSpan(span, nil)

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded spans = %d, want 1", len(ended))
	}
	got := ended[0]
	if got.Name() != "list-mail" {
		t.Errorf("span name = %q", got.Name())
	}
	if got.Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", got.Status().Code)
	}
	m := attrMap(got.Attributes())
	if m[SpanAttrStatus].AsString() != StatusSuccess {
		t.Errorf("%s = %q, want %q", SpanAttrStatus, m[SpanAttrStatus].AsString(), StatusSuccess)
	}
	if m[SpanAttrTool].AsString() != "list-mail" {
		t.Errorf("%s = %q", SpanAttrTool, m[SpanAttrTool].AsString())
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := StartSpan(context.Background(), "send-mail")
	EndSpan(span, errors.New("throttled"))

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("recorded spans = %d, want 1", len(ended))
	}
	got := ended[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status().Code)
	}
	if got.Status().Description != "throttled" {
		t.Errorf("status description = %q", got.Status().Description)
	}
	if m := attrMap(got.Attributes()); m[SpanAttrStatus].AsString() != StatusError {
		t.Errorf("%s = %q, want %q", SpanAttrStatus, m[SpanAttrStatus].AsString(), StatusError)
	}
	if len(got.Events()) == 0 {
		t.Error("error was not recorded as a span event")
	}
}
