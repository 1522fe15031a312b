package tracing

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/markers/internal/documents/domain"
)

// tracedRepository wraps a DocumentRepository with a span per operation.
type tracedRepository struct {
	inner  domain.DocumentRepository
	tracer trace.Tracer
}

// TraceRepository returns a DocumentRepository that records a span for each
// operation. With a nil tracer the repository is returned unwrapped, so
// disabled tracing costs nothing.
func TraceRepository(repo domain.DocumentRepository, tracer trace.Tracer) domain.DocumentRepository {
	if tracer == nil {
		return repo
	}
	return &tracedRepository{inner: repo, tracer: tracer}
}

var _ domain.DocumentRepository = (*tracedRepository)(nil)

func (r *tracedRepository) span(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := r.tracer.Start(context.Background(), SpanPrefixRepo+name,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(attrs...)
	return span
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (r *tracedRepository) Save(document *domain.Document) error {
	span := r.span("save",
		attribute.String(AttrDocumentName, document.Name()),
		attribute.String(AttrDocumentGUID, document.GUID()),
	)
	err := r.inner.Save(document)
	if err == nil {
		span.SetAttributes(attribute.String(AttrDocumentID, strconv.FormatInt(document.ID(), 10)))
	}
	finish(span, err)
	return err
}

func (r *tracedRepository) FindByName(name string) (*domain.Document, error) {
	span := r.span("find_by_name", attribute.String(AttrDocumentName, name))
	document, err := r.inner.FindByName(name)
	finish(span, err)
	return document, err
}

func (r *tracedRepository) FindByGUID(guid string) (*domain.Document, error) {
	span := r.span("find_by_guid", attribute.String(AttrDocumentGUID, guid))
	document, err := r.inner.FindByGUID(guid)
	finish(span, err)
	return document, err
}

func (r *tracedRepository) List(filter domain.ListFilter) ([]*domain.Document, error) {
	span := r.span("list")
	documents, err := r.inner.List(filter)
	if err == nil {
		span.SetAttributes(attribute.Int(AttrDocumentCount, len(documents)))
	}
	finish(span, err)
	return documents, err
}

func (r *tracedRepository) Delete(name string) error {
	span := r.span("delete", attribute.String(AttrDocumentName, name))
	err := r.inner.Delete(name)
	finish(span, err)
	return err
}

func (r *tracedRepository) Close() error {
	return r.inner.Close()
}
