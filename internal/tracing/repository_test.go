package tracing

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/markers/internal/documents/domain"
	"github.com/zjrosen/markers/internal/valuetree"
)

// fakeRepository is an in-memory DocumentRepository for exercising the
// traced wrapper.
type fakeRepository struct {
	docs   map[string]*domain.Document
	nextID int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{docs: make(map[string]*domain.Document)}
}

func (f *fakeRepository) Save(document *domain.Document) error {
	if document.ID() == 0 {
		f.nextID++
		document.SetID(f.nextID)
	}
	f.docs[document.Name()] = document
	return nil
}

func (f *fakeRepository) FindByName(name string) (*domain.Document, error) {
	doc, ok := f.docs[name]
	if !ok {
		return nil, &domain.DocumentNotFoundError{Name: name}
	}
	return doc, nil
}

func (f *fakeRepository) FindByGUID(guid string) (*domain.Document, error) {
	for _, doc := range f.docs {
		if doc.GUID() == guid {
			return doc, nil
		}
	}
	return nil, &domain.DocumentNotFoundError{GUID: guid}
}

func (f *fakeRepository) List(domain.ListFilter) ([]*domain.Document, error) {
	var out []*domain.Document
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeRepository) Delete(name string) error {
	if _, ok := f.docs[name]; !ok {
		return &domain.DocumentNotFoundError{Name: name}
	}
	delete(f.docs, name)
	return nil
}

func (f *fakeRepository) Close() error { return nil }

// setupTestTracer creates a test tracer with an in-memory exporter.
func setupTestTracer(t *testing.T) (trace.Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)
	return provider.Tracer("test-tracer"), exporter
}

// getSpanByName finds a span by name from the exporter.
func getSpanByName(exporter *tracetest.InMemoryExporter, name string) (tracetest.SpanStub, bool) {
	for _, span := range exporter.GetSpans() {
		if span.Name == name {
			return span, true
		}
	}
	return tracetest.SpanStub{}, false
}

// getAttributeValue extracts an attribute value from a span.
func getAttributeValue(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTraceRepository_NilTracerPassThrough(t *testing.T) {
	inner := newFakeRepository()
	repo := TraceRepository(inner, nil)
	require.Same(t, domain.DocumentRepository(inner), repo, "nil tracer should return the repository unwrapped")
}

func TestTraceRepository_SaveCreatesSpan(t *testing.T) {
	tracer, exporter := setupTestTracer(t)
	repo := TraceRepository(newFakeRepository(), tracer)

	doc := domain.NewDocument("guid-1", "main-layout", valuetree.NewNode("Layout"))
	require.NoError(t, repo.Save(doc))

	span, ok := getSpanByName(exporter, "repo.save")
	require.True(t, ok, "save should record a span")
	require.Equal(t, codes.Ok, span.Status.Code)

	name, ok := getAttributeValue(span, AttrDocumentName)
	require.True(t, ok)
	require.Equal(t, "main-layout", name.AsString())

	id, ok := getAttributeValue(span, AttrDocumentID)
	require.True(t, ok, "successful save should record the assigned id")
	require.Equal(t, "1", id.AsString())
}

func TestTraceRepository_ErrorRecorded(t *testing.T) {
	tracer, exporter := setupTestTracer(t)
	repo := TraceRepository(newFakeRepository(), tracer)

	_, err := repo.FindByName("missing")
	require.Error(t, err)

	span, ok := getSpanByName(exporter, "repo.find_by_name")
	require.True(t, ok)
	require.Equal(t, codes.Error, span.Status.Code)
	require.Contains(t, span.Status.Description, "missing")
}

func TestTraceRepository_ListRecordsCount(t *testing.T) {
	tracer, exporter := setupTestTracer(t)
	inner := newFakeRepository()
	repo := TraceRepository(inner, tracer)

	require.NoError(t, repo.Save(domain.NewDocument("g1", "a", valuetree.NewNode("Layout"))))
	require.NoError(t, repo.Save(domain.NewDocument("g2", "b", valuetree.NewNode("Layout"))))
	exporter.Reset()

	_, err := repo.List(domain.ListFilter{})
	require.NoError(t, err)

	span, ok := getSpanByName(exporter, "repo.list")
	require.True(t, ok)
	count, ok := getAttributeValue(span, AttrDocumentCount)
	require.True(t, ok)
	require.Equal(t, int64(2), count.AsInt64())
}
