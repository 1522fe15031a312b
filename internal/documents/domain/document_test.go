package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/markers/internal/valuetree"
)

func TestNewDocument(t *testing.T) {
	tree := valuetree.NewNode("Layout")
	doc := NewDocument("guid-1", "main-layout", tree)

	require.Equal(t, int64(0), doc.ID())
	require.Equal(t, "guid-1", doc.GUID())
	require.Equal(t, "main-layout", doc.Name())
	require.Same(t, tree, doc.Tree())
	require.False(t, doc.IsDeleted())
	require.Nil(t, doc.DeletedAt())
	require.WithinDuration(t, time.Now(), doc.CreatedAt(), time.Second)
	require.Equal(t, doc.CreatedAt(), doc.UpdatedAt())
}

func TestDocument_Rename(t *testing.T) {
	doc := NewDocument("guid-1", "old", valuetree.NewNode("Layout"))
	before := doc.UpdatedAt()

	time.Sleep(time.Millisecond)
	doc.Rename("new")

	require.Equal(t, "new", doc.Name())
	require.True(t, doc.UpdatedAt().After(before))
}

func TestDocument_SetTree(t *testing.T) {
	doc := NewDocument("guid-1", "doc", valuetree.NewNode("Layout"))
	before := doc.UpdatedAt()

	time.Sleep(time.Millisecond)
	replacement := valuetree.NewNode("Layout")
	doc.SetTree(replacement)

	require.Same(t, replacement, doc.Tree())
	require.True(t, doc.UpdatedAt().After(before))
}

func TestReconstituteDocument(t *testing.T) {
	created := time.Unix(1700000000, 0)
	updated := time.Unix(1700001000, 0)
	deleted := time.Unix(1700002000, 0)
	tree := valuetree.NewNode("Layout")

	doc := ReconstituteDocument(42, "guid-1", "doc", tree, created, updated, &deleted)

	require.Equal(t, int64(42), doc.ID())
	require.Equal(t, created, doc.CreatedAt())
	require.Equal(t, updated, doc.UpdatedAt())
	require.True(t, doc.IsDeleted())
	require.Equal(t, deleted, *doc.DeletedAt())
}

func TestDocumentNotFoundError(t *testing.T) {
	byName := &DocumentNotFoundError{Name: "missing"}
	require.Contains(t, byName.Error(), `"missing"`)

	byGUID := &DocumentNotFoundError{GUID: "abc-123"}
	require.Contains(t, byGUID.Error(), "guid")
	require.Contains(t, byGUID.Error(), "abc-123")
}
