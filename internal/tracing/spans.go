package tracing

// Span attribute keys for marker tracing.
// These constants define the semantic conventions for span attributes.
const (
	// Document attributes
	AttrDocumentName  = "document.name"
	AttrDocumentGUID  = "document.guid"
	AttrDocumentID    = "document.id"
	AttrDocumentCount = "document.count"

	// Tree attributes
	AttrTreeFile    = "tree.file"
	AttrMarkerCount = "marker.count"

	// Marker attributes
	AttrMarkerName     = "marker.name"
	AttrMarkerPosition = "marker.position"

	// Resolution attributes
	AttrAnchorName    = "anchor.name"
	AttrResolvedValue = "resolved.value"

	// Error attributes
	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span name prefixes for consistent naming.
const (
	SpanPrefixRepo    = "repo."
	SpanPrefixResolve = "resolve."
	SpanPrefixTree    = "tree."
)

// Event names for span events.
const (
	EventTreeLoaded     = "tree.loaded"
	EventTreeSaved      = "tree.saved"
	EventMarkersApplied = "markers.applied"
	EventCacheFlushed   = "cache.flushed"
	EventErrorOccurred  = "error.occurred"
)
