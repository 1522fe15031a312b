package testutil

// markerData holds all data for a marker to be inserted.
type markerData struct {
	name     string
	position string
	attrs    [][2]string
}

// MarkerOption configures a marker being added to the builder.
type MarkerOption func(*markerData)

// Attr adds an extra attribute to the marker node.
func Attr(name, value string) MarkerOption {
	return func(m *markerData) {
		m.attrs = append(m.attrs, [2]string{name, value})
	}
}
