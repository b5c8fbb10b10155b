package assemble

// Options tunes the spatial association passes. All radii are in image
// pixels at native resolution; they do not scale with image DPI, which
// is a known limitation for diagrams scanned at unusual resolutions.
type Options struct {
	// TagRadius is the maximum center-to-center distance for a text
	// span to be associated with a node or an edge midpoint.
	TagRadius float64 `yaml:"tag_radius" json:"tag_radius"`

	// ConnectRadius is the maximum distance from a line endpoint to a
	// node center for the endpoint to resolve to that node. Beyond it a
	// junction is synthesized at the endpoint.
	ConnectRadius float64 `yaml:"connect_radius" json:"connect_radius"`

	// MergeRadius coalesces synthesized junctions that fall within this
	// distance of each other. It must stay well below ConnectRadius so
	// distinct association targets are never conflated.
	MergeRadius float64 `yaml:"merge_radius" json:"merge_radius"`
}

// DefaultOptions returns the thresholds used for typical scans.
func DefaultOptions() Options {
	return Options{
		TagRadius:     100,
		ConnectRadius: 50,
		MergeRadius:   5,
	}
}
