package detect

import (
	"sort"
	"strings"

	"github.com/oxbow-labs/diagraph/pkg/graph"
)

// Vocabulary maps detector symbol classes to node kinds. Classes not
// in the map fall back to substring matching against known classes
// (detectors emit variants like "centrifugal_pump"), and finally to
// instrument, the dominant class on instrumentation diagrams.
type Vocabulary map[string]graph.NodeKind

// DefaultVocabulary covers the classes the stock symbol templates
// produce.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"pump":           graph.KindEquipment,
		"tank":           graph.KindEquipment,
		"vessel":         graph.KindEquipment,
		"valve":          graph.KindEquipment,
		"compressor":     graph.KindEquipment,
		"heat_exchanger": graph.KindEquipment,
		"instrument":     graph.KindInstrument,
		"indicator":      graph.KindInstrument,
		"transmitter":    graph.KindInstrument,
		"controller":     graph.KindInstrument,
	}
}

// KindFor infers the node kind for a symbol class.
func (v Vocabulary) KindFor(symbolType string) graph.NodeKind {
	t := strings.ToLower(symbolType)
	if kind, ok := v[t]; ok {
		return kind
	}
	// Substring fallback in sorted key order for determinism.
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(t, k) {
			return v[k]
		}
	}
	return graph.KindInstrument
}

// Classes returns the recognized class names in sorted order, the form
// the validator's unknown-symbol rule consumes.
func (v Vocabulary) Classes() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
