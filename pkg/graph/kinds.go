package graph

// NodeKind classifies a graph vertex.
type NodeKind string

const (
	KindEquipment  NodeKind = "equipment"
	KindInstrument NodeKind = "instrument"
	KindJunction   NodeKind = "junction"
)

// Valid reports whether the kind is one of the known node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindEquipment, KindInstrument, KindJunction:
		return true
	}
	return false
}

// EdgeKind classifies a connection.
type EdgeKind string

const (
	EdgeProcess    EdgeKind = "process"
	EdgeSignal     EdgeKind = "signal"
	EdgeConnection EdgeKind = "connection"
)

// Valid reports whether the kind is one of the known edge kinds.
func (k EdgeKind) Valid() bool {
	switch k {
	case EdgeProcess, EdgeSignal, EdgeConnection:
		return true
	}
	return false
}

// Flow direction along an edge's polyline. Arrowhead detection is an
// upstream concern; edges default to DirectionUnknown.
const (
	DirectionUnknown = "unknown"
	DirectionForward = "a->b"
	DirectionReverse = "b->a"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity decodes a severity string. Unrecognized values decode
// to SeverityError so that a consumer can never downgrade a finding it
// does not understand.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityInfo, SeverityWarning, SeverityError:
		return Severity(s)
	}
	return SeverityError
}
