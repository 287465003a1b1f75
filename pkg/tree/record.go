package tree

// RecordKind classifies a raw record before any tree operation runs.
// Classification happens at parse time so root detection is an explicit
// tagged distinction rather than duck typing on a missing field.
type RecordKind int

const (
	// ChildRecord is a record carrying a parent reference.
	ChildRecord RecordKind = iota
	// RootCandidate is a record with no parent reference. A well-formed
	// raw node list contains exactly one.
	RootCandidate
)

// Record is one entry of the raw node list handed over by a generator.
// It carries no guarantees: the parent may dangle, the key may collide,
// the text may be blank. Normalization repairs or rejects it.
type Record struct {
	Key       int
	Text      string
	Parent    int
	HasParent bool

	// Brush, Dir and Loc may be proposed by the generator. The pipeline
	// recomputes Brush and Dir; Loc survives only on the root.
	Brush string
	Dir   string
	Loc   string
}

// Kind returns the parse-time classification of the record.
func (r Record) Kind() RecordKind {
	if r.HasParent {
		return ChildRecord
	}
	return RootCandidate
}
