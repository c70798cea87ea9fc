package media

// Manager bundles local staging and object-store ingest behind one value so
// callers can stage an upload, commit it, and clean up through a single
// dependency.
type Manager struct {
	*Stager
	*Ingestor
}

// NewManager wires a staging area and an ingestor together.
func NewManager(stager *Stager, ingestor *Ingestor) *Manager {
	return &Manager{Stager: stager, Ingestor: ingestor}
}
