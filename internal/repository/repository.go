package repository

// Repository groups the persistence dependencies of the gallery services.
type Repository struct {
	Events EventStore
	// Visits is nil when visitor dedup relies on cookies alone.
	Visits VisitLedger

	closers []func()
}

func NewRepository(events EventStore, visits VisitLedger) *Repository {
	return &Repository{
		Events: events,
		Visits: visits,
	}
}

// OnClose registers a release hook, run in reverse order by Close.
func (r *Repository) OnClose(fn func()) {
	r.closers = append(r.closers, fn)
}

func (r *Repository) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}
