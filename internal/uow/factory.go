package uow

import "github.com/dawn-chorus/teamsync-service/internal/pkg/committer"

// Factory holds the shared collaborators and mints one UnitOfWork per
// business operation. The dispatcher wiring is fixed at startup; only the
// per-operation tracking state is fresh.
type Factory struct {
	dispatcher *Dispatcher
	applier    committer.Applier
	outbox     OutboxInserter
}

// NewFactory creates a Factory.
func NewFactory(dispatcher *Dispatcher, applier committer.Applier, outboxInserter OutboxInserter) *Factory {
	return &Factory{
		dispatcher: dispatcher,
		applier:    applier,
		outbox:     outboxInserter,
	}
}

// New mints a UnitOfWork for a single operation.
func (f *Factory) New() *UnitOfWork {
	return New(f.dispatcher, f.applier, f.outbox)
}
