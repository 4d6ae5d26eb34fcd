// Package committer collects Spanner mutations from repositories into a
// single atomic commit plan.
//
// Repositories never apply mutations themselves. Domain code mutates
// aggregates, repositories translate aggregate state into mutations, and the
// unit of work gathers everything, aggregate rows and outbox rows alike,
// into one Plan that is applied in a single Spanner transaction. Either the
// whole plan commits or none of it does.
//
// Aggregates that support concurrent edits carry a version column. A Plan can
// carry VersionChecks for those rows; the commit transaction re-reads each
// versioned row and aborts with ErrVersionMismatch when another writer got
// there first.
package committer

import (
	"cloud.google.com/go/spanner"
)

// VersionCheck describes an optimistic-concurrency guard for one row.
// The commit transaction reads Column from the row at Key in Table and
// fails the whole plan unless its value still equals Expected.
type VersionCheck struct {
	Table    string
	Key      spanner.Key
	Column   string
	Expected int64
}

// Plan is a typed collection of Spanner mutations plus the version checks
// guarding them. It is built up by the unit of work and applied atomically.
type Plan struct {
	mutations []*spanner.Mutation
	checks    []VersionCheck
}

// NewPlan creates a new empty Plan.
func NewPlan() *Plan {
	return &Plan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (p *Plan) Add(mut *spanner.Mutation) {
	if mut != nil {
		p.mutations = append(p.mutations, mut)
	}
}

// AddAll adds multiple mutations to the plan.
func (p *Plan) AddAll(muts []*spanner.Mutation) {
	for _, mut := range muts {
		p.Add(mut)
	}
}

// Check adds an optimistic-concurrency guard to the plan.
func (p *Plan) Check(check VersionCheck) {
	p.checks = append(p.checks, check)
}

// Mutations returns all collected mutations.
func (p *Plan) Mutations() []*spanner.Mutation {
	return p.mutations
}

// Checks returns all collected version checks.
func (p *Plan) Checks() []VersionCheck {
	return p.checks
}

// IsEmpty returns true if the plan has no mutations.
func (p *Plan) IsEmpty() bool {
	return len(p.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (p *Plan) Count() int {
	return len(p.mutations)
}
