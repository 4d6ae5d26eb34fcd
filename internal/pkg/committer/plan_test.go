package committer

import (
	"errors"
	"fmt"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func insertMut(id string) *spanner.Mutation {
	return spanner.Insert("teams", []string{"team_id"}, []interface{}{id})
}

func TestPlan(t *testing.T) {
	t.Run("collects mutations and checks", func(t *testing.T) {
		plan := NewPlan()
		assert.True(t, plan.IsEmpty())

		plan.Add(insertMut("t-1"))
		plan.AddAll([]*spanner.Mutation{insertMut("t-2"), insertMut("t-3")})
		plan.Check(VersionCheck{
			Table:    "teams",
			Key:      spanner.Key{"t-1"},
			Column:   "version",
			Expected: 4,
		})

		assert.False(t, plan.IsEmpty())
		assert.Equal(t, 3, plan.Count())
		assert.Len(t, plan.Checks(), 1)
	})

	t.Run("nil mutations are dropped", func(t *testing.T) {
		plan := NewPlan()
		plan.Add(nil)
		plan.AddAll([]*spanner.Mutation{nil, insertMut("t-1"), nil})

		assert.Equal(t, 1, plan.Count())
	})

	t.Run("a plan with only checks is still empty", func(t *testing.T) {
		plan := NewPlan()
		plan.Check(VersionCheck{Table: "teams", Key: spanner.Key{"t-1"}, Column: "version", Expected: 1})
		assert.True(t, plan.IsEmpty())
	})
}

func TestIsConflict(t *testing.T) {
	t.Run("version mismatch is a conflict", func(t *testing.T) {
		assert.True(t, IsConflict(ErrVersionMismatch))
		assert.True(t, IsConflict(fmt.Errorf("commit: %w", ErrVersionMismatch)))
	})

	t.Run("aborted transactions are conflicts", func(t *testing.T) {
		assert.True(t, IsConflict(status.Error(codes.Aborted, "transaction aborted")))
		assert.True(t, IsConflict(status.Error(codes.FailedPrecondition, "precondition failed")))
	})

	t.Run("other errors are not", func(t *testing.T) {
		assert.False(t, IsConflict(errors.New("boom")))
		assert.False(t, IsConflict(status.Error(codes.Unavailable, "down")))
		assert.False(t, IsConflict(nil))
	})
}
