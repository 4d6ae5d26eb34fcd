package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("teams").
		Select("team_id", "name", "org_id").
		Build()

	assert.Equal(t, "SELECT team_id, name, org_id FROM teams", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("teams").Build()

	assert.Equal(t, "SELECT * FROM teams", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SingleWhereCondition(t *testing.T) {
	stmt := From("outbox_messages").
		Select("message_id", "event_kind").
		Where(Eq("event_kind", "email.welcome")).
		Build()

	assert.Equal(t, "SELECT message_id, event_kind FROM outbox_messages WHERE event_kind = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "email.welcome",
	}, stmt.Params)
}

func TestBuilder_MultipleWhereConditions(t *testing.T) {
	stmt := From("invitations").
		Select("invitation_id").
		Where(Eq("team_id", "t-1")).
		Where(Eq("status", "pending")).
		Build()

	assert.Equal(t, "SELECT invitation_id FROM invitations WHERE team_id = @p0 AND status = @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "t-1",
		"p1": "pending",
	}, stmt.Params)
}

func TestBuilder_NullConditions(t *testing.T) {
	stmt := From("outbox_messages").
		Select("message_id").
		Where(IsNull("processed_utc")).
		Build()

	assert.Equal(t, "SELECT message_id FROM outbox_messages WHERE processed_utc IS NULL", stmt.SQL)
	assert.Empty(t, stmt.Params)

	stmt = From("outbox_messages").
		Select("message_id").
		Where(IsNotNull("processed_utc")).
		Build()

	assert.Equal(t, "SELECT message_id FROM outbox_messages WHERE processed_utc IS NOT NULL", stmt.SQL)
}

func TestBuilder_OrCondition(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stmt := From("outbox_messages").
		Select("message_id").
		Where(IsNull("processed_utc")).
		Where(Or(IsNull("next_processing_utc"), Lte("next_processing_utc", now))).
		Build()

	assert.Equal(t,
		"SELECT message_id FROM outbox_messages WHERE processed_utc IS NULL"+
			" AND (next_processing_utc IS NULL OR next_processing_utc <= @p0)",
		stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": now,
	}, stmt.Params)
}

func TestBuilder_OrConditionParamNumbering(t *testing.T) {
	stmt := From("outbox_messages").
		Where(Eq("event_kind", "notice.member_joined")).
		Where(Or(Lt("fail_count", int64(3)), Lte("created_utc", "2026-01-01"))).
		Build()

	assert.Equal(t,
		"SELECT * FROM outbox_messages WHERE event_kind = @p0"+
			" AND (fail_count < @p1 OR created_utc <= @p2)",
		stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "notice.member_joined",
		"p1": int64(3),
		"p2": "2026-01-01",
	}, stmt.Params)
}

func TestBuilder_OrderBySingle(t *testing.T) {
	stmt := From("outbox_messages").
		Select("message_id").
		OrderBy("created_utc", Asc).
		Build()

	assert.Equal(t, "SELECT message_id FROM outbox_messages ORDER BY created_utc ASC", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_OrderByMultiple(t *testing.T) {
	stmt := From("outbox_messages").
		Select("message_id").
		OrderBy("created_utc", Asc).
		OrderBy("message_id", Asc).
		Build()

	assert.Equal(t, "SELECT message_id FROM outbox_messages ORDER BY created_utc ASC, message_id ASC", stmt.SQL)
}

func TestBuilder_OrderByDesc(t *testing.T) {
	stmt := From("outbox_messages").
		Select("message_id").
		OrderBy("created_utc", Desc).
		Build()

	assert.Equal(t, "SELECT message_id FROM outbox_messages ORDER BY created_utc DESC", stmt.SQL)
}

func TestBuilder_Limit(t *testing.T) {
	stmt := From("teams").
		Select("team_id").
		Limit(10).
		Build()

	assert.Equal(t, "SELECT team_id FROM teams LIMIT @limit", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"limit": int64(10),
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	stmt := From("outbox_messages").
		Select("message_id").
		Where(IsNull("processed_utc")).
		OrderBy("created_utc", Asc).
		Limit(50).
		Count().
		Build()

	assert.Equal(t, "SELECT COUNT(*) FROM outbox_messages WHERE processed_utc IS NULL", stmt.SQL)
}

func TestBuilder_ZeroLimitOmitted(t *testing.T) {
	stmt := From("teams").Select("team_id").Limit(0).Build()

	assert.Equal(t, "SELECT team_id FROM teams", stmt.SQL)
	assert.Empty(t, stmt.Params)
}
