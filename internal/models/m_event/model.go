package m_event

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an event.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{EventID, OrgID, TeamID, Title, StartsAt, EndsAt, Status, Version, CreatedAt, UpdatedAt},
		[]interface{}{
			data.EventID,
			data.OrgID,
			data.TeamID,
			data.Title,
			data.StartsAt,
			data.EndsAt,
			data.Status,
			data.Version,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating an event.
func (m *Model) UpdateMut(eventID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, EventID)
	values = append(values, eventID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}
