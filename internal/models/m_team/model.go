package m_team

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the teams table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a team.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{TeamID, OrgID, Name, Members, Version, CreatedAt, UpdatedAt},
		[]interface{}{
			data.TeamID,
			data.OrgID,
			data.Name,
			data.Members,
			data.Version,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating a team.
func (m *Model) UpdateMut(teamID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, TeamID)
	values = append(values, teamID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}
