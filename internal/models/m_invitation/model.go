package m_invitation

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the invitations table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an invitation.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			InvitationID, OrgID, TeamID, Email, Role, Status,
			AcceptedBy, ExpiresAt, Version, CreatedAt, UpdatedAt,
		},
		[]interface{}{
			data.InvitationID,
			data.OrgID,
			data.TeamID,
			data.Email,
			data.Role,
			data.Status,
			data.AcceptedBy,
			data.ExpiresAt,
			data.Version,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating an invitation.
func (m *Model) UpdateMut(invitationID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, InvitationID)
	values = append(values, invitationID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}
