package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawn-chorus/teamsync-service/internal/integration"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	ctx := context.Background()
	event := &integration.MemberJoinedNotice{
		TeamID:   "team-1",
		OrgID:    "org-1",
		UserID:   "user-2",
		Role:     "member",
		JoinedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("topic is the kind, key is the aggregate id", func(t *testing.T) {
		writer := &fakeWriter{}
		publisher := NewKafkaPublisher(writer)

		require.NoError(t, publisher.Handle(ctx, event))

		require.Len(t, writer.messages, 1)
		msg := writer.messages[0]
		assert.Equal(t, "notice.member_joined", msg.Topic)
		assert.Equal(t, []byte("team-1"), msg.Key)
		assert.JSONEq(t,
			`{"team_id":"team-1","org_id":"org-1","user_id":"user-2","role":"member","joined_at":"2026-03-01T12:00:00Z"}`,
			string(msg.Value),
		)
	})

	t.Run("writer failure propagates for retry", func(t *testing.T) {
		writer := &fakeWriter{err: errors.New("broker down")}
		publisher := NewKafkaPublisher(writer)

		err := publisher.Handle(ctx, event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "broker down")
	})
}
