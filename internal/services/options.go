package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/segmentio/kafka-go"

	event_repo "github.com/dawn-chorus/teamsync-service/internal/app/event/repo"
	"github.com/dawn-chorus/teamsync-service/internal/app/event/usecases/cancel_event"
	"github.com/dawn-chorus/teamsync-service/internal/app/event/usecases/reschedule_event"
	"github.com/dawn-chorus/teamsync-service/internal/app/event/usecases/schedule_event"
	invitation_repo "github.com/dawn-chorus/teamsync-service/internal/app/invitation/repo"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/usecases/accept_invitation"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/usecases/invite_member"
	"github.com/dawn-chorus/teamsync-service/internal/app/invitation/usecases/revoke_invitation"
	"github.com/dawn-chorus/teamsync-service/internal/app/outboxops/queries/list_messages"
	outboxops_repo "github.com/dawn-chorus/teamsync-service/internal/app/outboxops/repo"
	team_repo "github.com/dawn-chorus/teamsync-service/internal/app/team/repo"
	"github.com/dawn-chorus/teamsync-service/internal/app/team/usecases/change_member_role"
	"github.com/dawn-chorus/teamsync-service/internal/app/team/usecases/create_team"
	"github.com/dawn-chorus/teamsync-service/internal/app/team/usecases/remove_member"
	user_repo "github.com/dawn-chorus/teamsync-service/internal/app/user/repo"
	"github.com/dawn-chorus/teamsync-service/internal/app/user/usecases/register_user"
	"github.com/dawn-chorus/teamsync-service/internal/handlers"
	"github.com/dawn-chorus/teamsync-service/internal/integration"
	"github.com/dawn-chorus/teamsync-service/internal/notify"
	"github.com/dawn-chorus/teamsync-service/internal/outbox"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/clock"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// Config holds the externally supplied settings for the service.
type Config struct {
	SpannerDB string

	SMTPHost string
	SMTPPort string
	MailFrom string

	KafkaBrokers []string

	RelayBatchSize  int
	OutboxRetention time.Duration
}

// ServiceOptions holds all wired application dependencies.
type ServiceOptions struct {
	SpannerClient *spanner.Client

	RegisterUser     *register_user.Interactor
	CreateTeam       *create_team.Interactor
	ChangeMemberRole *change_member_role.Interactor
	RemoveMember     *remove_member.Interactor
	InviteMember     *invite_member.Interactor
	AcceptInvitation *accept_invitation.Interactor
	RevokeInvitation *revoke_invitation.Interactor
	ScheduleEvent    *schedule_event.Interactor
	RescheduleEvent  *reschedule_event.Interactor
	CancelEvent      *cancel_event.Interactor

	ListOutboxMessages *list_messages.Query

	Relay  *outbox.Relay
	Reaper *outbox.Reaper

	kafkaWriter *kafka.Writer
}

// NewServiceOptions creates and wires up all application dependencies.
// Every decoder and handler registration in the system happens here, so
// the complete event flow is readable in one place.
func NewServiceOptions(ctx context.Context, logger *slog.Logger, cfg Config) (*ServiceOptions, error) {
	// 1. Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}

	// 2. Infrastructure
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)
	outboxStore := outbox.NewSpannerStore(spannerClient)

	// 3. Repositories
	userRepo := user_repo.NewUserRepo(spannerClient)
	teamRepo := team_repo.NewTeamRepo(spannerClient)
	invitationRepo := invitation_repo.NewInvitationRepo(spannerClient)
	eventRepo := event_repo.NewEventRepo(spannerClient)

	// 4. Domain-event dispatch
	dispatcher := uow.NewDispatcher()
	dispatcher.On("user.registered", handlers.WelcomeEmailOnUserRegistered())
	dispatcher.On("invitation.created", handlers.InvitationEmailOnInvitationCreated())
	dispatcher.On("invitation.accepted", handlers.AddTeamMemberOnInvitationAccepted(teamRepo))
	dispatcher.On("team.member.added", handlers.MemberJoinedNoticeOnMemberAdded())
	dispatcher.On("event.scheduled", handlers.EventScheduledNoticeOnScheduled())
	dispatcher.On("event.canceled", handlers.EventCanceledNoticeOnCanceled())

	uowFactory := uow.NewFactory(dispatcher, comm, outboxStore)

	// 5. Integration-event dispatch (relay side)
	registry := outbox.NewRegistry()
	integration.RegisterDecoders(registry)

	mailer := notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom)
	emailHandler := notify.NewEmailHandler(mailer)
	registry.Handle(integration.KindWelcomeEmail, emailHandler)
	registry.Handle(integration.KindInvitationEmail, emailHandler)

	var kafkaWriter *kafka.Writer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter = notify.NewKafkaWriter(cfg.KafkaBrokers)
		publisher := notify.NewKafkaPublisher(kafkaWriter)
		registry.Handle(integration.KindMemberJoinedNotice, publisher)
		registry.Handle(integration.KindEventScheduledNotice, publisher)
		registry.Handle(integration.KindEventCanceledNotice, publisher)
	} else {
		logger.Warn("kafka publishing disabled (no brokers configured); notice.* rows will stay pending")
	}

	// 6. Background jobs
	relay := outbox.NewRelay(outboxStore, registry, clk, logger, outbox.RelayConfig{
		BatchSize: int64(cfg.RelayBatchSize),
	})
	reaper := outbox.NewReaper(outboxStore, clk, logger, cfg.OutboxRetention)

	// 7. Use cases
	return &ServiceOptions{
		SpannerClient: spannerClient,

		RegisterUser:     register_user.NewInteractor(userRepo, uowFactory, clk),
		CreateTeam:       create_team.NewInteractor(teamRepo, uowFactory, clk),
		ChangeMemberRole: change_member_role.NewInteractor(teamRepo, uowFactory, clk),
		RemoveMember:     remove_member.NewInteractor(teamRepo, uowFactory, clk),
		InviteMember:     invite_member.NewInteractor(invitationRepo, teamRepo, uowFactory, clk),
		AcceptInvitation: accept_invitation.NewInteractor(invitationRepo, uowFactory, clk),
		RevokeInvitation: revoke_invitation.NewInteractor(invitationRepo, uowFactory, clk),
		ScheduleEvent:    schedule_event.NewInteractor(eventRepo, teamRepo, uowFactory, clk),
		RescheduleEvent:  reschedule_event.NewInteractor(eventRepo, uowFactory, clk),
		CancelEvent:      cancel_event.NewInteractor(eventRepo, uowFactory, clk),

		ListOutboxMessages: list_messages.NewQuery(outboxops_repo.NewMessagesReadModel(spannerClient)),

		Relay:  relay,
		Reaper: reaper,

		kafkaWriter: kafkaWriter,
	}, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.kafkaWriter != nil {
		_ = s.kafkaWriter.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
