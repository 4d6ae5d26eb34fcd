// Package handlers wires domain events to their consequences: integration
// events staged into the outbox, and cascading aggregate changes pulled into
// the same unit of work. Every handler here runs synchronously inside commit
// preparation; nothing external happens until the relay picks the rows up.
package handlers

import (
	"context"
	"errors"
	"fmt"

	eventdomain "github.com/dawn-chorus/teamsync-service/internal/app/event/domain"
	invitationdomain "github.com/dawn-chorus/teamsync-service/internal/app/invitation/domain"
	teamcontracts "github.com/dawn-chorus/teamsync-service/internal/app/team/contracts"
	teamdomain "github.com/dawn-chorus/teamsync-service/internal/app/team/domain"
	userdomain "github.com/dawn-chorus/teamsync-service/internal/app/user/domain"
	"github.com/dawn-chorus/teamsync-service/internal/domain"
	"github.com/dawn-chorus/teamsync-service/internal/integration"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/committer"
	"github.com/dawn-chorus/teamsync-service/internal/uow"
)

// WelcomeEmailOnUserRegistered stages a welcome email when a user registers.
func WelcomeEmailOnUserRegistered() uow.Handler {
	return func(ctx context.Context, event domain.Event, u *uow.UnitOfWork) error {
		e, ok := event.(*userdomain.UserRegisteredEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
		}

		return u.Enqueue(&integration.WelcomeEmail{
			UserID:       e.UserID,
			OrgID:        e.OrgID,
			Email:        e.Email,
			DisplayName:  e.DisplayName,
			RegisteredAt: e.RegisteredAt,
		})
	}
}

// InvitationEmailOnInvitationCreated stages an invitation email when an
// invitation is created.
func InvitationEmailOnInvitationCreated() uow.Handler {
	return func(ctx context.Context, event domain.Event, u *uow.UnitOfWork) error {
		e, ok := event.(*invitationdomain.InvitationCreatedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
		}

		return u.Enqueue(&integration.InvitationEmail{
			InvitationID: e.InvitationID,
			OrgID:        e.OrgID,
			TeamID:       e.TeamID,
			Email:        e.Email,
			Role:         e.Role,
			ExpiresAt:    e.ExpiresAt,
		})
	}
}

// AddTeamMemberOnInvitationAccepted is the cascade that makes accepting an
// invitation also join the team: the team aggregate is loaded, mutated, and
// tracked in the same unit of work, so the membership change, the invitation
// status change, and the resulting outbox rows commit atomically.
func AddTeamMemberOnInvitationAccepted(teams teamcontracts.TeamRepository) uow.Handler {
	return func(ctx context.Context, event domain.Event, u *uow.UnitOfWork) error {
		e, ok := event.(*invitationdomain.InvitationAcceptedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
		}

		team, err := teams.GetByID(ctx, e.TeamID)
		if err != nil {
			return fmt.Errorf("failed to load team %s: %w", e.TeamID, err)
		}

		if err := team.AddMember(e.UserID, teamdomain.Role(e.Role), e.AcceptedAt); err != nil {
			// Duplicate joins happen when an accepted invitation is retried;
			// the membership already exists, so the cascade is a no-op.
			if errors.Is(err, teamdomain.ErrAlreadyMember) {
				return nil
			}
			return fmt.Errorf("failed to add member to team %s: %w", e.TeamID, err)
		}

		u.Track(team, func(plan *committer.Plan) error {
			mut, err := teams.UpdateMut(team)
			if err != nil {
				return err
			}
			if mut == nil {
				return nil
			}
			plan.Add(mut)
			plan.Check(teams.VersionCheck(team))
			return nil
		})
		return nil
	}
}

// MemberJoinedNoticeOnMemberAdded stages a broker notice when a member joins.
func MemberJoinedNoticeOnMemberAdded() uow.Handler {
	return func(ctx context.Context, event domain.Event, u *uow.UnitOfWork) error {
		e, ok := event.(*teamdomain.MemberAddedEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
		}

		return u.Enqueue(&integration.MemberJoinedNotice{
			TeamID:   e.TeamID,
			OrgID:    e.OrgID,
			UserID:   e.UserID,
			Role:     e.Role,
			JoinedAt: e.JoinedAt,
		})
	}
}

// EventScheduledNoticeOnScheduled stages a broker notice when a calendar
// event is scheduled.
func EventScheduledNoticeOnScheduled() uow.Handler {
	return func(ctx context.Context, event domain.Event, u *uow.UnitOfWork) error {
		e, ok := event.(*eventdomain.EventScheduledEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
		}

		return u.Enqueue(&integration.EventScheduledNotice{
			EventID:  e.EventID,
			OrgID:    e.OrgID,
			TeamID:   e.TeamID,
			Title:    e.Title,
			StartsAt: e.StartsAt,
			EndsAt:   e.EndsAt,
		})
	}
}

// EventCanceledNoticeOnCanceled stages a broker notice when a calendar
// event is canceled.
func EventCanceledNoticeOnCanceled() uow.Handler {
	return func(ctx context.Context, event domain.Event, u *uow.UnitOfWork) error {
		e, ok := event.(*eventdomain.EventCanceledEvent)
		if !ok {
			return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
		}

		return u.Enqueue(&integration.EventCanceledNotice{
			EventID:    e.EventID,
			OrgID:      e.OrgID,
			TeamID:     e.TeamID,
			Title:      e.Title,
			Reason:     e.Reason,
			CanceledAt: e.CanceledAt,
		})
	}
}
