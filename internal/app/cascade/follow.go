// internal/app/cascade/follow.go
package cascade

import (
	"context"
	"time"

	"github.com/dalemusser/voluhub/internal/app/store/audit"
	"github.com/dalemusser/voluhub/internal/app/store/organizations"
	"github.com/dalemusser/voluhub/internal/app/system/storeerr"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowOrganization records userID following orgID.
//
// The organization-side update (follower set + counter) is mandatory and
// atomic within its document. The user-side update and the timestamped
// follow edge are best-effort: a dangling unilateral follow is tolerable
// and self-heals on the next read-repair. The two sides are deliberately
// not in one batch — they have different owners and access patterns, and
// the known gap (org commit succeeds, user update fails) is accepted.
func (s *Service) FollowOrganization(ctx context.Context, userID, orgID primitive.ObjectID) (FollowResult, error) {
	res := FollowResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpFollowOrganization,
		ActorID:       userID,
		OrgID:         oid(orgID),
		CorrelationID: res.CorrelationID,
	}

	if userID == orgID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.SelfReferenceNotAllowed,
			"You cannot follow your own organization."))
	}

	if _, err := s.users.EnsureExists(ctx, userID); err != nil {
		return res, s.fail(ctx, entry, err)
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if err == organizationstore.ErrOrganizationNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound, "This organization no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}
	if org.HasFollower(userID) {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.AlreadyInState,
			"You are already following this organization."))
	}

	if err := s.orgs.ApplyFollow(ctx, orgID, userID); err != nil {
		return res, s.fail(ctx, entry, err)
	}
	res.Following = true

	s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
		return s.orgs.RecordFollowEdge(ctx, orgID, userID)
	})
	res.UserUpdated = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
		return s.users.AddFollowing(ctx, userID, orgID)
	})

	entry.Success = true
	entry.Errors = res.Errors
	s.record(ctx, entry)
	return res, nil
}

// UnfollowOrganization removes the follow relationship. The counter
// decrement clamps at zero inside the organization store, so drifted state
// (count below the true follower total) can never push it negative.
func (s *Service) UnfollowOrganization(ctx context.Context, userID, orgID primitive.ObjectID) (FollowResult, error) {
	res := FollowResult{CorrelationID: uuid.NewString()}
	entry := audit.Entry{
		Operation:     audit.OpUnfollowOrganization,
		ActorID:       userID,
		OrgID:         oid(orgID),
		CorrelationID: res.CorrelationID,
	}

	if userID == orgID {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.SelfReferenceNotAllowed,
			"You cannot unfollow your own organization."))
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if err == organizationstore.ErrOrganizationNotFound {
			return res, s.fail(ctx, entry, storeerr.New(storeerr.NotFound, "This organization no longer exists."))
		}
		return res, s.fail(ctx, entry, err)
	}
	if !org.HasFollower(userID) {
		return res, s.fail(ctx, entry, storeerr.New(storeerr.AlreadyInState,
			"You are not following this organization."))
	}

	if err := s.orgs.ApplyUnfollow(ctx, orgID, userID); err != nil {
		return res, s.fail(ctx, entry, err)
	}

	s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
		return s.orgs.RemoveFollowEdge(ctx, orgID, userID)
	})
	res.UserUpdated = s.runBestEffort(ctx, &res.Errors, func(ctx context.Context) error {
		return s.users.RemoveFollowing(ctx, userID, orgID)
	})

	entry.Success = true
	entry.Errors = res.Errors
	s.record(ctx, entry)
	return res, nil
}

// OrganizationFollowerStats derives follower statistics. The count comes
// from the maintained counter; the recency buckets come from follow-edge
// timestamps, so a drifted counter shows up as a mismatch between
// FollowerCount and the bucket sum rather than a wrong bucket.
func (s *Service) OrganizationFollowerStats(ctx context.Context, orgID primitive.ObjectID) (FollowerStats, error) {
	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		if err == organizationstore.ErrOrganizationNotFound {
			return FollowerStats{}, storeerr.New(storeerr.NotFound, "This organization no longer exists.")
		}
		return FollowerStats{}, storeerr.Wrap(err)
	}

	now := time.Now().UTC()
	within7, err := s.orgs.CountFollowsSince(ctx, orgID, now.AddDate(0, 0, -7))
	if err != nil {
		return FollowerStats{}, storeerr.Wrap(err)
	}
	within30, err := s.orgs.CountFollowsSince(ctx, orgID, now.AddDate(0, 0, -30))
	if err != nil {
		return FollowerStats{}, storeerr.Wrap(err)
	}
	total, err := s.orgs.CountFollows(ctx, orgID)
	if err != nil {
		return FollowerStats{}, storeerr.Wrap(err)
	}

	return FollowerStats{
		FollowerCount: org.FollowerCount,
		Last7Days:     int(within7),
		Last30Days:    int(within30 - within7),
		Older:         int(total - within30),
	}, nil
}
