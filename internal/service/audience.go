package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
)

var (
	// ErrMissingLocation means the activity carries neither region nor comuna
	ErrMissingLocation = errors.New("activity has no region_id or comuna_id")
	// ErrMissingSport means the activity carries no sport to filter by
	ErrMissingSport = errors.New("activity has no sport_id")
)

// PreferenceStore surfaces candidate users by preferred location
type PreferenceStore interface {
	UserIDsByComuna(comunaID int64) ([]uuid.UUID, error)
	UserIDsByRegion(regionID int64) ([]uuid.UUID, error)
}

// ProfileStore loads profiles that opted in to new-activity notifications
type ProfileStore interface {
	FindNotifiable(userIDs []uuid.UUID) ([]model.Profile, error)
}

// AudienceService resolves which profiles should hear about a new activity
type AudienceService struct {
	prefs    PreferenceStore
	profiles ProfileStore
}

func NewAudienceService(prefs PreferenceStore, profiles ProfileStore) *AudienceService {
	return &AudienceService{prefs: prefs, profiles: profiles}
}

// Resolve returns the deduplicated set of profiles eligible for notification:
// users who prefer the activity's comuna (or, only when the activity has no
// comuna, its region), opted in to new-activity pushes, prefer the activity's
// sport, and did not create the activity themselves. An empty result is a
// valid outcome, not an error.
func (s *AudienceService) Resolve(activity *model.Activity) ([]model.Profile, error) {
	if !activity.HasLocation() {
		return nil, ErrMissingLocation
	}
	if activity.SportID == nil || *activity.SportID == "" {
		return nil, ErrMissingSport
	}
	sportID := *activity.SportID

	// Comuna takes strict precedence over region
	var (
		userIDs []uuid.UUID
		err     error
	)
	if activity.ComunaID != nil {
		userIDs, err = s.prefs.UserIDsByComuna(*activity.ComunaID)
	} else {
		userIDs, err = s.prefs.UserIDsByRegion(*activity.RegionID)
	}
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []model.Profile{}, nil
	}

	profiles, err := s.profiles.FindNotifiable(userIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(profiles))
	audience := make([]model.Profile, 0, len(profiles))
	for _, p := range profiles {
		// Never notify the creator about their own activity
		if activity.CreatorID != nil && p.ID == *activity.CreatorID {
			continue
		}
		// No preferred sports means no notifications, strict opt-in
		if !p.PrefersSport(sportID) {
			continue
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		audience = append(audience, p)
	}

	return audience, nil
}
