package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"github.com/teamup-cl/notify-api/pkg/fcm"
	"gorm.io/gorm"
)

// ErrActivityNotFound means the trigger referenced an unknown activity
var ErrActivityNotFound = errors.New("activity not found")

// Notification copy shown on the device
const (
	notificationTitle    = "Nueva actividad en tu zona"
	notificationFallback = "Se ha creado una nueva actividad"
)

// ActivityStore loads the triggering activity
type ActivityStore interface {
	FindByID(id uuid.UUID) (*model.Activity, error)
}

// SportStore resolves sport display names for alert rows
type SportStore interface {
	FindNameByID(id string) (string, error)
}

// AlertStore is the dedup ledger: which users already got an alert for an
// activity, and batch-recording new ones
type AlertStore interface {
	AlertedUserIDs(activityID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error)
	CreateBatch(alerts []model.Alert) error
}

// Dispatcher sends one push per token and tallies the outcomes. A returned
// error means no send was attempted at all (e.g. token acquisition failed);
// per-token failures live inside the result.
type Dispatcher interface {
	Dispatch(ctx context.Context, tokens []string, notif fcm.Notification, data map[string]string) (fcm.DispatchResult, error)
}

// NotifyService runs the fan-out pipeline: load activity, resolve audience,
// filter through the alert ledger, record new alerts, dispatch pushes.
type NotifyService struct {
	activities ActivityStore
	sports     SportStore
	audience   *AudienceService
	alerts     AlertStore
	dispatcher Dispatcher
	legacy     Dispatcher
	onlyNew    bool
}

func NewNotifyService(
	activities ActivityStore,
	sports SportStore,
	audience *AudienceService,
	alerts AlertStore,
	dispatcher Dispatcher,
	legacy Dispatcher,
	onlyNew bool,
) *NotifyService {
	return &NotifyService{
		activities: activities,
		sports:     sports,
		audience:   audience,
		alerts:     alerts,
		dispatcher: dispatcher,
		legacy:     legacy,
		onlyNew:    onlyNew,
	}
}

// Notify runs the pipeline for one activity over the FCM HTTP v1 transport
func (s *NotifyService) Notify(ctx context.Context, activityID uuid.UUID) (*model.NotifyResult, error) {
	return s.notify(ctx, activityID, s.dispatcher)
}

// NotifyLegacy runs the same pipeline over the deprecated server-key
// multicast transport
func (s *NotifyService) NotifyLegacy(ctx context.Context, activityID uuid.UUID) (*model.NotifyResult, error) {
	return s.notify(ctx, activityID, s.legacy)
}

func (s *NotifyService) notify(ctx context.Context, activityID uuid.UUID, dispatcher Dispatcher) (*model.NotifyResult, error) {
	activity, err := s.activities.FindByID(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("loading activity: %w", err)
	}

	audience, err := s.audience.Resolve(activity)
	if err != nil {
		return nil, err
	}
	if len(audience) == 0 {
		log.Printf("📭 No audience for activity %s", activity.ID)
		return &model.NotifyResult{}, nil
	}

	// Sport name lookup is display-only; a failure leaves it null on the
	// alert rows but never blocks the pipeline
	var sportName *string
	if name, err := s.sports.FindNameByID(*activity.SportID); err != nil {
		log.Printf("⚠️ Failed to resolve sport name for %s: %v", *activity.SportID, err)
	} else {
		sportName = &name
	}

	candidateIDs := make([]uuid.UUID, 0, len(audience))
	for _, p := range audience {
		candidateIDs = append(candidateIDs, p.ID)
	}

	alertedIDs, err := s.alerts.AlertedUserIDs(activity.ID, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("looking up existing alerts: %w", err)
	}
	alerted := make(map[uuid.UUID]bool, len(alertedIDs))
	for _, id := range alertedIDs {
		alerted[id] = true
	}

	newProfiles := make([]model.Profile, 0, len(audience))
	for _, p := range audience {
		if !alerted[p.ID] {
			newProfiles = append(newProfiles, p)
		}
	}

	if len(newProfiles) > 0 {
		rows := make([]model.Alert, 0, len(newProfiles))
		for _, p := range newProfiles {
			rows = append(rows, model.Alert{
				UserID:           p.ID,
				ActivityID:       activity.ID,
				ActivityTitle:    activity.Title,
				ActivityDate:     activity.Date,
				PlaceName:        activity.PlaceName,
				FormattedAddress: activity.FormattedAddress,
				SportName:        sportName,
			})
		}
		// Bookkeeping must never block delivery: insert failures are
		// logged and the dispatch proceeds
		if err := s.alerts.CreateBatch(rows); err != nil {
			log.Printf("⚠️ Failed to insert %d alert rows for activity %s: %v", len(rows), activity.ID, err)
		} else {
			log.Printf("✅ Inserted %d alert rows for activity %s", len(rows), activity.ID)
		}
	}

	targets := audience
	if s.onlyNew {
		targets = newProfiles
	}
	tokens := make([]string, 0, len(targets))
	for _, p := range targets {
		if p.FCMToken != nil && *p.FCMToken != "" {
			tokens = append(tokens, *p.FCMToken)
		}
	}

	result := &model.NotifyResult{AlertsCreatedFor: len(newProfiles)}
	if len(tokens) == 0 {
		log.Printf("📭 No FCM tokens for activity %s after filtering", activity.ID)
		return result, nil
	}

	body := activity.Title
	if body == "" {
		body = notificationFallback
	}

	dr, err := dispatcher.Dispatch(ctx, tokens, fcm.Notification{
		Title: notificationTitle,
		Body:  body,
	}, dataPayload(activity))
	if err != nil {
		return nil, err
	}
	for _, f := range dr.Failures {
		log.Printf("⚠️ Push failed for token %s: %s", truncateToken(f.Token), f.Reason)
	}
	log.Printf("📨 Activity %s: delivered=%d failed=%d total=%d", activity.ID, dr.Delivered, dr.Failed, dr.Total)

	result.SentTo = dr.Delivered
	result.Failed = dr.Failed
	result.TotalTokens = dr.Total
	return result, nil
}

// dataPayload builds the flat data map the Flutter client routes on
func dataPayload(activity *model.Activity) map[string]string {
	regionID := ""
	if activity.RegionID != nil {
		regionID = fmt.Sprintf("%d", *activity.RegionID)
	}
	comunaID := ""
	if activity.ComunaID != nil {
		comunaID = fmt.Sprintf("%d", *activity.ComunaID)
	}
	date := ""
	if activity.Date != nil {
		date = activity.Date.Format(time.RFC3339)
	}
	return map[string]string{
		"activityId":   activity.ID.String(),
		"regionId":     regionID,
		"comunaId":     comunaID,
		"sportId":      *activity.SportID,
		"date":         date,
		"click_action": "FLUTTER_NOTIFICATION_CLICK",
	}
}

func truncateToken(token string) string {
	if len(token) > 16 {
		return token[:16] + "..."
	}
	return token
}
