// Package service provides test fakes for the pipeline's store and
// dispatcher dependencies.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
	"github.com/teamup-cl/notify-api/pkg/fcm"
)

type fakePreferenceStore struct {
	ByComunaFn func(comunaID int64) ([]uuid.UUID, error)
	ByRegionFn func(regionID int64) ([]uuid.UUID, error)

	comunaCalls []int64
	regionCalls []int64
}

func (f *fakePreferenceStore) UserIDsByComuna(comunaID int64) ([]uuid.UUID, error) {
	f.comunaCalls = append(f.comunaCalls, comunaID)
	if f.ByComunaFn != nil {
		return f.ByComunaFn(comunaID)
	}
	return nil, nil
}

func (f *fakePreferenceStore) UserIDsByRegion(regionID int64) ([]uuid.UUID, error) {
	f.regionCalls = append(f.regionCalls, regionID)
	if f.ByRegionFn != nil {
		return f.ByRegionFn(regionID)
	}
	return nil, nil
}

type fakeProfileStore struct {
	FindNotifiableFn func(userIDs []uuid.UUID) ([]model.Profile, error)
}

func (f *fakeProfileStore) FindNotifiable(userIDs []uuid.UUID) ([]model.Profile, error) {
	if f.FindNotifiableFn != nil {
		return f.FindNotifiableFn(userIDs)
	}
	return nil, nil
}

type fakeActivityStore struct {
	FindByIDFn func(id uuid.UUID) (*model.Activity, error)
}

func (f *fakeActivityStore) FindByID(id uuid.UUID) (*model.Activity, error) {
	if f.FindByIDFn != nil {
		return f.FindByIDFn(id)
	}
	return nil, nil
}

type fakeSportStore struct {
	FindNameByIDFn func(id string) (string, error)
}

func (f *fakeSportStore) FindNameByID(id string) (string, error) {
	if f.FindNameByIDFn != nil {
		return f.FindNameByIDFn(id)
	}
	return "Tenis", nil
}

type fakeAlertStore struct {
	AlertedUserIDsFn func(activityID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error)
	CreateBatchFn    func(alerts []model.Alert) error

	inserted [][]model.Alert
}

func (f *fakeAlertStore) AlertedUserIDs(activityID uuid.UUID, userIDs []uuid.UUID) ([]uuid.UUID, error) {
	if f.AlertedUserIDsFn != nil {
		return f.AlertedUserIDsFn(activityID, userIDs)
	}
	return nil, nil
}

func (f *fakeAlertStore) CreateBatch(alerts []model.Alert) error {
	f.inserted = append(f.inserted, alerts)
	if f.CreateBatchFn != nil {
		return f.CreateBatchFn(alerts)
	}
	return nil
}

type fakeDispatcher struct {
	DispatchFn func(ctx context.Context, tokens []string, notif fcm.Notification, data map[string]string) (fcm.DispatchResult, error)

	calls [][]string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, tokens []string, notif fcm.Notification, data map[string]string) (fcm.DispatchResult, error) {
	f.calls = append(f.calls, tokens)
	if f.DispatchFn != nil {
		return f.DispatchFn(ctx, tokens, notif, data)
	}
	return fcm.DispatchResult{Delivered: len(tokens), Total: len(tokens)}, nil
}

// helpers

func int64Ptr(v int64) *int64    { return &v }
func strPtr(v string) *string    { return &v }
func uuidPtr(v uuid.UUID) *uuid.UUID { return &v }
