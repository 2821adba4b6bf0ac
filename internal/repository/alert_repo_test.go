package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/teamup-cl/notify-api/internal/model"
)

func TestAlertedUserIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	activityID := uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "user_id" FROM "alerts"`).
		WithArgs(activityID, u1, u2).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(u1.String()))

	alerted, err := repo.AlertedUserIDs(activityID, []uuid.UUID{u1, u2})
	if err != nil {
		t.Fatalf("AlertedUserIDs() unexpected error: %v", err)
	}
	if len(alerted) != 1 || alerted[0] != u1 {
		t.Errorf("alerted = %v, want [%s]", alerted, u1)
	}
	expectationsMet(t, mock)
}

func TestAlertedUserIDs_EmptyCandidatesSkipsQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	alerted, err := repo.AlertedUserIDs(uuid.New(), nil)
	if err != nil {
		t.Fatalf("AlertedUserIDs() unexpected error: %v", err)
	}
	if len(alerted) != 0 {
		t.Errorf("alerted = %v, want empty", alerted)
	}
	expectationsMet(t, mock)
}

func TestCreateBatch_InsertsWithConflictIgnore(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	alerts := []model.Alert{
		{UserID: uuid.New(), ActivityID: uuid.New(), ActivityTitle: "Partido de tenis"},
		{UserID: uuid.New(), ActivityID: uuid.New(), ActivityTitle: "Partido de tenis"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "alerts" .+ ON CONFLICT \("user_id","activity_id"\) DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(uuid.NewString()).
			AddRow(uuid.NewString()))
	mock.ExpectCommit()

	if err := repo.CreateBatch(alerts); err != nil {
		t.Fatalf("CreateBatch() unexpected error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreateBatch_EmptySliceIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	if err := repo.CreateBatch(nil); err != nil {
		t.Fatalf("CreateBatch() unexpected error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreateBatch_PropagatesInsertError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAlertRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "alerts"`).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.CreateBatch([]model.Alert{{UserID: uuid.New(), ActivityID: uuid.New()}})
	if !errors.Is(err, boom) {
		t.Fatalf("CreateBatch() error = %v, want %v", err, boom)
	}
	expectationsMet(t, mock)
}
