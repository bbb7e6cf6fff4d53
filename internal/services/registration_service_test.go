package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joninet/app-activapro/internal/models"
)

var testTime = time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		switch target := dest[i].(type) {
		case *int64:
			*target = r.values[i].(int64)
		case *int:
			*target = r.values[i].(int)
		case **int:
			*target = r.values[i].(*int)
		case *float64:
			*target = r.values[i].(float64)
		case **float64:
			*target = r.values[i].(*float64)
		case *string:
			*target = r.values[i].(string)
		case **string:
			*target = r.values[i].(*string)
		case *bool:
			*target = r.values[i].(bool)
		case *time.Time:
			*target = r.values[i].(time.Time)
		case **time.Time:
			*target = r.values[i].(*time.Time)
		case *models.Weekday:
			*target = r.values[i].(models.Weekday)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type stubDBTX struct {
	queryRowFn func(ctx context.Context, query string, args ...any) stubRow
	execFn     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

func (db *stubDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if db.execFn != nil {
		return db.execFn(ctx, query, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (db *stubDBTX) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (db *stubDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return db.queryRowFn(ctx, query, args...)
}

// stubTx satisfies pgx.Tx for the methods the services touch; anything
// else panics through the embedded nil interface.
type stubTx struct {
	pgx.Tx
	db         *stubDBTX
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *stubTx) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, query, args...)
}

func (t *stubTx) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, query, args...)
}

func (t *stubTx) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return t.db.QueryRow(ctx, query, args...)
}

func (t *stubTx) Commit(_ context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(_ context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type stubPool struct {
	tx       *stubTx
	beginErr error
}

func (p *stubPool) Begin(_ context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	return p.tx, nil
}

type stubCoachReader struct {
	byID        *models.Coach
	byIDErr     error
	byUserID    *models.Coach
	byUserIDErr error
	activateErr error
	activatedID int64
}

func (r *stubCoachReader) GetByID(_ context.Context, _ int64) (*models.Coach, error) {
	return r.byID, r.byIDErr
}

func (r *stubCoachReader) GetByUserID(_ context.Context, _ int64) (*models.Coach, error) {
	return r.byUserID, r.byUserIDErr
}

func (r *stubCoachReader) Activate(_ context.Context, id int64) error {
	r.activatedID = id
	return r.activateErr
}

func coachRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "coach1",
		Email:    "coach@example.com",
		Password: "supersecret",
		Role:     models.RoleCoach,
	}
}

func studentRegisterInput() RegisterInput {
	return RegisterInput{
		Username: "runner1",
		Email:    "runner@example.com",
		Password: "supersecret",
		Role:     models.RoleStudent,
		CoachID:  7,
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	service := &RegistrationService{}
	input := coachRegisterInput()
	input.Role = "admin"
	if _, err := service.Register(context.Background(), input); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegisterStudentRequiresActiveCoach(t *testing.T) {
	service := &RegistrationService{
		db:        &stubPool{beginErr: errors.New("begin must not be reached")},
		coachRepo: &stubCoachReader{byID: &models.Coach{ID: 7, IsActive: false}},
	}
	if _, err := service.Register(context.Background(), studentRegisterInput()); !errors.Is(err, ErrCoachInactive) {
		t.Fatalf("expected ErrCoachInactive, got %v", err)
	}
}

func TestRegisterStudentUnknownCoach(t *testing.T) {
	service := &RegistrationService{
		db:        &stubPool{beginErr: errors.New("begin must not be reached")},
		coachRepo: &stubCoachReader{byIDErr: pgx.ErrNoRows},
	}
	if _, err := service.Register(context.Background(), studentRegisterInput()); !errors.Is(err, ErrCoachNotFound) {
		t.Fatalf("expected ErrCoachNotFound, got %v", err)
	}
}

func TestRegisterCoachCommitsUserAndProfile(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, query string, _ ...any) stubRow {
			switch {
			case strings.Contains(query, "INSERT INTO users"):
				return stubRow{values: []any{int64(10), testTime, testTime}}
			case strings.Contains(query, "INSERT INTO coaches"):
				return stubRow{values: []any{int64(3), int64(10), "", "", "", false, testTime, testTime}}
			}
			return stubRow{err: pgx.ErrNoRows}
		},
	}
	tx := &stubTx{db: db}
	service := &RegistrationService{db: &stubPool{tx: tx}, coachRepo: &stubCoachReader{}}

	user, err := service.Register(context.Background(), coachRegisterInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != 10 {
		t.Fatalf("expected user id 10, got %d", user.ID)
	}
	if user.PasswordHash == "supersecret" || user.PasswordHash == "" {
		t.Fatal("expected password to be hashed")
	}
	if !tx.committed {
		t.Fatal("expected transaction to be committed")
	}
}

func TestRegisterRollsBackWhenProfileInsertFails(t *testing.T) {
	insertErr := errors.New("trainee insert failed")
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, query string, _ ...any) stubRow {
			switch {
			case strings.Contains(query, "INSERT INTO users"):
				return stubRow{values: []any{int64(10), testTime, testTime}}
			case strings.Contains(query, "INSERT INTO trainees"):
				return stubRow{err: insertErr}
			}
			return stubRow{err: pgx.ErrNoRows}
		},
	}
	tx := &stubTx{db: db}
	service := &RegistrationService{
		db:        &stubPool{tx: tx},
		coachRepo: &stubCoachReader{byID: &models.Coach{ID: 7, IsActive: true}},
	}

	_, err := service.Register(context.Background(), studentRegisterInput())
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected trainee insert error, got %v", err)
	}
	if tx.committed {
		t.Fatal("transaction must not be committed")
	}
	if !tx.rolledBack {
		t.Fatal("expected transaction to be rolled back")
	}
}

func TestRegisterMapsUniqueViolationToConflict(t *testing.T) {
	db := &stubDBTX{
		queryRowFn: func(_ context.Context, _ string, _ ...any) stubRow {
			return stubRow{err: &pgconn.PgError{Code: "23505"}}
		},
	}
	tx := &stubTx{db: db}
	service := &RegistrationService{db: &stubPool{tx: tx}, coachRepo: &stubCoachReader{}}

	if _, err := service.Register(context.Background(), coachRegisterInput()); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestActivateCoachIsIdempotent(t *testing.T) {
	repo := &stubCoachReader{byUserID: &models.Coach{ID: 3, IsActive: true}}
	service := &RegistrationService{coachRepo: repo}

	alreadyActive, err := service.ActivateCoach(context.Background(), 10)
	if err != nil {
		t.Fatalf("ActivateCoach: %v", err)
	}
	if !alreadyActive {
		t.Fatal("expected alreadyActive for an active coach")
	}
	if repo.activatedID != 0 {
		t.Fatal("active coach must not be activated again")
	}
}

func TestActivateCoachFlipsInactiveCoach(t *testing.T) {
	repo := &stubCoachReader{byUserID: &models.Coach{ID: 3, IsActive: false}}
	service := &RegistrationService{coachRepo: repo}

	alreadyActive, err := service.ActivateCoach(context.Background(), 10)
	if err != nil {
		t.Fatalf("ActivateCoach: %v", err)
	}
	if alreadyActive {
		t.Fatal("expected alreadyActive to be false")
	}
	if repo.activatedID != 3 {
		t.Fatalf("expected coach 3 to be activated, got %d", repo.activatedID)
	}
}

func TestActivateCoachUnknownUser(t *testing.T) {
	service := &RegistrationService{coachRepo: &stubCoachReader{byUserIDErr: pgx.ErrNoRows}}
	if _, err := service.ActivateCoach(context.Background(), 10); !errors.Is(err, ErrCoachNotFound) {
		t.Fatalf("expected ErrCoachNotFound, got %v", err)
	}
}
