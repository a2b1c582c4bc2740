package event

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.OutboxEntryModel{}))
	return db
}

func TestGormOutboxRepository_Save(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newPendingEntry(t, "OrderPlaced", time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"status", "retry_count", "max_retries"}).
			AddRow(entry.Status, entry.RetryCount, entry.MaxRetries))
	mock.ExpectCommit()

	err := repo.Save(ctx, entry)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Save_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	err := repo.Save(context.Background())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	entry := newPendingEntry(t, "OrderPlaced", time.Now())
	entry.MarkSent()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "outbox_events"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), entry)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_DeleteSentBefore(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	before := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "outbox_events" WHERE status = $1 AND processed_at < $2`)).
		WithArgs(shared.OutboxStatusSent, before).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	deleted, err := repo.DeleteSentBefore(context.Background(), before)

	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_FindDeliverable(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()
	now := time.Now()

	pending := newPendingEntry(t, "OrderPlaced", now.Add(-3*time.Minute))
	due := newPendingEntry(t, "OrderPaid", now.Add(-2*time.Minute))
	due.MarkFailed("timeout")
	past := now.Add(-time.Second)
	due.NextRetryAt = &past
	notDue := newPendingEntry(t, "OrderPaid", now.Add(-time.Minute))
	notDue.MarkFailed("timeout")
	sent := newPendingEntry(t, "OrderPlaced", now.Add(-4*time.Minute))
	sent.MarkSent()
	require.NoError(t, repo.Save(ctx, pending, due, notDue, sent))

	entries, err := repo.FindDeliverable(ctx, now, 10)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, pending.ID, entries[0].ID)
	assert.Equal(t, due.ID, entries[1].ID)
	assert.Equal(t, 1, entries[1].RetryCount)
	assert.JSONEq(t, string(pending.Payload), string(entries[0].Payload))

	limited, err := repo.FindDeliverable(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	first := newPendingEntry(t, "OrderPlaced", time.Now())
	second := newPendingEntry(t, "OrderPlaced", time.Now())
	require.NoError(t, repo.Save(ctx, first, second))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{first.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	for _, e := range claimed {
		assert.Equal(t, shared.OutboxStatusProcessing, e.Status)
	}

	// Already claimed rows are not handed out twice
	again, err := repo.MarkProcessing(ctx, []uuid.UUID{first.ID})
	require.NoError(t, err)
	assert.Empty(t, again)

	remaining, err := repo.FindDeliverable(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestGormOutboxRepository_UpdateAndCleanup(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newPendingEntry(t, "OrderPlaced", time.Now())
	require.NoError(t, repo.Save(ctx, entry))
	entry.MarkSent()
	require.NoError(t, repo.Update(ctx, entry))

	deleted, err := repo.DeleteSentBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = repo.DeleteSentBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestOutboxWriter_SaveEvents_JoinsTransaction(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	writer := NewOutboxWriter(repo, NewEventSerializer())
	transactor := persistence.NewGormTransactor(db)
	ctx := context.Background()

	placed := shared.NewBaseDomainEvent("OrderPlaced", "Order", uuid.New())
	err := transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, writer.SaveEvents(txCtx, &placed))
		return errors.New("order insert failed")
	})
	require.Error(t, err)

	entries, err := repo.FindDeliverable(ctx, time.Now(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries, "rolled back events must not be relayed")

	require.NoError(t, writer.SaveEvents(ctx, &placed))
	entries, err = repo.FindDeliverable(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, placed.ID, entries[0].EventID)
	assert.Equal(t, "OrderPlaced", entries[0].EventType)
}

func TestOutboxWriter_SaveEvents_Empty(t *testing.T) {
	repo := newMockOutboxRepository()
	writer := NewOutboxWriter(repo, NewEventSerializer())

	require.NoError(t, writer.SaveEvents(context.Background()))
	assert.Empty(t, repo.entries)
}

func newDeadEntry(t *testing.T, eventType string, at time.Time) *shared.OutboxEntry {
	t.Helper()
	e := newPendingEntry(t, eventType, at)
	e.RetryCount = e.MaxRetries - 1
	e.MarkFailed("broker unreachable")
	require.True(t, e.IsDead())
	e.UpdatedAt = at
	return e
}

func TestGormOutboxRepository_FindByID(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	entry := newPendingEntry(t, "OrderPlaced", time.Now())
	require.NoError(t, repo.Save(ctx, entry))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entry.EventID, found.EventID)

	missing, err := repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGormOutboxRepository_FindDead(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()
	now := time.Now()

	older := newDeadEntry(t, "OrderPlaced", now.Add(-2*time.Hour))
	newer := newDeadEntry(t, "OrderPaid", now.Add(-time.Hour))
	alive := newPendingEntry(t, "OrderPlaced", now)
	require.NoError(t, repo.Save(ctx, older, newer, alive))

	page, total, err := repo.FindDead(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	assert.Equal(t, newer.ID, page[0].ID)

	page, _, err = repo.FindDead(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)
	assert.Equal(t, "broker unreachable", page[0].LastError)
}

func TestGormOutboxRepository_CountByStatus(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()
	now := time.Now()

	sent := newPendingEntry(t, "OrderPlaced", now)
	sent.MarkSent()
	require.NoError(t, repo.Save(ctx,
		newPendingEntry(t, "OrderPlaced", now),
		newPendingEntry(t, "OrderPlaced", now),
		newDeadEntry(t, "OrderPaid", now),
		sent,
	))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[shared.OutboxStatusPending])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusDead])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
	assert.Zero(t, counts[shared.OutboxStatusFailed])
}
