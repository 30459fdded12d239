package repository_test

import (
	"context"
	"testing"

	"taskmarket/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIntentRepository_Toggle_Add(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	intentRepo := repository.NewIntentRepository(gormDB)

	taskID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "intents" WHERE task_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "intents"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	added, err := intentRepo.Toggle(context.Background(), taskID, userID)

	// Assert
	assert.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntentRepository_Toggle_Remove(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	intentRepo := repository.NewIntentRepository(gormDB)

	taskID := uuid.New()
	userID := uuid.New()
	intentID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "intents" WHERE task_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "user_id"}).
			AddRow(intentID.String(), taskID.String(), userID.String()))
	mock.ExpectExec(`DELETE FROM "intents"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	added, err := intentRepo.Toggle(context.Background(), taskID, userID)

	// Assert
	assert.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntentRepository_Exists(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	intentRepo := repository.NewIntentRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "intents"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	exists, err := intentRepo.Exists(context.Background(), uuid.New(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIntentRepository_ListByTask(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	intentRepo := repository.NewIntentRepository(gormDB)

	taskID := uuid.New()

	mock.ExpectQuery(`SELECT intents.id, .* FROM "intents" LEFT JOIN users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "user_id", "user_name", "message"}).
			AddRow(uuid.New().String(), taskID.String(), uuid.New().String(), "Bob", "Interested!"))

	// Act
	intents, err := intentRepo.ListByTask(context.Background(), taskID)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, intents, 1)
	assert.Equal(t, "Bob", intents[0].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
