package repository

import (
	"context"
	"regexp"
	"testing"

	"cvhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(1, "testuser", "test@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: 1, Username: "testuser", Email: "test@example.com"},
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_SQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Create and fetch by email", func(t *testing.T) {
		user := &models.User{
			Username:  "alice",
			Firstname: "Alice",
			Lastname:  "Smith",
			Email:     "alice@example.com",
			Password:  "hash",
		}
		require.NoError(t, repo.Create(ctx, user))
		assert.NotZero(t, user.ID)

		fetched, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, "alice", fetched.Username)
	})

	t.Run("Missing email is nil, nil", func(t *testing.T) {
		fetched, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("Missing username is nil, nil", func(t *testing.T) {
		fetched, err := repo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("Duplicate email is a conflict", func(t *testing.T) {
		dup := &models.User{
			Username:  "alice2",
			Firstname: "Alice",
			Lastname:  "Clone",
			Email:     "alice@example.com",
			Password:  "hash",
		}
		err := repo.Create(ctx, dup)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("Duplicate username is a conflict", func(t *testing.T) {
		dup := &models.User{
			Username:  "alice",
			Firstname: "Alice",
			Lastname:  "Clone",
			Email:     "alice2@example.com",
			Password:  "hash",
		}
		err := repo.Create(ctx, dup)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("Delete missing user is not found", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("Delete removes the row", func(t *testing.T) {
		user := &models.User{
			Username:  "bob",
			Firstname: "Bob",
			Lastname:  "Jones",
			Email:     "bob@example.com",
			Password:  "hash",
		}
		require.NoError(t, repo.Create(ctx, user))
		require.NoError(t, repo.Delete(ctx, user.ID))

		_, err := repo.GetByID(ctx, user.ID)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}
