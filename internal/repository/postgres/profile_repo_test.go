package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var profileColumnNames = []string{
	"user_id", "display_name", "main_email", "tee_shirt_size",
	"conference_keys_to_attend", "created_at", "updated_at",
}

func TestProfileRepository_GetByUserID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		userID   string
		mock     func(mock sqlmock.Sqlmock)
		wantKeys []string
		wantErr  error
	}{
		{
			name:   "success",
			userID: "u1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows(profileColumnNames).
						AddRow("u1", "lemoncake", "lemoncake@example.com", "XL", "{key1,key2}", now, now))
			},
			wantKeys: []string{"key1", "key2"},
		},
		{
			name:   "empty attend list scans to empty slice",
			userID: "u2",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1`).
					WithArgs("u2").
					WillReturnRows(sqlmock.NewRows(profileColumnNames).
						AddRow("u2", "other", "other@example.com", "NOT_SPECIFIED", "{}", now, now))
			},
			wantKeys: []string{},
		},
		{
			name:   "not found",
			userID: "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1`).
					WithArgs("missing").
					WillReturnRows(sqlmock.NewRows(profileColumnNames))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewProfileRepository(db)
			got, err := repo.GetByUserID(ctx, tt.userID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.userID, got.UserID)
			require.Equal(t, tt.wantKeys, got.ConferenceKeysToAttend)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_GetByUserIDForUpdate(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = \$1 FOR UPDATE`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(profileColumnNames).
			AddRow("u1", "lemoncake", "lemoncake@example.com", "M", "{}", now, now))

	repo := NewProfileRepository(db)
	got, err := repo.GetByUserIDForUpdate(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, domain.SizeM, got.TeeShirtSize)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Save(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "upsert success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO profiles (.+) ON CONFLICT \(user_id\) DO UPDATE SET`).
					WithArgs("u1", "lemoncake", "lemoncake@example.com", "XL", sqlmock.AnyArg(), now, now).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO profiles`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewProfileRepository(db)
			err = repo.Save(ctx, &domain.Profile{
				UserID:                 "u1",
				DisplayName:            "lemoncake",
				MainEmail:              "lemoncake@example.com",
				TeeShirtSize:           domain.SizeXL,
				ConferenceKeysToAttend: []string{"key1"},
				CreatedAt:              now,
				UpdatedAt:              now,
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_ListByUserIDs(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("returns matching profiles", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE user_id = ANY\(\$1\)`).
			WillReturnRows(sqlmock.NewRows(profileColumnNames).
				AddRow("u1", "alice", "alice@example.com", "S", "{}", now, now).
				AddRow("u2", "bob", "bob@example.com", "L", "{}", now, now))

		repo := NewProfileRepository(db)
		got, err := repo.ListByUserIDs(ctx, []string{"u1", "u2", "u3"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "alice", got[0].DisplayName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewProfileRepository(db)
		got, err := repo.ListByUserIDs(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
