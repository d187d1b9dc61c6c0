package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

// NewProfileRepository returns a domain.ProfileRepository implemented with Postgres.
func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

const profileColumns = `user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, created_at, updated_at`

func scanProfile(row *sql.Row) (*domain.Profile, error) {
	p := &domain.Profile{}
	var size string
	err := row.Scan(
		&p.UserID, &p.DisplayName, &p.MainEmail, &size,
		pq.Array(&p.ConferenceKeysToAttend), &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSize(size)
	if p.ConferenceKeysToAttend == nil {
		p.ConferenceKeysToAttend = []string{}
	}
	return p, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	return scanProfile(queryerFrom(ctx, r.DB).QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	return scanProfile(queryerFrom(ctx, r.DB).QueryRowContext(ctx, query, userID))
}

func (r *profileRepository) Save(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			main_email = EXCLUDED.main_email,
			tee_shirt_size = EXCLUDED.tee_shirt_size,
			conference_keys_to_attend = EXCLUDED.conference_keys_to_attend,
			updated_at = EXCLUDED.updated_at
	`
	_, err := queryerFrom(ctx, r.DB).ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		pq.Array(p.ConferenceKeysToAttend), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *profileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return []*domain.Profile{}, nil
	}
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = ANY($1)
	`
	rows, err := queryerFrom(ctx, r.DB).QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.Profile, 0, len(userIDs))
	for rows.Next() {
		p := &domain.Profile{}
		var size string
		if err := rows.Scan(
			&p.UserID, &p.DisplayName, &p.MainEmail, &size,
			pq.Array(&p.ConferenceKeysToAttend), &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		p.TeeShirtSize = domain.TeeShirtSize(size)
		if p.ConferenceKeysToAttend == nil {
			p.ConferenceKeysToAttend = []string{}
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
