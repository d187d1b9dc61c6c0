package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type conferenceRepository struct {
	DB *sql.DB
}

// NewConferenceRepository returns a domain.ConferenceRepository implemented with Postgres.
func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{DB: db}
}

const conferenceColumns = `id, organizer_user_id, name, description, city, topics, month, max_attendees, seats_available, start_date, end_date, created_at, updated_at`

func scanConference(scan func(dest ...any) error) (*domain.Conference, error) {
	c := &domain.Conference{}
	var startNull, endNull sql.NullTime
	err := scan(
		&c.ID, &c.OrganizerUserID, &c.Name, &c.Description, &c.City,
		pq.Array(&c.Topics), &c.Month, &c.MaxAttendees, &c.SeatsAvailable,
		&startNull, &endNull, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Topics == nil {
		c.Topics = []string{}
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	c.WebsafeKey = c.Key().Encode()
	return c, nil
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (organizer_user_id, name, description, city, topics, month, max_attendees, seats_available, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := queryerFrom(ctx, r.DB).QueryRowContext(ctx, query,
		c.OrganizerUserID, c.Name, c.Description, c.City, pq.Array(c.Topics),
		c.Month, c.MaxAttendees, c.SeatsAvailable, c.StartDate, c.EndDate,
		c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return err
	}
	c.WebsafeKey = c.Key().Encode()
	return nil
}

func (r *conferenceRepository) getByKey(ctx context.Context, key domain.ConferenceKey, forUpdate bool) (*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id = $1 AND organizer_user_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	row := queryerFrom(ctx, r.DB).QueryRowContext(ctx, query, key.ID, key.OrganizerUserID)
	c, err := scanConference(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetByKey(ctx context.Context, key domain.ConferenceKey) (*domain.Conference, error) {
	return r.getByKey(ctx, key, false)
}

func (r *conferenceRepository) GetByKeyForUpdate(ctx context.Context, key domain.ConferenceKey) (*domain.Conference, error) {
	return r.getByKey(ctx, key, true)
}

func (r *conferenceRepository) UpdateSeatsAvailable(ctx context.Context, key domain.ConferenceKey, seatsAvailable int) error {
	query := `
		UPDATE conferences
		SET seats_available = $1, updated_at = NOW()
		WHERE id = $2 AND organizer_user_id = $3
	`
	result, err := queryerFrom(ctx, r.DB).ExecContext(ctx, query, seatsAvailable, key.ID, key.OrganizerUserID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conferenceRepository) ListByKeys(ctx context.Context, keys []domain.ConferenceKey) ([]*domain.Conference, error) {
	if len(keys) == 0 {
		return []*domain.Conference{}, nil
	}
	ids := make([]int64, len(keys))
	for i, k := range keys {
		ids[i] = k.ID
	}
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE id = ANY($1)
	`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumns + `
		FROM conferences
		WHERE organizer_user_id = $1
		ORDER BY name
	`
	return r.list(ctx, query, organizerUserID)
}

var queryColumns = map[domain.QueryField]string{
	domain.FieldCity:           "city",
	domain.FieldTopic:          "topics",
	domain.FieldMonth:          "month",
	domain.FieldMaxAttendees:   "max_attendees",
	domain.FieldSeatsAvailable: "seats_available",
	domain.FieldName:           "name",
}

var queryOperators = map[domain.QueryOperator]string{
	domain.OpEQ:   "=",
	domain.OpNE:   "<>",
	domain.OpGT:   ">",
	domain.OpGTEQ: ">=",
	domain.OpLT:   "<",
	domain.OpLTEQ: "<=",
}

func (r *conferenceRepository) Query(ctx context.Context, q domain.ConferenceQuery, page domain.PaginationParams) ([]*domain.Conference, error) {
	var (
		where []string
		args  []any
	)
	n := 1
	for _, f := range q.Filters {
		column, ok := queryColumns[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown filter field %q", domain.ErrInvalidInput, f.Field)
		}
		op, ok := queryOperators[f.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidInput, f.Operator)
		}
		switch f.Field {
		case domain.FieldTopic:
			where = append(where, fmt.Sprintf("$%d = ANY(topics)", n))
			args = append(args, f.Value)
		case domain.FieldCity:
			where = append(where, fmt.Sprintf("%s %s $%d", column, op, n))
			args = append(args, f.Value)
		default:
			v, err := strconv.Atoi(f.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: filter on %s needs a numeric value", domain.ErrInvalidInput, f.Field)
			}
			where = append(where, fmt.Sprintf("%s %s $%d", column, op, n))
			args = append(args, v)
		}
		n++
	}

	orderBy := make([]string, 0, len(q.SortOrders))
	for _, s := range q.SortOrders {
		column, ok := queryColumns[s.Field]
		if !ok || s.Field == domain.FieldTopic {
			return nil, fmt.Errorf("%w: unknown sort field %q", domain.ErrInvalidInput, s.Field)
		}
		dir := "ASC"
		if s.Direction == domain.SortDesc {
			dir = "DESC"
		}
		orderBy = append(orderBy, column+" "+dir)
	}
	if len(orderBy) == 0 {
		orderBy = append(orderBy, "name ASC")
	}

	query := `SELECT ` + conferenceColumns + ` FROM conferences`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + strings.Join(orderBy, ", ")
	if page.PageSize > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n, n+1)
		args = append(args, page.PageSize, page.Offset())
	}
	return r.list(ctx, query, args...)
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := queryerFrom(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conferences := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows.Scan)
		if err != nil {
			return nil, err
		}
		conferences = append(conferences, c)
	}
	return conferences, rows.Err()
}
