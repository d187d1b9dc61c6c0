package services

import (
	"context"
	"fmt"

	"conferencecentral/internal/domain"
)

type queryService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
}

// NewQueryService creates a QueryService with the given repositories.
func NewQueryService(conferenceRepo domain.ConferenceRepository, profileRepo domain.ProfileRepository) domain.QueryService {
	return &queryService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
	}
}

func (s *queryService) QueryConferences(ctx context.Context, q domain.ConferenceQuery, page domain.PaginationParams) ([]*domain.Conference, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	conferences, err := s.conferenceRepo.Query(ctx, q, page)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	if err := s.attachOrganizerNames(ctx, conferences); err != nil {
		return nil, err
	}
	return conferences, nil
}

// ConferencesFiltered runs a fixed filter combination: large conferences in
// London about web technologies in January, ordered by capacity then name.
func (s *queryService) ConferencesFiltered(ctx context.Context) ([]*domain.Conference, error) {
	q := domain.ConferenceQuery{
		Filters: []domain.QueryFilter{
			{Field: domain.FieldMaxAttendees, Operator: domain.OpGT, Value: "10"},
			{Field: domain.FieldCity, Operator: domain.OpEQ, Value: "London"},
			{Field: domain.FieldTopic, Operator: domain.OpEQ, Value: "Web Technologies"},
			{Field: domain.FieldMonth, Operator: domain.OpEQ, Value: "1"},
		},
		SortOrders: []domain.QuerySort{
			{Field: domain.FieldMaxAttendees, Direction: domain.SortAsc},
			{Field: domain.FieldName, Direction: domain.SortAsc},
		},
	}
	conferences, err := s.conferenceRepo.Query(ctx, q, domain.PaginationParams{})
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return conferences, nil
}

// attachOrganizerNames pre-fetches organizer profiles in one batch and fills
// OrganizerDisplayName on each conference. Display only; missing profiles
// leave the field empty.
func (s *queryService) attachOrganizerNames(ctx context.Context, conferences []*domain.Conference) error {
	if len(conferences) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(conferences))
	userIDs := make([]string, 0, len(conferences))
	for _, c := range conferences {
		if _, ok := seen[c.OrganizerUserID]; !ok {
			seen[c.OrganizerUserID] = struct{}{}
			userIDs = append(userIDs, c.OrganizerUserID)
		}
	}
	profiles, err := s.profileRepo.ListByUserIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("list organizer profiles: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for _, p := range profiles {
		names[p.UserID] = p.DisplayName
	}
	for _, c := range conferences {
		c.OrganizerDisplayName = names[c.OrganizerUserID]
	}
	return nil
}
