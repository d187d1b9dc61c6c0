package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"conferencecentral/internal/domain"
)

const (
	announcementCacheKey = "announcement"
	announcementTTL      = time.Hour

	// Conferences with this many seats or fewer (but not sold out) make it
	// into the announcement.
	nearlySoldOutSeats = 5
)

type announcementService struct {
	conferenceRepo domain.ConferenceRepository
	cache          *gocache.Cache
}

// NewAnnouncementService creates an AnnouncementService that caches the
// computed announcement in-process for an hour.
func NewAnnouncementService(conferenceRepo domain.ConferenceRepository) domain.AnnouncementService {
	return &announcementService{
		conferenceRepo: conferenceRepo,
		cache:          gocache.New(announcementTTL, 2*announcementTTL),
	}
}

func (s *announcementService) Announcement(ctx context.Context) (string, error) {
	if cached, ok := s.cache.Get(announcementCacheKey); ok {
		return cached.(string), nil
	}

	q := domain.ConferenceQuery{
		Filters: []domain.QueryFilter{
			{Field: domain.FieldSeatsAvailable, Operator: domain.OpGT, Value: "0"},
			{Field: domain.FieldSeatsAvailable, Operator: domain.OpLTEQ, Value: fmt.Sprintf("%d", nearlySoldOutSeats)},
		},
		SortOrders: []domain.QuerySort{
			{Field: domain.FieldName, Direction: domain.SortAsc},
		},
	}
	conferences, err := s.conferenceRepo.Query(ctx, q, domain.PaginationParams{})
	if err != nil {
		return "", fmt.Errorf("query conferences: %w", err)
	}

	announcement := ""
	if len(conferences) > 0 {
		names := make([]string, len(conferences))
		for i, c := range conferences {
			names[i] = c.Name
		}
		announcement = "Last chance to attend! The following conferences are nearly sold out: " + strings.Join(names, ", ")
	}
	s.cache.Set(announcementCacheKey, announcement, gocache.DefaultExpiration)
	return announcement, nil
}
