package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type conferenceService struct {
	tx             domain.Transactor
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	emailService   domain.EmailService
}

// NewConferenceService creates a ConferenceService. emailService may be nil
// to disable creation notifications.
func NewConferenceService(
	tx domain.Transactor,
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	emailService domain.EmailService,
) domain.ConferenceService {
	return &conferenceService{
		tx:             tx,
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		emailService:   emailService,
	}
}

func validateConferenceForm(form domain.ConferenceForm) error {
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if form.Month < 1 || form.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12", domain.ErrInvalidInput)
	}
	if form.MaxAttendees < 0 {
		return fmt.Errorf("%w: max_attendees cannot be negative", domain.ErrInvalidInput)
	}
	if form.StartDate != nil && form.EndDate != nil && form.EndDate.Before(*form.StartDate) {
		return fmt.Errorf("%w: end_date cannot be before start_date", domain.ErrInvalidInput)
	}
	return nil
}

func (s *conferenceService) CreateConference(ctx context.Context, identity domain.Identity, form domain.ConferenceForm) (*domain.Conference, error) {
	if err := validateConferenceForm(form); err != nil {
		return nil, err
	}

	now := time.Now()
	topics := form.Topics
	if topics == nil {
		topics = []string{}
	}
	conference := &domain.Conference{
		OrganizerUserID: identity.UserID,
		Name:            strings.TrimSpace(form.Name),
		Description:     form.Description,
		City:            form.City,
		Topics:          topics,
		Month:           form.Month,
		MaxAttendees:    form.MaxAttendees,
		SeatsAvailable:  form.MaxAttendees,
		StartDate:       form.StartDate,
		EndDate:         form.EndDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var organizer *domain.Profile
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		organizer, err = s.profileRepo.GetByUserIDForUpdate(ctx, identity.UserID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("get profile: %w", err)
			}
			organizer = domain.NewProfile(identity.UserID, identity.Email, now)
			if err := s.profileRepo.Save(ctx, organizer); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
		}
		if err := s.conferenceRepo.Create(ctx, conference); err != nil {
			return fmt.Errorf("create conference: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		data := &domain.ConferenceCreatedEmailData{
			Email:          organizer.MainEmail,
			DisplayName:    organizer.DisplayName,
			ConferenceName: conference.Name,
			City:           conference.City,
			MaxAttendees:   conference.MaxAttendees,
		}
		if err := s.emailService.SendConferenceCreated(ctx, data); err != nil {
			// Notification is best effort; the conference is already created.
			log.Printf("[EMAIL] conference created notification failed: %v", err)
		}
	}
	return conference, nil
}

func (s *conferenceService) GetConference(ctx context.Context, websafeKey string) (*domain.Conference, error) {
	key, err := domain.DecodeConferenceKey(websafeKey)
	if err != nil {
		return nil, err
	}
	conference, err := s.conferenceRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return conference, nil
}

func (s *conferenceService) ConferencesCreated(ctx context.Context, identity domain.Identity) ([]*domain.Conference, error) {
	conferences, err := s.conferenceRepo.ListByOrganizer(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return conferences, nil
}
