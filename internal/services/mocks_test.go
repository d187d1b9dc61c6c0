package services

import (
	"context"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// mockTransactor runs the function directly; there is no real transaction in
// unit tests.
type mockTransactor struct {
	calls int
	err   error
}

func (m *mockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type mockConferenceRepository struct {
	conferences map[string]*domain.Conference
	nextID      int64
	createErr   error
	getErr      error
	updateErr   error
	seatUpdates map[string]int
	queryResult []*domain.Conference
	queryErr    error
	lastQuery   domain.ConferenceQuery
	queryCalls  int
}

func (m *mockConferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	c.ID = m.nextID
	c.WebsafeKey = c.Key().Encode()
	if m.conferences == nil {
		m.conferences = map[string]*domain.Conference{}
	}
	m.conferences[c.WebsafeKey] = c
	return nil
}

func (m *mockConferenceRepository) GetByKey(ctx context.Context, key domain.ConferenceKey) (*domain.Conference, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	c, ok := m.conferences[key.Encode()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockConferenceRepository) GetByKeyForUpdate(ctx context.Context, key domain.ConferenceKey) (*domain.Conference, error) {
	return m.GetByKey(ctx, key)
}

func (m *mockConferenceRepository) UpdateSeatsAvailable(ctx context.Context, key domain.ConferenceKey, seatsAvailable int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	websafe := key.Encode()
	c, ok := m.conferences[websafe]
	if !ok {
		return domain.ErrNotFound
	}
	c.SeatsAvailable = seatsAvailable
	if m.seatUpdates == nil {
		m.seatUpdates = map[string]int{}
	}
	m.seatUpdates[websafe] = seatsAvailable
	return nil
}

func (m *mockConferenceRepository) ListByKeys(ctx context.Context, keys []domain.ConferenceKey) ([]*domain.Conference, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	// Reverse order to simulate arbitrary storage ordering.
	var out []*domain.Conference
	for i := len(keys) - 1; i >= 0; i-- {
		if c, ok := m.conferences[keys[i].Encode()]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*domain.Conference
	for _, c := range m.conferences {
		if c.OrganizerUserID == organizerUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConferenceRepository) Query(ctx context.Context, q domain.ConferenceQuery, page domain.PaginationParams) ([]*domain.Conference, error) {
	m.queryCalls++
	m.lastQuery = q
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.queryResult, nil
}

type mockProfileRepository struct {
	profiles map[string]*domain.Profile
	getErr   error
	saveErr  error
	saved    []*domain.Profile
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockProfileRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	return m.GetByUserID(ctx, userID)
}

func (m *mockProfileRepository) Save(ctx context.Context, p *domain.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.profiles == nil {
		m.profiles = map[string]*domain.Profile{}
	}
	m.profiles[p.UserID] = p
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockProfileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []*domain.Profile
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockLoginCodeRepository struct {
	codes     []*domain.LoginCode
	createErr error
	listErr   error
	deleted   []string
}

func (m *mockLoginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.codes = append(m.codes, &domain.LoginCode{
		ID:        email + ":" + codeHash,
		Email:     email,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
	})
	return nil
}

func (m *mockLoginCodeRepository) ListActive(ctx context.Context, email string) ([]*domain.LoginCode, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.LoginCode
	for _, c := range m.codes {
		if c.Email == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockLoginCodeRepository) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// mockCodeHasher prefixes rather than hashes so tests can build hashes by hand.
type mockCodeHasher struct {
	hashErr error
}

func (m *mockCodeHasher) Hash(code string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + code, nil
}

func (m *mockCodeHasher) Compare(hash, code string) error {
	if hash == "hashed:"+code {
		return nil
	}
	return domain.ErrInvalidLoginCode
}

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(identity domain.Identity, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token-for-" + identity.UserID, nil
}

type mockEmailService struct {
	loginCodes []*domain.LoginCodeEmailData
	created    []*domain.ConferenceCreatedEmailData
	err        error
}

func (m *mockEmailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.loginCodes = append(m.loginCodes, data)
	return nil
}

func (m *mockEmailService) SendConferenceCreated(ctx context.Context, data *domain.ConferenceCreatedEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, data)
	return nil
}

type mockMailer struct {
	sentTo   []string
	subjects []string
	err      error
}

func (m *mockMailer) Send(to, subject, html, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sentTo = append(m.sentTo, to)
	m.subjects = append(m.subjects, subject)
	return nil
}

type mockTemplateRenderer struct {
	err error
}

func (m *mockTemplateRenderer) Render(templateName string, data any) (string, string, string, error) {
	if m.err != nil {
		return "", "", "", m.err
	}
	return strings.ToUpper(templateName), "<p>" + templateName + "</p>", templateName, nil
}

// seedConference stores a conference in the repository and returns its
// websafe key.
func seedConference(repo *mockConferenceRepository, organizerUserID string, id int64, name string, maxAttendees, seatsAvailable int) string {
	c := &domain.Conference{
		ID:              id,
		OrganizerUserID: organizerUserID,
		Name:            name,
		Topics:          []string{},
		MaxAttendees:    maxAttendees,
		SeatsAvailable:  seatsAvailable,
	}
	c.WebsafeKey = c.Key().Encode()
	if repo.conferences == nil {
		repo.conferences = map[string]*domain.Conference{}
	}
	repo.conferences[c.WebsafeKey] = c
	return c.WebsafeKey
}

// seedProfile stores a profile in the repository.
func seedProfile(repo *mockProfileRepository, userID, email string, keys ...string) *domain.Profile {
	p := domain.NewProfile(userID, email, time.Now())
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, keys...)
	if repo.profiles == nil {
		repo.profiles = map[string]*domain.Profile{}
	}
	repo.profiles[userID] = p
	return p
}
