package mock

import (
	"context"
	"sync"

	"github.com/gabya-ai/Smart-Intro/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	Users     *UserRepo
	Sessions  *SessionRepo
	Letters   *LetterRepo
	Finals    *FinalRepo
	Feedback  *FeedbackRepo
	Logs      *LogRepo
	Schemas   *SchemaRepo
	Templates *TemplateRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:     &UserRepo{users: make(map[string]*models.User)},
		Sessions:  &SessionRepo{sessions: make(map[string]*models.Session)},
		Letters:   &LetterRepo{},
		Finals:    &FinalRepo{finals: make(map[string]*models.FinalRecord)},
		Feedback:  &FeedbackRepo{},
		Logs:      &LogRepo{},
		Schemas:   &SchemaRepo{},
		Templates: &TemplateRepo{},
	}
}

type UserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	EnsureErr error
	CreateErr error
}

func (m *UserRepo) EnsureUser(ctx context.Context, id, email string) error {
	if m.EnsureErr != nil {
		return m.EnsureErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		m.users[id] = &models.User{ID: id, Email: email}
	}
	return nil
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *UserRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id], nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type SessionRepo struct {
	mu        sync.Mutex
	sessions  map[string]*models.Session
	CreateErr error
	GetErr    error
}

func (m *SessionRepo) CreateSession(ctx context.Context, s *models.Session) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *SessionRepo) GetSession(ctx context.Context, id string) (*models.Session, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

type LetterRepo struct {
	mu        sync.Mutex
	Stored    []models.Letter
	CreateErr error
}

func (m *LetterRepo) CreateLetter(ctx context.Context, l *models.Letter) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	cp.ID = int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, cp)
	return cp.ID, nil
}

func (m *LetterRepo) LatestLetter(ctx context.Context, sessionID string) (*models.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.Letter
	for i := range m.Stored {
		l := &m.Stored[i]
		if l.SessionID != sessionID {
			continue
		}
		if best == nil || l.ID > best.ID {
			best = l
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (m *LetterRepo) ListLetters(ctx context.Context, sessionID string) ([]models.Letter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Letter
	for _, l := range m.Stored {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	return out, nil
}

type FinalRepo struct {
	mu        sync.Mutex
	finals    map[string]*models.FinalRecord
	Upserts   int
	UpsertErr error
}

func (m *FinalRepo) UpsertFinal(ctx context.Context, f *models.FinalRecord) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	m.finals[f.SessionID] = &cp
	m.Upserts++
	return nil
}

func (m *FinalRepo) GetFinal(ctx context.Context, sessionID string) (*models.FinalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.finals[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

type FeedbackRepo struct {
	mu        sync.Mutex
	Stored    []models.Feedback
	CreateErr error
}

func (m *FeedbackRepo) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *f
	cp.ID = int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, cp)
	return cp.ID, nil
}

func (m *FeedbackRepo) ListFeedback(ctx context.Context, sessionID string) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Feedback
	for _, f := range m.Stored {
		if f.SessionID == sessionID {
			out = append(out, f)
		}
	}
	return out, nil
}

type LogRepo struct {
	mu        sync.Mutex
	Stored    []models.InteractionLog
	CreateErr error
}

func (m *LogRepo) CreateLog(ctx context.Context, e *models.InteractionLog) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	cp.ID = int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, cp)
	return cp.ID, nil
}

// Events returns the event types recorded so far, in order.
func (m *LogRepo) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Stored))
	for _, e := range m.Stored {
		out = append(out, e.Event)
	}
	return out
}

// CountEvent returns how many entries with the given event type were logged.
func (m *LogRepo) CountEvent(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Stored {
		if e.Event == event {
			n++
		}
	}
	return n
}

type SchemaRepo struct {
	Stored  []models.EventSchema
	ListErr error
}

func (m *SchemaRepo) ListSchemas(ctx context.Context) ([]models.EventSchema, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Stored, nil
}

func (m *SchemaRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.EventSchema, error) {
	for i := range m.Stored {
		if m.Stored[i].Version == version {
			return &m.Stored[i], nil
		}
	}
	return nil, nil
}

type TemplateRepo struct {
	Stored *models.PromptTemplate
	GetErr error
}

func (m *TemplateRepo) GetTemplate(ctx context.Context, name, version string) (*models.PromptTemplate, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.Stored != nil && m.Stored.Name == name && m.Stored.Version == version {
		return m.Stored, nil
	}
	return nil, nil
}
