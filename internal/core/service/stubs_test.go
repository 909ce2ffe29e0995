package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cdms/clinic-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	clinics  map[uuid.UUID]*domain.Clinic
	patients map[uuid.UUID]*domain.Patient
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*domain.User),
		clinics:  make(map[uuid.UUID]*domain.Clinic),
		patients: make(map[uuid.UUID]*domain.Patient),
	}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.ClinicID != nil {
		id := *u.ClinicID
		c.ClinicID = &id
	}
	return &c
}

func cloneClinic(c *domain.Clinic) *domain.Clinic {
	cp := *c
	return &cp
}

func clonePatient(p *domain.Patient) *domain.Patient {
	cp := *p
	return &cp
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return domain.ErrUsernameTaken
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sortUsers(out)
	return out, nil
}

func (r memUsers) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*domain.User{}
	for _, u := range r.s.users {
		if u.ClinicID != nil && *u.ClinicID == clinicID {
			out = append(out, cloneUser(u))
		}
	}
	sortUsers(out)
	return out, nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.s.users, id)
	for pid, p := range r.s.patients {
		if p.DoctorID == id {
			delete(r.s.patients, pid)
		}
	}
	return nil
}

func sortUsers(us []*domain.User) {
	sort.Slice(us, func(i, j int) bool {
		if !us[i].CreatedAt.Equal(us[j].CreatedAt) {
			return us[i].CreatedAt.Before(us[j].CreatedAt)
		}
		return us[i].ID.String() < us[j].ID.String()
	})
}

type memClinics struct{ s *memStore }

func (r memClinics) checkUnique(c *domain.Clinic) error {
	for _, existing := range r.s.clinics {
		if existing.ID == c.ID {
			continue
		}
		if existing.Name == c.Name {
			return domain.ErrClinicNameTaken
		}
		if existing.Email == c.Email {
			return domain.ErrClinicEmailTaken
		}
	}
	return nil
}

func (r memClinics) Create(_ context.Context, c *domain.Clinic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkUnique(c); err != nil {
		return err
	}
	r.s.clinics[c.ID] = cloneClinic(c)
	return nil
}

func (r memClinics) FindByID(_ context.Context, id uuid.UUID) (*domain.Clinic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clinics[id]
	if !ok {
		return nil, domain.ErrClinicNotFound
	}
	return cloneClinic(c), nil
}

func (r memClinics) List(_ context.Context) ([]*domain.Clinic, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Clinic, 0, len(r.s.clinics))
	for _, c := range r.s.clinics {
		out = append(out, cloneClinic(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memClinics) Update(_ context.Context, c *domain.Clinic) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clinics[c.ID]; !ok {
		return domain.ErrClinicNotFound
	}
	if err := r.checkUnique(c); err != nil {
		return err
	}
	r.s.clinics[c.ID] = cloneClinic(c)
	return nil
}

func (r memClinics) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clinics[id]; !ok {
		return domain.ErrClinicNotFound
	}
	delete(r.s.clinics, id)
	for _, u := range r.s.users {
		if u.ClinicID != nil && *u.ClinicID == id {
			u.ClinicID = nil
		}
	}
	return nil
}

type memPatients struct{ s *memStore }

func (r memPatients) Create(_ context.Context, p *domain.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.patients[p.ID] = clonePatient(p)
	return nil
}

func (r memPatients) FindByID(_ context.Context, id uuid.UUID) (*domain.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	return clonePatient(p), nil
}

func (r memPatients) ListByDoctors(_ context.Context, doctorIDs []uuid.UUID, f domain.PatientFilter) ([]*domain.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owners := make(map[uuid.UUID]bool, len(doctorIDs))
	for _, id := range doctorIDs {
		owners[id] = true
	}
	out := []*domain.Patient{}
	for _, p := range r.s.patients {
		if !owners[p.DoctorID] {
			continue
		}
		if f.Gender != "" && string(p.Gender) != f.Gender {
			continue
		}
		if f.Phone != "" && !containsFold(p.Phone, f.Phone) {
			continue
		}
		if f.FullName != "" && !containsFold(p.FullName, f.FullName) {
			continue
		}
		out = append(out, clonePatient(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r memPatients) Update(_ context.Context, p *domain.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[p.ID]; !ok {
		return domain.ErrPatientNotFound
	}
	r.s.patients[p.ID] = clonePatient(p)
	return nil
}

func (r memPatients) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[id]; !ok {
		return domain.ErrPatientNotFound
	}
	delete(r.s.patients, id)
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemBlacklist() *memBlacklist {
	return &memBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *memBlacklist) Revoke(_ context.Context, jti string, _ uuid.UUID, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = ttl
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[jti]
	return ok, nil
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memStore
	blacklist *memBlacklist
	tokens    *TokenIssuer
	auth      *AuthService
	users     *UserService
	clinics   *ClinicService
	patients  *PatientService
}

func newFixture() *fixture {
	store := newMemStore()
	bl := newMemBlacklist()
	tokens := NewTokenIssuer("test-secret", 5*time.Minute, 24*time.Hour)
	tokens.now = func() time.Time { return fixedNow }
	log := zerolog.Nop()

	f := &fixture{
		store:     store,
		blacklist: bl,
		tokens:    tokens,
		auth:      NewAuthService(memUsers{store}, bl, tokens, log),
		users:     NewUserService(memUsers{store}, memClinics{store}, log),
		clinics:   NewClinicService(memClinics{store}, memUsers{store}, log),
		patients:  NewPatientService(memPatients{store}, memUsers{store}, log),
	}
	f.auth.now = func() time.Time { return fixedNow }
	f.users.now = func() time.Time { return fixedNow }
	f.clinics.now = func() time.Time { return fixedNow }
	f.patients.now = func() time.Time { return fixedNow }
	return f
}

// seedClinic inserts a clinic directly into the store.
func (f *fixture) seedClinic(name string) uuid.UUID {
	id := uuid.New()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.clinics[id] = &domain.Clinic{
		ID:        id,
		Name:      name,
		Email:     strings.ToLower(name) + "@example.com",
		CreatedAt: fixedNow,
	}
	return id
}

// seedUser inserts an account directly into the store, bypassing hashing.
func (f *fixture) seedUser(username string, role domain.Role, clinicID *uuid.UUID) *domain.User {
	u := &domain.User{
		ID:        uuid.New(),
		Username:  username,
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Test",
		Role:      role,
		ClinicID:  clinicID,
		IsActive:  true,
		CreatedAt: fixedNow,
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.users[u.ID] = cloneUser(u)
	return u
}

func (f *fixture) userExists(id uuid.UUID) bool {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	_, ok := f.store.users[id]
	return ok
}

func superuser() domain.Principal {
	return domain.Principal{UserID: uuid.New(), Username: "root", Role: domain.RoleDoctor, IsSuperuser: true, Authenticated: true}
}

func clinicPtr(id uuid.UUID) *uuid.UUID { return &id }
