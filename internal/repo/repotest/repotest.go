// Package repotest provides in-memory implementations of the repo interfaces for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation is the error the stores return where Postgres would raise 23505.
var UniqueViolation = &pgconn.PgError{Code: "23505"}

// Store holds one of each in-memory repository.
type Store struct {
	Users      *Users
	Todos      *Todos
	Goals      *Goals
	Campaigns  *Campaigns
	Jobs       *Jobs
	Templates  *Templates
	Vouchers   *Vouchers
	Events     *Events
	Restricted *Restricted
}

func NewStore() *Store {
	todos := NewTodos()
	return &Store{
		Users:      NewUsers(),
		Todos:      todos,
		Goals:      NewGoals(todos),
		Campaigns:  NewCampaigns(),
		Jobs:       NewJobs(),
		Templates:  NewTemplates(),
		Vouchers:   NewVouchers(),
		Events:     NewEvents(),
		Restricted: NewRestricted(),
	}
}

func (s *Store) Repos() repo.Repos {
	return repo.Repos{
		Users:      s.Users,
		Todos:      s.Todos,
		Goals:      s.Goals,
		Campaigns:  s.Campaigns,
		Jobs:       s.Jobs,
		Templates:  s.Templates,
		Vouchers:   s.Vouchers,
		Events:     s.Events,
		Restricted: s.Restricted,
	}
}

type Users struct {
	mu    sync.Mutex
	next  int64
	users map[string]dom.User
}

func NewUsers() *Users { return &Users{users: make(map[string]dom.User)} }

func (m *Users) GetByUsername(_ context.Context, username string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *Users) GetByID(_ context.Context, id int64) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (m *Users) Create(_ context.Context, username, hash, role string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return dom.User{}, UniqueViolation
	}
	m.next++
	u := dom.User{ID: m.next, Username: username, PasswordHash: hash, Role: role, CreatedAt: time.Now()}
	m.users[username] = u
	return u, nil
}

func (m *Users) SetRole(_ context.Context, username, role string) (dom.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.Role = role
	m.users[username] = u
	return u, nil
}

type Todos struct {
	mu    sync.Mutex
	next  int64
	rows  map[int64]dom.Todo
	lists int
}

func NewTodos() *Todos { return &Todos{rows: make(map[int64]dom.Todo)} }

func (m *Todos) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	t.ID = m.next
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.rows[t.ID] = t
	return t, nil
}

func (m *Todos) GetByID(_ context.Context, userID, id int64) (dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID || t.DeletedAt != nil {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *Todos) filter(userID int64, keep func(dom.Todo) bool) []dom.Todo {
	out := []dom.Todo{}
	for _, t := range m.rows {
		if t.UserID == userID && t.DeletedAt == nil && keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Todos) List(_ context.Context, userID int64) ([]dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return m.filter(userID, func(dom.Todo) bool { return true }), nil
}

// ListCalls counts List reads that reached the store.
func (m *Todos) ListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

func (m *Todos) ListByGoal(_ context.Context, userID, goalID int64) ([]dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(userID, func(t dom.Todo) bool { return t.GoalID != nil && *t.GoalID == goalID }), nil
}

func (m *Todos) Update(ctx context.Context, userID, id int64, patch dom.Todo) (dom.Todo, error) {
	if _, err := m.GetByID(ctx, userID, id); err != nil {
		return dom.Todo{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	patch.UpdatedAt = time.Now()
	m.rows[id] = patch
	return patch, nil
}

func (m *Todos) SoftDelete(_ context.Context, userID, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.UserID != userID || t.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	t.DeletedAt = &now
	m.rows[id] = t
	return true, nil
}

func (m *Todos) MarkDone(ctx context.Context, userID, id int64, done bool) (dom.Todo, error) {
	t, err := m.GetByID(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	t.IsDone = done
	return m.Update(ctx, userID, id, t)
}

func (m *Todos) Search(_ context.Context, userID int64, q string) ([]dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q = strings.ToLower(q)
	return m.filter(userID, func(t dom.Todo) bool {
		return strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Description), q)
	}), nil
}

func (m *Todos) Overdue(_ context.Context, userID int64, now time.Time) ([]dom.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(userID, func(t dom.Todo) bool { return t.IsOverdue(now) }), nil
}

type Goals struct {
	mu    sync.Mutex
	next  int64
	rows  map[int64]dom.Goal
	todos *Todos
}

func NewGoals(todos *Todos) *Goals { return &Goals{rows: make(map[int64]dom.Goal), todos: todos} }

func (m *Goals) Create(_ context.Context, g dom.Goal) (dom.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	g.ID = m.next
	m.rows[g.ID] = g
	return g, nil
}

func (m *Goals) GetByID(_ context.Context, userID, id int64) (dom.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.rows[id]
	if !ok || g.UserID != userID || g.DeletedAt != nil {
		return dom.Goal{}, pgx.ErrNoRows
	}
	return g, nil
}

func (m *Goals) List(_ context.Context, userID int64) ([]dom.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.Goal{}
	for _, g := range m.rows {
		if g.UserID == userID && g.DeletedAt == nil {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Goals) Update(ctx context.Context, userID, id int64, patch dom.Goal) (dom.Goal, error) {
	if _, err := m.GetByID(ctx, userID, id); err != nil {
		return dom.Goal{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[id] = patch
	return patch, nil
}

func (m *Goals) SoftDelete(_ context.Context, userID, id int64) (bool, error) {
	m.mu.Lock()
	g, ok := m.rows[id]
	if !ok || g.UserID != userID || g.DeletedAt != nil {
		m.mu.Unlock()
		return false, nil
	}
	now := time.Now()
	g.DeletedAt = &now
	m.rows[id] = g
	m.mu.Unlock()

	m.todos.mu.Lock()
	defer m.todos.mu.Unlock()
	for tid, t := range m.todos.rows {
		if t.GoalID != nil && *t.GoalID == id {
			t.GoalID = nil
			m.todos.rows[tid] = t
		}
	}
	return true, nil
}

func (m *Goals) Progress(ctx context.Context, userID, id int64) (dom.GoalProgress, error) {
	list, _ := m.todos.ListByGoal(ctx, userID, id)
	p := dom.GoalProgress{Total: len(list)}
	for _, t := range list {
		if t.IsDone {
			p.Done++
		}
	}
	return p, nil
}

type Templates struct {
	mu   sync.Mutex
	next int64
	rows map[int64]dom.EmailTemplate
}

func NewTemplates() *Templates { return &Templates{rows: make(map[int64]dom.EmailTemplate)} }

func (m *Templates) nameTaken(name string, except int64) bool {
	for _, t := range m.rows {
		if t.DeletedAt == nil && t.Name == name && t.ID != except {
			return true
		}
	}
	return false
}

func (m *Templates) Create(_ context.Context, t dom.EmailTemplate) (dom.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nameTaken(t.Name, 0) {
		return dom.EmailTemplate{}, UniqueViolation
	}
	m.next++
	t.ID = m.next
	m.rows[t.ID] = t
	return t, nil
}

func (m *Templates) GetByID(_ context.Context, id int64) (dom.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.DeletedAt != nil {
		return dom.EmailTemplate{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *Templates) List(context.Context) ([]dom.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.EmailTemplate{}
	for _, t := range m.rows {
		if t.DeletedAt == nil {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Templates) Update(_ context.Context, id int64, patch dom.EmailTemplate) (dom.EmailTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return dom.EmailTemplate{}, pgx.ErrNoRows
	}
	if m.nameTaken(patch.Name, id) {
		return dom.EmailTemplate{}, UniqueViolation
	}
	m.rows[id] = patch
	return patch, nil
}

func (m *Templates) SoftDelete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	t.DeletedAt = &now
	m.rows[id] = t
	return true, nil
}

type Campaigns struct {
	mu         sync.Mutex
	next       int64
	nextRecip  int64
	rows       map[int64]dom.Campaign
	recipients map[int64][]dom.Recipient
}

func NewCampaigns() *Campaigns {
	return &Campaigns{rows: make(map[int64]dom.Campaign), recipients: make(map[int64][]dom.Recipient)}
}

func (m *Campaigns) Create(_ context.Context, c dom.Campaign) (dom.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	c.ID = m.next
	c.Status = c.ResolveStatus()
	m.rows[c.ID] = c
	return c, nil
}

func (m *Campaigns) GetByID(_ context.Context, id int64) (dom.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.DeletedAt != nil {
		return dom.Campaign{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *Campaigns) List(context.Context) ([]dom.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.Campaign{}
	for _, c := range m.rows {
		if c.DeletedAt == nil {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Campaigns) Update(ctx context.Context, id int64, patch dom.Campaign) (dom.Campaign, error) {
	if _, err := m.GetByID(ctx, id); err != nil {
		return dom.Campaign{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	patch.Status = patch.ResolveStatus()
	m.rows[id] = patch
	return patch, nil
}

func (m *Campaigns) SoftDelete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok || c.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	c.DeletedAt = &now
	m.rows[id] = c
	return true, nil
}

func (m *Campaigns) Cancel(ctx context.Context, id int64, at time.Time) (dom.Campaign, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return dom.Campaign{}, err
	}
	if c.CancelledAt == nil {
		c.CancelledAt = &at
	}
	return m.Update(ctx, id, c)
}

func (m *Campaigns) AddRecipients(_ context.Context, campaignID int64, list []dom.Recipient) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range list {
		m.nextRecip++
		r.ID = m.nextRecip
		r.CampaignID = campaignID
		r.Status = dom.RecipientPending
		m.recipients[campaignID] = append(m.recipients[campaignID], r)
	}
	return int64(len(list)), nil
}

func (m *Campaigns) ListRecipients(_ context.Context, campaignID, afterID int64, limit int) ([]dom.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.Recipient{}
	for _, r := range m.recipients[campaignID] {
		if r.ID > afterID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Campaigns) CountRecipients(_ context.Context, campaignID int64, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.recipients[campaignID] {
		if status == "" || r.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *Campaigns) SetRecipientStatus(context.Context, []int64, string) error { return nil }

func (m *Campaigns) StartProcessing(ctx context.Context, id int64, total int) (dom.Campaign, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return dom.Campaign{}, err
	}
	c.TotalBatches, c.ProcessedBatches, c.FailedBatches = total, 0, 0
	return m.Update(ctx, id, c)
}

func (m *Campaigns) RecordBatch(ctx context.Context, id int64, failed bool) (dom.Campaign, error) {
	c, err := m.GetByID(ctx, id)
	if err != nil {
		return dom.Campaign{}, err
	}
	if failed {
		c.FailedBatches++
	} else {
		c.ProcessedBatches++
	}
	return m.Update(ctx, id, c)
}

type Jobs struct {
	mu   sync.Mutex
	rows map[string]dom.ProcessingJob
}

func NewJobs() *Jobs { return &Jobs{rows: make(map[string]dom.ProcessingJob)} }

func (m *Jobs) Create(_ context.Context, j dom.ProcessingJob) (dom.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j.CreatedAt = time.Now()
	j.UpdatedAt = j.CreatedAt
	m.rows[j.ID] = j
	return j, nil
}

// All returns a snapshot of every job.
func (m *Jobs) All() []dom.ProcessingJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dom.ProcessingJob, 0, len(m.rows))
	for _, j := range m.rows {
		out = append(out, j)
	}
	return out
}

func (m *Jobs) GetByID(_ context.Context, id string) (dom.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return dom.ProcessingJob{}, pgx.ErrNoRows
	}
	return j, nil
}

func (m *Jobs) SetStatus(_ context.Context, id string, status dom.JobStatus, errMsg string) (dom.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return dom.ProcessingJob{}, pgx.ErrNoRows
	}
	j.Status, j.Error, j.UpdatedAt = status, errMsg, time.Now()
	m.rows[id] = j
	return j, nil
}

// Claim moves a pending job to running, or a running job whose last update is older than staleAfter.
func (m *Jobs) Claim(_ context.Context, id string, staleAfter time.Duration) (dom.ProcessingJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.rows[id]
	if !ok {
		return dom.ProcessingJob{}, pgx.ErrNoRows
	}
	stale := j.Status == dom.JobRunning && time.Since(j.UpdatedAt) > staleAfter
	if j.Status != dom.JobPending && !stale {
		return dom.ProcessingJob{}, pgx.ErrNoRows
	}
	j.Status, j.Error, j.UpdatedAt = dom.JobRunning, "", time.Now()
	m.rows[id] = j
	return j, nil
}

func (m *Jobs) SetProgress(_ context.Context, id string, total, processed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j := m.rows[id]
	j.Total, j.Processed, j.UpdatedAt = total, processed, time.Now()
	m.rows[id] = j
	return nil
}

func (m *Jobs) ActiveForCampaign(_ context.Context, campaignID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.rows {
		if j.CampaignID == campaignID && !j.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

type Vouchers struct {
	mu       sync.Mutex
	next     int64
	rows     map[string]dom.Voucher
	failNext int
}

func NewVouchers() *Vouchers { return &Vouchers{rows: make(map[string]dom.Voucher)} }

// FailNext makes the next n CreateBatch calls fail with a unique violation.
func (m *Vouchers) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

func (m *Vouchers) CreateBatch(_ context.Context, campaignID int64, codes []string, valueCents int64, expiresAt *time.Time) ([]dom.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext > 0 {
		m.failNext--
		return nil, UniqueViolation
	}
	out := make([]dom.Voucher, 0, len(codes))
	for _, code := range codes {
		if _, ok := m.rows[code]; ok {
			return nil, UniqueViolation
		}
	}
	for _, code := range codes {
		m.next++
		v := dom.Voucher{ID: m.next, CampaignID: campaignID, Code: code, Status: dom.VoucherAvailable,
			ValueCents: valueCents, ExpiresAt: expiresAt, CreatedAt: time.Now()}
		m.rows[code] = v
		out = append(out, v)
	}
	return out, nil
}

func (m *Vouchers) ListByCampaign(_ context.Context, campaignID int64) ([]dom.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.Voucher{}
	for _, v := range m.rows {
		if v.CampaignID == campaignID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Vouchers) GetByCode(_ context.Context, code string) (dom.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[code]
	if !ok {
		return dom.Voucher{}, pgx.ErrNoRows
	}
	return v, nil
}

func (m *Vouchers) Redeem(_ context.Context, code string, userID int64, now time.Time) (dom.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[code]
	if !ok || v.Status != dom.VoucherAvailable || v.Expired(now) {
		return dom.Voucher{}, pgx.ErrNoRows
	}
	v.Status = dom.VoucherRedeemed
	v.RedeemedBy = &userID
	v.RedeemedAt = &now
	m.rows[code] = v
	return v, nil
}

func (m *Vouchers) Void(_ context.Context, code string) (dom.Voucher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[code]
	if !ok || v.Status != dom.VoucherAvailable {
		return dom.Voucher{}, pgx.ErrNoRows
	}
	v.Status = dom.VoucherVoid
	m.rows[code] = v
	return v, nil
}

type Events struct {
	mu       sync.Mutex
	next     int64
	nextReg  int64
	sessions map[int64]dom.EventSession
	regs     []dom.Registration
}

func NewEvents() *Events { return &Events{sessions: make(map[int64]dom.EventSession)} }

func (m *Events) CreateSession(_ context.Context, s dom.EventSession) (dom.EventSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	s.ID = m.next
	m.sessions[s.ID] = s
	return s, nil
}

func (m *Events) GetSession(_ context.Context, id int64) (dom.EventSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.DeletedAt != nil {
		return dom.EventSession{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *Events) ListSessions(context.Context) ([]dom.EventSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.EventSession{}
	for _, s := range m.sessions {
		if s.DeletedAt == nil {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Events) UpdateSession(ctx context.Context, id int64, patch dom.EventSession) (dom.EventSession, error) {
	if _, err := m.GetSession(ctx, id); err != nil {
		return dom.EventSession{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = patch
	return patch, nil
}

func (m *Events) DeleteSession(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	s.DeletedAt = &now
	m.sessions[id] = s
	return true, nil
}

func (m *Events) Register(ctx context.Context, sessionID int64, email, name string) (dom.Registration, error) {
	s, err := m.GetSession(ctx, sessionID)
	if err != nil {
		return dom.Registration{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	confirmed, waitlisted := 0, 0
	for _, r := range m.regs {
		if r.SessionID != sessionID {
			continue
		}
		if r.Status != dom.RegistrationCancelled && strings.EqualFold(r.Email, email) {
			return dom.Registration{}, repo.ErrDuplicateRegistration
		}
		switch r.Status {
		case dom.RegistrationConfirmed:
			confirmed++
		case dom.RegistrationWaitlisted:
			waitlisted++
		}
	}
	status, pos := dom.Admit(s.Capacity, confirmed, waitlisted)
	m.nextReg++
	r := dom.Registration{ID: m.nextReg, SessionID: sessionID, Email: email, Name: name, Status: status, CreatedAt: time.Now()}
	m.regs = append(m.regs, r)
	r.Position = pos
	return r, nil
}

func (m *Events) CancelRegistration(_ context.Context, sessionID, registrationID int64) (dom.Registration, *dom.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return dom.Registration{}, nil, pgx.ErrNoRows
	}
	idx := -1
	for i, r := range m.regs {
		if r.ID == registrationID && r.SessionID == sessionID && r.Status != dom.RegistrationCancelled {
			idx = i
		}
	}
	if idx < 0 {
		return dom.Registration{}, nil, pgx.ErrNoRows
	}
	wasConfirmed := m.regs[idx].Status == dom.RegistrationConfirmed
	m.regs[idx].Status = dom.RegistrationCancelled
	cancelled := m.regs[idx]
	if !wasConfirmed {
		return cancelled, nil, nil
	}
	confirmed := 0
	for _, r := range m.regs {
		if r.SessionID == sessionID && r.Status == dom.RegistrationConfirmed {
			confirmed++
		}
	}
	if confirmed >= s.Capacity {
		return cancelled, nil, nil
	}
	for i, r := range m.regs {
		if r.SessionID == sessionID && r.Status == dom.RegistrationWaitlisted {
			m.regs[i].Status = dom.RegistrationConfirmed
			promoted := m.regs[i]
			return cancelled, &promoted, nil
		}
	}
	return cancelled, nil, nil
}

func (m *Events) ListRegistrations(_ context.Context, sessionID int64) ([]dom.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dom.Registration{}
	for _, r := range m.regs {
		if r.SessionID == sessionID && r.Status == dom.RegistrationConfirmed {
			out = append(out, r)
		}
	}
	for _, r := range m.regs {
		if r.SessionID == sessionID && r.Status == dom.RegistrationWaitlisted {
			out = append(out, r)
		}
	}
	dom.AssignWaitlistPositions(out)
	return out, nil
}

type Restricted struct {
	mu   sync.Mutex
	next int64
	rows map[int64]dom.RestrictedAddress
}

func NewRestricted() *Restricted { return &Restricted{rows: make(map[int64]dom.RestrictedAddress)} }

func (m *Restricted) Create(_ context.Context, a dom.RestrictedAddress) (dom.RestrictedAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.DeletedAt == nil && r.MatchKey == a.MatchKey {
			return dom.RestrictedAddress{}, UniqueViolation
		}
	}
	m.next++
	a.ID = m.next
	m.rows[a.ID] = a
	return a, nil
}

func (m *Restricted) GetByID(_ context.Context, id int64) (dom.RestrictedAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || a.DeletedAt != nil {
		return dom.RestrictedAddress{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *Restricted) List(_ context.Context, limit, offset int) ([]dom.RestrictedAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := []dom.RestrictedAddress{}
	for _, a := range m.rows {
		if a.DeletedAt == nil {
			all = append(all, a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return []dom.RestrictedAddress{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *Restricted) SoftDelete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok || a.DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	a.DeletedAt = &now
	m.rows[id] = a
	return true, nil
}

func (m *Restricted) FindByKey(_ context.Context, key string) (dom.RestrictedAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.DeletedAt == nil && a.MatchKey == key {
			return a, nil
		}
	}
	return dom.RestrictedAddress{}, pgx.ErrNoRows
}

func (m *Restricted) MatchingKeys(ctx context.Context, keys []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, k := range keys {
		if _, err := m.FindByKey(ctx, k); err == nil {
			out[k] = true
		}
	}
	return out, nil
}
