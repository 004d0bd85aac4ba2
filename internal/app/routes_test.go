package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"hubplus/internal/auth"
	"hubplus/internal/config"
	dom "hubplus/internal/domain"
	"hubplus/internal/dto"
	"hubplus/internal/metrics"
	"hubplus/internal/repo/repotest"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingQueue struct {
	mu   sync.Mutex
	msgs []dom.CompanyProcessingMessage
}

func (q *recordingQueue) Publish(_ context.Context, m dom.CompanyProcessingMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, m)
	return nil
}

type api struct {
	router   *gin.Engine
	store    *repotest.Store
	sessions *auth.Store
	queue    *recordingQueue
	admin    *http.Cookie
	user     *http.Cookie
}

func newAPI(t *testing.T) *api {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	a := &api{
		router:   gin.New(),
		store:    repotest.NewStore(),
		sessions: auth.NewStore(rdb, time.Hour),
		queue:    &recordingQueue{},
	}
	Setup(a.router, Deps{
		Config:  config.Config{},
		Repos:   a.store.Repos(),
		Redis:   rdb,
		Queue:   a.queue,
		Metrics: metrics.New(),
	})
	a.admin = a.login(t, 1, dom.RoleAdmin)
	a.user = a.login(t, 2, dom.RoleUser)
	return a
}

func (a *api) login(t *testing.T, userID int64, role string) *http.Cookie {
	t.Helper()
	id, err := a.sessions.Create(context.Background(), auth.Principal{UserID: userID, Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: id}
}

func (a *api) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) createCampaign(t *testing.T) dto.CampaignResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/campaigns", gin.H{"name": "spring", "channel": "email"}, a.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.CampaignResponse](t, w)
}

func (a *api) createSession(t *testing.T, capacity int) dto.SessionResponse {
	t.Helper()
	start := time.Now().Add(24 * time.Hour).UTC()
	w := a.do(t, http.MethodPost, "/api/v1/event-sessions", gin.H{
		"title":     "workshop",
		"starts_at": start.Format(time.RFC3339),
		"ends_at":   start.Add(time.Hour).Format(time.RFC3339),
		"capacity":  capacity,
	}, a.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.SessionResponse](t, w)
}

func TestRoutesRequireSession(t *testing.T) {
	a := newAPI(t)
	for _, path := range []string{"/api/v1/campaigns", "/api/v1/todos", "/api/v1/event-sessions"} {
		assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, path, nil, nil).Code, path)
	}
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/health", nil, nil).Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	a := newAPI(t)
	c := a.createCampaign(t)

	forbidden := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/campaigns"},
		{http.MethodPost, "/api/v1/campaigns"},
		{http.MethodPost, "/api/v1/campaigns/1/dispatch"},
		{http.MethodGet, "/api/v1/restricted-addresses"},
		{http.MethodGet, "/api/v1/email-templates"},
		{http.MethodGet, "/api/v1/jobs/some-job"},
		{http.MethodGet, "/api/v1/audit"},
		{http.MethodPost, "/api/v1/event-sessions"},
		{http.MethodGet, "/api/v1/event-sessions/1/registrations"},
	}
	for _, tc := range forbidden {
		w := a.do(t, tc.method, tc.path, gin.H{}, a.user)
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tc.method, tc.path)
	}

	w := a.do(t, http.MethodGet, "/api/v1/campaigns", nil, a.admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), c.Name)
}

func TestDispatchRoute(t *testing.T) {
	a := newAPI(t)
	c := a.createCampaign(t)
	path := "/api/v1/campaigns/" + itoa(c.ID)

	w := a.do(t, http.MethodPost, path+"/recipients", gin.H{
		"recipients": []gin.H{{"email": "a@example.com"}},
	}, a.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, path+"/dispatch", nil, a.admin)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	job := decode[dto.JobResponse](t, w)
	assert.Equal(t, "/api/v1/jobs/"+job.ID, w.Header().Get("Location"))
	assert.Equal(t, string(dom.JobPending), job.Status)
	require.Len(t, a.queue.msgs, 1)
	assert.Equal(t, c.ID, a.queue.msgs[0].CampaignID)

	w = a.do(t, http.MethodGet, w.Header().Get("Location"), nil, a.admin)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, path+"/dispatch", nil, a.admin).Code)
	w = a.do(t, http.MethodPost, path+"/recipients", gin.H{
		"recipients": []gin.H{{"email": "late@example.com"}},
	}, a.admin)
	assert.Equal(t, http.StatusConflict, w.Code, "campaign is locked while its job is pending")
}

func TestEventSessionRoutes(t *testing.T) {
	a := newAPI(t)
	start := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)

	for name, body := range map[string]gin.H{
		"missing starts_at": {"title": "t", "ends_at": start, "capacity": 5},
		"missing ends_at":   {"title": "t", "starts_at": start, "capacity": 5},
	} {
		w := a.do(t, http.MethodPost, "/api/v1/event-sessions", body, a.admin)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	s := a.createSession(t, 1)
	regs := "/api/v1/event-sessions/" + itoa(s.ID) + "/registrations"

	w := a.do(t, http.MethodPost, regs, gin.H{"email": "ann@example.com", "name": "Ann"}, a.user)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, dom.RegistrationConfirmed, decode[dto.RegistrationResponse](t, w).Status)

	w = a.do(t, http.MethodPost, regs, gin.H{"email": "bob@example.com", "name": "Bob"}, a.user)
	require.Equal(t, http.StatusCreated, w.Code)
	bob := decode[dto.RegistrationResponse](t, w)
	assert.Equal(t, dom.RegistrationWaitlisted, bob.Status)
	assert.Equal(t, 1, bob.Position)

	w = a.do(t, http.MethodPost, regs, gin.H{"email": "ANN@example.com"}, a.user)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, regs, nil, a.user).Code)
	w = a.do(t, http.MethodGet, regs, nil, a.admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob@example.com")
}

func TestLoweringCapacityKeepsConfirmed(t *testing.T) {
	a := newAPI(t)
	s := a.createSession(t, 2)
	path := "/api/v1/event-sessions/" + itoa(s.ID)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		w := a.do(t, http.MethodPost, path+"/registrations", gin.H{"email": email}, a.user)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := a.do(t, http.MethodPatch, path, gin.H{"capacity": 1}, a.admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list, err := a.store.Events.ListRegistrations(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, r := range list {
		assert.Equal(t, dom.RegistrationConfirmed, r.Status)
	}
}

func TestVoucherRedeemRoutes(t *testing.T) {
	a := newAPI(t)
	c := a.createCampaign(t)

	w := a.do(t, http.MethodPost, "/api/v1/campaigns/"+itoa(c.ID)+"/vouchers", gin.H{"count": 1, "value_cents": 500}, a.admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	items := decode[dto.ListVouchersResponse](t, w).Items
	require.Len(t, items, 1)
	code := items[0].Code

	past := time.Now().Add(-time.Hour)
	_, err := a.store.Vouchers.CreateBatch(context.Background(), c.ID, []string{"EXPIRED1"}, 100, &past)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodPost, "/api/v1/vouchers/NOPE/redeem", nil, a.user).Code)
	assert.Equal(t, http.StatusGone, a.do(t, http.MethodPost, "/api/v1/vouchers/EXPIRED1/redeem", nil, a.user).Code)

	w = a.do(t, http.MethodPost, "/api/v1/vouchers/"+code+"/redeem", nil, a.user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, dom.VoucherRedeemed, decode[dto.VoucherResponse](t, w).Status)

	assert.Equal(t, http.StatusConflict, a.do(t, http.MethodPost, "/api/v1/vouchers/"+code+"/redeem", nil, a.user).Code)
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, "/api/v1/vouchers/"+code+"/void", nil, a.user).Code)
}
