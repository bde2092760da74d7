package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"attendtrack/internal/auth"
	"attendtrack/internal/config"
	"attendtrack/internal/journal"
	"attendtrack/internal/metrics"
	"attendtrack/internal/queue"
	"attendtrack/internal/session"
)

var testNow = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

type fakeEvents struct {
	gotSession string
}

func (f *fakeEvents) List(_ context.Context, sessionID string, limit, offset int) ([]journal.Event, error) {
	f.gotSession = sessionID
	return []journal.Event{{ID: "e1", SessionID: sessionID, Op: "login", Outcome: journal.OutcomeAccepted}}, nil
}

type harness struct {
	t       *testing.T
	router  *gin.Engine
	journal <-chan queue.Message
	metrics *metrics.Metrics
	store   *session.InMemory
	token   string
}

func newHarness(t *testing.T, events EventLister) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.App{
		JWTIssuer:     "attendtrack-test",
		JWTSigningKey: "test-key",
		CookieSecret:  "test-cookie",
		SessionTTL:    time.Hour,
	}
	q := queue.NewInMemory(128)
	store := session.NewInMemory(time.Hour)
	m := metrics.New(prometheus.NewRegistry())
	srv := NewServer(Deps{
		Config:   cfg,
		Sessions: store,
		Journal:  journal.NewPublisher(q),
		Events:   events,
		Metrics:  m,
		Now:      func() time.Time { return testNow },
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, router: srv.Router(), journal: msgs, metrics: m, store: store}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			h.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

type viewResp struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Toast     string `json:"toast"`
	View      struct {
		Screen    string `json:"screen"`
		Role      string `json:"role"`
		ActiveTab string `json:"active_tab"`
	} `json:"view"`
}

func (h *harness) expect(w *httptest.ResponseRecorder, status int) viewResp {
	h.t.Helper()
	if w.Code != status {
		h.t.Fatalf("status = %d, want %d, body %s", w.Code, status, w.Body.String())
	}
	var v viewResp
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
			h.t.Fatalf("decode: %v", err)
		}
	}
	return v
}

func (h *harness) start() viewResp {
	h.t.Helper()
	v := h.expect(h.do(http.MethodPost, "/v1/sessions", nil), http.StatusCreated)
	if v.Token == "" || v.View.Screen != "welcome" {
		h.t.Fatalf("start = %+v", v)
	}
	h.token = v.Token
	return v
}

func (h *harness) loginAs(role string) {
	h.t.Helper()
	h.start()
	h.expect(h.do(http.MethodPost, "/v1/session/role", gin.H{"role": role}), http.StatusOK)
	h.expect(h.do(http.MethodPost, "/v1/session/login", gin.H{"name": "A", "roll_number": "1", "class_code": "X"}), http.StatusOK)
}

func (h *harness) drain() []journal.Event {
	var out []journal.Event
	for {
		select {
		case m := <-h.journal:
			var evt journal.Event
			if err := json.Unmarshal(m.Body, &evt); err != nil {
				h.t.Fatal(err)
			}
			out = append(out, evt)
		case <-time.After(50 * time.Millisecond):
			return out
		}
	}
}

func TestStudentFlow(t *testing.T) {
	h := newHarness(t, nil)
	h.start()

	v := h.expect(h.do(http.MethodPost, "/v1/session/role", gin.H{"role": "student"}), http.StatusOK)
	if v.View.Screen != "login" || v.View.Role != "student" {
		t.Fatalf("after role = %+v", v.View)
	}
	v = h.expect(h.do(http.MethodPost, "/v1/session/login", gin.H{"name": "A", "roll_number": "1", "class_code": "X"}), http.StatusOK)
	if v.View.Screen != "dashboard" {
		t.Fatalf("after login = %+v", v.View)
	}

	h.expect(h.do(http.MethodPost, "/v1/session/navigate", gin.H{"screen": "mark-attendance"}), http.StatusForbidden)
	v = h.expect(h.do(http.MethodGet, "/v1/session", nil), http.StatusOK)
	if v.View.Screen != "dashboard" {
		t.Fatalf("rejected navigate changed screen to %s", v.View.Screen)
	}

	v = h.expect(h.do(http.MethodPost, "/v1/session/tab", gin.H{"tab": "alerts"}), http.StatusOK)
	if v.View.Screen != "alerts" || v.View.ActiveTab != "alerts" {
		t.Fatalf("after tab = %+v", v.View)
	}
	v = h.expect(h.do(http.MethodPost, "/v1/session/alerts/1/dismiss", nil), http.StatusOK)
	if v.Toast != "Alert dismissed" {
		t.Fatalf("toast = %q", v.Toast)
	}
	v = h.expect(h.do(http.MethodPost, "/v1/session/alerts/2/action", nil), http.StatusOK)
	if v.Toast != "Opening study group recommendations..." {
		t.Fatalf("toast = %q", v.Toast)
	}
	h.expect(h.do(http.MethodPost, "/v1/session/alerts/t1/dismiss", nil), http.StatusNotFound)

	v = h.expect(h.do(http.MethodPost, "/v1/session/logout", nil), http.StatusOK)
	if v.View.Screen != "welcome" || v.View.Role != "" || v.View.ActiveTab != "home" {
		t.Fatalf("after logout = %+v", v.View)
	}
	if v.Toast != "Logged out successfully" {
		t.Fatalf("logout toast = %q", v.Toast)
	}

	events := h.drain()
	if len(events) != 5 {
		t.Fatalf("journal events = %d", len(events))
	}
	rejected := events[2]
	if rejected.Op != "navigate" || rejected.Outcome != journal.OutcomeRejected || rejected.To != "mark-attendance" || rejected.From != "dashboard" {
		t.Fatalf("rejected event = %+v", rejected)
	}
	if got := testutil.ToFloat64(h.metrics.Transitions.WithLabelValues("navigate", "rejected")); got != 1 {
		t.Fatalf("rejected navigations = %v", got)
	}
	if got := testutil.ToFloat64(h.metrics.SessionsStarted); got != 1 {
		t.Fatalf("sessions started = %v", got)
	}
}

func TestTeacherMarksAttendance(t *testing.T) {
	h := newHarness(t, nil)
	h.loginAs("teacher")

	h.expect(h.do(http.MethodPost, "/v1/session/roster/save", nil), http.StatusConflict)
	v := h.expect(h.do(http.MethodPost, "/v1/session/navigate", gin.H{"screen": "mark-attendance"}), http.StatusOK)
	if v.View.Screen != "mark-attendance" {
		t.Fatalf("screen = %s", v.View.Screen)
	}

	w := h.do(http.MethodGet, "/v1/session/roster?filter=absent", nil)
	h.expect(w, http.StatusOK)
	var roster struct {
		Roster struct {
			Students []struct {
				ID      string `json:"id"`
				Present bool   `json:"present"`
			} `json:"students"`
		} `json:"roster"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &roster); err != nil {
		t.Fatal(err)
	}
	if len(roster.Roster.Students) != 5 {
		t.Fatalf("absent students = %d", len(roster.Roster.Students))
	}
	h.expect(h.do(http.MethodGet, "/v1/session/roster?filter=late", nil), http.StatusBadRequest)

	h.expect(h.do(http.MethodPost, "/v1/session/roster/3/toggle", nil), http.StatusOK)
	h.expect(h.do(http.MethodPost, "/v1/session/roster/99/toggle", nil), http.StatusNotFound)

	v = h.expect(h.do(http.MethodPost, "/v1/session/roster/save", nil), http.StatusOK)
	if v.Toast != "Attendance saved! 11/15 students present" || v.View.Screen != "dashboard" {
		t.Fatalf("save = %+v", v)
	}
}

func TestScreenActions(t *testing.T) {
	h := newHarness(t, nil)
	h.loginAs("student")

	h.expect(h.do(http.MethodPut, "/v1/session/goal", gin.H{"goal": 80}), http.StatusConflict)
	h.expect(h.do(http.MethodPost, "/v1/session/navigate", gin.H{"screen": "streaks"}), http.StatusOK)
	h.expect(h.do(http.MethodPut, "/v1/session/goal", gin.H{"goal": 83}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPut, "/v1/session/goal", gin.H{"goal": 80}), http.StatusOK)

	h.expect(h.do(http.MethodPost, "/v1/session/tab", gin.H{"tab": "calendar"}), http.StatusOK)
	h.expect(h.do(http.MethodPost, "/v1/session/calendar/month", gin.H{"direction": "sideways"}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/v1/session/calendar/month", gin.H{"direction": "prev"}), http.StatusOK)
	h.expect(h.do(http.MethodGet, "/v1/session/calendar/days/2024-01-15", nil), http.StatusOK)
	h.expect(h.do(http.MethodGet, "/v1/session/calendar/days/15-01-2024", nil), http.StatusBadRequest)

	h.expect(h.do(http.MethodPost, "/v1/session/tab", gin.H{"tab": "profile"}), http.StatusOK)
	w := h.do(http.MethodPut, "/v1/session/preferences", gin.H{"dark_mode": true})
	h.expect(w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Switched to dark mode") {
		t.Fatalf("preferences body = %s", w.Body.String())
	}
	w = h.do(http.MethodGet, "/v1/session/profile/qr", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qr = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestBadRequests(t *testing.T) {
	h := newHarness(t, nil)
	h.expect(h.do(http.MethodGet, "/v1/session", nil), http.StatusUnauthorized)

	h.start()
	h.expect(h.do(http.MethodPost, "/v1/session/role", gin.H{"role": "admin"}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/v1/session/role", gin.H{}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/v1/session/login", gin.H{"name": "A"}), http.StatusConflict)
	h.expect(h.do(http.MethodPost, "/v1/session/navigate", gin.H{"screen": "settings"}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/v1/session/navigate", gin.H{"screen": "calendar"}), http.StatusConflict)

	h.expect(h.do(http.MethodPost, "/v1/session/role", gin.H{"role": "student"}), http.StatusOK)
	h.expect(h.do(http.MethodPost, "/v1/session/login", gin.H{"name": " ", "roll_number": "1", "class_code": "X"}), http.StatusBadRequest)
}

func TestUnknownTargetsAreJournaled(t *testing.T) {
	h := newHarness(t, nil)
	h.loginAs("student")
	h.drain()

	h.expect(h.do(http.MethodPost, "/v1/session/navigate", gin.H{"screen": "nowhere"}), http.StatusBadRequest)
	h.expect(h.do(http.MethodPost, "/v1/session/tab", gin.H{"tab": "settings"}), http.StatusBadRequest)

	events := h.drain()
	if len(events) != 2 {
		t.Fatalf("journal events = %d", len(events))
	}
	for i, op := range []string{"navigate", "change_tab"} {
		if events[i].Op != op || events[i].Outcome != journal.OutcomeRejected || events[i].From != "dashboard" {
			t.Fatalf("event %d = %+v", i, events[i])
		}
	}
	if got := testutil.ToFloat64(h.metrics.Transitions.WithLabelValues("change_tab", "rejected")); got != 1 {
		t.Fatalf("rejected tab changes = %v", got)
	}

	h2 := newHarness(t, nil)
	h2.start()
	h2.expect(h2.do(http.MethodPost, "/v1/session/role", gin.H{"role": "admin"}), http.StatusBadRequest)
	if events := h2.drain(); len(events) != 1 || events[0].Op != "select_role" {
		t.Fatalf("role events = %+v", events)
	}
}

func TestProfileActionsAndEndSession(t *testing.T) {
	h := newHarness(t, nil)
	h.loginAs("teacher")
	h.expect(h.do(http.MethodPost, "/v1/session/profile/edit", nil), http.StatusConflict)
	h.expect(h.do(http.MethodPost, "/v1/session/tab", gin.H{"tab": "profile"}), http.StatusOK)

	v := h.expect(h.do(http.MethodPost, "/v1/session/profile/switch-class", nil), http.StatusOK)
	if v.Toast != "Class switching coming soon!" {
		t.Fatalf("toast = %q", v.Toast)
	}
	h.expect(h.do(http.MethodPost, "/v1/session/profile/delete", nil), http.StatusNotFound)

	w := h.do(http.MethodDelete, "/v1/session", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	h.expect(h.do(http.MethodGet, "/v1/session", nil), http.StatusNotFound)
}

func TestUnknownSession(t *testing.T) {
	h := newHarness(t, nil)
	tok, err := auth.Issue("no-such-session", "attendtrack-test", "test-key", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	h.token = tok.Token
	h.expect(h.do(http.MethodGet, "/v1/session", nil), http.StatusNotFound)
	h.expect(h.do(http.MethodPost, "/v1/session/back", nil), http.StatusNotFound)
	if events := h.drain(); len(events) != 0 {
		t.Fatalf("journaled %d events for unknown session", len(events))
	}
}

func TestEvents(t *testing.T) {
	h := newHarness(t, nil)
	h.start()
	h.expect(h.do(http.MethodGet, "/v1/events", nil), http.StatusServiceUnavailable)

	fake := &fakeEvents{}
	h = newHarness(t, fake)
	v := h.start()
	w := h.do(http.MethodGet, "/v1/events?session_id="+v.SessionID, nil)
	h.expect(w, http.StatusOK)
	if fake.gotSession != v.SessionID {
		t.Fatalf("listed session %q", fake.gotSession)
	}
	h.expect(h.do(http.MethodGet, "/v1/events?session_id=other", nil), http.StatusForbidden)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, nil)
	w := h.do(http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz = %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("unknown error = %d", got)
	}
	if got := statusFor(session.ErrNotFound); got != http.StatusNotFound {
		t.Fatalf("not found = %d", got)
	}
}
