package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"attendtrack/internal/navigation"
)

var jan20 = time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "", time.Hour), mr
}

func stores(t *testing.T) map[string]Store {
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewInMemory(time.Hour),
		"redis":  rs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := New(jan20)
			if err := st.Create(ctx, s); err != nil {
				t.Fatal(err)
			}
			updated, err := st.Update(ctx, s.ID, func(s *Session) error {
				return s.SelectRole(navigation.RoleTeacher, jan20)
			})
			if err != nil {
				t.Fatal(err)
			}
			if updated.Nav.Screen != navigation.ScreenLogin {
				t.Fatalf("screen = %s", updated.Nav.Screen)
			}

			got, err := st.Get(ctx, s.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Nav.Role != navigation.RoleTeacher || len(got.Work.Roster) != 15 {
				t.Fatalf("stored = %+v", got.Nav)
			}

			if err := st.Delete(ctx, s.ID); err != nil {
				t.Fatal(err)
			}
			if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v", err)
			}
			if !st.Healthy(ctx) {
				t.Fatal("store not healthy")
			}
		})
	}
}

func TestUpdateErrorDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			s := New(jan20)
			_ = st.Create(ctx, s)
			_, err := st.Update(ctx, s.ID, func(s *Session) error {
				s.Work.Goal = 50
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v", err)
			}
			got, _ := st.Get(ctx, s.ID)
			if got.Work.Goal != 90 {
				t.Fatalf("goal = %d", got.Work.Goal)
			}
			if _, err := st.Update(ctx, "missing", func(*Session) error { return nil }); !errors.Is(err, ErrNotFound) {
				t.Fatalf("missing err = %v", err)
			}
		})
	}
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	st := NewInMemory(time.Hour)
	s := New(jan20)
	_ = st.Create(ctx, s)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = st.Update(ctx, s.ID, func(s *Session) error {
				_, err := s.Work.ToggleStudent("1")
				return err
			})
		}()
	}
	wg.Wait()

	got, _ := st.Get(ctx, s.ID)
	if !got.Work.Roster[0].Present {
		t.Fatal("even number of toggles should leave student present")
	}
}

func TestInMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	st := NewInMemory(time.Minute)
	now := jan20
	st.now = func() time.Time { return now }
	s := New(jan20)
	_ = st.Create(ctx, s)

	now = now.Add(30 * time.Second)
	if _, err := st.Update(ctx, s.ID, func(*Session) error { return nil }); err != nil {
		t.Fatal(err)
	}
	now = now.Add(45 * time.Second)
	if _, err := st.Get(ctx, s.ID); err != nil {
		t.Fatalf("update should slide expiry: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRedisExpiry(t *testing.T) {
	ctx := context.Background()
	st, mr := newRedisStore(t)
	s := New(jan20)
	_ = st.Create(ctx, s)
	if ttl := mr.TTL(st.key(s.ID)); ttl != time.Hour {
		t.Fatalf("ttl = %v", ttl)
	}
	mr.FastForward(2 * time.Hour)
	if _, err := st.Get(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogoutResetsWorkspace(t *testing.T) {
	s := New(jan20)
	_ = s.SelectRole(navigation.RoleTeacher, jan20)
	_ = s.Login(navigation.LoginInput{Name: "T", RollNumber: "T1", ClassCode: "CS"}, jan20)
	_ = s.Navigate(navigation.ScreenMarkAttendance, jan20)
	_, _ = s.Work.ToggleStudent("3")
	_, _ = s.Work.SetGoal(70)

	s.Logout(jan20)
	if s.Nav.LoggedIn() || s.Nav.Screen != navigation.ScreenWelcome {
		t.Fatalf("nav = %+v", s.Nav)
	}
	if s.Work.Goal != 90 || s.Work.Roster[2].Present {
		t.Fatalf("workspace kept: %+v", s.Work)
	}
}

func TestSaveAttendance(t *testing.T) {
	s := New(jan20)
	if _, err := s.SaveAttendance(jan20); !errors.Is(err, ErrWrongScreen) {
		t.Fatalf("err = %v", err)
	}
	_ = s.SelectRole(navigation.RoleTeacher, jan20)
	_ = s.Login(navigation.LoginInput{Name: "T", RollNumber: "T1", ClassCode: "CS"}, jan20)
	_ = s.Navigate(navigation.ScreenMarkAttendance, jan20)

	msg, err := s.SaveAttendance(jan20)
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Attendance saved! 10/15 students present" {
		t.Fatalf("msg = %q", msg)
	}
	if s.Screen() != navigation.ScreenDashboard {
		t.Fatalf("screen = %s", s.Screen())
	}
}

func TestRequire(t *testing.T) {
	s := New(jan20)
	if err := s.Require(navigation.ScreenWelcome); err != nil {
		t.Fatal(err)
	}
	if err := s.Require(navigation.ScreenAlerts); !errors.Is(err, ErrWrongScreen) {
		t.Fatalf("err = %v", err)
	}
	if s.Role() != navigation.RoleUnset {
		t.Fatalf("role = %s", s.Role())
	}
}
