package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"attendtrack/internal/auth"
	"attendtrack/internal/classqr"
	"attendtrack/internal/journal"
	"attendtrack/internal/navigation"
	"attendtrack/internal/screens"
	"attendtrack/internal/session"
)

const opSaveAttendance = "save_attendance"

func sessionID(c *gin.Context) string {
	claims, _ := c.MustGet(auth.ContextKey).(auth.Claims)
	return claims.SessionID
}

func (s *Server) render(c *gin.Context, status int, sess *session.Session, extra gin.H) {
	view := sess.View(s.now())
	if s.metrics != nil {
		s.metrics.ScreenRenders.WithLabelValues(string(view.Screen)).Inc()
	}
	body := gin.H{"session_id": sess.ID, "view": view}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

// record counts an operation and puts it on the journal. Journal failures
// are logged only.
func (s *Server) record(evt journal.Event) {
	if s.metrics != nil {
		s.metrics.Transitions.WithLabelValues(evt.Op, evt.Outcome).Inc()
	}
	if s.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.journal.Publish(ctx, evt); err != nil {
		log.Printf("journal publish failed for session %s: %v", evt.SessionID, err)
	}
}

// transition applies a navigation operation, journals the attempt and
// answers with the resulting view. Rejected operations leave the session
// untouched.
func (s *Server) transition(c *gin.Context, op string, fn func(*session.Session, time.Time) error) {
	s.journaled(c, op, func(ss *session.Session, now time.Time) (gin.H, error) {
		return nil, fn(ss, now)
	})
}

func (s *Server) journaled(c *gin.Context, op string, fn func(*session.Session, time.Time) (gin.H, error)) {
	id := sessionID(c)
	now := s.now()
	var (
		from  navigation.Screen
		role  navigation.Role
		ran   bool
		extra gin.H
	)
	sess, err := s.sessions.Update(c.Request.Context(), id, func(ss *session.Session) error {
		from, role, ran = ss.Screen(), ss.Nav.Role, true
		var err error
		extra, err = fn(ss, now)
		return err
	})
	if !ran {
		fail(c, err)
		return
	}

	evt := journal.Event{SessionID: id, Op: op, From: string(from), Role: string(role), At: now.UTC()}
	if err != nil {
		evt.Outcome, evt.Error = journal.OutcomeRejected, err.Error()
		var te *navigation.TransitionError
		if errors.As(err, &te) {
			evt.To = string(te.To)
		}
		s.record(evt)
		fail(c, err)
		return
	}
	evt.Outcome, evt.To, evt.Role = journal.OutcomeAccepted, string(sess.Screen()), string(sess.Nav.Role)
	s.record(evt)
	s.render(c, http.StatusOK, sess, extra)
}

// act runs a screen action that changes the workspace. It fails unless
// screen is being shown.
func (s *Server) act(c *gin.Context, screen navigation.Screen, fn func(*session.Session, time.Time) (gin.H, error)) {
	now := s.now()
	var extra gin.H
	sess, err := s.sessions.Update(c.Request.Context(), sessionID(c), func(ss *session.Session) error {
		if err := ss.Require(screen); err != nil {
			return err
		}
		var err error
		extra, err = fn(ss, now)
		return err
	})
	if err != nil {
		fail(c, err)
		return
	}
	s.render(c, http.StatusOK, sess, extra)
}

// peek is act for read-only actions.
func (s *Server) peek(c *gin.Context, screen navigation.Screen, fn func(*session.Session, time.Time) (gin.H, error)) {
	sess, err := s.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if err := sess.Require(screen); err != nil {
		fail(c, err)
		return
	}
	extra, err := fn(sess, s.now())
	if err != nil {
		fail(c, err)
		return
	}
	s.render(c, http.StatusOK, sess, extra)
}

func (s *Server) startSession(c *gin.Context) {
	sess := session.New(s.now())
	if err := s.sessions.Create(c.Request.Context(), sess); err != nil {
		fail(c, err)
		return
	}
	tok, err := auth.Issue(sess.ID, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.SessionTTL)
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := auth.RememberToken(c, tok.Token); err != nil {
		log.Printf("cookie session save failed: %v", err)
	}
	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	s.render(c, http.StatusCreated, sess, gin.H{
		"token":      tok.Token,
		"expires_at": tok.ExpiresAt.Unix(),
	})
}

func (s *Server) currentView(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	s.render(c, http.StatusOK, sess, nil)
}

func (s *Server) selectRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.transition(c, navigation.OpSelectRole, func(ss *session.Session, now time.Time) error {
		return ss.SelectRole(navigation.Role(req.Role), now)
	})
}

func (s *Server) login(c *gin.Context) {
	var in navigation.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.transition(c, navigation.OpLogin, func(ss *session.Session, now time.Time) error {
		return ss.Login(in, now)
	})
}

func (s *Server) back(c *gin.Context) {
	s.transition(c, navigation.OpBack, (*session.Session).Back)
}

func (s *Server) backToWelcome(c *gin.Context) {
	s.transition(c, navigation.OpBackToWelcome, (*session.Session).BackToWelcome)
}

func (s *Server) navigate(c *gin.Context) {
	var req struct {
		Screen string `json:"screen" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.transition(c, navigation.OpNavigate, func(ss *session.Session, now time.Time) error {
		return ss.Navigate(navigation.Screen(req.Screen), now)
	})
}

func (s *Server) changeTab(c *gin.Context) {
	var req struct {
		Tab string `json:"tab" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.transition(c, navigation.OpChangeTab, func(ss *session.Session, now time.Time) error {
		return ss.ChangeTab(navigation.Tab(req.Tab), now)
	})
}

func (s *Server) logout(c *gin.Context) {
	s.journaled(c, navigation.OpLogout, func(ss *session.Session, now time.Time) (gin.H, error) {
		ss.Logout(now)
		return gin.H{"toast": screens.LogoutToast}, nil
	})
}

// endSession drops the session and its cookie. The token stops working.
func (s *Server) endSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Request.Context(), sessionID(c)); err != nil {
		fail(c, err)
		return
	}
	if err := auth.ForgetToken(c); err != nil {
		log.Printf("cookie session clear failed: %v", err)
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) shiftMonth(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.act(c, navigation.ScreenCalendar, func(ss *session.Session, _ time.Time) (gin.H, error) {
		return nil, ss.Work.ShiftMonth(req.Direction)
	})
}

func (s *Server) dayDetails(c *gin.Context) {
	s.peek(c, navigation.ScreenCalendar, func(ss *session.Session, now time.Time) (gin.H, error) {
		day, err := screens.Day(ss.Role(), c.Param("date"), now)
		if err != nil {
			return nil, err
		}
		return gin.H{"day": day}, nil
	})
}

func (s *Server) roster(c *gin.Context) {
	filter, err := screens.ParseRosterFilter(c.Query("filter"))
	if err != nil {
		fail(c, err)
		return
	}
	s.peek(c, navigation.ScreenMarkAttendance, func(ss *session.Session, now time.Time) (gin.H, error) {
		return gin.H{"roster": screens.MarkAttendance(&ss.Work, filter, now)}, nil
	})
}

func (s *Server) toggleStudent(c *gin.Context) {
	s.act(c, navigation.ScreenMarkAttendance, func(ss *session.Session, _ time.Time) (gin.H, error) {
		entry, err := ss.Work.ToggleStudent(c.Param("id"))
		if err != nil {
			return nil, err
		}
		return gin.H{"student": entry}, nil
	})
}

// saveAttendance leaves the marking screen, so it is journaled like a
// navigation operation.
func (s *Server) saveAttendance(c *gin.Context) {
	s.journaled(c, opSaveAttendance, func(ss *session.Session, now time.Time) (gin.H, error) {
		msg, err := ss.SaveAttendance(now)
		if err != nil {
			return nil, err
		}
		return gin.H{"toast": msg}, nil
	})
}

func (s *Server) dismissAlert(c *gin.Context) {
	s.act(c, navigation.ScreenAlerts, func(ss *session.Session, _ time.Time) (gin.H, error) {
		msg, err := ss.Work.DismissAlert(ss.Role(), c.Param("id"))
		if err != nil {
			return nil, err
		}
		return gin.H{"toast": msg}, nil
	})
}

func (s *Server) alertAction(c *gin.Context) {
	s.peek(c, navigation.ScreenAlerts, func(ss *session.Session, _ time.Time) (gin.H, error) {
		msg, err := screens.TakeAction(ss.Role(), c.Param("id"))
		if err != nil {
			return nil, err
		}
		return gin.H{"toast": msg}, nil
	})
}

func (s *Server) setGoal(c *gin.Context) {
	var req struct {
		Goal int `json:"goal" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.act(c, navigation.ScreenStreaks, func(ss *session.Session, _ time.Time) (gin.H, error) {
		msg, err := ss.Work.SetGoal(req.Goal)
		if err != nil {
			return nil, err
		}
		return gin.H{"toast": msg}, nil
	})
}

func (s *Server) updatePreferences(c *gin.Context) {
	var patch screens.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.act(c, navigation.ScreenProfile, func(ss *session.Session, _ time.Time) (gin.H, error) {
		return gin.H{"toasts": ss.Work.UpdatePreferences(patch)}, nil
	})
}

func (s *Server) profileAction(c *gin.Context) {
	s.peek(c, navigation.ScreenProfile, func(*session.Session, time.Time) (gin.H, error) {
		msg, err := screens.ProfileAction(c.Param("action"))
		if err != nil {
			return nil, err
		}
		return gin.H{"toast": msg}, nil
	})
}

func (s *Server) classQR(c *gin.Context) {
	sess, err := s.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if err := sess.Require(navigation.ScreenProfile); err != nil {
		fail(c, err)
		return
	}
	if sess.Nav.User == nil {
		fail(c, navigation.ErrNotLoggedIn)
		return
	}
	png, err := classqr.PNG(sess.Nav.User.ClassCode, classqr.DefaultSize)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) listEvents(c *gin.Context) {
	if s.events == nil {
		fail(c, errJournalDisabled)
		return
	}
	own := sessionID(c)
	if q := c.Query("session_id"); q != "" && q != own {
		c.JSON(http.StatusForbidden, gin.H{"error": "events belong to another session"})
		return
	}
	limit, offset := 50, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	events, err := s.events.List(c.Request.Context(), own, limit, offset)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
