package models

import "time"

// DefaultSessionDuration is the sliding session window. Continued activity
// re-stamps LoginTime, so the window extends indefinitely while the
// principal keeps working; only 8 hours of silence ends a session.
const DefaultSessionDuration = 8 * time.Hour

// SessionRecord holds the authenticated principal and its login stamp.
// LoginTime is epoch millis; 0 means the record predates timestamping
// (an already-authenticated principal from before this mechanism), which
// is treated as valid with the full window remaining.
type SessionRecord struct {
	Token           string        `json:"token"`
	UserId          string        `json:"user_id"`
	Login           string        `json:"login"`
	Name            string        `json:"name"`
	Role            string        `json:"role"`
	BranchId        string        `json:"branch_id"`
	LoginTime       int64         `json:"login_time"`
	SessionDuration time.Duration `json:"session_duration"`
}

func (r SessionRecord) duration() time.Duration {
	if r.SessionDuration <= 0 {
		return DefaultSessionDuration
	}
	return r.SessionDuration
}

func (r SessionRecord) IsValid(now time.Time) bool {
	if r.LoginTime == 0 {
		return true
	}
	elapsed := now.Sub(time.UnixMilli(r.LoginTime))
	return elapsed < r.duration()
}

// Refresh re-stamps LoginTime to now. Call only while the record is valid.
func (r SessionRecord) Refresh(now time.Time) SessionRecord {
	r.LoginTime = now.UnixMilli()
	return r
}

func (r SessionRecord) TimeLeft(now time.Time) time.Duration {
	if r.LoginTime == 0 {
		return r.duration()
	}
	left := r.duration() - now.Sub(time.UnixMilli(r.LoginTime))
	if left < 0 {
		return 0
	}
	return left
}
