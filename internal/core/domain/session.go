package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

const (
	MinDegree = 0
	MaxDegree = 4
)

// Session is the signed-in user cached for the lifetime of one tab.
type Session struct {
	UserID     string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Belt       string    `json:"belt"`
	Degree     int       `json:"degree"`
	CenterID   string    `json:"center"`
	Status     string    `json:"status"`
	Role       Role      `json:"role"`
	AdminToken string    `json:"adminToken,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return strings.EqualFold(string(s.Role), string(RoleAdmin))
}

// SessionFields names the backend payload fields a Session is read from.
type SessionFields struct {
	User       string `json:"user"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Belt       string `json:"belt"`
	Degree     string `json:"degree"`
	Center     string `json:"center"`
	Status     string `json:"status"`
	Role       string `json:"role"`
	AdminToken string `json:"adminToken"`
}

// NormalizeSession maps a loosely shaped user payload onto a Session.
//
// Each field is taken from the top level of payload when present and
// non-empty, otherwise from the record nested under fields.User. The admin
// token is kept only for admin sessions and the degree is clamped to
// [MinDegree, MaxDegree].
func NormalizeSession(payload map[string]any, fields SessionFields, createdAt time.Time) Session {
	nested, _ := payload[fields.User].(map[string]any)

	pick := func(key string) any {
		if key == "" {
			return nil
		}
		if v, ok := payload[key]; ok && !isEmpty(v) {
			return v
		}
		if nested != nil {
			if v, ok := nested[key]; ok && !isEmpty(v) {
				return v
			}
		}
		return nil
	}

	s := Session{
		UserID:    asString(pick(fields.ID)),
		Name:      asString(pick(fields.Name)),
		Email:     asString(pick(fields.Email)),
		Belt:      asString(pick(fields.Belt)),
		Degree:    ParseDegree(pick(fields.Degree)),
		CenterID:  asString(pick(fields.Center)),
		Status:    asString(pick(fields.Status)),
		Role:      Role(asString(pick(fields.Role))),
		CreatedAt: createdAt.UTC(),
	}
	if s.IsAdmin() {
		s.AdminToken = asString(pick(fields.AdminToken))
	}
	return s
}

// ParseDegree reads a degree from a number or numeric string, clamping it
// into the valid range. Anything unreadable is degree zero.
func ParseDegree(v any) int {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return MinDegree
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(leadingNumber(t), 64)
		if err != nil {
			return MinDegree
		}
		n = f
	default:
		return MinDegree
	}
	if math.IsNaN(n) {
		return MinDegree
	}
	d := int(math.Trunc(n))
	if d < MinDegree {
		return MinDegree
	}
	if d > MaxDegree {
		return MaxDegree
	}
	return d
}

// leadingNumber strips suffixes such as "2º" or "3 graus".
func leadingNumber(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || (end == 0 && s[end] == '-')) {
		end++
	}
	return s[:end]
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}
