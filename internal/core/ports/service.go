package ports

import (
	"context"

	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
)

// ActionCaller dispatches one named action to the portal backend. It never
// returns an error: every failure is a failed domain.Response.
type ActionCaller interface {
	Call(ctx context.Context, action string, params map[string]any) domain.Response
}

// Navigator receives the redirect signalled by a failed session guard.
type Navigator interface {
	Redirect(destination string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(destination string)

func (f NavigatorFunc) Redirect(destination string) { f(destination) }

type Registration struct {
	Name     string
	Email    string
	Password string
	Belt     string
	CenterID string
}

type Center struct {
	Name    string
	City    string
	State   string
	Manager string
}

type PortalService interface {
	Login(ctx context.Context, email, password string) domain.Response
	LoginAdmin(ctx context.Context, key string) domain.Response
	Logout(ctx context.Context)
	Register(ctx context.Context, reg Registration) domain.Response
	StudentStats(ctx context.Context, studentID string) domain.Response
	PendingStudents(ctx context.Context) domain.Response
	ApproveStudent(ctx context.Context, studentID string) domain.Response
	AllStudents(ctx context.Context) domain.Response
	AllCenters(ctx context.Context) domain.Response
	RegisterCenter(ctx context.Context, center Center) domain.Response
	ChangeDegree(ctx context.Context, studentID string, degree int) domain.Response
	RequireSession(ctx context.Context, fallback string) (domain.Session, bool)
	RequireAdminSession(ctx context.Context, fallback string) (domain.Session, bool)
}
