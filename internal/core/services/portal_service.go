package services

import (
	"context"
	"log"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

// PortalService exposes the portal actions on top of the action caller and
// the tab's session.
type PortalService struct {
	caller   ports.ActionCaller
	sessions *SessionService
	vocab    config.Vocabulary
}

var _ ports.PortalService = (*PortalService)(nil)

func NewPortalService(caller ports.ActionCaller, sessions *SessionService, vocab config.Vocabulary) *PortalService {
	return &PortalService{
		caller:   caller,
		sessions: sessions,
		vocab:    vocab,
	}
}

// Login authenticates a student. A successful response means the session is
// already stored; a failed one leaves any previous session untouched.
func (s *PortalService) Login(ctx context.Context, email, password string) domain.Response {
	resp := s.caller.Call(ctx, config.ActionLogin, map[string]any{
		s.vocab.Param(config.ParamEmail):    email,
		s.vocab.Param(config.ParamPassword): password,
	})
	return s.establish(ctx, resp, false)
}

// LoginAdmin authenticates with the academy admin key and stores an admin
// session carrying the returned token.
func (s *PortalService) LoginAdmin(ctx context.Context, key string) domain.Response {
	resp := s.caller.Call(ctx, config.ActionLoginAdmin, map[string]any{
		s.vocab.Param(config.ParamAdminKey): key,
	})
	return s.establish(ctx, resp, true)
}

func (s *PortalService) establish(ctx context.Context, resp domain.Response, admin bool) domain.Response {
	if !resp.OK {
		return resp
	}

	payload := resp.Payload
	if admin {
		payload = withAdminRole(payload, s.vocab.Session)
	}

	if _, err := s.sessions.Save(ctx, payload); err != nil {
		log.Printf("portal: login succeeded but session was not stored: %v", err)
		return domain.Failure(s.vocab.Messages.SessionSave)
	}
	return resp
}

// withAdminRole copies payload, setting the role to admin when the backend
// left it out, and lifting a bare "token" into the admin token field.
func withAdminRole(payload map[string]any, fields domain.SessionFields) map[string]any {
	out := make(map[string]any, len(payload)+2)
	for k, v := range payload {
		out[k] = v
	}

	nested, _ := payload[fields.User].(map[string]any)
	if role, _ := out[fields.Role].(string); role == "" {
		if nestedRole, _ := nested[fields.Role].(string); nestedRole == "" {
			out[fields.Role] = string(domain.RoleAdmin)
		}
	}
	if tok, _ := out[fields.AdminToken].(string); tok == "" {
		if nestedTok, _ := nested[fields.AdminToken].(string); nestedTok == "" {
			if bare, ok := out["token"].(string); ok {
				out[fields.AdminToken] = bare
			}
		}
	}
	return out
}

func (s *PortalService) Logout(ctx context.Context) {
	s.sessions.Clear(ctx)
}

func (s *PortalService) Register(ctx context.Context, reg ports.Registration) domain.Response {
	return s.caller.Call(ctx, config.ActionRegister, map[string]any{
		s.vocab.Param(config.ParamName):     reg.Name,
		s.vocab.Param(config.ParamEmail):    reg.Email,
		s.vocab.Param(config.ParamPassword): reg.Password,
		s.vocab.Param(config.ParamBelt):     reg.Belt,
		s.vocab.Param(config.ParamCenter):   reg.CenterID,
	})
}

func (s *PortalService) StudentStats(ctx context.Context, studentID string) domain.Response {
	return s.caller.Call(ctx, config.ActionGetStudent, map[string]any{
		s.vocab.Param(config.ParamStudentID): studentID,
	})
}

func (s *PortalService) AllCenters(ctx context.Context) domain.Response {
	return s.caller.Call(ctx, config.ActionAllCenters, map[string]any{})
}

func (s *PortalService) PendingStudents(ctx context.Context) domain.Response {
	return s.adminCall(ctx, config.ActionPendingStudents, map[string]any{})
}

func (s *PortalService) ApproveStudent(ctx context.Context, studentID string) domain.Response {
	return s.adminCall(ctx, config.ActionApproveStudent, map[string]any{
		s.vocab.Param(config.ParamStudentID): studentID,
	})
}

func (s *PortalService) AllStudents(ctx context.Context) domain.Response {
	return s.adminCall(ctx, config.ActionAllStudents, map[string]any{})
}

func (s *PortalService) RegisterCenter(ctx context.Context, center ports.Center) domain.Response {
	return s.adminCall(ctx, config.ActionRegisterCenter, map[string]any{
		s.vocab.Param(config.ParamName):    center.Name,
		s.vocab.Param(config.ParamCity):    center.City,
		s.vocab.Param(config.ParamState):   center.State,
		s.vocab.Param(config.ParamManager): center.Manager,
	})
}

func (s *PortalService) ChangeDegree(ctx context.Context, studentID string, degree int) domain.Response {
	if degree < domain.MinDegree || degree > domain.MaxDegree {
		return domain.Failure(s.vocab.Messages.InvalidDegree)
	}
	return s.adminCall(ctx, config.ActionChangeDegree, map[string]any{
		s.vocab.Param(config.ParamStudentID): studentID,
		s.vocab.Param(config.ParamDegree):    degree,
	})
}

// adminCall attaches the admin token of the current session, failing locally
// when there is no admin session.
func (s *PortalService) adminCall(ctx context.Context, action string, params map[string]any) domain.Response {
	token, ok := s.sessions.AdminToken(ctx)
	if !ok {
		return domain.Failure(s.vocab.Messages.AdminRequired)
	}
	params[s.vocab.Param(config.ParamAdminToken)] = token
	return s.caller.Call(ctx, action, params)
}

func (s *PortalService) RequireSession(ctx context.Context, fallback string) (domain.Session, bool) {
	return s.sessions.RequireSession(ctx, fallback)
}

func (s *PortalService) RequireAdminSession(ctx context.Context, fallback string) (domain.Session, bool) {
	return s.sessions.RequireAdminSession(ctx, fallback)
}
