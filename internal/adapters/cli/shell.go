// Package cli drives the portal from a line-oriented terminal. One Shell is
// one browser tab: it holds at most one session and clears it on exit.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/ports"
)

const (
	StudentLoginPage = "index.html"
	AdminLoginPage   = "admin-login.html"
)

const helpText = `commands:
  login <email> <password>          sign in as a student
  admin <key>                       sign in as academy admin
  logout                            end the session
  whoami                            show the current session
  register name|email|password|belt|center
  stats [studentID]                 student statistics (default: yourself)
  centers                           list training centres
  pending                           pending registrations (admin)
  approve <studentID>               approve a registration (admin)
  students                          full roster (admin)
  center-add name|city|state|manager
                                    register a training centre (admin)
  degree <studentID> <0-4>          change a student's degree (admin)
  help                              this text
  quit                              close the tab
`

// Shell reads one command per line and prints the outcome.
type Shell struct {
	// StudentPage and AdminPage are the redirect targets of the session
	// guards.
	StudentPage string
	AdminPage   string

	portal   ports.PortalService
	in       io.Reader
	out      io.Writer
	hidden   map[string]bool
	messages config.Messages
}

// NewShell builds a shell. The vocabulary's success and error flags are not
// echoed back; its messages are printed when a guard turns a command away.
func NewShell(portal ports.PortalService, in io.Reader, out io.Writer, vocab config.Vocabulary) *Shell {
	return &Shell{
		StudentPage: StudentLoginPage,
		AdminPage:   AdminLoginPage,
		portal:      portal,
		in:          in,
		out:         out,
		hidden: map[string]bool{
			vocab.SuccessField: true,
			vocab.ErrorField:   true,
		},
		messages: vocab.Messages,
	}
}

// RedirectPrinter is the Navigator of a terminal tab.
func RedirectPrinter(out io.Writer) ports.Navigator {
	return ports.NavigatorFunc(func(destination string) {
		fmt.Fprintf(out, "-> redirect: %s\n", destination)
	})
}

// Run processes commands until quit, end of input or ctx cancellation. The
// session is cleared before returning.
func (s *Shell) Run(ctx context.Context) error {
	defer s.portal.Logout(context.WithoutCancel(ctx))

	scanner := bufio.NewScanner(s.in)
	s.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			s.prompt()
			continue
		}
		if !s.Execute(ctx, line) {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

// Execute runs one command line. It returns false when the shell should stop.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return false

	case "help":
		fmt.Fprint(s.out, helpText)

	case "login":
		if len(args) != 2 {
			s.usage("login <email> <password>")
			break
		}
		resp := s.portal.Login(ctx, args[0], args[1])
		s.afterLogin(ctx, resp, s.StudentPage)

	case "admin":
		if len(args) != 1 {
			s.usage("admin <key>")
			break
		}
		resp := s.portal.LoginAdmin(ctx, args[0])
		s.afterLogin(ctx, resp, s.AdminPage)

	case "logout":
		s.portal.Logout(ctx)
		fmt.Fprintln(s.out, "signed out")

	case "whoami":
		if session, ok := s.requireSession(ctx); ok {
			s.printSession(session)
		}

	case "register":
		parts := splitPipe(rest)
		if len(parts) != 5 {
			s.usage("register name|email|password|belt|center")
			break
		}
		s.print(s.portal.Register(ctx, ports.Registration{
			Name: parts[0], Email: parts[1], Password: parts[2], Belt: parts[3], CenterID: parts[4],
		}))

	case "stats":
		session, ok := s.requireSession(ctx)
		if !ok {
			break
		}
		id := session.UserID
		if len(args) > 0 {
			id = args[0]
		}
		s.print(s.portal.StudentStats(ctx, id))

	case "centers":
		s.print(s.portal.AllCenters(ctx))

	case "pending":
		if s.requireAdmin(ctx) {
			s.print(s.portal.PendingStudents(ctx))
		}

	case "approve":
		if len(args) != 1 {
			s.usage("approve <studentID>")
			break
		}
		if s.requireAdmin(ctx) {
			s.print(s.portal.ApproveStudent(ctx, args[0]))
		}

	case "students":
		if s.requireAdmin(ctx) {
			s.print(s.portal.AllStudents(ctx))
		}

	case "center-add":
		parts := splitPipe(rest)
		if len(parts) != 4 {
			s.usage("center-add name|city|state|manager")
			break
		}
		if s.requireAdmin(ctx) {
			s.print(s.portal.RegisterCenter(ctx, ports.Center{
				Name: parts[0], City: parts[1], State: parts[2], Manager: parts[3],
			}))
		}

	case "degree":
		if len(args) != 2 {
			s.usage("degree <studentID> <0-4>")
			break
		}
		degree, err := strconv.Atoi(args[1])
		if err != nil {
			s.usage("degree <studentID> <0-4>")
			break
		}
		if s.requireAdmin(ctx) {
			s.print(s.portal.ChangeDegree(ctx, args[0], degree))
		}

	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	return true
}

func (s *Shell) afterLogin(ctx context.Context, resp domain.Response, page string) {
	if !resp.OK {
		s.print(resp)
		return
	}
	if session, ok := s.portal.RequireSession(ctx, page); ok {
		fmt.Fprintf(s.out, "welcome, %s\n", displayName(session))
	}
}

func (s *Shell) requireSession(ctx context.Context) (domain.Session, bool) {
	session, ok := s.portal.RequireSession(ctx, s.StudentPage)
	if !ok {
		fmt.Fprintf(s.out, "error: %s\n", s.messages.SessionRequired)
	}
	return session, ok
}

func (s *Shell) requireAdmin(ctx context.Context) bool {
	_, ok := s.portal.RequireAdminSession(ctx, s.AdminPage)
	if !ok {
		fmt.Fprintf(s.out, "error: %s\n", s.messages.AdminRequired)
	}
	return ok
}

func (s *Shell) print(resp domain.Response) {
	if !resp.OK {
		fmt.Fprintf(s.out, "error: %s\n", resp.Message)
		return
	}

	keys := make([]string, 0, len(resp.Payload))
	for k := range resp.Payload {
		if !s.hidden[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		fmt.Fprintln(s.out, "ok")
		return
	}
	sort.Strings(keys)

	for _, k := range keys {
		if records := resp.Records(k); len(records) > 0 {
			fmt.Fprintf(s.out, "%s (%d):\n", k, len(records))
			for _, rec := range records {
				fmt.Fprintf(s.out, "  %s\n", compact(rec))
			}
			continue
		}
		fmt.Fprintf(s.out, "%s: %s\n", k, compact(resp.Payload[k]))
	}
}

func (s *Shell) printSession(session domain.Session) {
	fmt.Fprintf(s.out, "%s <%s>\n", displayName(session), session.Email)
	fmt.Fprintf(s.out, "  role: %s\n", session.Role)
	if session.Belt != "" {
		fmt.Fprintf(s.out, "  belt: %s, degree %d\n", session.Belt, session.Degree)
	}
	if session.CenterID != "" {
		fmt.Fprintf(s.out, "  center: %s\n", session.CenterID)
	}
	if session.Status != "" {
		fmt.Fprintf(s.out, "  status: %s\n", session.Status)
	}
	fmt.Fprintf(s.out, "  since: %s\n", session.CreatedAt.Format("2006-01-02 15:04:05 MST"))
}

func (s *Shell) usage(text string) {
	fmt.Fprintf(s.out, "usage: %s\n", text)
}

func (s *Shell) prompt() {
	fmt.Fprint(s.out, "> ")
}

func displayName(session domain.Session) string {
	if session.Name != "" {
		return session.Name
	}
	if session.Email != "" {
		return session.Email
	}
	return session.UserID
}

func splitPipe(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func compact(v any) string {
	if str, ok := v.(string); ok {
		return str
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("shell: cannot render value: %v", err)
		return fmt.Sprint(v)
	}
	return string(data)
}
