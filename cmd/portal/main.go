// Command portal is the interactive console for the campus portal API:
// staff and students sign in to see their dashboard, admins manage the
// catalog, notices and admissions, and applicants submit the intake form.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/gateway"
	"github.com/stcolombus/campus-portal/internal/logger"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/portal"
	"golang.org/x/term"
)

func main() {
	cfg := config.LoadConsole()
	log := logger.New(os.Stderr, cfg.LogLevel, "pretty")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &console{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		gw:  gateway.New(cfg.APIURL, gateway.WithLogger(log)),
		log: log,
	}
	fmt.Fprintf(c.out, "Campus Portal console (%s). Type 'help' for commands.\n", cfg.APIURL)

	if err := c.run(ctx); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Console stopped")
		os.Exit(1)
	}
}

// console is one interactive session. Only the resolver's listener runs on
// another goroutine, and it only prints.
type console struct {
	in  *bufio.Reader
	out io.Writer
	gw  *gateway.Client
	log zerolog.Logger

	resolver *portal.Resolver
	profile  *model.Profile

	departments *portal.DepartmentController
	courses     *portal.CourseController
	notices     *portal.NoticeController
	admissions  *portal.AdmissionController
}

func (c *console) Success(msg string) { fmt.Fprintf(c.out, "✓ %s\n", msg) }
func (c *console) Error(msg string)   { fmt.Fprintf(c.out, "✗ %s\n", msg) }

func (c *console) Confirm(prompt string) bool {
	answer := strings.ToLower(c.ask(prompt + " (y/N): "))
	return answer == "y" || answer == "yes"
}

func (c *console) run(ctx context.Context) error {
	defer c.signOut(context.Background())

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.resolver != nil && c.resolver.Redirect() != "" {
			_ = c.gw.Logout(ctx)
			c.dropSession()
			fmt.Fprintf(c.out, "Session ended. Redirected to %s, please log in again.\n", portal.LoginRoute)
		}

		line, err := c.readLine(c.promptLabel())
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch cmd, rest := args[0], args[1:]; cmd {
		case "help", "?":
			c.help()
		case "quit", "exit":
			return nil
		case "login":
			c.login(ctx)
		case "logout":
			c.signOut(ctx)
		case "apply":
			c.apply(ctx)
		case "dashboard":
			c.dashboard(ctx)
		case "departments", "department":
			c.withAdmin(ctx, func() { c.departmentCommand(ctx, rest) })
		case "courses", "course":
			c.withAdmin(ctx, func() { c.courseCommand(ctx, rest) })
		case "notices", "notice":
			c.withAdmin(ctx, func() { c.noticeCommand(ctx, rest) })
		case "admissions", "admission":
			c.withAdmin(ctx, func() { c.admissionCommand(ctx, rest) })
		default:
			fmt.Fprintf(c.out, "Unknown command %q. Type 'help'.\n", cmd)
		}
	}
}

func (c *console) promptLabel() string {
	if c.profile == nil {
		return "portal> "
	}
	return fmt.Sprintf("portal(%s)> ", c.profile.Role)
}

func (c *console) help() {
	fmt.Fprint(c.out, `Commands:
  login                          sign in with email and password
  logout                         end the session
  dashboard                      show the dashboard for your role
  apply                          submit an admission application
  departments [search]           list departments (admin)
  department add|edit N|delete N
  courses [search] [sem=N]       list courses (admin)
  course add|edit N|delete N
  notices [search] [type=T] [status=all|published|draft]
  notice add|edit N|delete N|publish N
  admissions [search] [status=S] list applications (admin)
  admission approve N|reject N|delete N
  quit

In forms, press Enter to keep the value in brackets or type - to clear it.
`)
}

func (c *console) login(ctx context.Context) {
	if c.profile != nil {
		fmt.Fprintf(c.out, "Already signed in as %s. Use 'logout' first.\n", c.profile.Email)
		return
	}
	email := c.ask("Email: ")
	password, err := c.readPassword("Password: ")
	if err != nil {
		c.Error("could not read password")
		return
	}
	if _, err := c.gw.Login(ctx, email, password); err != nil {
		c.Error(portalMessage("Login failed", err))
		return
	}

	r := portal.NewResolver(c.gw, c, c.log)
	r.OnChange(func(s portal.AuthState) {
		if s == portal.StateRedirecting {
			c.log.Info().Msg("Signed out by the server")
		}
	})
	c.resolver = r
	if r.Start(ctx) != portal.StateAuthenticated {
		_ = c.gw.Logout(ctx)
		c.dropSession()
		fmt.Fprintf(c.out, "Redirected to %s.\n", portal.LoginRoute)
		return
	}

	_, c.profile = r.State()
	fmt.Fprintf(c.out, "Welcome, %s.\n", c.profile.FullName)
	c.dashboard(ctx)
}

func (c *console) signOut(ctx context.Context) {
	if c.resolver == nil {
		return
	}
	c.resolver.SignedOut()
	if err := c.gw.Logout(ctx); err != nil {
		c.log.Warn().Err(err).Msg("Logout failed")
	}
	c.dropSession()
	fmt.Fprintln(c.out, "Signed out.")
}

// dropSession forgets every view bound to the old profile.
func (c *console) dropSession() {
	if c.resolver != nil {
		c.resolver.Close()
	}
	c.resolver = nil
	c.profile = nil
	c.departments, c.courses, c.notices, c.admissions = nil, nil, nil, nil
}

func (c *console) dashboard(ctx context.Context) {
	if c.profile == nil {
		fmt.Fprintf(c.out, "Not signed in. Redirected to %s.\n", portal.LoginRoute)
		return
	}

	view := portal.Route(c.profile.Role)
	fmt.Fprintf(c.out, "\n== %s ==\n", view.Title())
	if _, ok := view.(portal.UnknownRoleDashboard); ok {
		fmt.Fprintf(c.out, "Your role %q has no dashboard. Contact an administrator.\n", c.profile.Role)
		return
	}

	d, err := c.gw.Dashboard(ctx)
	if err != nil {
		c.Error(portalMessage("Failed to load dashboard", err))
		if gateway.IsUnauthorized(err) {
			c.sessionLost()
		}
		return
	}
	for _, card := range portal.DashboardCards(d) {
		fmt.Fprintf(c.out, "  %-20s %s\n", card.Label, card.Value)
	}
	fmt.Fprintln(c.out)
}

// withAdmin runs fn only for an admin profile, re-checking the role on
// every call.
func (c *console) withAdmin(ctx context.Context, fn func()) {
	if c.profile == nil {
		fmt.Fprintf(c.out, "Not signed in. Redirected to %s.\n", portal.LoginRoute)
		return
	}
	if !c.profile.Role.IsAdmin() {
		c.Error(portal.ErrAdminOnly.Error())
		return
	}
	if err := c.openPanels(); err != nil {
		c.Error(err.Error())
		return
	}
	fn()
}

func (c *console) openPanels() error {
	if c.departments != nil {
		return nil
	}
	var err error
	if c.departments, err = portal.NewDepartmentController(c.gw, c.profile, c, c); err != nil {
		return err
	}
	if c.courses, err = portal.NewCourseController(c.gw, c.profile, c, c); err != nil {
		return err
	}
	if c.notices, err = portal.NewNoticeController(c.gw, c.profile, c, c); err != nil {
		return err
	}
	if c.admissions, err = portal.NewAdmissionController(c.gw, c.profile, c, c); err != nil {
		return err
	}
	c.departments.OnSessionLost(c.sessionLost)
	c.courses.OnSessionLost(c.sessionLost)
	c.notices.OnSessionLost(c.sessionLost)
	c.admissions.OnSessionLost(c.sessionLost)
	return nil
}

// sessionLost is called when the API answers 401. The run loop redirects
// before the next prompt.
func (c *console) sessionLost() {
	if c.resolver != nil {
		c.resolver.SignedOut()
	}
}

func (c *console) readLine(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ask reads one line; EOF yields "".
func (c *console) ask(label string) string {
	line, _ := c.readLine(label)
	return line
}

// clearValue typed at a form prompt empties the field.
const clearValue = "-"

// askDefault shows current in brackets and keeps it on empty input.
func (c *console) askDefault(label, current string) string {
	if current != "" {
		label = fmt.Sprintf("%s [%s]", label, current)
	}
	switch v := c.ask(label + ": "); v {
	case "":
		return current
	case clearValue:
		return ""
	default:
		return v
	}
}

func (c *console) readPassword(label string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return c.readLine(label)
	}
	fmt.Fprint(c.out, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(c.out)
	return string(b), err
}

func portalMessage(action string, err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", action, apiErr.Error())
	}
	return fmt.Sprintf("%s: %v", action, err)
}
