package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hongminglow/ets-hub/internal/auth"
	"github.com/hongminglow/ets-hub/internal/dashboard"
	"github.com/hongminglow/ets-hub/internal/models"
	"github.com/hongminglow/ets-hub/internal/models/dto"
	"github.com/hongminglow/ets-hub/internal/session"
)

// Exit codes.
const (
	ExitOK               = 0
	ExitError            = 1
	ExitDenied           = 2
	ExitNotAuthenticated = 3
)

const usage = `usage: etsctl <command> [flags]

commands:
  login --role R [--phone P] [--name N] [--provider vk|telegram|yandex] [--avatar URL] [--access-code C]
  logout
  whoami [--json]
  can <permission>
  has-role <role[,role...]>
  update [--name N] [--phone P] [--avatar URL] [--role R] [--verified=true|false] [--access-code C]
  view
  roles
  hash-code <code>
`

// Options configures where a command writes.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CLI runs commands against one local session store.
type CLI struct {
	store *session.Store
	gate  *auth.AccessGate
}

// New wires the CLI to an opened store.
func New(store *session.Store, gate *auth.AccessGate) *CLI {
	return &CLI{store: store, gate: gate}
}

// Run dispatches args[0] and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if len(args) == 0 {
		_, _ = fmt.Fprint(opts.Stderr, usage)
		return ExitError
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return c.login(ctx, rest, opts)
	case "logout":
		return c.logout(ctx, opts)
	case "whoami":
		return c.whoami(rest, opts)
	case "can":
		return c.can(rest, opts)
	case "has-role":
		return c.hasRole(rest, opts)
	case "update":
		return c.update(ctx, rest, opts)
	case "view":
		return c.view(opts)
	case "roles":
		return c.roles(opts)
	case "hash-code":
		return hashCode(rest, opts)
	case "help", "-h", "--help":
		_, _ = fmt.Fprint(opts.Stdout, usage)
		return ExitOK
	}
	_, _ = fmt.Fprintf(opts.Stderr, "etsctl: unknown command %q\n%s", cmd, usage)
	return ExitError
}

func newFlagSet(name string, opts Options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	return fs
}

func (c *CLI) login(ctx context.Context, args []string, opts Options) int {
	fs := newFlagSet("login", opts)
	role := fs.String("role", "", "client, driver, partner or admin")
	phone := fs.String("phone", "", "phone number")
	name := fs.String("name", "", "display name")
	provider := fs.String("provider", "", "social provider")
	avatar := fs.String("avatar", "", "avatar URL")
	code := fs.String("access-code", "", "administrator access code")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	parsed, err := models.ParseRole(*role)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "login: %v\n", err)
		return ExitError
	}
	if err := c.gate.Check(parsed, *code); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "login: %v\n", err)
		return ExitError
	}
	in := auth.LoginInput{Phone: *phone, Name: *name, Role: parsed, Provider: *provider}
	if *avatar != "" {
		in.Avatar = models.String(*avatar)
	}
	identity, err := auth.NewIdentity(in)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "login: %v\n", err)
		return ExitError
	}
	current, err := c.store.Login(ctx, identity)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "login: %v\n", err)
		return ExitError
	}
	_, _ = fmt.Fprintf(opts.Stdout, "signed in as %s (%s)\n", current.Name, current.Role.Label())
	return ExitOK
}

func (c *CLI) logout(ctx context.Context, opts Options) int {
	if err := c.store.Logout(ctx); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "logout: %v\n", err)
		return ExitError
	}
	_, _ = fmt.Fprintln(opts.Stdout, "signed out")
	return ExitOK
}

func (c *CLI) whoami(args []string, opts Options) int {
	fs := newFlagSet("whoami", opts)
	asJSON := fs.Bool("json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}
	identity, ok := c.store.Current()
	if !ok {
		_, _ = fmt.Fprintln(opts.Stderr, "not signed in")
		return ExitNotAuthenticated
	}
	if *asJSON {
		resp := dto.MeResponse{User: identity, Capabilities: c.store.Checker().Capabilities()}
		if err := json.NewEncoder(opts.Stdout).Encode(resp); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "whoami: encode json: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
	_, _ = fmt.Fprintf(opts.Stdout, "%s\n", identity.Name)
	_, _ = fmt.Fprintf(opts.Stdout, "  id:          %s\n", identity.ID)
	_, _ = fmt.Fprintf(opts.Stdout, "  phone:       %s\n", identity.Phone)
	_, _ = fmt.Fprintf(opts.Stdout, "  role:        %s (%s)\n", identity.Role, identity.Role.Label())
	_, _ = fmt.Fprintf(opts.Stdout, "  permissions: %s\n", strings.Join(identity.Permissions, ", "))
	return ExitOK
}

func (c *CLI) can(args []string, opts Options) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "can: expected exactly one permission")
		return ExitError
	}
	if !c.store.IsAuthenticated() {
		_, _ = fmt.Fprintln(opts.Stderr, "not signed in")
		return ExitNotAuthenticated
	}
	granted := c.store.HasPermission(args[0])
	_, _ = fmt.Fprintf(opts.Stdout, "%s: %t\n", args[0], granted)
	if !granted {
		return ExitDenied
	}
	return ExitOK
}

func (c *CLI) hasRole(args []string, opts Options) int {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(opts.Stderr, "has-role: expected a comma separated role list")
		return ExitError
	}
	var roles []models.Role
	for _, part := range strings.Split(args[0], ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		role, err := models.ParseRole(part)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "has-role: %v\n", err)
			return ExitError
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, "has-role: expected a comma separated role list")
		return ExitError
	}
	if !c.store.IsAuthenticated() {
		_, _ = fmt.Fprintln(opts.Stderr, "not signed in")
		return ExitNotAuthenticated
	}
	granted := c.store.HasRole(roles...)
	_, _ = fmt.Fprintf(opts.Stdout, "%s: %t\n", args[0], granted)
	if !granted {
		return ExitDenied
	}
	return ExitOK
}

func (c *CLI) update(ctx context.Context, args []string, opts Options) int {
	fs := newFlagSet("update", opts)
	name := fs.String("name", "", "display name")
	phone := fs.String("phone", "", "phone number")
	avatar := fs.String("avatar", "", "avatar URL")
	role := fs.String("role", "", "new role")
	verified := fs.Bool("verified", false, "verification flag")
	accessCode := fs.String("access-code", "", "administrator access code")
	if err := fs.Parse(args); err != nil {
		return ExitError
	}

	var patch models.IdentityPatch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			patch.Name = name
		case "phone":
			patch.Phone = phone
		case "avatar":
			patch.Avatar = avatar
		case "verified":
			patch.Verified = verified
		case "role":
			r, err := models.ParseRole(*role)
			if err != nil {
				parseErr = err
				return
			}
			patch.Role = &r
		}
	})
	if parseErr != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "update: %v\n", parseErr)
		return ExitError
	}
	if patch.Empty() {
		_, _ = fmt.Fprintln(opts.Stderr, "update: nothing to update")
		return ExitError
	}
	if patch.Role != nil {
		if err := c.gate.Check(*patch.Role, *accessCode); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "update: %v\n", err)
			return ExitError
		}
	}

	updated, ok, err := c.store.UpdateUser(ctx, patch)
	if !ok {
		_, _ = fmt.Fprintln(opts.Stderr, "not signed in")
		return ExitNotAuthenticated
	}
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "update: %v\n", err)
		return ExitError
	}
	_, _ = fmt.Fprintf(opts.Stdout, "updated %s (%s)\n", updated.Name, updated.Role.Label())
	return ExitOK
}

func (c *CLI) view(opts Options) int {
	page := dashboard.Build(nil)
	if identity, ok := c.store.Current(); ok {
		page = dashboard.Build(&identity)
	}
	out := opts.Stdout
	_, _ = fmt.Fprintf(out, "view: %s\n", page.View)

	if page.View == dashboard.ViewAdmin {
		s := page.System
		_, _ = fmt.Fprintf(out, "users %d, drivers %d, orders %d, revenue %.0f, health %.1f%%\n", s.TotalUsers, s.ActiveDrivers, s.TotalOrders, s.Revenue, s.SystemHealth)
		for _, a := range page.Alerts {
			_, _ = fmt.Fprintf(out, "[%s] %s\n", a.Type, a.Message)
		}
		for _, sec := range page.Sections {
			_, _ = fmt.Fprintf(out, "- %s\n", sec.Title)
		}
		return ExitOK
	}

	_, _ = fmt.Fprintln(out, page.Copy.Title)
	_, _ = fmt.Fprintln(out, page.Copy.Subtitle)
	if st := page.UserStats; st != nil {
		_, _ = fmt.Fprintf(out, "balance %.0f, bonuses %.0f, trips %d, rating %.1f\n", st.Balance, st.Bonuses, st.Trips, st.Rating)
	}
	for _, svc := range page.Services {
		_, _ = fmt.Fprintf(out, "- %s: %s\n", svc.Title, svc.Description)
	}
	return ExitOK
}

func (c *CLI) roles(opts Options) int {
	for _, info := range auth.Catalogue() {
		_, _ = fmt.Fprintf(opts.Stdout, "%-8s %s: %s\n", info.Role, info.Label, strings.Join(info.Permissions, ", "))
	}
	return ExitOK
}

func hashCode(args []string, opts Options) int {
	if len(args) != 1 || args[0] == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "hash-code: expected the access code")
		return ExitError
	}
	hash, err := auth.HashAccessCode(args[0])
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "hash-code: %v\n", err)
		return ExitError
	}
	_, _ = fmt.Fprintln(opts.Stdout, hash)
	return ExitOK
}
