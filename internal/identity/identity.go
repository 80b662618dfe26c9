// Package identity resolves the authenticated principal of a request.
//
// Authentication itself happens upstream: a proxy verifies the session and
// forwards the caller's email in a trusted header. This package maps that
// email onto a stored user and role.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
	"phone8ez/internal"
	"phone8ez/ports"
)

// Provider returns the principal behind a request
type Provider interface {
	Principal(ctx context.Context, r *http.Request) (account.Principal, error)
}

// HeaderProvider trusts an email header set by the authentication proxy
type HeaderProvider struct {
	header string
	admins map[core.Email]bool
	users  ports.UserRepository
	logger *internal.Logger
}

// NewHeaderProvider creates a provider reading header. Emails in admins are
// always treated as administrators.
func NewHeaderProvider(header string, admins []string, users ports.UserRepository, logger *internal.Logger) *HeaderProvider {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	set := make(map[core.Email]bool, len(admins))
	for _, a := range admins {
		set[core.NormalizeEmail(a)] = true
	}
	return &HeaderProvider{header: header, admins: set, users: users, logger: logger}
}

// Principal reads the email header, registers unknown users with the user
// role and returns the caller's identity
func (p *HeaderProvider) Principal(ctx context.Context, r *http.Request) (account.Principal, error) {
	raw := strings.TrimSpace(r.Header.Get(p.header))
	if raw == "" {
		return account.Principal{}, core.ErrUnauthenticated
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" {
		return account.Principal{}, fmt.Errorf("%w: malformed %s header", core.ErrUnauthenticated, p.header)
	}
	email := core.NormalizeEmail(addr.Address)

	role := account.RoleUser
	if p.admins[email] {
		role = account.RoleAdmin
	}

	user, err := p.users.Ensure(ctx, email, role)
	if err != nil {
		p.logger.Error("[HeaderProvider] failed to load user %s: %v", email, err)
		return account.Principal{}, err
	}

	principal := user.Principal()
	principal.Email = email
	if p.admins[email] {
		principal.Role = account.RoleAdmin
	}
	return principal, nil
}
