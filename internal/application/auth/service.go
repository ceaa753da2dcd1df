// Package auth registers users, issues tokens and answers capability checks.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domuser "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/user"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

var ErrForbidden = apperr.New(apperr.ErrForbidden, "forbidden")

const minPasswordLength = 6

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(p domuser.Principal) (string, error)
}

type Service struct {
	users  domuser.Repository
	hasher PasswordHasher
	tokens TokenIssuer
	ids    application.IDGenerator
	admins map[string]struct{}
	inst   *application.Instrument
}

// NewService grants the admin role to any email in adminEmails at
// registration time.
func NewService(users domuser.Repository, hasher PasswordHasher, tokens TokenIssuer, ids application.IDGenerator, adminEmails []string, tel observability.Observability) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = domuser.NormalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		ids:    ids,
		admins: admins,
		inst:   application.NewInstrument(tel, "auth-service"),
	}
}

type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (_ *domuser.User, err error) {
	ctx, run := s.inst.Start(ctx, "auth.register", "Register")
	defer func() { run.End(err) }()

	if len(in.Password) < minPasswordLength {
		return nil, apperr.Invalid("password must be at least 6 characters")
	}
	email := domuser.NormalizeEmail(in.Email)
	switch _, err := s.users.FindByEmail(ctx, email); {
	case err == nil:
		return nil, domuser.ErrExists
	case !errors.Is(err, domuser.ErrNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	role := domuser.RoleUser
	if _, ok := s.admins[email]; ok {
		role = domuser.RoleAdmin
	}
	u, err := domuser.New(s.ids.NewID(), in.Firstname, in.Lastname, email, hash, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	run.Span().SetAttributes(attribute.String("user.id", u.ID), attribute.String("user.role", string(u.Role)))
	return u, nil
}

type LoginResult struct {
	User    *domuser.User `json:"user"`
	Token   string        `json:"token"`
	IsAdmin bool          `json:"isAdmin"`
}

// Login answers every unknown email or bad password with
// domuser.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (_ *LoginResult, err error) {
	ctx, run := s.inst.Start(ctx, "auth.login", "Login")
	defer func() { run.End(err) }()

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.Invalid("email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domuser.ErrNotFound) {
		return nil, domuser.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(u.Principal())
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token, IsAdmin: u.Role == domuser.RoleAdmin}, nil
}

func (s *Service) Users(ctx context.Context) (_ []*domuser.User, err error) {
	ctx, run := s.inst.Start(ctx, "auth.list_users", "Users")
	defer func() { run.End(err) }()
	return s.users.List(ctx)
}

// Authorize fails with ErrForbidden unless p holds c.
func Authorize(p domuser.Principal, c domuser.Capability) error {
	if p.Can(c) {
		return nil
	}
	return ErrForbidden
}

// AuthorizeOwner lets admins through holding c, and owners of ownerID.
func AuthorizeOwner(p domuser.Principal, c domuser.Capability, ownerID string) error {
	if p.Owns(ownerID) || (p.IsAdmin() && p.Can(c)) {
		return nil
	}
	return ErrForbidden
}
