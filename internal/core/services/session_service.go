package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"
	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/models"
	"github.com/914h/BabImmob-sub000/internal/adapters/persistence/repositories"
	"github.com/914h/BabImmob-sub000/internal/config"
	"github.com/914h/BabImmob-sub000/internal/core/domain"
	"github.com/914h/BabImmob-sub000/internal/pkg/jwt"
	"github.com/914h/BabImmob-sub000/internal/pkg/securekey"

	"github.com/rs/zerolog/log"
)

// Session errors
var (
	ErrNoSession      = errors.New("no session")
	ErrSessionExpired = errors.New("session expired")
	ErrRoleMismatch   = errors.New("session role does not match the server")
)

// Login failure messages shown to the user
const (
	MsgInvalidRole        = "Invalid user role"
	MsgInvalidCredentials = "Invalid email or password"
	MsgInvalidResponse    = "Unexpected login response"
)

// Session is the resolved state of one browser
type Session struct {
	ID            uint
	User          domain.User
	Token         string
	Authenticated bool
	ExpiresAt     time.Time
}

// Role returns the role of the signed-in user
func (s *Session) Role() domain.Role {
	return s.User.Role
}

// LoginData is the payload of a successful login
type LoginData struct {
	Key      string       `json:"-"`
	User     *domain.User `json:"user"`
	Token    string       `json:"-"`
	Redirect string       `json:"redirect"`
}

// LoginResult is either {Success: true, Data} or {Success: false, Error}
type LoginResult struct {
	Success bool       `json:"success"`
	Data    *LoginData `json:"data,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// AuthAPI is the part of the external API the session store needs
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*domain.User, error)
}

// SessionService owns the session state of every browser
type SessionService struct {
	repo repositories.SessionRepository
	auth AuthAPI
	cfg  *config.Config
	now  func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(repo repositories.SessionRepository, auth AuthAPI, cfg *config.Config) *SessionService {
	return &SessionService{
		repo: repo,
		auth: auth,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Login authenticates against the API and opens a session for permitted roles.
// Rejected credentials and roles come back as a failed result; only transport
// and storage problems are returned as errors.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, token, err := s.auth.Login(ctx, email, password)
	if err != nil {
		if rejected(err) {
			return &LoginResult{Success: false, Error: api.Message(err, MsgInvalidCredentials)}, nil
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if user == nil || !s.cfg.Session.PermittedRoles.Has(user.Role) {
		if user != nil {
			log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).
				Bool("legacy", user.Role.IsLegacy()).Msg("login refused for role")
		}
		return &LoginResult{Success: false, Error: MsgInvalidRole}, nil
	}
	if token == "" {
		return &LoginResult{Success: false, Error: MsgInvalidResponse}, nil
	}

	key, err := securekey.New()
	if err != nil {
		return nil, err
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	now := s.now()
	row := &models.BrowserSession{
		KeyHash:        securekey.Hash(key),
		UserID:         user.ID,
		Role:           string(user.Role),
		UserJSON:       string(userJSON),
		APIToken:       token,
		Authenticated:  true,
		ExpiresAt:      now.Add(s.cfg.Session.TTL),
		LastVerifiedAt: &now,
	}
	if exp, ok := jwt.ExpiresAt(token); ok {
		row.TokenExpiresAt = &exp
		if exp.Before(row.ExpiresAt) {
			row.ExpiresAt = exp
		}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("session opened")

	return &LoginResult{
		Success: true,
		Data: &LoginData{
			Key:      key,
			User:     user,
			Token:    token,
			Redirect: domain.DashboardPath(user.Role),
		},
	}, nil
}

// rejected reports whether the API refused the credentials themselves
func rejected(err error) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status >= http.StatusBadRequest && apiErr.Status < http.StatusInternalServerError
}

// Logout clears the session first and then asks the API to drop the token.
// The API call is best effort and a missing session is not an error.
func (s *SessionService) Logout(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	hash := securekey.Hash(key)

	row, err := s.repo.GetByKeyHash(ctx, hash)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.repo.RevokeByKeyHash(ctx, hash); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	if row.APIToken != "" {
		if err := s.auth.Logout(ctx, row.APIToken); err != nil {
			log.Debug().Err(err).Uint("session_id", row.ID).Msg("api logout failed")
		}
	}
	return nil
}

// SetAuthenticated overwrites the authenticated flag of the session
func (s *SessionService) SetAuthenticated(ctx context.Context, key string, authenticated bool) error {
	return s.mutate(ctx, key, func(row *models.BrowserSession) error {
		row.Authenticated = authenticated
		return nil
	})
}

// SetToken overwrites the API token of the session
func (s *SessionService) SetToken(ctx context.Context, key, token string) error {
	return s.mutate(ctx, key, func(row *models.BrowserSession) error {
		row.APIToken = token
		row.TokenExpiresAt = nil
		if exp, ok := jwt.ExpiresAt(token); ok {
			row.TokenExpiresAt = &exp
		}
		return nil
	})
}

// UpdateUser stores a fresh copy of the signed-in user, e.g. after a profile edit.
// A user without a role keeps the stored one; a different role ends the session.
func (s *SessionService) UpdateUser(ctx context.Context, key string, user domain.User) error {
	err := s.mutate(ctx, key, func(row *models.BrowserSession) error {
		if user.Role == "" {
			user.Role = domain.Role(row.Role)
		}
		if string(user.Role) != row.Role {
			return ErrRoleMismatch
		}
		b, err := json.Marshal(user)
		if err != nil {
			return err
		}
		row.UserJSON = string(b)
		return nil
	})
	if errors.Is(err, ErrRoleMismatch) {
		_ = s.repo.RevokeByKeyHash(ctx, securekey.Hash(key))
	}
	return err
}

func (s *SessionService) mutate(ctx context.Context, key string, fn func(row *models.BrowserSession) error) error {
	if key == "" {
		return ErrNoSession
	}
	row, err := s.repo.GetByKeyHash(ctx, securekey.Hash(key))
	if errors.Is(err, domain.ErrNotFound) {
		return ErrNoSession
	}
	if err != nil {
		return err
	}
	if err := fn(row); err != nil {
		return err
	}
	return s.repo.Update(ctx, row)
}

// Resolve loads the session of key and checks it is still valid. Partial rows,
// expired tokens, a server-side 401 and a role change all end in an error.
func (s *SessionService) Resolve(ctx context.Context, key string) (*Session, error) {
	if key == "" {
		return nil, ErrNoSession
	}
	hash := securekey.Hash(key)

	row, err := s.repo.GetByKeyHash(ctx, hash)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if row.IsExpired(now) {
		s.revoke(ctx, hash, "expired")
		return nil, ErrSessionExpired
	}

	if row.IsRevoked() || !row.Authenticated || row.APIToken == "" || row.UserJSON == "" {
		return nil, ErrNoSession
	}

	var user domain.User
	if err := json.Unmarshal([]byte(row.UserJSON), &user); err != nil {
		return nil, ErrNoSession
	}
	role, err := domain.ParseRole(row.Role)
	if err != nil || user.Role != role {
		return nil, ErrNoSession
	}

	if err := jwt.CheckExpiry(row.APIToken, now); err != nil {
		s.revoke(ctx, hash, "token expired")
		return nil, ErrSessionExpired
	}

	if row.NeedsVerification(now, s.cfg.Session.RevalidateEvery) {
		fresh, err := s.verify(ctx, hash, row, role, now)
		if err != nil {
			return nil, err
		}
		user = *fresh
	}

	return &Session{
		ID:            row.ID,
		User:          user,
		Token:         row.APIToken,
		Authenticated: true,
		ExpiresAt:     row.ExpiresAt,
	}, nil
}

// verify asks the API who owns the token and refreshes the stored user
func (s *SessionService) verify(ctx context.Context, hash string, row *models.BrowserSession, role domain.Role, now time.Time) (*domain.User, error) {
	me, err := s.auth.Me(ctx, row.APIToken)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.revoke(ctx, hash, "token rejected")
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("verify session: %w", err)
	}

	if me.Role != role {
		log.Warn().
			Uint("user_id", row.UserID).
			Str("stored_role", string(role)).
			Str("server_role", string(me.Role)).
			Msg("session role mismatch")
		s.revoke(ctx, hash, "role mismatch")
		if row.UserID != 0 {
			if err := s.repo.RevokeAllByUserID(ctx, row.UserID); err != nil {
				log.Error().Err(err).Uint("user_id", row.UserID).Msg("failed to revoke user sessions")
			}
		}
		return nil, ErrRoleMismatch
	}

	b, err := json.Marshal(me)
	if err != nil {
		return nil, err
	}
	if string(b) == row.UserJSON {
		if err := s.repo.MarkVerified(ctx, row.ID, now); err != nil {
			return nil, err
		}
		return me, nil
	}

	row.UserJSON = string(b)
	row.UserID = me.ID
	row.LastVerifiedAt = &now
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	return me, nil
}

func (s *SessionService) revoke(ctx context.Context, hash, reason string) {
	if err := s.repo.RevokeByKeyHash(ctx, hash); err != nil {
		log.Error().Err(err).Str("reason", reason).Msg("failed to revoke session")
		return
	}
	log.Info().Str("reason", reason).Msg("session revoked")
}

// Revoke ends the session of key without calling the API, used when the API has
// already rejected its token.
func (s *SessionService) Revoke(ctx context.Context, key string) {
	if key == "" {
		return
	}
	s.revoke(ctx, securekey.Hash(key), "unauthorized")
}

// SweepExpired deletes expired and revoked sessions
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
