package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

const SessionTTL = 30 * 24 * time.Hour

// AuthService resolves requests to an owner identity. Browser traffic uses
// PIN login plus a persisted session; webhook traffic uses the per-user
// token embedded in the alert URL. The journal core only ever sees the
// resolved user ID.
type AuthService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	now         func() time.Time
}

func NewAuthService(userRepo domain.UserRepository, sessionRepo domain.SessionRepository) (*AuthService, error) {
	if userRepo == nil {
		return nil, errors.New("user repository required")
	}
	if sessionRepo == nil {
		return nil, errors.New("session repository required")
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, username, pin string) (domain.User, domain.Session, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, pin); err != nil {
		return domain.User{}, domain.Session{}, err
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return domain.User{}, domain.Session{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("hash pin: %w", err)
	}

	user, err := s.userRepo.Create(ctx, domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PINHash:      string(hash),
		WebhookToken: uuid.NewString(),
	})
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	session, err := s.issueSession(ctx, user.ID)
	return user, session, err
}

func (s *AuthService) Login(ctx context.Context, username, pin string) (domain.User, domain.Session, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.Session{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, domain.Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)) != nil {
		return domain.User{}, domain.Session{}, domain.ErrInvalidCredentials
	}

	session, err := s.issueSession(ctx, user.ID)
	return user, session, err
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := s.sessionRepo.Delete(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// ResolveSession maps a session cookie to a user ID. Expired sessions are
// removed on sight and reported as unauthorized.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", domain.ErrUnauthorized
	}

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}

	if session.Expired(s.now()) {
		_ = s.sessionRepo.Delete(ctx, session.ID)
		return "", domain.ErrUnauthorized
	}

	return session.UserID, nil
}

// ResolveWebhookToken maps an alert URL token to its owner.
func (s *AuthService) ResolveWebhookToken(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	user, err := s.userRepo.GetByWebhookToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// RotateWebhookToken invalidates the previous alert URL.
func (s *AuthService) RotateWebhookToken(ctx context.Context, userID string) (domain.User, error) {
	return s.userRepo.UpdateWebhookToken(ctx, userID, uuid.NewString())
}

// PruneSessions removes expired sessions; wired to the scheduler.
func (s *AuthService) PruneSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now())
}

func (s *AuthService) issueSession(ctx context.Context, userID string) (domain.Session, error) {
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func validateCredentials(username, pin string) error {
	var ve domain.ValidationError
	if len(username) < 3 || len(username) > 32 {
		ve.Add("username", "username must be 3-32 characters")
	}
	if len(pin) < 4 || len(pin) > 8 {
		ve.Add("pin", "PIN must be 4-8 digits")
	} else {
		for _, r := range pin {
			if r < '0' || r > '9' {
				ve.Add("pin", "PIN must contain only digits")
				break
			}
		}
	}
	return ve.Err()
}
