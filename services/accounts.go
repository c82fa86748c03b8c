package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// AccountService manages admin accounts.
type AccountService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewAccountService(db database.Database) AccountService {
	return AccountService{
		db:     db,
		logger: log.With().Str("serviceName", "accountService").Logger(),
	}
}

// CreateAdmin stores a new admin with a bcrypt hash of password.
func (s AccountService) CreateAdmin(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.NewValidationError("username", "Informe um nome de usuário.")
	}
	if len(password) < minPasswordLength {
		return nil, errs.NewValidationError("password", "A senha deve ter pelo menos 8 caracteres.")
	}

	users := s.db.WithContext(ctx).UserRepo()
	existing, err := users.FindByUsername(username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, errs.NewValidationError("password", "A senha deve ter no máximo 72 bytes.")
	}
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("hash password", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := users.Add(user); err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}
	s.logger.Info().Str("username", username).Msg("admin account created")
	return user, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords produce the same error.
func (s AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.db.WithContext(ctx).UserRepo().FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(fallbackHash(), []byte(password))
		return nil, errs.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info().Str("username", user.Username).Msg("failed login attempt")
		return nil, errs.NewInvalidCredentialsError()
	}
	return user, nil
}

func fallbackHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("honoriel-placeholder"), bcrypt.DefaultCost)
	})
	return dummyHash
}
