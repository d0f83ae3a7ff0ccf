package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/domain"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/storage"
	"github.com/cesargomez89/soundhall/internal/store"
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type AccountService struct {
	Repo   *store.DB
	Logger *logger.Logger
	Now    func() time.Time
	// HashCost is the bcrypt cost used for new password hashes.
	HashCost int
}

func NewAccountService(repo *store.DB, log *logger.Logger) *AccountService {
	return &AccountService{
		Repo:     repo,
		Logger:   log.WithComponent("accounts"),
		Now:      time.Now,
		HashCost: bcrypt.DefaultCost,
	}
}

func (s *AccountService) generatePasswordHash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func comparePasswordHash(password, passwordHash string) (bool, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("failed to compare password hash: %w", err)
	}
	return true, nil
}

// Register creates a listener account. Checks run in a fixed order and the
// first failure wins: username taken, email taken, email without "@",
// password confirmation mismatch. Names that cannot be used as a media
// directory are refused before any of them.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if !storage.SafeName(username) {
		return nil, domain.ErrInvalidUsername
	}

	if _, err := s.Repo.GetUser(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	if in.Password != in.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}

	hash, err := s.generatePasswordHash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		Creator:        false,
		ProfilePicture: constants.DefaultProfilePicture,
		CreatedAt:      s.Now().UTC(),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.Logger.Info("User registered", "username", user.Username)
	return user, nil
}

// Login checks a listener's credentials. Unknown users and wrong passwords
// are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.Repo.GetUser(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := comparePasswordHash(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.Logger.Warn("Login failed", "username", username)
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) AdminLogin(ctx context.Context, username, password string) (*domain.Admin, error) {
	admin, err := s.Repo.GetAdmin(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := comparePasswordHash(password, admin.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.Logger.Warn("Admin login failed", "username", username)
		return nil, domain.ErrInvalidCredentials
	}
	return admin, nil
}

// EnsureAdmin creates the admin account or resets its password.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, password string) error {
	hash, err := s.generatePasswordHash(password)
	if err != nil {
		return err
	}
	if err := s.Repo.UpsertAdmin(ctx, &domain.Admin{Username: username, PasswordHash: hash}); err != nil {
		return err
	}
	s.Logger.Info("Admin account ready", "username", username)
	return nil
}

// RegisterCreator turns a listener into a creator by giving them an Artist
// row that starts with their profile picture. Calling it again is a no-op.
func (s *AccountService) RegisterCreator(ctx context.Context, username string) (*domain.Artist, error) {
	var artist *domain.Artist
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		user, err := tx.GetUser(ctx, username)
		if err != nil {
			return err
		}

		existing, err := tx.GetArtist(ctx, username)
		if err == nil {
			artist = existing
			if !user.Creator {
				return tx.SetCreator(ctx, username, true)
			}
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		artist = &domain.Artist{
			Username:       username,
			ProfilePicture: user.ProfilePicture,
			CreatedAt:      s.Now().UTC(),
		}
		if err := tx.CreateArtist(ctx, artist); err != nil {
			return err
		}
		return tx.SetCreator(ctx, username, true)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Creator registered", "username", username)
	return artist, nil
}
