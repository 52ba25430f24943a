package forum

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lilypad/internal/models"
	"lilypad/internal/utils"
)

const bcryptCost = 14

// Register creates a new account. Username and email must be unique; the
// password is stored bcrypt-hashed.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to hash password", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: string(hash),
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("user_id", user.ID.String()).Str("username", username).Msg("user registered")
	return user, nil
}

// Login authenticates by username or email. The identifier is treated as an
// email when it contains '@' (usernames cannot).
func (s *Service) Login(ctx context.Context, usernameOrEmail, password string) (*models.User, error) {
	var user *models.User
	var err error
	if strings.Contains(usernameOrEmail, "@") {
		user, err = s.store.GetUserByEmail(ctx, usernameOrEmail)
	} else {
		user, err = s.store.GetUserByUsername(ctx, usernameOrEmail)
	}
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrUserNotFound) {
			return nil, utils.NewAppError(utils.ErrInvalidCredentials, "invalid username or password", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, utils.NewAppError(utils.ErrInvalidCredentials, "invalid username or password", nil)
	}
	return user, nil
}

// CurrentUser resolves the authenticated caller's profile.
func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func validateRegistration(username, email, password string) error {
	if !strings.Contains(email, "@") {
		return utils.NewInvalidInputError("invalid email")
	}
	if strings.Contains(username, "@") {
		return utils.NewInvalidInputError("username cannot contain '@'")
	}
	if len(username) <= 2 {
		return utils.NewInvalidInputError("username length must be greater than 2")
	}
	if len(password) <= 2 {
		return utils.NewInvalidInputError("password length must be greater than 2")
	}
	return nil
}
