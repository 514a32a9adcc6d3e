package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/models"
)

// Error variables
var (
	ErrEmailTaken           = errors.New("email already in use")
	ErrUsernameTaken        = errors.New("username already in use")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrCodeMismatch         = errors.New("verification code mismatch")
	ErrVerificationNotFound = errors.New("verification record not found")
	ErrResetNotFound        = errors.New("password reset request not found")
	ErrResetExpired         = errors.New("password reset request expired")
)

// resetTTL is how long a password-reset link stays usable.
const resetTTL = 24 * time.Hour

// UserReader defines read-only user lookups.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserWriter defines user mutations.
type UserWriter interface {
	Create(ctx context.Context, user *models.User) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// VerificationStore manages pending email-verification records.
type VerificationStore interface {
	Save(ctx context.Context, rec *models.VerificationRecord) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.VerificationRecord, error)
	Delete(ctx context.Context, id string) error
}

// ResetStore manages pending password-reset requests.
type ResetStore interface {
	Save(ctx context.Context, req *models.PasswordReset) (string, error)
	Get(ctx context.Context, id string) (*models.PasswordReset, error)
	Delete(ctx context.Context, id string) error
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID string) (string, error)
}

// MailSender sends account lifecycle emails. Failures are logged and ignored
// except where the whole request exists to send the email.
type MailSender interface {
	SendVerificationCode(to, username, code string) error
	SendAccountVerified(to, username string) error
	SendPasswordReset(to, username, requestID string) error
	SendPasswordChanged(to, username string) error
}

// AuthService handles registration, login, verification and password reset.
type AuthService struct {
	reader        UserReader
	writer        UserWriter
	verifications VerificationStore
	resets        ResetStore
	jwt           JWTGenerator
	mail          MailSender
}

func NewAuthService(
	reader UserReader,
	writer UserWriter,
	verifications VerificationStore,
	resets ResetStore,
	jwt JWTGenerator,
	mail MailSender,
) *AuthService {
	return &AuthService{
		reader:        reader,
		writer:        writer,
		verifications: verifications,
		resets:        resets,
		jwt:           jwt,
		mail:          mail,
	}
}

// Register creates an unverified account and mails the verification code.
// Email and username (case-insensitive) must both be unused.
func (svc *AuthService) Register(ctx context.Context, email, password, username string) (*models.User, error) {
	if _, err := svc.reader.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		logger.Log.Errorw("failed to check email", "err", err)
		return nil, err
	}

	if _, err := svc.reader.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, docstore.ErrNotFound) {
		logger.Log.Errorw("failed to check username", "err", err)
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user := &models.User{
		Email:     email,
		Username:  username,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
		Verified:  false,
	}
	if _, err := svc.writer.Create(ctx, user); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	code := verificationCode()
	if _, err := svc.verifications.Save(ctx, &models.VerificationRecord{
		Email:  email,
		UserID: user.ID,
		Code:   code,
	}); err != nil {
		logger.Log.Errorw("failed to save verification record", "user_id", user.ID, "err", err)
		return nil, err
	}

	if err := svc.mail.SendVerificationCode(email, username, code); err != nil {
		// The account exists either way; the user can re-request verification.
		logger.Log.Errorw("failed to send verification email", "user_id", user.ID, "err", err)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login authenticates by email and password and issues a JWT.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			// Unknown emails read the same as wrong passwords.
			return nil, "", ErrInvalidCredentials
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "user_id", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return nil, "", err
	}

	sanitized := user.Sanitized()
	return &sanitized, token, nil
}

// Verify checks the submitted code against the pending record. On success the
// account is marked verified and the record removed; on mismatch the account
// stays unverified. Verifying an already-verified account is a no-op success.
func (svc *AuthService) Verify(ctx context.Context, email, code string) error {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrUserNotFound
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user.Verified {
		return nil
	}

	rec, err := svc.verifications.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrVerificationNotFound
		}
		logger.Log.Errorw("failed to get verification record", "err", err)
		return err
	}

	if rec.Code != code {
		return ErrCodeMismatch
	}

	if err := svc.verifications.Delete(ctx, rec.ID); err != nil {
		logger.Log.Errorw("failed to delete verification record", "record_id", rec.ID, "err", err)
		return err
	}
	if err := svc.writer.Update(ctx, rec.UserID, map[string]any{
		"verified":   true,
		"verifiedIn": time.Now().UTC(),
	}); err != nil {
		logger.Log.Errorw("failed to mark user verified", "user_id", rec.UserID, "err", err)
		return err
	}

	if err := svc.mail.SendAccountVerified(email, user.Username); err != nil {
		logger.Log.Errorw("failed to send verified email", "user_id", rec.UserID, "err", err)
	}
	return nil
}

// RequestPasswordReset records a reset request and mails the reset link. The
// email is the whole point of this operation, so a send failure fails it.
func (svc *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrUserNotFound
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}

	req := &models.PasswordReset{
		Email:     email,
		UserID:    user.ID,
		Timestamp: time.Now().UTC(),
	}
	id, err := svc.resets.Save(ctx, req)
	if err != nil {
		logger.Log.Errorw("failed to save reset request", "user_id", user.ID, "err", err)
		return err
	}

	if err := svc.mail.SendPasswordReset(email, user.Username, id); err != nil {
		logger.Log.Errorw("failed to send reset email", "user_id", user.ID, "err", err)
		return err
	}
	return nil
}

// ChangePassword completes a reset request: valid for 24 hours, single use.
func (svc *AuthService) ChangePassword(ctx context.Context, requestID, password string) error {
	req, err := svc.resets.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return ErrResetNotFound
		}
		logger.Log.Errorw("failed to get reset request", "err", err)
		return err
	}

	if time.Since(req.Timestamp) > resetTTL {
		return ErrResetExpired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.Update(ctx, req.UserID, map[string]any{"password": string(hashed)}); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", req.UserID, "err", err)
		return err
	}
	if err := svc.resets.Delete(ctx, requestID); err != nil {
		logger.Log.Errorw("failed to delete reset request", "request_id", requestID, "err", err)
	}

	user, err := svc.reader.GetByEmail(ctx, req.Email)
	if err == nil {
		if err := svc.mail.SendPasswordChanged(req.Email, user.Username); err != nil {
			logger.Log.Errorw("failed to send password-changed email", "user_id", req.UserID, "err", err)
		}
	}
	return nil
}

// verificationCode returns a 6-digit code.
func verificationCode() string {
	return fmt.Sprintf("%06d", 100000+rand.IntN(900000))
}
