package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/school-api/internal/domain"
	"github.com/school-api/internal/pkg/logger"
	"github.com/school-api/internal/pkg/validate"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCode = fmt.Errorf("invalid or expired code: %w", domain.ErrUnauthorized)

type Service interface {
	// RequestOTP reports success for unknown phones without sending anything.
	RequestOTP(ctx context.Context, req domain.RequestOTPRequest) error
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.AuthResult, error)
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.UserVerification) error
	Get(ctx context.Context, userID, verType string) (*domain.UserVerification, error)
	// ReserveAttempt counts one guess and returns the new total. It reports
	// ErrNotFound when the record is gone or limit guesses are already used.
	ReserveAttempt(ctx context.Context, userID, verType string, limit int) (int, error)
	Delete(ctx context.Context, userID, verType string) error
}

type userStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type jwtSigner interface {
	Sign(userID uint, schoolID *uint, role domain.Role) (string, error)
}

type ServiceDeps struct {
	VerificationRepo verificationStore
	UserRepo         userStore
	SMSSender        smsSender
	JWTProvider      jwtSigner
	OTPExpiry        time.Duration
	ResendCooldown   time.Duration
	MaxAttempts      int
}

type service struct {
	verificationRepo verificationStore
	userRepo         userStore
	smsSender        smsSender
	jwtProvider      jwtSigner
	otpExpiry        time.Duration
	resendCooldown   time.Duration
	maxAttempts      int
	hashCost         int
	now              func() time.Time
	newCode          func() (string, error)
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		verificationRepo: deps.VerificationRepo,
		userRepo:         deps.UserRepo,
		smsSender:        deps.SMSSender,
		jwtProvider:      deps.JWTProvider,
		otpExpiry:        deps.OTPExpiry,
		resendCooldown:   deps.ResendCooldown,
		maxAttempts:      deps.MaxAttempts,
		hashCost:         bcrypt.DefaultCost,
		now:              time.Now,
		newCode:          generateCode,
	}
	if s.otpExpiry <= 0 {
		s.otpExpiry = 5 * time.Minute
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 5
	}
	return s
}

func (s *service) RequestOTP(ctx context.Context, req domain.RequestOTPRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	u, err := s.activeUser(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Debug("otp requested for unknown phone")
			return nil
		}
		return err
	}
	key := userKey(u.ID)
	now := s.now().UTC()

	prev, err := s.verificationRepo.Get(ctx, key, domain.VerificationLogin)
	switch {
	case err == nil:
		sent := time.Unix(prev.CreatedAt, 0)
		if prev.ExpiresAt > now.Unix() && now.Sub(sent) < s.resendCooldown {
			return fmt.Errorf("code already sent, retry later: %w", domain.ErrRateLimited)
		}
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return err
	}
	v := &domain.UserVerification{
		UserID:    key,
		Type:      domain.VerificationLogin,
		CodeHash:  string(hash),
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(s.otpExpiry).Unix(),
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return err
	}
	msg := fmt.Sprintf("Your login code is %s. It expires in %d minutes.", code, int(s.otpExpiry.Minutes()))
	if err := s.smsSender.SendSMS(ctx, u.Phone, msg); err != nil {
		log.Error("send otp sms", zap.Error(err), zap.Uint("user_id", u.ID))
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*domain.AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	u, err := s.activeUser(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCode
		}
		return nil, err
	}
	key := userKey(u.ID)

	v, err := s.verificationRepo.Get(ctx, key, domain.VerificationLogin)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCode
		}
		return nil, err
	}
	if v.ExpiresAt <= s.now().Unix() {
		s.discard(ctx, key)
		return nil, errInvalidCode
	}

	// The attempt is reserved before the code is compared, so concurrent
	// guesses cannot all pass a stale attempt count.
	n, err := s.verificationRepo.ReserveAttempt(ctx, key, domain.VerificationLogin, s.maxAttempts)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.discard(ctx, key)
			return nil, errInvalidCode
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(req.OTP)) != nil {
		if n >= s.maxAttempts {
			log.Info("otp attempts exhausted", zap.Uint("user_id", u.ID))
			s.discard(ctx, key)
		}
		return nil, errInvalidCode
	}

	s.discard(ctx, key)
	token, err := s.jwtProvider.Sign(u.ID, u.SchoolID, u.Role)
	if err != nil {
		return nil, err
	}
	log.Info("user logged in", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return &domain.AuthResult{Token: token, User: u}, nil
}

// activeUser treats inactive accounts as missing.
func (s *service) activeUser(ctx context.Context, phone string) (*domain.User, error) {
	u, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, fmt.Errorf("user inactive: %w", domain.ErrNotFound)
	}
	return u, nil
}

func (s *service) discard(ctx context.Context, key string) {
	if err := s.verificationRepo.Delete(ctx, key, domain.VerificationLogin); err != nil {
		logger.FromContext(ctx).Warn("failed to delete otp verification record", zap.String("user_id", key), zap.Error(err))
	}
}

func userKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
