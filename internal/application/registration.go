package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/civicresolve/backend/internal/domain/entity"
	repo "github.com/civicresolve/backend/internal/domain/repository"
	"github.com/civicresolve/backend/pkg/helpers"
	"github.com/civicresolve/backend/pkg/mailer"
	"github.com/civicresolve/backend/pkg/mailer/templates"
)

// Stage is the position of an account inside the registration workflow.
// Stages only advance in declared order; a verify call for a later channel
// is rejected until the earlier one succeeds.
type Stage string

const (
	StageProfileSubmitted Stage = "profile_submitted"
	StageEmailVerified    Stage = "email_verified"
	StageMobileVerified   Stage = "mobile_verified"
	StageAadhaarVerified  Stage = "aadhaar_verified"
	StageComplete         Stage = "complete"
)

// OTP channels accepted by VerifyOTP.
const (
	ChannelEmail  = "email"
	ChannelMobile = "mobile"
)

// RegistrationState is the persisted workflow record, keyed by user id. It
// lives in Redis (JSON, TTL-bound) when a client is configured and in an
// in-process map otherwise.
type RegistrationState struct {
	UserID         string    `json:"user_id"`
	Stage          Stage     `json:"stage"`
	EmailCode      string    `json:"email_code"`
	MobileCode     string    `json:"mobile_code"`
	EmailAttempts  int       `json:"email_attempts"`
	MobileAttempts int       `json:"mobile_attempts"`
	Locked         bool      `json:"locked"`
	CreatedAt      time.Time `json:"created_at"`
}

func registrationKey(userID string) string {
	return "user:registration:" + userID
}

// RegistrationService drives the five-step onboarding: profile submission,
// email OTP, mobile OTP, national-id check, completion.
type RegistrationService struct {
	Users   repo.UserRepository
	Aadhaar repo.AadhaarDirectory
	Redis   *redis.Client
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger

	EmailCode   string
	MobileCode  string
	MaxAttempts int
	TTL         time.Duration
	AppName     string
	MailEnabled bool

	mu    sync.Mutex
	local map[string]*RegistrationState
}

func NewRegistrationService(users repo.UserRepository, aadhaar repo.AadhaarDirectory, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, emailCode, mobileCode string, maxAttempts int, ttl time.Duration, appName string, mailEnabled bool) *RegistrationService {
	return &RegistrationService{
		Users:       users,
		Aadhaar:     aadhaar,
		Redis:       rdb,
		Pub:         pub,
		Logger:      logger,
		EmailCode:   emailCode,
		MobileCode:  mobileCode,
		MaxAttempts: maxAttempts,
		TTL:         ttl,
		AppName:     appName,
		MailEnabled: mailEnabled,
		local:       make(map[string]*RegistrationState),
	}
}

type StartRegistrationInput struct {
	Username string
	Email    string
	Mobile   string
	Password string
	Type     entity.UserType
}

type RegistrationStatus struct {
	UserID   string `json:"user_id"`
	Stage    Stage  `json:"stage"`
	Verified bool   `json:"verified"`
}

// Start validates the profile draft, creates an unverified account and opens
// a workflow record at the first stage. Uniqueness is checked before the
// create so a duplicate never reaches the store.
func (s *RegistrationService) Start(ctx context.Context, in StartRegistrationInput) (*RegistrationStatus, error) {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	case strings.TrimSpace(in.Email) == "":
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	case strings.TrimSpace(in.Mobile) == "":
		return nil, fmt.Errorf("%w: mobile is required", ErrValidation)
	case len(in.Password) < 8:
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	userType := in.Type
	if userType == "" {
		userType = entity.UserTypeCitizen
	}

	if exists, err := s.Users.UsernameExists(in.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}
	if exists, err := s.Users.EmailExists(in.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	// An unset code means no fixed code was configured; mint one per workflow.
	emailCode, mobileCode := s.EmailCode, s.MobileCode
	if emailCode == "" {
		if emailCode, err = helpers.GenOTPCode(); err != nil {
			return nil, err
		}
	}
	if mobileCode == "" {
		if mobileCode, err = helpers.GenOTPCode(); err != nil {
			return nil, err
		}
	}
	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Mobile:   in.Mobile,
		Password: hash,
		Type:     userType,
		Verified: false,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}

	state := &RegistrationState{
		UserID:     u.ID,
		Stage:      StageProfileSubmitted,
		EmailCode:  emailCode,
		MobileCode: mobileCode,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.saveState(ctx, state); err != nil {
		return nil, err
	}

	s.sendOTPEmail(ctx, u, state.EmailCode)
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("registration started")
	}
	return &RegistrationStatus{UserID: u.ID, Stage: state.Stage}, nil
}

// VerifyOTP checks the submitted code for one channel and advances the
// workflow on match. Channels verify in order: email first, then mobile.
// Each channel has its own attempt budget; exhausting it locks the whole
// workflow.
func (s *RegistrationService) VerifyOTP(ctx context.Context, userID, channel, code string) (*RegistrationStatus, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Locked {
		return nil, ErrTooManyAttempts
	}

	var want string
	var attempts *int
	var next Stage
	switch channel {
	case ChannelEmail:
		if state.Stage != StageProfileSubmitted {
			return nil, fmt.Errorf("%w: email already verified", ErrInvalidTransition)
		}
		want, attempts, next = state.EmailCode, &state.EmailAttempts, StageEmailVerified
	case ChannelMobile:
		if state.Stage != StageEmailVerified {
			return nil, fmt.Errorf("%w: verify email before mobile", ErrInvalidTransition)
		}
		want, attempts, next = state.MobileCode, &state.MobileAttempts, StageMobileVerified
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", ErrValidation, channel)
	}

	if !helpers.OTPEqual(code, want) {
		*attempts++
		if *attempts >= s.MaxAttempts {
			state.Locked = true
			if sErr := s.saveState(ctx, state); sErr != nil {
				return nil, sErr
			}
			return nil, ErrTooManyAttempts
		}
		if sErr := s.saveState(ctx, state); sErr != nil {
			return nil, sErr
		}
		return nil, fmt.Errorf("%w: incorrect code", ErrAuthFailure)
	}

	state.Stage = next
	if err := s.saveState(ctx, state); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).WithField("stage", state.Stage).Info("otp verified")
	}
	return &RegistrationStatus{UserID: userID, Stage: state.Stage}, nil
}

// VerifyAadhaar checks the national id against the directory, marks the
// account verified and closes the workflow.
func (s *RegistrationService) VerifyAadhaar(ctx context.Context, userID, nationalID string) (*RegistrationStatus, error) {
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state.Locked {
		return nil, ErrTooManyAttempts
	}
	if state.Stage != StageMobileVerified {
		return nil, fmt.Errorf("%w: verify email and mobile first", ErrInvalidTransition)
	}

	ok, err := s.Aadhaar.Contains(nationalID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: id not found in directory", ErrAuthFailure)
	}

	u, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	u.Aadhaar = nationalID
	if err := s.Users.Update(u); err != nil {
		return nil, err
	}
	if err := s.Users.SetVerified(userID); err != nil {
		return nil, err
	}

	state.Stage = StageComplete
	s.dropState(ctx, userID)

	if s.Pub != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: templates.Welcome,
			Data:     map[string]any{"Name": u.Username, "AppName": s.AppName},
		}
		if pErr := s.Pub.PublishJSON(ctx, job); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).Warn("welcome email publish failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Info("registration complete")
	}
	return &RegistrationStatus{UserID: userID, Stage: StageComplete, Verified: true}, nil
}

// Status reports where a pending registration stands. Completed workflows
// have no record, so a verified account reports complete directly.
func (s *RegistrationService) Status(ctx context.Context, userID string) (*RegistrationStatus, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if u.Verified {
		return &RegistrationStatus{UserID: userID, Stage: StageComplete, Verified: true}, nil
	}
	state, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &RegistrationStatus{UserID: userID, Stage: state.Stage}, nil
}

func (s *RegistrationService) sendOTPEmail(ctx context.Context, u *entity.User, code string) {
	if !s.MailEnabled || s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.OTPEmail,
		Data: map[string]any{
			"Name":    u.Username,
			"Code":    code,
			"Channel": ChannelEmail,
			"AppName": s.AppName,
		},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("otp email publish failed")
	}
}

func (s *RegistrationService) saveState(ctx context.Context, state *RegistrationState) error {
	if s.Redis != nil {
		return helpers.RedisSetJSON(ctx, s.Redis, registrationKey(state.UserID), state, s.TTL)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.local[state.UserID] = &cp
	return nil
}

func (s *RegistrationService) loadState(ctx context.Context, userID string) (*RegistrationState, error) {
	if s.Redis != nil {
		var state RegistrationState
		found, err := helpers.RedisGetJSON(ctx, s.Redis, registrationKey(userID), &state)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, repo.ErrNotFound
		}
		return &state, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.local[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *state
	return &cp, nil
}

func (s *RegistrationService) dropState(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = helpers.RedisDel(ctx, s.Redis, registrationKey(userID))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, userID)
}
