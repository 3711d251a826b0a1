package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ManuelReschke/PosCloud/app/models"
	"github.com/ManuelReschke/PosCloud/app/repository"
	"github.com/ManuelReschke/PosCloud/internal/pkg/security"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const defaultOutletName = "Main Outlet"

var validate = validator.New()

// RegisterInput is a self-service signup.
type RegisterInput struct {
	BusinessName string `json:"businessName" validate:"required,min=2,max=200"`
	Name         string `json:"name" validate:"required,min=2,max=150"`
	Email        string `json:"email" validate:"required,email,max=200"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued access token and the user it belongs to.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      *models.User   `json:"user"`
	Tenant    *models.Tenant `json:"tenant,omitempty"`
}

// Service handles signup, login and identity lookups.
type Service struct {
	repos     *repository.Repositories
	tokens    *security.TokenIssuer
	trialDays int
	now       func() time.Time
}

func NewService(repos *repository.Repositories, tokens *security.TokenIssuer, trialDays int) *Service {
	if trialDays <= 0 {
		trialDays = 14
	}
	return &Service{repos: repos, tokens: tokens, trialDays: trialDays, now: time.Now}
}

// Register creates a trial tenant with its owner and a default outlet.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var (
		tenant *models.Tenant
		owner  *models.User
	)
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		_, err := tx.User.GetByEmail(ctx, in.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lookup email: %w", err)
		}

		tenant = models.NewTrialTenant(in.BusinessName, s.trialDays)
		if err := tx.Tenant.Create(ctx, tenant); err != nil {
			return fmt.Errorf("create tenant: %w", err)
		}

		owner, err = models.NewUser(&tenant.ID, in.Name, in.Email, in.Password, models.RoleOwner)
		if err != nil {
			return err
		}
		if err := tx.User.Create(ctx, owner); err != nil {
			return fmt.Errorf("create owner: %w", err)
		}

		outlet := &models.Outlet{TenantID: tenant.ID, Name: defaultOutletName, IsActive: true}
		if err := tx.Outlet.Create(ctx, outlet); err != nil {
			return fmt.Errorf("create outlet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("registered tenant %s (%s) with owner %s", tenant.ID, tenant.BusinessName, owner.Email)
	return s.issue(owner, tenant)
}

// Login verifies credentials and issues a token. Unknown emails, wrong
// passwords and inactive users all yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repos.User.GetByEmail(ctx, in.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive || !user.CheckPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.repos.User.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Warnf("failed to update last login for user %s: %v", user.ID, err)
	} else {
		user.LastLoginAt = &now
	}
	return s.issue(user, nil)
}

// Me loads the user behind a verified identity.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *Service) issue(user *models.User, tenant *models.Tenant) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user, Tenant: tenant}, nil
}
