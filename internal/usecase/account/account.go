package account

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/auth"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/httperr"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/models"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/saga"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/timezone"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/validators"
)

const (
	RoleOwner         = "owner"
	MinPasswordLength = 6
)

type RegisterInput struct {
	EstablishmentName    string
	EstablishmentPhone   string
	EstablishmentAddress string
	BusinessLine         *int
	Timezone             string

	Name     string
	Email    string
	Password string
	Phone    string
}

type Session struct {
	User          models.User          `json:"user"`
	Establishment models.Establishment `json:"establishment"`
	Token         string               `json:"token,omitempty"`
}

// Accounts cuida do cadastro do dono e do login.
type Accounts struct {
	gw       *store.Gateway
	tokens   *auth.Issuer
	resolver validators.Resolver
	audit    *audit.Dispatcher
	log      *zap.Logger
	cost     int
}

func NewAccounts(
	gw *store.Gateway,
	tokens *auth.Issuer,
	resolver validators.Resolver,
	audit *audit.Dispatcher,
	log *zap.Logger,
) *Accounts {
	return &Accounts{
		gw:       gw,
		tokens:   tokens,
		resolver: resolver,
		audit:    audit,
		log:      logger.OrNop(log),
		cost:     bcrypt.DefaultCost,
	}
}

// ======================================================
// REGISTER
// ======================================================

func (uc *Accounts) Register(ctx context.Context, in RegisterInput) (*Session, error) {

	// --------------------------------------------------
	// 1️⃣ Validação
	// --------------------------------------------------
	if strings.TrimSpace(in.EstablishmentName) == "" {
		return nil, httperr.Validation("establishment_name_required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, httperr.Validation("name_required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, httperr.Validation("password_too_short")
	}

	email, ok := validators.NormalizeEmail(in.Email)
	if !ok {
		return nil, httperr.Validation("invalid_email")
	}
	if !validators.IsEmailDomainValid(ctx, uc.resolver, email) {
		return nil, httperr.Validation("invalid_email_domain")
	}

	if in.BusinessLine != nil {
		if _, ok := catalog.Find(*in.BusinessLine); !ok {
			return nil, httperr.Validation("invalid_business_line")
		}
	}

	tz := strings.TrimSpace(in.Timezone)
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		return nil, httperr.Validation("invalid_timezone")
	}

	taken, err := store.Exists(ctx, uc.gw.Users, store.Eq("email", email))
	if err != nil {
		return nil, httperr.Store("failed_to_check_email", err)
	}
	if taken {
		return nil, httperr.Conflict("email_already_registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, httperr.Store("failed_to_hash_password", err)
	}

	// --------------------------------------------------
	// 2️⃣ Estabelecimento + dono
	// --------------------------------------------------
	est := &models.Establishment{
		Name:         strings.TrimSpace(in.EstablishmentName),
		Email:        email,
		Phone:        strings.TrimSpace(in.EstablishmentPhone),
		Address:      strings.TrimSpace(in.EstablishmentAddress),
		BusinessLine: in.BusinessLine,
		Timezone:     tz,
	}
	est.EnsureID()

	user := &models.User{
		EstablishmentID: est.ID,
		Name:            strings.TrimSpace(in.Name),
		Email:           email,
		PasswordHash:    string(hashed),
		Phone:           strings.TrimSpace(in.Phone),
		Role:            RoleOwner,
	}

	s := saga.New("register_owner", uc.log).
		Add("insert_establishment",
			func(ctx context.Context) error { return uc.gw.Establishments.Insert(ctx, est) },
			func(ctx context.Context) error {
				_, err := uc.gw.Establishments.Delete(ctx, store.Eq("id", est.ID))
				return err
			},
		).
		Add("insert_owner",
			func(ctx context.Context) error { return uc.gw.Users.Insert(ctx, user) },
			nil,
		)

	if err := s.Run(ctx); err != nil {
		if store.IsUniqueViolation(err) {
			return nil, httperr.Conflict("email_already_registered")
		}
		return nil, httperr.Store("failed_to_register", err)
	}

	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: est.ID,
		UserID:          &user.ID,
		Action:          "owner_registered",
		Entity:          "user",
		EntityID:        &user.ID,
	})

	return &Session{User: *user, Establishment: *est, Token: token}, nil
}

// ======================================================
// LOGIN
// ======================================================

func (uc *Accounts) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.gw.Users.First(ctx, store.Where(store.Eq("email", email)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_user", err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	est, err := uc.establishment(ctx, user.EstablishmentID)
	if err != nil {
		return nil, err
	}

	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}

	return &Session{User: *user, Establishment: *est, Token: token}, nil
}

// ======================================================
// ME
// ======================================================

func (uc *Accounts) Me(ctx context.Context, establishmentID, userID uuid.UUID) (*Session, error) {
	user, err := uc.gw.Users.First(ctx, store.Where(
		store.Eq("id", userID),
		store.Eq("establishment_id", establishmentID),
	))
	if err != nil {
		return nil, httperr.Store("failed_to_load_user", err)
	}
	if user == nil {
		return nil, httperr.NotFoundErr("user_not_found")
	}

	est, err := uc.establishment(ctx, establishmentID)
	if err != nil {
		return nil, err
	}
	return &Session{User: *user, Establishment: *est}, nil
}

// ======================================================
// HELPERS
// ======================================================

// errInvalidCredentials não diferencia e-mail inexistente de senha errada.
var errInvalidCredentials = httperr.Unauthenticated("invalid_credentials")

func (uc *Accounts) establishment(ctx context.Context, id uuid.UUID) (*models.Establishment, error) {
	est, err := uc.gw.Establishments.First(ctx, store.Where(store.Eq("id", id)))
	if err != nil {
		return nil, httperr.Store("failed_to_load_establishment", err)
	}
	if est == nil {
		return nil, httperr.NotFoundErr("establishment_not_found")
	}
	return est, nil
}

func (uc *Accounts) issue(user *models.User) (string, error) {
	token, err := uc.tokens.Issue(auth.Claims{
		UserID:          user.ID,
		EstablishmentID: user.EstablishmentID,
		Role:            user.Role,
	})
	if err != nil {
		return "", httperr.Store("failed_to_generate_token", err)
	}
	return token, nil
}
