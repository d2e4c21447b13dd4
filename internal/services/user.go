package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	domainUser "github.com/moodwatch/moodwatch-backend/internal/domain/user"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

const (
	healthIDPrefix      = "MED"
	healthIDBaseLen     = 6
	healthIDMaxAttempts = 10

	msgUserNotFound = "User not found for provided identifier"
)

type CreateUserInput struct {
	Name  string
	Email string
	Phone string
	Role  string
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*types.User, error)
	// Resolve accepts either the internal UUID or the health ID.
	Resolve(ctx context.Context, identifier string) (*types.User, error)
	ListIDsAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	digits   func() int
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
		digits:   func() int { return rand.IntN(90000) + 10000 },
	}
}

func (us *userService) Create(ctx context.Context, in CreateUserInput) (*types.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)

	if len([]rune(name)) < 2 {
		return nil, errs.Newf(errs.ErrInvalidArgument, "Name must be at least 2 characters")
	}
	if email == "" && phone == "" {
		return nil, errs.Newf(errs.ErrInvalidArgument, "Either email or phone is required")
	}
	role := domainUser.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if role == "" {
		role = domainUser.RolePatient
	}
	if !role.Valid() {
		return nil, errs.Newf(errs.ErrInvalidArgument, "Invalid role")
	}

	var created *types.User
	err := inTx(dbctx.Context{Ctx: ctx}, us.db, func(dbc dbctx.Context) error {
		taken, err := us.userRepo.ContactTaken(dbc, email, phone)
		if err != nil {
			return fmt.Errorf("check contact: %w", err)
		}
		if taken {
			return errs.Newf(errs.ErrConflict, "User already exists with this email or phone")
		}

		healthID, err := us.uniqueHealthID(dbc, name)
		if err != nil {
			return err
		}
		u := &types.User{Name: name, Role: role, HealthID: healthID}
		if email != "" {
			u.Email = &email
		}
		if phone != "" {
			u.Phone = &phone
		}
		out, err := us.userRepo.Create(dbc, []*types.User{u})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = out[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("User created", "user_id", created.ID.String(), "role", string(created.Role))
	return created, nil
}

func (us *userService) uniqueHealthID(dbc dbctx.Context, name string) (string, error) {
	base := healthIDBase(name)
	for i := 0; i < healthIDMaxAttempts; i++ {
		candidate := healthIDPrefix + base + strconv.Itoa(us.digits())
		exists, err := us.userRepo.HealthIDExists(dbc, candidate)
		if err != nil {
			return "", fmt.Errorf("check health id: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free health id for base %q after %d attempts", base, healthIDMaxAttempts)
}

// healthIDBase is the first six characters of the name, uppercased, with
// whitespace removed.
func healthIDBase(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}
		if n == healthIDBaseLen {
			break
		}
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}

func (us *userService) Resolve(ctx context.Context, identifier string) (*types.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	dbc := dbctx.Context{Ctx: ctx}

	if id, err := uuid.Parse(identifier); err == nil {
		found, err := us.userRepo.GetByIDs(dbc, []uuid.UUID{id})
		if err != nil {
			return nil, fmt.Errorf("error fetching user: %w", err)
		}
		if len(found) == 0 || found[0] == nil {
			return nil, errs.Newf(errs.ErrNotFound, msgUserNotFound)
		}
		return found[0], nil
	}

	u, err := us.userRepo.GetByHealthID(dbc, identifier)
	if err != nil {
		return nil, fmt.Errorf("error fetching user by health id: %w", err)
	}
	if u == nil {
		return nil, errs.Newf(errs.ErrNotFound, msgUserNotFound)
	}
	return u, nil
}

func (us *userService) ListIDsAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	return us.userRepo.ListIDsAfter(dbctx.Context{Ctx: ctx}, after, limit)
}
