package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type ContactInput struct {
	UserID       uuid.UUID
	Name         string
	Phone        string
	Relationship string
}

type ContactService interface {
	Upsert(ctx context.Context, in ContactInput) (*types.EmergencyContact, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.EmergencyContact, error)
}

type contactService struct {
	log      *logger.Logger
	contacts repos.EmergencyContactRepo
}

func NewContactService(log *logger.Logger, contacts repos.EmergencyContactRepo) ContactService {
	serviceLog := log.With("service", "ContactService")
	return &contactService{log: serviceLog, contacts: contacts}
}

func (s *contactService) Upsert(ctx context.Context, in ContactInput) (*types.EmergencyContact, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if in.UserID == uuid.Nil || name == "" || phone == "" {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId, name, and phone are required")
	}
	saved, err := s.contacts.Upsert(dbctx.Context{Ctx: ctx}, &types.EmergencyContact{
		UserID:       in.UserID,
		Name:         name,
		Phone:        phone,
		Relationship: strings.TrimSpace(in.Relationship),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert emergency contact: %w", err)
	}
	s.log.Info("Emergency contact saved", "user_id", in.UserID.String(), "phone", phone)
	return saved, nil
}

func (s *contactService) Get(ctx context.Context, userID uuid.UUID) (*types.EmergencyContact, error) {
	if userID == uuid.Nil {
		return nil, errs.Newf(errs.ErrInvalidArgument, "userId is required")
	}
	c, err := s.contacts.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load emergency contact: %w", err)
	}
	if c == nil {
		return nil, errs.Newf(errs.ErrNotFound, "Emergency contact not set")
	}
	return c, nil
}
