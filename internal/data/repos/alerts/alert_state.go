package alerts

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type AlertStateRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.AlertState, error)
	Insert(dbc dbctx.Context, state *types.AlertState) error
	CompareAndSwap(dbc dbctx.Context, state *types.AlertState, expectedVersion int64) error
}

type alertStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertStateRepo(db *gorm.DB, baseLog *logger.Logger) AlertStateRepo {
	repoLog := baseLog.With("repo", "AlertStateRepo")
	return &alertStateRepo{db: db, log: repoLog}
}

// GetByUserID returns nil, nil when the user has never been evaluated.
func (r *alertStateRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.AlertState, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var st types.AlertState
	err := transaction.WithContext(dbc.Ctx).Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Insert creates the first state row for a user at version 1. Losing the race
// against a concurrent first insert yields errs.ErrConflict.
func (r *alertStateRepo) Insert(dbc dbctx.Context, state *types.AlertState) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	state.Version = 1
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("alert state insert for %s: %w", state.UserID, errs.ErrConflict)
	}
	return nil
}

// CompareAndSwap writes the state only if the stored version still equals
// expectedVersion, then bumps the version. A stale version yields errs.ErrConflict.
func (r *alertStateRepo) CompareAndSwap(dbc dbctx.Context, state *types.AlertState, expectedVersion int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	next := expectedVersion + 1
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.AlertState{}).
		Where("user_id = ? AND version = ?", state.UserID, expectedVersion).
		Updates(map[string]any{
			"current_state":  state.CurrentState,
			"triggered_by":   state.TriggeredBy,
			"explanation":    state.Explanation,
			"since_date":     state.SinceDate,
			"last_evaluated": state.LastEvaluated,
			"version":        next,
			"updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("alert state for %s moved past version %d: %w", state.UserID, expectedVersion, errs.ErrConflict)
	}
	state.Version = next
	return nil
}
