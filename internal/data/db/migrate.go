package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/moodwatch/moodwatch-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// EnsureAlertIndexes adds the query-shaped indexes the struct tags cannot express.
// The statements are valid on both Postgres and SQLite.
func EnsureAlertIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_behaviour_log_missed_checkin",
			sql: `CREATE INDEX IF NOT EXISTS idx_behaviour_log_missed_checkin
				ON behaviour_log(user_id, date)
				WHERE type = 'missed_checkin';`,
		},
		{
			name: "idx_weekly_survey_user_latest",
			sql: `CREATE INDEX IF NOT EXISTS idx_weekly_survey_user_latest
				ON weekly_survey(user_id, week_start_date DESC);`,
		},
		{
			name: "idx_emotion_sample_low_mood",
			sql: `CREATE INDEX IF NOT EXISTS idx_emotion_sample_low_mood
				ON emotion_sample(user_id, created_at)
				WHERE mood_score <= 2;`,
		},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...", "driver", s.driver)
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureAlertIndexes(s.db); err != nil {
		s.log.Error("Alert index migration failed", "error", err)
		return err
	}
	return nil
}
