package repository

import (
	"context"
	"time"

	"github.com/smarttask/smarttask/internal/database"
	"github.com/smarttask/smarttask/internal/models"
)

type UserSettingsRepository struct {
	db *database.DB
}

func NewUserSettingsRepository(db *database.DB) *UserSettingsRepository {
	return &UserSettingsRepository{db: db}
}

const settingsColumns = `user_id, timezone, quiet_start, quiet_end, digest_enabled,
	 digest_time, last_digest_date, updated_at`

func (r *UserSettingsRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings, err := r.GetByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}

	defaults := models.NewDefaultUserSettings(userID)
	s := &models.UserSettings{}
	err = r.db.Pool.QueryRow(ctx,
		`INSERT INTO user_settings (user_id, timezone, quiet_start, quiet_end, digest_enabled, digest_time)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING `+settingsColumns,
		userID, defaults.Timezone, defaults.QuietStart, defaults.QuietEnd,
		defaults.DigestEnabled, defaults.DigestTime,
	).Scan(&s.UserID, &s.Timezone, &s.QuietStart, &s.QuietEnd, &s.DigestEnabled,
		&s.DigestTime, &s.LastDigestDate, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *UserSettingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, error) {
	s := &models.UserSettings{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&s.UserID, &s.Timezone, &s.QuietStart, &s.QuietEnd, &s.DigestEnabled,
		&s.DigestTime, &s.LastDigestDate, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *UserSettingsRepository) SetTimezone(ctx context.Context, userID int64, timezone string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET timezone = $1, updated_at = NOW() WHERE user_id = $2`,
		timezone, userID,
	)
	return err
}

func (r *UserSettingsRepository) SetQuietHours(ctx context.Context, userID int64, start, end string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET quiet_start = $1, quiet_end = $2, updated_at = NOW() WHERE user_id = $3`,
		start, end, userID,
	)
	return err
}

func (r *UserSettingsRepository) SetDigestEnabled(ctx context.Context, userID int64, enabled bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET digest_enabled = $1, updated_at = NOW() WHERE user_id = $2`,
		enabled, userID,
	)
	return err
}

func (r *UserSettingsRepository) SetDigestTime(ctx context.Context, userID int64, clock string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET digest_time = $1, updated_at = NOW() WHERE user_id = $2`,
		clock, userID,
	)
	return err
}

func (r *UserSettingsRepository) SetLastDigestDate(ctx context.Context, userID int64, date time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE user_settings SET last_digest_date = $1, updated_at = NOW() WHERE user_id = $2`,
		date, userID,
	)
	return err
}

// GetUsersWithDigestEnabled returns the IDs of users who want the daily digest.
func (r *UserSettingsRepository) GetUsersWithDigestEnabled(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT user_id FROM user_settings WHERE digest_enabled = true`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	return userIDs, nil
}
