package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
)

// ErrTokenNotFound is returned when an update targets a token the user
// does not hold.
var ErrTokenNotFound = errors.New("device token not found")

const tokenCacheTTL = 24 * time.Hour

// Registry is the device token store: PostgreSQL rows with a Redis
// read-through cache of each user's token list. Every write invalidates
// the owner's cache entry, including dispatcher-driven deletes.
type Registry struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewRegistry(db *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *Registry {
	return &Registry{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

func tokenCacheKey(userID string) string {
	return "device_tokens:" + userID
}

// ListForUser returns every registered token for the user.
func (r *Registry) ListForUser(ctx context.Context, userID string) ([]notificationsmodels.DeviceToken, error) {
	// Check Redis first
	cached := r.redisClient.Get(ctx, tokenCacheKey(userID))
	if cached.Err() == nil {
		var tokens []notificationsmodels.DeviceToken
		if err := json.Unmarshal([]byte(cached.Val()), &tokens); err == nil {
			return tokens, nil
		}
	}

	query := `
		SELECT id, user_id, platform, token, daily_verse, created_at, updated_at
		FROM device_tokens
		WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query device tokens: %w", err)
	}
	defer rows.Close()

	tokens, err := scanTokens(rows)
	if err != nil {
		return nil, err
	}

	// Cache for next time
	if tokensJSON, err := json.Marshal(tokens); err == nil {
		r.redisClient.Set(ctx, tokenCacheKey(userID), tokensJSON, tokenCacheTTL)
	}

	return tokens, nil
}

// ListDailyOptIn returns every token opted into the daily verse broadcast.
func (r *Registry) ListDailyOptIn(ctx context.Context) ([]notificationsmodels.DeviceToken, error) {
	query := `
		SELECT id, user_id, platform, token, daily_verse, created_at, updated_at
		FROM device_tokens
		WHERE daily_verse = TRUE`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query daily opt-in tokens: %w", err)
	}
	defer rows.Close()

	return scanTokens(rows)
}

// Upsert registers a device token, refreshing platform and preferences if
// the (user, token) pair already exists. Returns the row id.
func (r *Registry) Upsert(ctx context.Context, token notificationsmodels.DeviceToken) (string, error) {
	query := `
		INSERT INTO device_tokens (user_id, platform, token, daily_verse)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, token)
		DO UPDATE SET
			platform = EXCLUDED.platform,
			daily_verse = EXCLUDED.daily_verse,
			updated_at = NOW()
		RETURNING id`

	var id string
	err := r.db.QueryRow(ctx, query,
		token.UserID,
		token.Platform,
		token.Token,
		token.DailyVerse,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert device token: %w", err)
	}

	r.invalidate(ctx, token.UserID)
	return id, nil
}

// Remove deletes a token by its raw value for a user. Removing a token
// that was never registered is a no-op.
func (r *Registry) Remove(ctx context.Context, userID, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM device_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("remove device token: %w", err)
	}

	r.invalidate(ctx, userID)
	return nil
}

// SetDailyVersePref flips the daily broadcast flag on one of the user's
// tokens.
func (r *Registry) SetDailyVersePref(ctx context.Context, userID, tokenID string, enabled bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE device_tokens SET daily_verse = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		enabled, tokenID, userID)
	if err != nil {
		return fmt.Errorf("update daily verse preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}

	r.invalidate(ctx, userID)
	return nil
}

// Delete removes a token by id. Used by the dispatcher when a provider
// reports the token permanently invalid; deleting an id that is already
// gone is a no-op.
func (r *Registry) Delete(ctx context.Context, id string) error {
	var userID string
	err := r.db.QueryRow(ctx, `DELETE FROM device_tokens WHERE id = $1 RETURNING user_id`, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("delete device token: %w", err)
	}

	r.invalidate(ctx, userID)
	return nil
}

func (r *Registry) invalidate(ctx context.Context, userID string) {
	if err := r.redisClient.Del(ctx, tokenCacheKey(userID)).Err(); err != nil {
		r.logger.Warnw("failed to invalidate token cache", "user_id", userID, "error", err)
	}
}

func scanTokens(rows pgx.Rows) ([]notificationsmodels.DeviceToken, error) {
	var tokens []notificationsmodels.DeviceToken
	for rows.Next() {
		var t notificationsmodels.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Platform, &t.Token, &t.DailyVerse, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate device tokens: %w", err)
	}
	return tokens, nil
}
