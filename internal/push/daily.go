package push

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	notificationsmodels "io.gospelera.push/internal/models/notifications"
)

// dailyVerses is the fixed rotation for the daily broadcast. The selector
// walks it once per calendar day, wrapping at the end.
var dailyVerses = []struct {
	Verse     string
	Reference string
}{
	{"For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life.", "John 3:16"},
	{"Trust in the Lord with all thine heart; and lean not unto thine own understanding.", "Proverbs 3:5"},
	{"I can do all things through Christ which strengtheneth me.", "Philippians 4:13"},
	{"The Lord is my shepherd; I shall not want.", "Psalm 23:1"},
	{"Be strong and of a good courage; be not afraid, neither be thou dismayed: for the Lord thy God is with thee whithersoever thou goest.", "Joshua 1:9"},
	{"And we know that all things work together for good to them that love God, to them who are the called according to his purpose.", "Romans 8:28"},
	{"Come unto me, all ye that labour and are heavy laden, and I will give you rest.", "Matthew 11:28"},
	{"But they that wait upon the Lord shall renew their strength; they shall mount up with wings as eagles.", "Isaiah 40:31"},
	{"Thy word is a lamp unto my feet, and a light unto my path.", "Psalm 119:105"},
	{"Casting all your care upon him; for he careth for you.", "1 Peter 5:7"},
	{"Let not your heart be troubled: ye believe in God, believe also in me.", "John 14:1"},
	{"The Lord is my light and my salvation; whom shall I fear?", "Psalm 27:1"},
	{"Rejoice in the Lord alway: and again I say, Rejoice.", "Philippians 4:4"},
	{"For I know the thoughts that I think toward you, saith the Lord, thoughts of peace, and not of evil, to give you an expected end.", "Jeremiah 29:11"},
	{"Be careful for nothing; but in every thing by prayer and supplication with thanksgiving let your requests be made known unto God.", "Philippians 4:6"},
	{"God is our refuge and strength, a very present help in trouble.", "Psalm 46:1"},
	{"Greater love hath no man than this, that a man lay down his life for his friends.", "John 15:13"},
	{"Draw nigh to God, and he will draw nigh to you.", "James 4:8"},
	{"This is the day which the Lord hath made; we will rejoice and be glad in it.", "Psalm 118:24"},
	{"Peace I leave with you, my peace I give unto you: not as the world giveth, give I unto you.", "John 14:27"},
	{"Wait on the Lord: be of good courage, and he shall strengthen thine heart.", "Psalm 27:14"},
	{"The name of the Lord is a strong tower: the righteous runneth into it, and is safe.", "Proverbs 18:10"},
	{"Bless the Lord, O my soul, and forget not all his benefits.", "Psalm 103:2"},
	{"Seek ye first the kingdom of God, and his righteousness; and all these things shall be added unto you.", "Matthew 6:33"},
	{"For where two or three are gathered together in my name, there am I in the midst of them.", "Matthew 18:20"},
	{"Create in me a clean heart, O God; and renew a right spirit within me.", "Psalm 51:10"},
	{"Let the words of my mouth, and the meditation of my heart, be acceptable in thy sight, O Lord, my strength, and my redeemer.", "Psalm 19:14"},
	{"Fear thou not; for I am with thee: be not dismayed; for I am thy God.", "Isaiah 41:10"},
	{"Jesus Christ the same yesterday, and to day, and for ever.", "Hebrews 13:8"},
	{"O taste and see that the Lord is good: blessed is the man that trusteth in him.", "Psalm 34:8"},
}

// verseForDate deterministically selects the verse for a calendar date:
// day-of-year modulo the list length. The same date always yields the same
// verse, and the rotation cycles through the full list before repeating.
func verseForDate(date time.Time) (verse, reference string) {
	v := dailyVerses[date.YearDay()%len(dailyVerses)]
	return v.Verse, v.Reference
}

// Broadcaster runs the daily verse broadcast: it resolves the verse for
// today, persists the choice, and fans it out to every opted-in token
// through the dispatcher.
type Broadcaster struct {
	store       TokenStore
	dispatcher  *Dispatcher
	db          *pgxpool.Pool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewBroadcaster(store TokenStore, dispatcher *Dispatcher, db *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *Broadcaster {
	return &Broadcaster{
		store:       store,
		dispatcher:  dispatcher,
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

// SendDailyBroadcast delivers today's verse to every token opted into the
// daily feature. Best effort: it never returns an error, only the tally.
func (b *Broadcaster) SendDailyBroadcast(ctx context.Context) BroadcastResult {
	tokens, err := b.store.ListDailyOptIn(ctx)
	if err != nil {
		b.logger.Errorw("failed to load daily opt-in tokens", "error", err)
		return BroadcastResult{}
	}
	if len(tokens) == 0 {
		return BroadcastResult{}
	}

	verse := b.todaysVerse(ctx)
	payload := notificationsmodels.Payload{
		Title: "Verse of the Day",
		Body:  fmt.Sprintf("%q (%s)", verse.Verse, verse.Reference),
		URL:   "/daily-verse",
		Tag:   "daily-verse",
	}

	sent, failed := b.dispatcher.DeliverAll(ctx, tokens, payload)
	result := BroadcastResult{Sent: sent, Failed: failed}

	b.recordDeliveries(ctx, tokens, verse.Date)

	b.logger.Infow("daily broadcast complete",
		"date", verse.Date.Format("2006-01-02"), "reference", verse.Reference,
		"sent", result.Sent, "failed", result.Failed)
	return result
}

// todaysVerse resolves today's verse: Redis cache first, then the
// daily_verses table, then the static rotation (persisting the choice).
func (b *Broadcaster) todaysVerse(ctx context.Context) notificationsmodels.DailyVerse {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	cacheKey := fmt.Sprintf("daily_verse:%s", today.Format("2006-01-02"))
	if b.redisClient != nil {
		cached := b.redisClient.Get(ctx, cacheKey)
		if cached.Err() == nil {
			var verse notificationsmodels.DailyVerse
			if err := json.Unmarshal([]byte(cached.Val()), &verse); err == nil {
				return verse
			}
		}
	}

	var verse notificationsmodels.DailyVerse
	found := false
	if b.db != nil {
		query := `SELECT id, verse, reference, date, created_at FROM daily_verses WHERE date = $1`
		err := b.db.QueryRow(ctx, query, today).Scan(
			&verse.ID, &verse.Verse, &verse.Reference, &verse.Date, &verse.CreatedAt,
		)
		found = err == nil
	}

	if !found {
		text, reference := verseForDate(today)
		verse = notificationsmodels.DailyVerse{
			ID:        uuid.New().String(),
			Verse:     text,
			Reference: reference,
			Date:      today,
			CreatedAt: time.Now(),
		}

		if b.db != nil {
			insertQuery := `
				INSERT INTO daily_verses (id, verse, reference, date, created_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (date) DO NOTHING`
			if _, err := b.db.Exec(ctx, insertQuery,
				verse.ID, verse.Verse, verse.Reference, verse.Date, verse.CreatedAt); err != nil {
				b.logger.Errorw("failed to save daily verse", "error", err)
			}
		}
	}

	if b.redisClient != nil {
		verseJSON, _ := json.Marshal(verse)
		b.redisClient.Set(ctx, cacheKey, verseJSON, 24*time.Hour)
	}

	return verse
}

// recordDeliveries tracks which users were covered by today's broadcast,
// feeding the stats endpoint.
func (b *Broadcaster) recordDeliveries(ctx context.Context, tokens []notificationsmodels.DeviceToken, date time.Time) {
	if b.redisClient == nil {
		return
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token.UserID]; ok {
			continue
		}
		seen[token.UserID] = struct{}{}
		key := fmt.Sprintf("verse_sent:%s:%s", token.UserID, date.Format("2006-01-02"))
		b.redisClient.Set(ctx, key, "daily_verse", 7*24*time.Hour)
	}
}
