// internal/historian/historian.go

// Package historian drains the Redis match action queue and archives each
// record into the match_actions table, giving every applied command a durable
// ordered history independent of the live match aggregate.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/engfrosh/euchre/internal/cache"
	"github.com/engfrosh/euchre/internal/database"
)

// popTimeout bounds each blocking read so Run notices context cancellation.
const popTimeout = 5 * time.Second

// Run consumes action records until the context is canceled. Malformed
// records are logged and dropped; storage errors are logged and the record is
// skipped rather than wedging the queue.
func Run(ctx context.Context, logger *logrus.Logger) {
	queueName := os.Getenv("HISTORIAN_QUEUE_NAME")
	if queueName == "" {
		queueName = cache.DefaultQueueName
	}
	logger.Infof("historian consuming queue %s", queueName)

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := cache.Rdb.BLPop(ctx, popTimeout, queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			logger.Warnf("historian BLPop error: %v", err)
			time.Sleep(time.Second)
			continue
		}
		// BLPop returns [key, value].
		if len(res) < 2 {
			continue
		}

		var rec cache.MatchActionRecord
		if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
			logger.Warnf("historian dropping malformed record: %v", err)
			continue
		}

		inserted, err := archive(ctx, rec)
		if err != nil {
			logger.Warnf("historian failed to archive action %d of match %s: %v",
				rec.ActionIndex, rec.MatchID, err)
		} else if !inserted {
			logger.Warnf("historian skipped action %d of match %s: index already archived",
				rec.ActionIndex, rec.MatchID)
		}
	}
}

// archive inserts one record, idempotently on (match_id, action_index) so a
// redelivered record is a no-op. The caller logs skipped duplicates.
func archive(ctx context.Context, rec cache.MatchActionRecord) (bool, error) {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return false, err
	}
	q := `
	INSERT INTO match_actions (match_id, action_index, actor_user_id, command, payload, occurred_at)
	VALUES ($1, $2, $3, $4, $5, to_timestamp($6::double precision / 1000))
	ON CONFLICT (match_id, action_index) DO NOTHING`
	var inserted bool
	err = pgx.BeginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q,
			rec.MatchID, rec.ActionIndex, rec.ActorUserID, rec.Command, payload, rec.Timestamp)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected() > 0
		return nil
	})
	return inserted, err
}
