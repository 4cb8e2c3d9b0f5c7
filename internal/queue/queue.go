package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const listKey = "notifications:pending"

var ErrEmpty = errors.New("queue empty")

// Queue is a redis-list notification queue: the api LPUSHes, the worker
// BRPOPs. Best effort only; a lost message is a missed notification, not
// lost application state.
type Queue struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

func (q *Queue) Enqueue(ctx context.Context, kind MessageKind, payload any, requestID string) error {
	raw, err := EncodePayload(kind, payload)

	if err != nil {
		return err
	}

	msg := Message{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
		RequestID:  requestID,
	}

	b, err := json.Marshal(msg)

	if err != nil {
		return err
	}

	return q.rdb.LPush(ctx, listKey, b).Err()
}

// Dequeue blocks up to timeout for the next message. Returns ErrEmpty when
// the wait expires with nothing to do.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (Message, error) {
	res, err := q.rdb.BRPop(ctx, timeout, listKey).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Message{}, ErrEmpty
		}

		return Message{}, err
	}

	// BRPOP returns [key, value]
	if len(res) != 2 {
		return Message{}, ErrInvalidPayload
	}

	var msg Message

	err = json.Unmarshal([]byte(res[1]), &msg)

	if err != nil {
		return Message{}, ErrInvalidPayload
	}

	return msg, nil
}

func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, listKey).Result()
}
