package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SeatHold takes short-TTL SetNX holds on (schedule, seat) pairs while a
// booking is in flight. Expiry releases abandoned holds on its own; the
// database index stays the source of truth for committed bookings.
type SeatHold struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSeatHold(client *redis.Client, ttl time.Duration) *SeatHold {
	return &SeatHold{Client: client, TTL: ttl}
}

func holdKey(scheduleID, seatID string) string {
	return fmt.Sprintf("seat_hold:%s:%s", scheduleID, seatID)
}

func (h *SeatHold) Hold(ctx context.Context, scheduleID, seatID, token string) (bool, error) {
	return h.Client.SetNX(ctx, holdKey(scheduleID, seatID), token, h.TTL).Result()
}

// releaseScript deletes the hold only while it still belongs to the caller.
// Check and delete run as one script so a hold that expired and was re-taken
// by another request is never deleted by a stale release.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

func (h *SeatHold) Release(ctx context.Context, scheduleID, seatID, token string) error {
	return releaseScript.Run(ctx, h.Client, []string{holdKey(scheduleID, seatID)}, token).Err()
}
