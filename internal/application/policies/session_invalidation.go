package policies

import (
	"context"

	"clubhub-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// UserSessionsPrefix keys the set of live session IDs per user.
const UserSessionsPrefix = "user_sessions:"

// DestroyUserSessions deletes every session of the user along with the
// user_sessions:<user_id> set, so a changed or removed account is logged out
// everywhere.
func DestroyUserSessions(ctx context.Context, rdb *redis.Client, userID string) {
	if userID == "" || rdb == nil {
		return
	}
	key := UserSessionsPrefix + userID
	sessionIDs, err := rdb.SMembers(ctx, key).Result()
	if err == nil {
		for _, sid := range sessionIDs {
			rdb.Del(ctx, middleware.SessionRedisPrefix+sid)
		}
	}
	rdb.Del(ctx, key)
}
