package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	SchemeListKey     = "schemes:all"
	ReadingsKeyPrefix = "iot:readings:%s"
)

const (
	UserTTL       = 5 * time.Minute
	SchemeListTTL = 10 * time.Minute
	ReadingsTTL   = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ReadingsKey(channelID string) string {
	return fmt.Sprintf(ReadingsKeyPrefix, channelID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateSchemes(ctx context.Context) {
	Invalidate(ctx, SchemeListKey)
}
