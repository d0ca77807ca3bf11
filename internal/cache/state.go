package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// oauthStatePrefix is the Redis key prefix for pending sign-in states.
	oauthStatePrefix = "oauth:state:"
	// OAuthStateTTL bounds how long a user may take at the provider.
	OAuthStateTTL = 10 * time.Minute
)

// ErrInvalidState is returned for a state value that could never have been
// issued.
var ErrInvalidState = errors.New("invalid oauth state")

// NewOAuthState returns a fresh random state value.
func NewOAuthState() string {
	return uuid.NewString()
}

// SaveOAuthState records a pending sign-in.
func (c *Cache) SaveOAuthState(ctx context.Context, state string) error {
	if !validState(state) {
		return ErrInvalidState
	}
	if err := c.client.Set(ctx, oauthStatePrefix+state, 1, OAuthStateTTL).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// ConsumeOAuthState reports whether state was pending and removes it, so a
// callback can be completed at most once.
func (c *Cache) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	if !validState(state) {
		return false, nil
	}
	err := c.client.GetDel(ctx, oauthStatePrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return true, nil
}

func validState(state string) bool {
	_, err := uuid.Parse(state)
	return err == nil && len(state) == 36
}
