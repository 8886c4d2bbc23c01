package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "universitas/pkg/domain"
)

func TestAccessors(t *testing.T) {
	t.Run("empty context yields zero values", func(t *testing.T) {
		ctx := context.Background()
		assert.True(t, UserID(ctx).IsNil())
		assert.Empty(t, Role(ctx))
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, ClientIP(ctx))
		assert.Empty(t, UserAgent(ctx))
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("values round trip", func(t *testing.T) {
		userID := id.NewUserID()
		fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

		ctx := WithPrincipal(context.Background(), userID, "instructor")
		ctx = WithRequestID(ctx, "req-42")
		ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8")
		ctx = WithTime(ctx, fixed)

		assert.Equal(t, userID, UserID(ctx))
		assert.Equal(t, "instructor", Role(ctx))
		assert.Equal(t, "req-42", RequestID(ctx))
		assert.Equal(t, "10.0.0.1", ClientIP(ctx))
		assert.Equal(t, "curl/8", UserAgent(ctx))
		assert.Equal(t, fixed, Now(ctx))
	})
}
