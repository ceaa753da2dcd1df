package feedback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/apperr"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/id"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/memory"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/persistence"
)

func TestSubmitAndList(t *testing.T) {
	svc := NewService(persistence.NewFeedbackRepository(memory.NewStore()), id.NewUUIDGenerator(), nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "Ada", "ada@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	f, err := svc.Submit(ctx, "Ada", "ada@example.com", "Great lamps")
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Great lamps", all[0].Message)
}
