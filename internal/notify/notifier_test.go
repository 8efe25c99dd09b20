package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/slash/internal/notify"
	"github.com/donaldgifford/slash/internal/notify/mocks"
	domain "github.com/donaldgifford/slash/pkg/types"
)

var batch = []domain.AlertItem{
	{RawItem: domain.RawItem{Title: "Desk Lamp", Price: "19.99", SiteName: "walmart"}, ReferencePrice: 25},
}

func TestMulti_Notify(t *testing.T) {
	t.Parallel()

	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)
	first.EXPECT().Notify(mock.Anything, "alice@example.com", batch).Return(nil).Once()
	second.EXPECT().Notify(mock.Anything, "alice@example.com", batch).Return(nil).Once()

	err := notify.Multi{first, second}.Notify(context.Background(), "alice@example.com", batch)
	require.NoError(t, err)
}

func TestMulti_Notify_AttemptsAllAndJoinsErrors(t *testing.T) {
	t.Parallel()

	errA := errors.New("smtp down")
	errB := errors.New("webhook gone")

	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)
	third := mocks.NewMockNotifier(t)
	first.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).Return(errA).Once()
	second.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	third.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).Return(errB).Once()

	err := notify.Multi{first, second, third}.Notify(context.Background(), "bob@example.com", batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestSkipEmpty(t *testing.T) {
	t.Parallel()

	next := mocks.NewMockNotifier(t)
	next.EXPECT().Notify(mock.Anything, "alice@example.com", batch).Return(nil).Once()

	n := notify.SkipEmpty(next)

	require.NoError(t, n.Notify(context.Background(), "alice@example.com", nil))
	require.NoError(t, n.Notify(context.Background(), "alice@example.com", []domain.AlertItem{}))
	require.NoError(t, n.Notify(context.Background(), "alice@example.com", batch))
}
