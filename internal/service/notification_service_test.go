package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexmarketing03-cell/planner-api/internal/domain"
	"github.com/rexmarketing03-cell/planner-api/internal/service"
)

func TestNotificationService_InboxFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.notify.Notify(ctx, service.InboxStores, service.NotificationStockArrived,
		"Stock arrived", "Material for J-1 is in", nil, "")
	f.notify.Notify(ctx, service.InboxStores, service.NotificationStockArrived,
		"Stock arrived", "Material for J-2 is in", nil, "")
	f.notify.Notify(ctx, service.InboxSales, service.NotificationSalesRequest,
		"Date change requested", "J-3 asks for a new date", nil, "")

	unread, err := f.notify.CountUnread(ctx, service.InboxStores)
	require.NoError(t, err)
	assert.Equal(t, 2, unread, "inboxes are isolated")

	page, err := f.notify.List(ctx, service.InboxStores, 1, 10, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	items, ok := page.Data.([]domain.NotificationDTO)
	require.True(t, ok)
	require.Len(t, items, 2)

	require.NoError(t, f.notify.MarkAsRead(ctx, items[0].ID))
	unread, err = f.notify.CountUnread(ctx, service.InboxStores)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	unreadOnly, err := f.notify.List(ctx, service.InboxStores, 1, 10, true, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unreadOnly.Total)

	require.NoError(t, f.notify.MarkAllAsRead(ctx, service.InboxStores))
	unread, err = f.notify.CountUnread(ctx, service.InboxStores)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
