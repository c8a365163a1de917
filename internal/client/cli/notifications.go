package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
)

// Notifications lists the feed in server order.
func (a *App) Notifications(ctx context.Context) error {
	if err := a.notifications.Refresh(ctx); err != nil {
		printlnFn("Could not load notifications:", api.AlertMessage(err))
		return err
	}

	list := a.notifications.Notifications()
	if len(list) == 0 {
		printlnFn("No notifications")
		return nil
	}

	printlnFn(fmt.Sprintf("%d notifications (%d unread)", len(list), a.notifications.Unread()))
	for _, n := range list {
		marker := "*"
		if n.Read {
			marker = " "
		}
		printlnFn(fmt.Sprintf("%s [%d] %s: %s", marker, n.ID, n.Title, n.Message))
	}
	return nil
}

// Read marks one notification as read. The entry flips instantly; a server
// rejection rolls it back and shows the message.
func (a *App) Read(ctx context.Context, id string) error {
	notificationID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		printlnFn("Invalid notification id:", id)
		return err
	}

	if err := a.notifications.MarkRead(ctx, notificationID); err != nil {
		printlnFn("Could not mark as read:", api.AlertMessage(err))
		return err
	}
	printlnFn(fmt.Sprintf("Notification %d read (%d unread left)", notificationID, a.notifications.Unread()))
	return nil
}
