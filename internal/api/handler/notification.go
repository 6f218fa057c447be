package handler

import (
	"errors"

	"greensteps/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupNotification struct {
	container *do.Injector
}

func (gr *groupNotification) List(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	page, limit := parsePaging(c)
	unreadOnly := c.QueryParam("unread_only") == "true"

	list, err := serviceNotification.List(ctx, user, unreadOnly, page, limit)
	return httpx.RestAbort(c, list, err)
}

type payloadUpdateNotifications struct {
	NotificationID *int64 `json:"notification_id"`
	MarkAllRead    bool   `json:"mark_all_read"`
}

// Update marks a single notification read, or all of them when
// mark_all_read is set. Exactly one of the two must be provided.
func (gr *groupNotification) Update(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadUpdateNotifications
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if payload.NotificationID == nil && !payload.MarkAllRead {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("notification_id or mark_all_read is required"), errorx.Validation))
	}

	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if payload.MarkAllRead {
		n, err := serviceNotification.MarkAllRead(ctx, user)
		if err != nil {
			return httpx.RestAbort(c, nil, err)
		}
		return httpx.RestAbort(c, map[string]interface{}{"marked": n}, nil)
	}

	err = serviceNotification.MarkRead(ctx, user, *payload.NotificationID)
	return httpx.RestAbort(c, "success", err)
}
