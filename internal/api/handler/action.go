package handler

import (
	"greensteps/internal/models"
	"greensteps/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAction struct {
	container *do.Injector
}

func (gr *groupAction) GetCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	actions, err := serviceAction.GetCatalog(ctx)
	return httpx.RestAbort(c, actions, err)
}

func (gr *groupAction) Show(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	action, err := serviceAction.FindActionByID(ctx, id)
	return httpx.RestAbort(c, action, err)
}

type payloadLogAction struct {
	ActionID  int64   `json:"action_id" validate:"required"`
	Notes     string  `json:"notes"`
	HasPhotos bool    `json:"has_photos"`
	PhotoURL  *string `json:"photo_url"`
}

func (gr *groupAction) Log(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadLogAction
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := c.Validate(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceActionLog, err := do.Invoke[*services.ServiceActionLog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	log, err := serviceActionLog.Submit(ctx, user, payload.ActionID, payload.Notes, payload.HasPhotos, payload.PhotoURL)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"action_log":            log,
		"points_earned":         log.PointsEarned,
		"co2_saved":             log.CO2Saved,
		"verification_required": true,
	}, nil)
}

type payloadProposeAction struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	Category    models.ActionCategory `json:"category"`
}

func (gr *groupAction) Propose(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadProposeAction
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := c.Validate(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	action, err := serviceAction.ProposeAction(ctx, user, payload.Title, payload.Description, payload.Category)
	return httpx.RestAbort(c, action, err)
}

func (gr *groupAction) History(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceActionLog, err := do.Invoke[*services.ServiceActionLog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	page, limit := parsePaging(c)
	logs, err := serviceActionLog.History(ctx, user, page, limit)
	return httpx.RestAbort(c, logs, err)
}
