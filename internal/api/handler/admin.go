package handler

import (
	"errors"

	"greensteps/internal/models"
	"greensteps/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAdmin struct {
	container *do.Injector
}

func (gr *groupAdmin) PendingQueue(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceActionLog, err := do.Invoke[*services.ServiceActionLog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	page, limit := parsePaging(c)
	logs, err := serviceActionLog.PendingQueue(ctx, page, limit)
	return httpx.RestAbort(c, logs, err)
}

type payloadApprove struct {
	ActionID     *int64   `json:"action_id"`
	ActionLogID  *int64   `json:"action_log_id"`
	PointsValue  *int     `json:"points_value"`
	CO2Impact    *float64 `json:"co2_impact"`
	IsSubmission bool     `json:"is_submission"`
}

// Approve settles either a pending log or a user-submitted action proposal,
// depending on is_submission.
func (gr *groupAdmin) Approve(c echo.Context) error {
	ctx := c.Request().Context()

	admin, err := ResolveValidAdmin(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadApprove
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	if payload.IsSubmission {
		if payload.ActionID == nil || payload.PointsValue == nil || payload.CO2Impact == nil {
			return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("action_id, points_value and co2_impact are required"), errorx.Validation))
		}

		serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
		if err != nil {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
		}

		if _, err := serviceAction.ApproveProposal(ctx, admin, *payload.ActionID, *payload.PointsValue, *payload.CO2Impact); err != nil {
			return httpx.RestAbort(c, nil, err)
		}

		return httpx.RestAbort(c, map[string]interface{}{
			"success": true,
			"message": "proposal approved",
		}, nil)
	}

	if payload.ActionLogID == nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("action_log_id is required"), errorx.Validation))
	}

	serviceActionLog, err := do.Invoke[*services.ServiceActionLog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if _, err := serviceActionLog.Approve(ctx, admin, *payload.ActionLogID); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"success": true,
		"message": "action log approved",
	}, nil)
}

type payloadReject struct {
	ActionID        *int64 `json:"action_id"`
	ActionLogID     *int64 `json:"action_log_id"`
	RejectionReason string `json:"rejection_reason"`
	IsSubmission    bool   `json:"is_submission"`
}

func (gr *groupAdmin) Reject(c echo.Context) error {
	ctx := c.Request().Context()

	admin, err := ResolveValidAdmin(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadReject
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	if payload.IsSubmission {
		if payload.ActionID == nil {
			return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("action_id is required"), errorx.Validation))
		}

		serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
		if err != nil {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
		}

		if err := serviceAction.RejectProposal(ctx, *payload.ActionID, payload.RejectionReason); err != nil {
			return httpx.RestAbort(c, nil, err)
		}

		return httpx.RestAbort(c, map[string]interface{}{
			"success": true,
			"message": "proposal rejected",
		}, nil)
	}

	if payload.ActionLogID == nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("action_log_id is required"), errorx.Validation))
	}

	serviceActionLog, err := do.Invoke[*services.ServiceActionLog](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceActionLog.Reject(ctx, admin, *payload.ActionLogID, payload.RejectionReason); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"success": true,
		"message": "action log rejected",
	}, nil)
}

type payloadAdminAction struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description"`
	Category    models.ActionCategory `json:"category" validate:"required"`
	PointsValue int                   `json:"points_value" validate:"required"`
	CO2Impact   float64               `json:"co2_impact"`
}

func (gr *groupAdmin) CreateAction(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadAdminAction
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

	action, err := serviceAction.CreateAction(ctx, &models.Action{
		Title:       payload.Title,
		Description: &payload.Description,
		Category:    payload.Category,
		PointsValue: payload.PointsValue,
		CO2Impact:   payload.CO2Impact,
	})
	return httpx.RestAbort(c, action, err)
}

func (gr *groupAdmin) UpdateAction(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	var payload payloadAdminAction
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

	action, err := serviceAction.UpdateAction(ctx, &models.Action{
		ID:          id,
		Title:       payload.Title,
		Description: &payload.Description,
		Category:    payload.Category,
		PointsValue: payload.PointsValue,
		CO2Impact:   payload.CO2Impact,
		IsActive:    true,
	})
	return httpx.RestAbort(c, action, err)
}

func (gr *groupAdmin) DeactivateAction(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceAction.DeactivateAction(ctx, id)
	return httpx.RestAbort(c, "success", err)
}

func (gr *groupAdmin) GetProposals(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAction, err := do.Invoke[*services.ServiceAction](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	proposals, err := serviceAction.GetPendingProposals(ctx)
	return httpx.RestAbort(c, proposals, err)
}

func (gr *groupAdmin) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceStats, err := do.Invoke[*services.ServiceStats](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	stats, err := serviceStats.GetPlatformStats(ctx)
	return httpx.RestAbort(c, stats, err)
}

type payloadAnnounce struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func (gr *groupAdmin) Announce(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := ResolveValidAdmin(ctx, gr.container); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadAnnounce
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := c.Validate(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceNotification, err := do.Invoke[*services.ServiceNotification](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	sent, err := serviceNotification.Announce(ctx, models.NotificationAnnouncement, payload.Title, payload.Body)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"recipients": sent}, nil)
}
