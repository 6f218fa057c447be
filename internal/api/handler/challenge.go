package handler

import (
	"strconv"
	"time"

	"greensteps/internal/models"
	"greensteps/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupChallenge struct {
	container *do.Injector
}

func paramID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func (gr *groupChallenge) List(c echo.Context) error {
	ctx := c.Request().Context()

	// participation is only attached for authenticated callers
	user, _ := ResolveValidUser(ctx, gr.container)

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	page, limit := parsePaging(c)
	challenges, err := serviceChallenge.List(ctx, user, page, limit)
	return httpx.RestAbort(c, challenges, err)
}

func (gr *groupChallenge) Show(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, _ := ResolveValidUser(ctx, gr.container)

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenge, err := serviceChallenge.Get(ctx, user, id)
	return httpx.RestAbort(c, challenge, err)
}

type payloadCreateChallenge struct {
	Title           string                 `json:"title" validate:"required"`
	Description     string                 `json:"description"`
	Type            models.ChallengeType   `json:"type" validate:"required"`
	Metric          models.ChallengeMetric `json:"metric" validate:"required"`
	TargetValue     float64                `json:"target_value" validate:"required"`
	MaxParticipants int                    `json:"max_participants"`
	StartDate       time.Time              `json:"start_date" validate:"required"`
	EndDate         time.Time              `json:"end_date" validate:"required"`
	TeamID          *int64                 `json:"team_id"`
}

func (gr *groupChallenge) Create(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadCreateChallenge
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := c.Validate(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	challenge, err := serviceChallenge.Create(ctx, user, &models.Challenge{
		Title:           payload.Title,
		Description:     &payload.Description,
		Type:            payload.Type,
		Metric:          payload.Metric,
		TargetValue:     payload.TargetValue,
		MaxParticipants: payload.MaxParticipants,
		StartDate:       payload.StartDate,
		EndDate:         payload.EndDate,
		TeamID:          payload.TeamID,
	})
	return httpx.RestAbort(c, challenge, err)
}

func (gr *groupChallenge) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceChallenge.Delete(ctx, user, id)
	return httpx.RestAbort(c, "success", err)
}

func (gr *groupChallenge) Join(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	participant, err := serviceChallenge.Join(ctx, user, id)
	return httpx.RestAbort(c, participant, err)
}

func (gr *groupChallenge) Leave(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceChallenge.Leave(ctx, user, id)
	return httpx.RestAbort(c, "success", err)
}

func (gr *groupChallenge) Participants(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceChallenge, err := do.Invoke[*services.ServiceChallenge](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	participants, err := serviceChallenge.GetParticipants(ctx, id)
	return httpx.RestAbort(c, participants, err)
}
