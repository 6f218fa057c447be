package handler

import (
	"greensteps/internal/models"
	"greensteps/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupTeam struct {
	container *do.Injector
}

func (gr *groupTeam) List(c echo.Context) error {
	ctx := c.Request().Context()

	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	page, limit := parsePaging(c)
	teams, err := serviceTeam.List(ctx, page, limit)
	return httpx.RestAbort(c, teams, err)
}

type payloadCreateTeam struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	MaxMembers  int    `json:"max_members"`
}

func (gr *groupTeam) Create(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload payloadCreateTeam
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if err := c.Validate(&payload); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	team, err := serviceTeam.Create(ctx, user, &models.Team{
		Name:        payload.Name,
		Description: &payload.Description,
		MaxMembers:  payload.MaxMembers,
	})
	return httpx.RestAbort(c, team, err)
}

func (gr *groupTeam) Show(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	team, err := serviceTeam.Get(ctx, id)
	return httpx.RestAbort(c, team, err)
}

func (gr *groupTeam) Members(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	members, err := serviceTeam.Members(ctx, id)
	return httpx.RestAbort(c, members, err)
}

func (gr *groupTeam) Join(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	member, err := serviceTeam.Join(ctx, user, id)
	return httpx.RestAbort(c, member, err)
}

func (gr *groupTeam) Leave(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := paramID(c)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceTeam, err := do.Invoke[*services.ServiceTeam](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	err = serviceTeam.Leave(ctx, user, id)
	return httpx.RestAbort(c, "success", err)
}
