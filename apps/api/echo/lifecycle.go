package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

type lifecycleApi struct {
	reg      *lifecycle.Registry
	svc      *snapshot.Service
	validate *validator.Validate
}

type (
	ProcessSummary struct {
		Type lifecycle.ProcessType `json:"type"`
		Name string                `json:"name"`
	}

	// ProjectionResponse is a stateless projection with the actions the caller may attempt.
	ProjectionResponse struct {
		Projection lifecycle.Projection `json:"projection"`
		Actions    []lifecycle.ActionID `json:"actions"`
	}
)

// Handlers

func (api *lifecycleApi) listProcesses(ctx echo.Context) error {
	types := api.reg.Types()
	processes := make([]ProcessSummary, 0, len(types))
	for _, pt := range types {
		p, err := api.reg.Process(pt)
		if err != nil {
			return errors.Wrap(err, "getting process")
		}
		processes = append(processes, ProcessSummary{Type: p.Type, Name: p.Name})
	}
	return ctx.JSON(http.StatusOK, processes)
}

func (api *lifecycleApi) retrieveProcess(ctx echo.Context) error {
	p, err := api.reg.Process(getContextProcess(ctx))
	if err != nil {
		return errors.Wrap(err, "getting process")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *lifecycleApi) project(ctx echo.Context) error {
	pt := getContextProcess(ctx)
	req, err := bindProjectionRequest(ctx, api.validate)
	if err != nil {
		return err
	}
	caps, err := getContextCapabilities(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context capabilities")
	}

	status := lifecycle.Status(req.Status)
	pr, err := api.reg.Project(pt, status, req.DueAt.TimePtr(), req.Now.Time)
	if err != nil {
		return errors.Wrap(err, "projecting status")
	}
	actions, err := api.reg.PermittedActions(pt, status, caps)
	if err != nil {
		return errors.Wrap(err, "listing permitted actions")
	}
	return ctx.JSON(http.StatusOK, ProjectionResponse{Projection: pr, Actions: actions})
}

func (api *lifecycleApi) listEntities(ctx echo.Context) error {
	pt := getContextProcess(ctx)
	filter, err := bindQueryFilter(ctx, pt, api.validate)
	if err != nil {
		return err
	}
	caps, err := getContextCapabilities(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context capabilities")
	}

	views, err := api.svc.List(ctx.Request().Context(), filter, caps, time.Time{})
	if err != nil {
		return errors.Wrap(err, "listing entities")
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *lifecycleApi) retrieveEntity(ctx echo.Context) error {
	caps, err := getContextCapabilities(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context capabilities")
	}

	view, err := api.svc.Describe(ctx.Request().Context(), getContextProcess(ctx), ctx.Param("id"), caps, time.Time{})
	if err != nil {
		return errors.Wrap(err, "describing entity")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *lifecycleApi) perform(ctx echo.Context) error {
	caps, err := getContextCapabilities(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context capabilities")
	}
	usr, _ := getContextUser(ctx)

	action := lifecycle.ParseActionID(ctx.Param("action"))
	view, err := api.svc.Perform(ctx.Request().Context(), getContextProcess(ctx), ctx.Param("id"), action, caps)
	if err != nil {
		return errors.Wrapf(err, "performing %s as %q", action, usr.ID)
	}
	return ctx.JSON(http.StatusOK, view)
}
