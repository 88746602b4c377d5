package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads the "ordering" query param; fields not in allowed are ignored.
func (ord *Ordering) Bind(ctx echo.Context, allowed ...string) {
	ord.Orderings = core.ParseOrdering(ctx.QueryParam(orderingParam), allowed...)
}

// bindParams binds the request params into i, reporting malformed values as a validation error.
func bindParams(ctx echo.Context, i interface{}) error {
	if err := ctx.Bind(i); err != nil {
		if herr, ok := err.(*echo.HTTPError); ok && herr.Internal != nil {
			err = herr.Internal
		}
		return core.NewValidationError(err)
	}
	return nil
}

// ProjectionRequest is a stateless projection query.
type ProjectionRequest struct {
	Status string          `query:"status" validate:"required"`
	DueAt  *core.Timestamp `query:"due_at"`
	Now    core.Timestamp  `query:"now"`
}

func bindProjectionRequest(ctx echo.Context, validate *validator.Validate) (ProjectionRequest, error) {
	var req ProjectionRequest
	if err := bindParams(ctx, &req); err != nil {
		return ProjectionRequest{}, err
	}
	req.Status = core.CleanString(req.Status)
	if err := validate.Struct(req); err != nil {
		return ProjectionRequest{}, err
	}
	return req, nil
}

// EntityQuery holds the query params of an entity listing.
type EntityQuery struct {
	Search   string         `query:"search"`
	Statuses []string       `query:"status"` // repeated and/or comma separated
	Overdue  *core.Flag     `query:"overdue"`
	DueFrom  core.Timestamp `query:"due_from"`
	DueTo    core.Timestamp `query:"due_to"`
	Limit    int            `query:"limit"`
}

func (q EntityQuery) filter(pt lifecycle.ProcessType) snapshot.QueryFilter {
	filter := snapshot.QueryFilter{
		Process: pt,
		Search:  q.Search,
		Overdue: (*bool)(q.Overdue),
		DueFrom: q.DueFrom.Time,
		DueTo:   q.DueTo.Time,
		Limit:   q.Limit,
	}
	for _, v := range q.Statuses {
		filter.Statuses = append(filter.Statuses, core.SplitCSV(v)...)
	}
	return filter
}

func bindQueryFilter(ctx echo.Context, pt lifecycle.ProcessType, validate *validator.Validate) (snapshot.QueryFilter, error) {
	var q EntityQuery
	if err := bindParams(ctx, &q); err != nil {
		return snapshot.QueryFilter{}, err
	}
	filter := q.filter(pt)

	var ord Ordering
	ord.Bind(ctx, snapshot.OrderingFields...)
	filter.Orderings = ord.Orderings

	if err := filter.Validate(validate); err != nil {
		return snapshot.QueryFilter{}, errors.WithStack(err)
	}
	return filter, nil
}
