package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
)

var contextProcessKey = "process"

// processMiddleware answers 404 for unregistered processes and stores the normalised process type in the context.
func processMiddleware(reg *lifecycle.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			pt := lifecycle.ParseProcessType(ctx.Param("process"))
			if !reg.Has(pt) {
				return errHttpProcessNotFound
			}
			ctx.Set(contextProcessKey, pt)
			return next(ctx)
		}
	}
}

func getContextProcess(ctx echo.Context) lifecycle.ProcessType {
	pt, _ := ctx.Get(contextProcessKey).(lifecycle.ProcessType)
	return pt
}
