package echoapi

import (
	"net/http"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
)

// Route names
const (
	RouteHome         = "home"
	RouteHealth       = "health"
	RouteProcesses    = "processes"
	RouteProcess      = "process"
	RouteProjection   = "projection"
	RouteEntities     = "entities"
	RouteEntity       = "entity"
	RouteEntityAction = "entity-action"
)

// Route describes one mounted endpoint.
type Route struct {
	Name    string
	Method  string
	Path    string
	Auth    bool // JWT required
	Process bool // path carries a registered :process
}

// RouteTable lists the routes mounted for features. It depends on nothing else.
func RouteTable(features core.FeatureConfig) []Route {
	routes := []Route{
		{Name: RouteHome, Method: http.MethodGet, Path: "/"},
		{Name: RouteHealth, Method: http.MethodGet, Path: "/v1/health"},
	}
	if features.Vocabulary {
		routes = append(routes,
			Route{Name: RouteProcesses, Method: http.MethodGet, Path: "/v1/processes"},
			Route{Name: RouteProcess, Method: http.MethodGet, Path: "/v1/processes/:process", Process: true},
		)
	}
	if features.Projection {
		routes = append(routes, Route{
			Name: RouteProjection, Method: http.MethodGet, Path: "/v1/processes/:process/projection", Auth: true, Process: true,
		})
	}
	if features.Entities {
		routes = append(routes,
			Route{Name: RouteEntities, Method: http.MethodGet, Path: "/v1/processes/:process/entities", Auth: true, Process: true},
			Route{Name: RouteEntity, Method: http.MethodGet, Path: "/v1/processes/:process/entities/:id", Auth: true, Process: true},
		)
	}
	if features.ActionsEnabled() {
		routes = append(routes, Route{
			Name: RouteEntityAction, Method: http.MethodPost, Path: "/v1/processes/:process/entities/:id/actions/:action",
			Auth: true, Process: true,
		})
	}
	return routes
}
