package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/teamtodo/taskgate/internal/observability"
	"github.com/teamtodo/taskgate/internal/registry"
	"github.com/teamtodo/taskgate/model"
)

// Dispatcher is the slice of the call dispatcher the transport layer needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, principalID int64, call model.CallData) model.Result
}

// CallHandler returns the generic handler for one route. The handler requires
// a resolved principal, gathers parameters from the JSON body and the URL
// path with path values winning on collision, then hands the assembled call
// to the dispatcher. All routes share this shape; only the route entry
// varies.
func CallHandler(route registry.Route, dispatcher Dispatcher, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := observability.LoggerFrom(r.Context(), logger)
		principalID := model.PrincipalID(r.Context())
		if principalID == model.NoPrincipal {
			WriteResult(w, logger, model.Failure(model.ErrInvalidSession, nil))
			return
		}

		params := decodeBodyParams(r)

		if route.Coerce != nil {
			for name, value := range route.Coerce(pathParams(r)) {
				params[name] = value
			}
		}

		if ce := logger.Check(zap.DebugLevel, "dispatching call"); ce != nil {
			ce.Write(
				zap.String("call", string(route.Call)),
				zap.Int64("principal_id", principalID),
				zap.Any("params", observability.RedactParams(params, nil)),
			)
		}

		call := model.CallData{
			Call:   route.Call,
			Type:   route.Type,
			Params: params,
		}
		if route.Type == model.CallTypeQuery {
			call.Pagination = paginationFromQuery(r)
		}

		result := dispatcher.Dispatch(r.Context(), principalID, call)
		WriteResult(w, logger, result)
	}
}

// decodeBodyParams reads the request body as a JSON object. Missing or
// malformed bodies yield an empty bag; the parameter specs then report the
// absent fields individually.
func decodeBodyParams(r *http.Request) map[string]any {
	params := map[string]any{}
	if r.Body == nil {
		return params
	}
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		return map[string]any{}
	}
	return params
}

func pathParams(r *http.Request) map[string]string {
	params := map[string]string{}
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return params
	}
	for i, name := range routeCtx.URLParams.Keys {
		if name == "*" {
			continue
		}
		params[name] = routeCtx.URLParams.Values[i]
	}
	return params
}

func paginationFromQuery(r *http.Request) model.Pagination {
	var page model.Pagination
	query := r.URL.Query()
	if v, err := strconv.Atoi(query.Get("page")); err == nil {
		page.Page = v
	}
	if v, err := strconv.Atoi(query.Get("items_per_page")); err == nil {
		page.ItemsPerPage = v
	}
	return page.Normalize()
}
