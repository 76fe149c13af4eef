package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// RequestValidator checks path parameters, query parameters and bodies
// against the OpenAPI document before the request reaches a handler.
// Requests for operations the document does not describe pass through.
func RequestValidator(swagger *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := gorillamux.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAPI router: %w", err)
	}

	options := &openapi3filter.Options{
		MultiError:         false,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)

				return
			}

			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)

				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}

			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				writeValidationError(w, err)

				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func writeValidationError(w http.ResponseWriter, err error) {
	var requestErr *openapi3filter.RequestError
	if errors.As(err, &requestErr) {
		WriteErrorWithDetails(w, http.StatusBadRequest, CodeInvalidRequest, requestErr.Error(), validationDetails(requestErr))

		return
	}

	var routeErr *routers.RouteError
	if errors.As(err, &routeErr) {
		WriteError(w, http.StatusNotFound, CodeRouteNotFound, routeErr.Error())

		return
	}

	WriteError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
}

func validationDetails(err *openapi3filter.RequestError) map[string]string {
	details := map[string]string{}

	if err.Parameter != nil {
		details["parameter"] = err.Parameter.Name
		details["in"] = err.Parameter.In
	}

	if err.RequestBody != nil {
		details["in"] = "body"
	}

	if err.Reason != "" {
		details["reason"] = err.Reason
	}

	if len(details) == 0 {
		return nil
	}

	return details
}
