package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/architeacher/reporting/services/svc-reporting/internal/adapters/inbound/http/middleware"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/require"
)

const validatorDocument = `
openapi: 3.0.3
info:
  title: test
  version: "1"
servers:
  - url: /api
paths:
  /emails:
    get:
      parameters:
        - name: size
          in: query
          schema:
            type: integer
            minimum: 1
      responses:
        "200":
          description: ok
    post:
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required: [address]
              properties:
                address:
                  type: string
      responses:
        "201":
          description: created
`

func TestRequestValidator(t *testing.T) {
	t.Parallel()

	swagger, err := openapi3.NewLoader().LoadFromData([]byte(validatorDocument))
	require.NoError(t, err)

	mw, err := middleware.RequestValidator(swagger)
	require.NoError(t, err)

	cases := []struct {
		name           string
		method         string
		target         string
		body           string
		expectedStatus int
	}{
		{name: "valid query", method: http.MethodGet, target: "/api/emails?size=10", expectedStatus: http.StatusOK},
		{name: "invalid query", method: http.MethodGet, target: "/api/emails?size=0", expectedStatus: http.StatusBadRequest},
		{name: "undeclared filter passes", method: http.MethodGet, target: "/api/emails?id.equals=1", expectedStatus: http.StatusOK},
		{name: "valid body", method: http.MethodPost, target: "/api/emails", body: `{"address":"a@b.io"}`, expectedStatus: http.StatusOK},
		{name: "missing required field", method: http.MethodPost, target: "/api/emails", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "unknown route passes", method: http.MethodGet, target: "/metrics", expectedStatus: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			rec := httptest.NewRecorder()
			mw(okHandler()).ServeHTTP(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectedStatus == http.StatusBadRequest {
				require.Equal(t, middleware.CodeInvalidRequest, decodeError(t, rec).Code)
			}
		})
	}
}
