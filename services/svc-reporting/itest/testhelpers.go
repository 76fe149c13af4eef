//go:build integration

package itest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/architeacher/reporting/services/svc-reporting/testserver"
	"github.com/stretchr/testify/suite"
)

type (
	emailResource struct {
		ID         *int64 `json:"id,omitempty"`
		Address    string `json:"address"`
		EmployeeID *int64 `json:"employeeId"`
	}

	employeeResource struct {
		ID        *int64   `json:"id,omitempty"`
		FirstName string   `json:"firstName"`
		LastName  string   `json:"lastName"`
		Salary    *float64 `json:"salary"`
		Active    bool     `json:"active"`
	}
)

// BaseTestSuite serves the API against a fresh PostgreSQL container and
// empties the tables before each test.
type BaseTestSuite struct {
	suite.Suite
	Server *testserver.TestServer
}

func (s *BaseTestSuite) SetupSuite() {
	server, err := testserver.New(s.T().Context())
	s.Require().NoError(err)
	s.Server = server
}

func (s *BaseTestSuite) TearDownSuite() {
	if s.Server != nil {
		s.Server.Close()
	}
}

func (s *BaseTestSuite) SetupTest() {
	s.Require().NoError(s.Server.Reset(s.T().Context()))
}

func (s *BaseTestSuite) request(method, path string, body any) *http.Response {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)

		reader = bytes.NewReader(payload)
	}

	resp, err := s.Server.Do(s.T().Context(), method, path, reader)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func (s *BaseTestSuite) decode(resp *http.Response, target any) {
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(target))
}

func (s *BaseTestSuite) CreateEmployee(first, last string, salary *float64, active bool) int64 {
	resp := s.request(http.MethodPost, "/api/employees", employeeResource{
		FirstName: first,
		LastName:  last,
		Salary:    salary,
		Active:    active,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created employeeResource
	s.decode(resp, &created)

	return *created.ID
}

func (s *BaseTestSuite) CreateEmail(address string, employeeID *int64) int64 {
	resp := s.request(http.MethodPost, "/api/emails", emailResource{Address: address, EmployeeID: employeeID})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created emailResource
	s.decode(resp, &created)

	return *created.ID
}

// EmailIDs lists every email matching query, unpaged, as sorted ids.
func (s *BaseTestSuite) EmailIDs(query string) []int64 {
	path := "/api/emails?size=2000"
	if query != "" {
		path += "&" + query
	}

	resp := s.request(http.MethodGet, path, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, query)

	var emails []emailResource
	s.decode(resp, &emails)

	ids := make([]int64, 0, len(emails))
	for _, email := range emails {
		ids = append(ids, *email.ID)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *BaseTestSuite) CountEmails(query string) int64 {
	resp := s.request(http.MethodGet, "/api/emails/count?"+query, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, query)

	var count int64
	s.decode(resp, &count)

	return count
}

func (s *BaseTestSuite) EmailPath(id int64) string {
	return fmt.Sprintf("/api/emails/%d", id)
}

func ptr[T any](v T) *T {
	return &v
}
