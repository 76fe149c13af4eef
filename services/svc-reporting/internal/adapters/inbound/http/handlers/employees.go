package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/commands"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/queries"
)

func (h *Handler) FindEmployees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria, err := bindEmployeeCriteria(query)
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	pageRequest, err := bindPageRequest(query)
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	reqLog := h.log.WithContext(r.Context())
	reqLog.Debug().Stringer("criteria", criteria).Msg("finding employees by criteria")

	page, err := h.app.Queries.FindEmployees.Execute(r.Context(), queries.FindEmployeesQuery{Filter: criteria, Page: pageRequest})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writePaginationHeaders(w, r, page)
	writeJSONResponse(w, http.StatusOK, toEmployeeDTOs(page.Items))
}

func (h *Handler) CountEmployees(w http.ResponseWriter, r *http.Request) {
	criteria, err := bindEmployeeCriteria(r.URL.Query())
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	count, err := h.app.Queries.CountEmployees.Execute(r.Context(), queries.CountEmployeesQuery{Filter: criteria})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, count)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	employee, err := h.app.Queries.GetEmployee.Execute(r.Context(), queries.GetEmployeeQuery{ID: id})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toEmployeeDTO(employee))
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)

		return
	}

	cmd := commands.CreateEmployeeCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Salary:    req.Salary,
		Active:    req.Active,
	}
	if req.ID != nil {
		cmd.ID = *req.ID
	}

	employee, err := h.app.Commands.CreateEmployee.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/employees/%d", BaseURL, employee.ID))
	writeJSONResponse(w, http.StatusCreated, toEmployeeDTO(employee))
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req employeeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)

		return
	}

	employee, err := h.app.Commands.UpdateEmployee.Handle(r.Context(), commands.UpdateEmployeeCommand{ID: id, Employee: req.toModel()})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toEmployeeDTO(employee))
}

func (h *Handler) PatchEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req employeePatchDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)

		return
	}

	if req.ID != nil && *req.ID != id {
		writeDomainError(w, r, h.log, model.ErrIDMismatch)

		return
	}

	employee, err := h.app.Commands.PatchEmployee.Handle(r.Context(), commands.PatchEmployeeCommand{ID: id, Patch: req.toPatch()})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toEmployeeDTO(employee))
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.app.Commands.DeleteEmployee.Handle(r.Context(), commands.DeleteEmployeeCommand{ID: id}); err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
