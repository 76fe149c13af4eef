package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/architeacher/reporting/services/svc-reporting/internal/domain/model"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/commands"
	"github.com/architeacher/reporting/services/svc-reporting/internal/usecases/queries"
)

func (h *Handler) FindEmails(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria, err := bindEmailCriteria(query)
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
	reqLog.Debug().Stringer("criteria", criteria).Msg("finding emails by criteria")

	page, err := h.app.Queries.FindEmails.Execute(r.Context(), queries.FindEmailsQuery{Filter: criteria, Page: pageRequest})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writePaginationHeaders(w, r, page)
	writeJSONResponse(w, http.StatusOK, toEmailDTOs(page.Items))
}

func (h *Handler) CountEmails(w http.ResponseWriter, r *http.Request) {
	criteria, err := bindEmailCriteria(r.URL.Query())
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	count, err := h.app.Queries.CountEmails.Execute(r.Context(), queries.CountEmailsQuery{Filter: criteria})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, count)
}

func (h *Handler) GetEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	email, err := h.app.Queries.GetEmail.Execute(r.Context(), queries.GetEmailQuery{ID: id})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toEmailDTO(email))
}

func (h *Handler) CreateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)

		return
	}

	cmd := commands.CreateEmailCommand{Address: req.Address, EmployeeID: req.EmployeeID}
	if req.ID != nil {
		cmd.ID = *req.ID
	}

	email, err := h.app.Commands.CreateEmail.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/emails/%d", BaseURL, email.ID))
	writeJSONResponse(w, http.StatusCreated, toEmailDTO(email))
}

func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req emailDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)

		return
	}

	email, err := h.app.Commands.UpdateEmail.Handle(r.Context(), commands.UpdateEmailCommand{ID: id, Email: req.toModel()})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toEmailDTO(email))
}

func (h *Handler) PatchEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req emailPatchDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w)

		return
	}

	if req.ID != nil && *req.ID != id {
		writeDomainError(w, r, h.log, model.ErrIDMismatch)

		return
	}

	email, err := h.app.Commands.PatchEmail.Handle(r.Context(), commands.PatchEmailCommand{ID: id, Patch: req.toPatch()})
	if err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, toEmailDTO(email))
}

func (h *Handler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if _, err := h.app.Commands.DeleteEmail.Handle(r.Context(), commands.DeleteEmailCommand{ID: id}); err != nil {
		writeDomainError(w, r, h.log, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
