package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medcare/clinic-scheduling/internal/clinic"
)

// Doctors

func (h *Handlers) createDoctor(w http.ResponseWriter, r *http.Request) {
	var req DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	doctor, err := h.directory.CreateDoctor(r.Context(), req.Name, req.Specialization)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDoctorResponse(doctor))
}

func (h *Handlers) updateDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	doctor, err := h.directory.UpdateDoctor(r.Context(), id, req.Name, req.Specialization)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDoctorResponse(doctor))
}

func (h *Handlers) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteDoctor(r.Context(), id); err != nil {
		handleDirectoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.directory.ListDoctors(r.Context())
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	resp := make([]DoctorResponse, 0, len(doctors))
	for i := range doctors {
		resp = append(resp, toDoctorResponse(&doctors[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Medical services

func (h *Handlers) createService(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeServiceRequest(w, r)
	if !ok {
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_price", "price must be a decimal string")
		return
	}

	service, err := h.directory.CreateMedicalService(r.Context(), req.Name, price, req.DurationMinutes)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceResponse(service))
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	req, ok := decodeServiceRequest(w, r)
	if !ok {
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_price", "price must be a decimal string")
		return
	}

	service, err := h.directory.UpdateMedicalService(r.Context(), id, req.Name, price, req.DurationMinutes)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponse(service))
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteMedicalService(r.Context(), id); err != nil {
		handleDirectoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.directory.ListMedicalServices(r.Context())
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	resp := make([]ServiceResponse, 0, len(services))
	for i := range services {
		resp = append(resp, toServiceResponse(&services[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeServiceRequest(w http.ResponseWriter, r *http.Request) (ServiceRequest, bool) {
	var req ServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return ServiceRequest{}, false
	}
	return req, true
}

// Schedule blocks

func (h *Handlers) addScheduleBlock(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
		return
	}

	req, ok := decodeScheduleRequest(w, r)
	if !ok {
		return
	}

	day, start, end, ok := parseScheduleFields(w, req)
	if !ok {
		return
	}

	block, err := h.directory.AddScheduleBlock(r.Context(), doctorID, day, start, end)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toScheduleBlockResponse(block))
}

func (h *Handlers) updateScheduleBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	req, ok := decodeScheduleRequest(w, r)
	if !ok {
		return
	}

	day, start, end, ok := parseScheduleFields(w, req)
	if !ok {
		return
	}

	block, err := h.directory.UpdateScheduleBlock(r.Context(), id, day, start, end)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleBlockResponse(block))
}

func (h *Handlers) deleteScheduleBlock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteScheduleBlock(r.Context(), id); err != nil {
		handleDirectoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) doctorSchedule(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
		return
	}

	blocks, err := h.directory.DoctorSchedule(r.Context(), doctorID)
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	resp := make([]ScheduleBlockResponse, 0, len(blocks))
	for i := range blocks {
		resp = append(resp, toScheduleBlockResponse(&blocks[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeScheduleRequest(w http.ResponseWriter, r *http.Request) (ScheduleBlockRequest, bool) {
	var req ScheduleBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return ScheduleBlockRequest{}, false
	}
	return req, true
}

func parseScheduleFields(w http.ResponseWriter, req ScheduleBlockRequest) (day time.Weekday, start, end clinic.TimeOfDay, ok bool) {
	day, found := clinic.ParseWeekday(req.Day)
	if !found {
		writeError(w, http.StatusBadRequest, "invalid_day", "day must be a weekday name like \"monday\"")
		return 0, 0, 0, false
	}

	start, err := clinic.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time must be formatted HH:MM")
		return 0, 0, 0, false
	}

	end, err = clinic.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_end_time", "end_time must be formatted HH:MM")
		return 0, 0, 0, false
	}

	return day, start, end, true
}

// Users

func (h *Handlers) createUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	user, err := h.directory.CreateUser(r.Context(), req.Name, req.Username, req.Password, clinic.Role(req.Role))
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		handleDirectoryError(w, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteUser(r.Context(), id); err != nil {
		handleDirectoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleDirectoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, clinic.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, clinic.ErrScheduleNotFound):
		writeError(w, http.StatusNotFound, "schedule_not_found", err.Error())
	case errors.Is(err, clinic.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, clinic.ErrDuplicateServiceName):
		writeError(w, http.StatusConflict, "duplicate_service_name", err.Error())
	case errors.Is(err, clinic.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "duplicate_username", err.Error())
	case errors.Is(err, clinic.ErrScheduleOverlap):
		writeError(w, http.StatusConflict, "schedule_overlap", err.Error())
	case errors.Is(err, clinic.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
