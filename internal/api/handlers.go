package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medcare/clinic-scheduling/internal/auth"
	"github.com/medcare/clinic-scheduling/internal/clinic"
	"github.com/medcare/clinic-scheduling/internal/export"
)

// Handlers bundles the services behind the HTTP surface.
type Handlers struct {
	bookings  *clinic.BookingService
	reports   *clinic.ReportService
	directory *clinic.DirectoryService
	authn     *auth.Authenticator
}

func NewHandlers(bookings *clinic.BookingService, reports *clinic.ReportService, directory *clinic.DirectoryService, authn *auth.Authenticator) *Handlers {
	return &Handlers{
		bookings:  bookings,
		reports:   reports,
		directory: directory,
		authn:     authn,
	}
}

// Auth

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	token, user, err := h.authn.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token, User: toUserResponse(user)})
}

// Appointments

func (h *Handlers) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
		return
	}

	date, err := clinic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted YYYY-MM-DD")
		return
	}

	start, err := clinic.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start_time", "start_time must be formatted HH:MM")
		return
	}

	claims := GetClaims(r.Context())
	createdBy, err := claims.UserID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "token subject is not a user id")
		return
	}

	appt, err := h.bookings.BookAppointment(r.Context(), clinic.BookingRequest{
		PatientName: req.PatientName,
		DoctorID:    doctorID,
		ServiceID:   serviceID,
		Date:        date,
		StartTime:   start,
		CreatedBy:   createdBy,
	})
	if err != nil {
		handleBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *Handlers) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	appt, err := h.bookings.GetAppointment(r.Context(), id)
	if err != nil {
		handleBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *Handlers) listDayAppointments(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
		return
	}

	date, err := clinic.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date query parameter must be formatted YYYY-MM-DD")
		return
	}

	appts, err := h.bookings.ListDayAppointments(r.Context(), doctorID, date)
	if err != nil {
		handleBookingError(w, err)
		return
	}

	resp := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		resp = append(resp, toAppointmentResponse(&appts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := h.bookings.UpdateStatus(r.Context(), id, clinic.AppointmentStatus(req.Status))
	if err != nil {
		handleBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *Handlers) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.bookings.CancelAppointment(r.Context(), id); err != nil {
		handleBookingError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reports

func (h *Handlers) reportAppointments(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRangeParams(w, r)
	if !ok {
		return
	}

	appts, err := h.reports.AppointmentsInRange(r.Context(), start, end)
	if err != nil {
		handleReportError(w, err)
		return
	}

	if wantsCSV(r) {
		serveCSV(w, "appointments.csv", func(out io.Writer) error {
			return export.WriteAppointmentsCSV(out, appts)
		})
		return
	}

	resp := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		resp = append(resp, toAppointmentResponse(&appts[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) reportTopDoctors(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRangeParams(w, r)
	if !ok {
		return
	}
	n := parseLimitParam(r)

	ranking, err := h.reports.TopDoctorsByAppointments(r.Context(), n, start, end)
	if err != nil {
		handleReportError(w, err)
		return
	}

	if wantsCSV(r) {
		serveCSV(w, "top-doctors.csv", func(out io.Writer) error {
			return export.WriteDoctorRankingCSV(out, ranking)
		})
		return
	}

	resp := make([]DoctorCountResponse, 0, len(ranking))
	for i := range ranking {
		resp = append(resp, DoctorCountResponse{
			Doctor: toDoctorResponse(&ranking[i].Doctor),
			Count:  ranking[i].Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) reportTopServices(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRangeParams(w, r)
	if !ok {
		return
	}
	n := parseLimitParam(r)

	ranking, err := h.reports.TopServicesByAppointments(r.Context(), n, start, end)
	if err != nil {
		handleReportError(w, err)
		return
	}

	if wantsCSV(r) {
		serveCSV(w, "top-services.csv", func(out io.Writer) error {
			return export.WriteServiceRankingCSV(out, ranking)
		})
		return
	}

	resp := make([]ServiceCountResponse, 0, len(ranking))
	for i := range ranking {
		resp = append(resp, ServiceCountResponse{
			Service: toServiceResponse(&ranking[i].Service),
			Count:   ranking[i].Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Helpers

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func parseRangeParams(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
	q := r.URL.Query()

	start, err := clinic.ParseDate(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_start", "start query parameter must be formatted YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	end, err = clinic.ParseDate(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_end", "end query parameter must be formatted YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

func parseLimitParam(r *http.Request) int {
	const defaultLimit = 5
	v := r.URL.Query().Get("n")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultLimit
	}
	return n
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func serveCSV(w http.ResponseWriter, filename string, write func(io.Writer) error) {
	// Render into a buffer first so a render failure can still produce a
	// clean error response.
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, clinic.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, clinic.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, clinic.ErrOutsideWorkingHours):
		writeError(w, http.StatusUnprocessableEntity, "outside_working_hours", err.Error())
	case errors.Is(err, clinic.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", err.Error())
	case errors.Is(err, clinic.ErrBookingContended):
		writeError(w, http.StatusConflict, "booking_contended", "another booking for this doctor is in progress, please retry shortly")
	case errors.Is(err, clinic.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleReportError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinic.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
