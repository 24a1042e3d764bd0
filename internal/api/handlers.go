package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/appointment"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/officer"
	redisclient "github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/redis"
)

func availabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		var officerID *uuid.UUID
		if raw := r.URL.Query().Get("officer_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_officer_id", "officer_id must be a valid UUID")
				return
			}
			officerID = &id
		}

		var duration time.Duration
		if raw := r.URL.Query().Get("duration"); raw != "" {
			mins, err := time.ParseDuration(raw + "m")
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_duration", "duration must be minutes")
				return
			}
			duration = mins
		}

		slots, err := svc.AvailableSlots(r.Context(), date, officerID, duration)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := AvailabilityResponse{
			Date:     date.Format("2006-01-02"),
			Duration: int(duration.Minutes()),
			Officers: make(map[string][]string, len(slots)),
		}
		for id, free := range slots {
			resp.Officers[id.String()] = free
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func bookAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		officerID, err := uuid.Parse(req.OfficerID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_officer_id", "officer_id must be a valid UUID")
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		if _, err := time.Parse("15:04", req.TimeSlot); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time_slot", "time_slot must be HH:MM")
			return
		}

		appt, err := svc.Book(r.Context(), appointment.BookingInput{
			ApplicationID:   req.ApplicationID,
			ApplicationType: appointment.ApplicationType(req.ApplicationType),
			Applicant: appointment.ApplicantInfo{
				Name:      req.ApplicantName,
				Email:     req.ApplicantEmail,
				Phone:     req.ApplicantPhone,
				NICNumber: req.ApplicantNIC,
			},
			OfficerID: officerID,
			Date:      date,
			TimeSlot:  req.TimeSlot,
			Duration:  req.Duration,
			Venue: appointment.Venue{
				Name:    req.VenueName,
				Address: req.VenueAddress,
				Room:    req.VenueRoom,
			},
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func rescheduleAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		if _, err := time.Parse("15:04", req.TimeSlot); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time_slot", "time_slot must be HH:MM")
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, date, req.TimeSlot, req.Reason, req.RescheduledBy)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req CancelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.Cancel(r.Context(), id, req.Reason, req.CancelledBy)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func checkInAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.CheckIn(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func checkOutAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req CheckOutRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
				return
			}
		}

		var fb *appointment.Feedback
		if req.Rating != nil {
			fb = &appointment.Feedback{Rating: *req.Rating, Comment: req.Comment}
		}

		appt, err := svc.CheckOut(r.Context(), id, fb)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, officer.ErrOfficerNotFound):
		writeError(w, http.StatusNotFound, "officer_not_found", err.Error())
	case errors.Is(err, appointment.ErrBookingConflict):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, appointment.ErrSlotBeingBooked),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrOfficerUnavailable):
		writeError(w, http.StatusConflict, "officer_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
