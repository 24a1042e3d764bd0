package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/appointment"
)

type BookAppointmentRequest struct {
	ApplicationID   string  `json:"application_id"`
	ApplicationType string  `json:"application_type"`
	OfficerID       string  `json:"officer_id"`
	Date            string  `json:"date"`      // YYYY-MM-DD
	TimeSlot        string  `json:"time_slot"` // HH:MM
	Duration        int     `json:"duration,omitempty"`
	ApplicantName   string  `json:"applicant_name"`
	ApplicantEmail  string  `json:"applicant_email"`
	ApplicantPhone  string  `json:"applicant_phone"`
	ApplicantNIC    *string `json:"applicant_nic,omitempty"`
	VenueName       string  `json:"venue_name"`
	VenueAddress    string  `json:"venue_address"`
	VenueRoom       *string `json:"venue_room,omitempty"`
}

type RescheduleRequest struct {
	Date          string `json:"date"`
	TimeSlot      string `json:"time_slot"`
	Reason        string `json:"reason,omitempty"`
	RescheduledBy string `json:"rescheduled_by"`
}

type CancelRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelled_by"`
}

type CheckOutRequest struct {
	Rating  *int   `json:"rating,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type RemindersResponse struct {
	TwentyFourHour bool `json:"twenty_four_hour"`
	TwoHour        bool `json:"two_hour"`
	ThirtyMinute   bool `json:"thirty_minute"`
}

type RescheduleEntryResponse struct {
	PreviousDate     string    `json:"previous_date"`
	PreviousTimeSlot string    `json:"previous_time_slot"`
	Reason           string    `json:"reason,omitempty"`
	RescheduledBy    string    `json:"rescheduled_by"`
	RescheduledAt    time.Time `json:"rescheduled_at"`
}

type AppointmentResponse struct {
	ID                 uuid.UUID                 `json:"id"`
	ApplicationID      string                    `json:"application_id"`
	ApplicationType    string                    `json:"application_type"`
	Status             string                    `json:"status"`
	OfficerID          uuid.UUID                 `json:"officer_id"`
	OfficerName        string                    `json:"officer_name"`
	Department         string                    `json:"department"`
	Date               string                    `json:"date"`
	TimeSlot           string                    `json:"time_slot"`
	Duration           int                       `json:"duration"`
	VenueName          string                    `json:"venue_name"`
	Reminders          RemindersResponse         `json:"reminders_sent"`
	RescheduleHistory  []RescheduleEntryResponse `json:"reschedule_history,omitempty"`
	CheckInTime        *time.Time                `json:"check_in_time,omitempty"`
	CheckOutTime       *time.Time                `json:"check_out_time,omitempty"`
	CancellationReason *string                   `json:"cancellation_reason,omitempty"`
}

type AvailabilityResponse struct {
	Date     string              `json:"date"`
	Duration int                 `json:"duration"`
	Officers map[string][]string `json:"officers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:                 a.ID,
		ApplicationID:      a.ApplicationID,
		ApplicationType:    string(a.ApplicationType),
		Status:             string(a.Status),
		OfficerID:          a.Officer.ID,
		OfficerName:        a.Officer.Name,
		Department:         a.Officer.Department,
		Date:               a.Details.Date.Format("2006-01-02"),
		TimeSlot:           a.Details.TimeSlot,
		Duration:           a.Details.Duration,
		VenueName:          a.Details.Venue.Name,
		Reminders: RemindersResponse{
			TwentyFourHour: a.Reminders.TwentyFourHour,
			TwoHour:        a.Reminders.TwoHour,
			ThirtyMinute:   a.Reminders.ThirtyMinute,
		},
		CheckInTime:        a.CheckInTime,
		CheckOutTime:       a.CheckOutTime,
		CancellationReason: a.CancellationReason,
	}

	for _, e := range a.RescheduleHistory {
		resp.RescheduleHistory = append(resp.RescheduleHistory, RescheduleEntryResponse{
			PreviousDate:     e.PreviousDate.Format("2006-01-02"),
			PreviousTimeSlot: e.PreviousTimeSlot,
			Reason:           e.Reason,
			RescheduledBy:    e.RescheduledBy,
			RescheduledAt:    e.RescheduledAt,
		})
	}
	return resp
}
