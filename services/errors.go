package services

import (
	"errors"
	"fmt"
	"net/http"
)

// Rejection kinds. Every refused reservation request carries exactly one of
// these so the frontend can branch without parsing messages.
const (
	KindInvalidInput          = "InvalidInput"
	KindInvalidInterval       = "InvalidInterval"
	KindDateTooSoon           = "DateTooSoon"
	KindDateTooFar            = "DateTooFar"
	KindOutsideOperatingHours = "OutsideOperatingHours"
	KindDurationExceeded      = "DurationExceeded"
	KindDailyLimitReached     = "DailyLimitReached"
	KindWeeklyLimitReached    = "WeeklyLimitReached"
	KindRoomConflict          = "RoomConflict"
	KindSelfOverlap           = "SelfOverlap"
	KindLibrarianUnavailable  = "LibrarianUnavailable"
	KindNonWorkingDay         = "NonWorkingDay"
	KindOutsideWorkingHours   = "OutsideWorkingHours"
	KindSlotTaken             = "SlotTaken"
	KindConflict              = "Conflict"
	KindForbidden             = "Forbidden"
	KindNotFound              = "NotFound"
)

// Rejection is a typed refusal of a request: a machine-readable kind plus a
// message suitable for showing to the end user verbatim.
type Rejection struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (r *Rejection) Error() string { return r.Message }

func reject(kind, format string, args ...interface{}) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps a rejection kind onto the response status the controllers
// use. Policy and validation failures are 400; slot races and terminal-state
// transitions are 409.
func (r *Rejection) HTTPStatus() int {
	switch r.Kind {
	case KindRoomConflict, KindSelfOverlap, KindSlotTaken, KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// AsRejection unwraps err into a *Rejection when it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
