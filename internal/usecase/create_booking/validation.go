package create_booking

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ScheduleID <= 0 {
		return fmt.Errorf("%w: scheduleId must be positive", ErrInvalidInput)
	}

	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start format: %v", ErrInvalidInput, err)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}

// validateDate проверяет, что слот ещё не начался и не выходит за горизонт записи.
// Даты сравниваются в часовом поясе клиники.
func validateDate(date time.Time, start types.TimeString, now time.Time, loc *time.Location, maxAdvanceDays int) error {
	localNow := now.In(loc)
	today := domain.DateOnly(localNow)
	day := domain.DateOnly(date)

	if day.Before(today) {
		return fmt.Errorf("%w: %s is before %s", ErrDateInPast, day.Format(domain.DateFormat), today.Format(domain.DateFormat))
	}

	// Сегодня можно записаться только на слот, который ещё не начался
	if !now.Before(domain.SlotStart(day, start, loc)) {
		return fmt.Errorf("%w: %s has already started", ErrDateInPast, start)
	}

	if maxAdvanceDays == 0 {
		return nil
	}

	maxDate := today.AddDate(0, 0, maxAdvanceDays)
	if day.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, maxAdvanceDays)
	}

	return nil
}

// hasActiveAt ищет активную запись, начинающуюся в ту же минуту
func hasActiveAt(appointments []*domain.Appointment, start types.TimeString) bool {
	for _, a := range appointments {
		if a.IsActive() && a.StartTime.Equal(start) {
			return true
		}
	}
	return false
}
