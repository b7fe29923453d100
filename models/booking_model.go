package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID `gorm:"not null;index" json:"student_id"`
	TeacherID uuid.UUID `gorm:"not null;index:idx_bookings_teacher_date" json:"teacher_id"`
	Subject   string    `gorm:"size:100;not null" json:"subject"`

	Date      time.Time `gorm:"type:date;not null;index:idx_bookings_teacher_date" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	Duration  int       `gorm:"not null" json:"duration"`

	Status BookingStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Price         float64 `gorm:"type:numeric(10,2);not null" json:"price"`
	PaymentStatus string  `gorm:"size:20;not null;default:'pending'" json:"payment_status"`

	Notes *string `gorm:"type:text" json:"notes,omitempty"`

	CancelledBy  *string `gorm:"size:20" json:"cancelled_by,omitempty"`
	CancelReason *string `gorm:"type:text" json:"cancel_reason,omitempty"`

	RescheduledFromDate *time.Time `gorm:"type:date" json:"rescheduled_from_date,omitempty"`
	RescheduledFromTime *string    `gorm:"size:5" json:"rescheduled_from_time,omitempty"`

	MeetingLink *string `gorm:"size:255" json:"meeting_link,omitempty"`
	ReceiptURL  *string `gorm:"size:255" json:"receipt_url,omitempty"`

	FeedbackRating      *int       `json:"feedback_rating,omitempty"`
	FeedbackComment     *string    `gorm:"type:text" json:"feedback_comment,omitempty"`
	FeedbackSubmittedAt *time.Time `json:"feedback_submitted_at,omitempty"`

	Student User `gorm:"foreignkey:StudentID" json:"student,omitempty"`
	Teacher User `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slot derives the booking's half-open interval from its stored clock
// strings. Stored values are validated at write time, so a parse
// failure here means corrupted data.
func (b *Booking) Slot() (TimeSlot, error) {
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return TimeSlot{}, err
	}
	end, err := ParseClock(b.EndTime)
	if err != nil {
		return TimeSlot{}, err
	}
	return TimeSlot{Start: start, End: end}, nil
}
