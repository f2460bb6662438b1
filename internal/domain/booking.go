package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PayWithWallet   PaymentMethod = "wallet"
	PayWithPaystack PaymentMethod = "paystack"
)

type SessionType string

const (
	SessionOneOnOne SessionType = "1on1"
	SessionGroup    SessionType = "group"
)

// GroupCourseTitle is the cohort course; bookings for it are per-seat
// group enrollments rather than individual sessions.
const GroupCourseTitle = "English Proficiency"

// UploadedFile is pass-through metadata for an attachment a student sent
// with the booking request. The bytes live in the file store.
type UploadedFile struct {
	Filename     string `json:"filename,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	Size         int64  `json:"size,omitempty"`
	URL          string `json:"url,omitempty"`
}

type Booking struct {
	ID          int64       `json:"id" gorm:"primaryKey"`
	TutorID     int64       `json:"tutor_id" gorm:"not null;index"`
	StudentID   int64       `json:"student_id" gorm:"index"` // zero for group enrollment targets
	CourseTitle string      `json:"course_title" gorm:"not null"`
	SessionType SessionType `json:"session_type" gorm:"type:varchar(8);not null;default:'1on1'"`

	ScheduledDate time.Time       `json:"scheduled_date" gorm:"not null;index"`
	Duration      int             `json:"duration" gorm:"not null;default:60"` // minutes
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric;not null"`

	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(16);not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'pending'"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`

	PaystackReference *string `json:"paystack_reference,omitempty" gorm:"uniqueIndex"`

	AdminConfirmed bool   `json:"admin_confirmed" gorm:"not null;default:false"`
	MeetingLink    string `json:"meeting_link,omitempty"`

	UploadedFile UploadedFile `json:"uploaded_file" gorm:"embedded;embeddedPrefix:file_"`

	Rating      int        `json:"rating,omitempty"`
	Review      string     `json:"review,omitempty" gorm:"type:text"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// End is the exclusive end of the booking's occupied interval.
func (b *Booking) End() time.Time {
	return b.ScheduledDate.Add(time.Duration(b.Duration) * time.Minute)
}

// Active reports whether the booking still occupies its slot.
func (b *Booking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

func (b *Booking) HasFile() bool { return b.UploadedFile.Filename != "" }

// BookingStudent records one student's membership in a group booking.
// The unique (booking_id, student_id) index is what makes a join an
// atomic add-if-absent: concurrent joins race on the insert, not on an
// application-level membership check.
type BookingStudent struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"not null;uniqueIndex:idx_booking_student"`
	StudentID int64     `json:"student_id" gorm:"not null;uniqueIndex:idx_booking_student"`
	CreatedAt time.Time `json:"created_at"`
}

func (BookingStudent) TableName() string { return "booking_students" }
