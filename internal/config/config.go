package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// HTTP
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DB
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"edukaster.db"`

	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"1440"`

	// Paystack
	PaystackSecretKey string `envconfig:"PAYSTACK_SECRET_KEY" required:"true"`
	PaystackBaseURL   string `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	CallbackBaseURL   string `envconfig:"CALLBACK_BASE_URL" default:"http://localhost:8080"`

	// Booking
	SlotMinutes      int `envconfig:"SLOT_MINUTES" default:"60"`
	ReminderLeadMin  int `envconfig:"REMINDER_LEAD_MIN" default:"120"`
	AvailabilityDays int `envconfig:"AVAILABILITY_DAYS" default:"7"`

	// Files
	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`

	// Notifications. Push and email are optional: leave the SMTP host
	// empty to disable email delivery.
	ExpoPushURL  string `envconfig:"EXPO_PUSH_URL" default:"https://exp.host/--/api/v2/push/send"`
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"no-reply@edukaster.app"`
}

func Load() (App, error) {
	_ = godotenv.Load()

	var c App
	err := envconfig.Process("", &c)
	return c, err
}
