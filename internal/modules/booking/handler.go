package booking

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"edukaster/internal/modules/payment"
	"edukaster/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/tutor", h.ListForTutor)
	rg.GET("/bookings/tutor/today", h.ListTodayForTutor)
	rg.GET("/bookings/student", h.ListForStudent)
	rg.GET("/bookings/:id", h.GetBooking)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/verify/:reference", h.VerifyPayment)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/pending", h.ListPending)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.StudentID = c.GetInt64("user_id")

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	outcome, err := h.service.VerifyPayment(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if outcome.RedirectURL != "" {
		q := url.Values{}
		q.Set("status", outcome.Status)
		q.Set("amount", outcome.Amount.String())
		q.Set("reference", outcome.Reference)
		c.Redirect(http.StatusFound, outcome.RedirectURL+"?"+q.Encode())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":    outcome.Status,
		"amount":    outcome.Amount,
		"reference": outcome.Reference,
		"booking":   outcome.Booking,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	details, err := h.service.GetBooking(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, details)
}

func (h *Handler) ListPending(c *gin.Context) {
	bookings, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) ListForTutor(c *gin.Context) {
	bookings, err := h.service.ListForTutor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) ListTodayForTutor(c *gin.Context) {
	bookings, err := h.service.ListTodayForTutor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) ListForStudent(c *gin.Context) {
	bookings, err := h.service.ListForStudent(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case errors.Is(err, ErrTutorNotFound):
		response.Error(c, http.StatusNotFound, "TUTOR_NOT_FOUND", "Tutor not found")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this booking")
	case errors.Is(err, ErrInvalidFee):
		response.Error(c, http.StatusBadRequest, "INVALID_FEE", "Tutor has no valid fee configured")
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "Time slot is not available")
	case errors.Is(err, ErrAlreadyEnrolled):
		response.Error(c, http.StatusConflict, "ALREADY_ENROLLED", "Already enrolled in this cohort")
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Insufficient wallet balance")
	case errors.Is(err, payment.ErrUpstream):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway is unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
