package admin

import (
	"net/http"
	"strconv"

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
	rg.PATCH("/bookings/:id/approve", h.ApproveBooking)
}

type approveRequest struct {
	MeetingLink string `json:"meeting_link" binding:"required"`
}

func (h *Handler) ApproveBooking(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "meeting_link is required")
		return
	}

	result, err := h.service.ApproveBooking(c.Request.Context(), bookingID, req.MeetingLink)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "meeting_link is required")
		case ErrNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case ErrAlreadyApproved:
			response.Error(c, http.StatusConflict, "ALREADY_APPROVED", "Booking already approved")
		case ErrNotApprovable:
			response.Error(c, http.StatusConflict, "NOT_APPROVABLE", "Booking is not awaiting approval")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Approval failed")
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}
