package availability

import (
	"errors"
	"net/http"
	"strconv"

	"edukaster/internal/domain"
	"edukaster/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service     *Service
	defaultDays int
}

func NewHandler(service *Service, defaultDays int) *Handler {
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &Handler{service: service, defaultDays: defaultDays}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tutors/:id/availability", h.GetAvailability)
}

func (h *Handler) RegisterTutorRoutes(rg *gin.RouterGroup) {
	rg.PUT("/availability", h.SetTemplate)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	tutorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tutor ID")
		return
	}

	days, _ := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(h.defaultDays)))

	slots, err := h.service.GetAvailability(c.Request.Context(), tutorID, days)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve availability")
		return
	}

	response.Success(c, http.StatusOK, slots)
}

type templateRule struct {
	Day      string `json:"day" binding:"required"`
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
	AmpmFrom string `json:"ampm_from" binding:"required"`
	AmpmTo   string `json:"ampm_to" binding:"required"`
	Active   bool   `json:"active"`
}

type setTemplateRequest struct {
	Rules []templateRule `json:"rules"`
}

func (h *Handler) SetTemplate(c *gin.Context) {
	var req setTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rules := make([]domain.AvailabilityRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		rules = append(rules, domain.AvailabilityRule{
			Day:      r.Day,
			From:     r.From,
			To:       r.To,
			AmpmFrom: r.AmpmFrom,
			AmpmTo:   r.AmpmTo,
			Active:   r.Active,
		})
	}

	if err := h.service.SetTemplate(c.Request.Context(), c.GetInt64("user_id"), rules); err != nil {
		if errors.Is(err, ErrInvalidTemplate) {
			response.Error(c, http.StatusBadRequest, "INVALID_TEMPLATE", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update availability")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": len(rules)})
}
