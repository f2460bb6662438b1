package wallet

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
	rg.GET("/wallet", h.Overview)
	rg.POST("/wallet/fund", h.Fund)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/wallet/fund/verify/:reference", h.VerifyFunding)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/wallet/:userId/credit", h.AdminCredit)
}

func (h *Handler) Overview(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	overview, err := h.service.Overview(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}

func (h *Handler) Fund(c *gin.Context) {
	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.UserID = c.GetInt64("user_id")

	result, err := h.service.Fund(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) VerifyFunding(c *gin.Context) {
	outcome, err := h.service.VerifyFunding(c.Request.Context(), c.Param("reference"))
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

	response.Success(c, http.StatusOK, outcome)
}

func (h *Handler) AdminCredit(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	var req AdminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	entry, err := h.service.AdminCredit(c.Request.Context(), c.GetInt64("user_id"), userID, req.Amount, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entry)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid wallet request")
	case errors.Is(err, ErrMinimumFunding):
		response.Error(c, http.StatusBadRequest, "MINIMUM_FUNDING", "Funding amount is below the minimum")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ErrStudentOnly):
		response.Error(c, http.StatusBadRequest, "STUDENT_ONLY", "Only student wallets can be credited")
	case errors.Is(err, payment.ErrUpstream):
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway is unavailable")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
