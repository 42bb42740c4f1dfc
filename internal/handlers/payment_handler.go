package handlers

import (
	"io"
	"net/http"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/middleware"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/services/payment"
	"eduhealth_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "X-Paystack-Signature"

type PaymentHandler struct {
	*BaseHandler
	paymentService *payment.Service
	reconciler     *payment.Reconciler
}

func NewPaymentHandler(base *BaseHandler, paymentService *payment.Service, reconciler *payment.Reconciler) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
		reconciler:     reconciler,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		// External callback, no auth: trust is established by the signature.
		payments.POST("/webhook", h.Webhook)

		authed := payments.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/initialize", h.Initialize)
			authed.GET("/verify/:reference", h.Verify)
			authed.GET("/history", h.History)
		}
	}
}

func (h *PaymentHandler) Initialize(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.InitializePaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.InitializePayment(c.Request.Context(), userID, models.PlanType(req.PlanType))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook handles gateway deliveries. The body is read as raw bytes before
// any decoding because the signature covers the bytes exactly as sent.
//
// Response codes follow the provider's retry contract: signature failures get
// a 4xx (retrying cannot help), processing failures get a 5xx (at-least-once
// delivery redelivers), everything else a 200.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to read webhook body", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader(signatureHeader)
	if err := h.reconciler.HandleWebhook(c.Request.Context(), rawBody, signature); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Verify is the poll path: the user lands here after the gateway redirect.
// The reference is only resolved for its owner.
func (h *PaymentHandler) Verify(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	reference := c.Param("reference")
	if reference == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing payment reference"))
		return
	}

	status, err := h.reconciler.ConfirmByReference(c.Request.Context(), reference, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *PaymentHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.paymentService.History(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": items, "total": len(items)})
}
