package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/interface/http/dto"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type EmailHandler struct {
	Svc    *application.EmailService
	Logger *logrus.Logger
}

func NewEmailHandler(svc *application.EmailService, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Svc: svc, Logger: logger}
}

// Send enqueues an email job to RabbitMQ.
func (h *EmailHandler) Send(c *gin.Context) {
	var req dto.SendEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	enqueued, err := h.Svc.Enqueue(c.Request.Context(), req.ToJob())
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	if !enqueued {
		c.JSON(http.StatusAccepted, dto.EnqueueResponse{Enqueued: false, Message: "Email sending is disabled"})
		return
	}
	c.JSON(http.StatusAccepted, dto.EnqueueResponse{Enqueued: true, Message: "Email enqueued"})
}
