package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain/notification"
	"github.com/sahtycare/sahty/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type notificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	LinkURL   string    `json:"link_url,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponse(n *notification.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		LinkURL:   n.LinkURL,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list, err := h.svc.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNotificationResponse(n))
	}
	respondOK(c, out)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), claims.UserID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"read": id})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	if err := h.svc.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"read": "all"})
}
