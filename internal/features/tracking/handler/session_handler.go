package handler

import (
	"errors"

	"shipment-tracker/internal/features/tracking/domain"
	"shipment-tracker/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler exposes the tracking session to the presentation layer.
type SessionHandler struct {
	session *service.Session
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(session *service.Session) *SessionHandler {
	return &SessionHandler{
		session: session,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// trackingRequest is the body of search and select requests.
type trackingRequest struct {
	TrackingNumber string `json:"trackingNumber"`
}

func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// Health reports process liveness.
func (h *SessionHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetSession returns the current session snapshot.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	return c.JSON(h.session.Snapshot())
}

// Search runs a query and returns the refreshed snapshot. A blank tracking
// number is rejected with the validation message; a backend failure surfaces
// the transport error text.
func (h *SessionHandler) Search(c *fiber.Ctx) error {
	var req trackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	if err := h.session.Search(c.UserContext(), req.TrackingNumber); err != nil {
		if errors.Is(err, domain.ErrEmptyTrackingNumber) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: service.MsgEmptyTrackingNumber,
				RayID:   rayID(c),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID(c),
		})
	}

	return c.JSON(h.session.Snapshot())
}

// Select sets or clears the detail selection. An empty tracking number clears it.
func (h *SessionHandler) Select(c *fiber.Ctx) error {
	var req trackingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   rayID(c),
		})
	}

	if !h.session.Select(req.TrackingNumber) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Message: "shipment not found in current results",
			RayID:   rayID(c),
		})
	}

	return c.JSON(h.session.Snapshot())
}
