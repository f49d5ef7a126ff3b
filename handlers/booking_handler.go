package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/mwangiedu/tutor_marketplace/services"
)

var bookingService *services.BookingService

// InitBookingHandlers wires the booking service in at startup. Which store
// backs it is decided by the caller, never in here.
func InitBookingHandlers(svc *services.BookingService) {
	bookingService = svc
}

// currentActor resolves the caller from the verified JWT the auth middleware
// stored on the context.
func currentActor(c *fiber.Ctx) services.Actor {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	role, _ := claims["role"].(string)
	return services.Actor{UserID: userID, Role: role}
}

func serviceError(c *fiber.Ctx, err *services.Error) error {
	return c.Status(err.HTTPStatus()).JSON(fiber.Map{"error": err.Message})
}

type CreateBookingRequest struct {
	TeacherProfileID string  `json:"teacher_profile_id" validate:"required,uuid"`
	StudentID        string  `json:"student_id" validate:"omitempty,uuid"`
	StartTime        string  `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime          string  `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes            *string `json:"notes,omitempty"`
}

func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	teacherProfileID, _ := uuid.Parse(req.TeacherProfileID)
	startTime, _ := time.Parse(time.RFC3339, req.StartTime)
	endTime, _ := time.Parse(time.RFC3339, req.EndTime)

	input := services.CreateBookingInput{
		TeacherProfileID: teacherProfileID,
		StartTime:        startTime,
		EndTime:          endTime,
		Notes:            req.Notes,
	}
	if req.StudentID != "" {
		input.StudentID, _ = uuid.Parse(req.StudentID)
	}

	booking, svcErr := bookingService.Create(currentActor(c), input)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data":    booking,
		"message": "Booking request sent to the teacher.",
	})
}

func GetBooking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, svcErr := bookingService.Get(currentActor(c), id)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"data": booking})
}

func ListBookings(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := services.ListBookingsInput{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
	}
	if v := c.Query("userId"); v != "" {
		input.UserID, _ = uuid.Parse(v)
	}
	if v := c.Query("teacherProfileId"); v != "" {
		input.TeacherProfileID, _ = uuid.Parse(v)
	}
	if v := c.Query("fromDate"); v != "" {
		input.FromDate = parseDateQuery(v)
	}
	if v := c.Query("toDate"); v != "" {
		input.ToDate = parseDateQuery(v)
	}

	result, svcErr := bookingService.List(currentActor(c), input)
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"data": result.Data,
		"metadata": fiber.Map{
			"total":       result.Total,
			"page":        result.Page,
			"limit":       result.Limit,
			"total_pages": result.TotalPages,
		},
	})
}

// parseDateQuery accepts RFC3339 or a bare date.
func parseDateQuery(v string) time.Time {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02", v)
	return t
}

type UpdateBookingRequest struct {
	Status       *string `json:"status,omitempty"`
	TeacherNotes *string `json:"teacher_notes,omitempty"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	MeetingLink  *string `json:"meeting_link,omitempty" validate:"omitempty,url"`
}

func UpdateBooking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	var req UpdateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, svcErr := bookingService.Update(currentActor(c), id, services.BookingPatch{
		Status:       req.Status,
		TeacherNotes: req.TeacherNotes,
		CancelReason: req.CancelReason,
		MeetingLink:  req.MeetingLink,
	})
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"data": booking})
}

// CancelBooking soft-cancels: the row stays, status becomes cancelled.
func CancelBooking(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking id"})
	}

	booking, svcErr := bookingService.Cancel(currentActor(c), id, c.Query("reason"))
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{
		"data":    booking,
		"message": "Booking cancelled.",
	})
}
