package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/gofiber/fiber/v2"
)

func lessonPath(id int64) string {
	return "/lesson/" + strconv.FormatInt(id, 10)
}

func (h *Handler) bookLesson(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	_, err = h.services.Booking.BookLesson(c.UserContext(), actorOf(c), id)
	if err != nil {
		back := lessonPath(id)
		if errors.Is(err, service.ErrLessonNotFound) || errors.Is(err, service.ErrNoStudentProfile) {
			back = "/lessons"
		}
		return h.failForm(c, err, back, nil)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Вы успешно записаны на урок."})
	return h.redirect(c, lessonPath(id))
}

func (h *Handler) cancelBooking(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.services.Booking.CancelBooking(c.UserContext(), actorOf(c), id); err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			return h.failPage(c, err)
		}
		return h.failForm(c, err, "/me", nil)
	}

	h.flash(c, Flash{Level: LevelInfo, Message: "Запись отменена"})
	return h.redirect(c, "/me")
}

// profile - личный кабинет: у студента записи и платежи, у преподавателя его занятия
func (h *Handler) profile(c *fiber.Ctx) error {
	actor := actorOf(c)
	ctx := c.UserContext()

	switch actor.Account.Role {
	case model.RoleStudent:
		p, err := h.services.Profile.Student(ctx, actor)
		if err != nil {
			return h.failPage(c, err)
		}
		return h.render(c, fiber.Map{"bookings": p.Bookings, "payments": paymentViews(p.Payments)})
	case model.RoleTeacher:
		p, err := h.services.Profile.Teacher(ctx, actor)
		if err != nil {
			return h.failPage(c, err)
		}
		return h.render(c, fiber.Map{"teacher": p.Teacher, "lessons": p.Lessons})
	case model.RoleAdmin:
		return h.redirect(c, "/admin")
	default:
		return h.failPage(c, fmt.Errorf("profile for role %q: %w", actor.Account.Role, service.ErrForbidden))
	}
}
