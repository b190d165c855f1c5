package http

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) attendancePage(c *fiber.Ctx) error {
	lessonID, err := idParam(c, "lessonId")
	if err != nil {
		return err
	}

	lesson, bookings, err := h.services.Attendance.Roster(c.UserContext(), actorOf(c), lessonID)
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"lesson": lesson, "bookings": bookings})
}

// attendanceSubmit сохраняет форму посещаемости: отмеченные present - пришли, остальные - нет
func (h *Handler) attendanceSubmit(c *fiber.Ctx) error {
	lessonID, err := idParam(c, "lessonId")
	if err != nil {
		return err
	}

	present, err := presentIDs(c)
	if err != nil {
		return h.failForm(c, err, c.Path(), nil)
	}

	if err := h.services.Attendance.SetAttendance(c.UserContext(), actorOf(c), lessonID, present); err != nil {
		if isNotFound(err) {
			return h.failPage(c, err)
		}
		return h.failForm(c, err, c.Path(), nil)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Посещаемость сохранена"})
	return h.redirect(c, lessonPath(lessonID))
}

func (h *Handler) toggleAttendance(c *fiber.Ctx) error {
	bookingID, err := idParam(c, "bookingId")
	if err != nil {
		return err
	}

	attended, err := h.services.Attendance.ToggleAttendance(c.UserContext(), actorOf(c), bookingID)
	if err != nil {
		if isNotFound(err) {
			return h.failPage(c, err)
		}
		return h.failForm(c, err, "/admin/students", nil)
	}

	message := "Отметка о посещении снята"
	if attended {
		message = "Посещение отмечено"
	}
	h.flash(c, Flash{Level: LevelSuccess, Message: message})
	return h.redirect(c, "/admin/students")
}
