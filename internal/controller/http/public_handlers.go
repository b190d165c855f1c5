package http

import (
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) home(c *fiber.Ctx) error {
	view, err := h.services.Profile.Home(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{
		"directions": view.Directions,
		"teachers":   view.Teachers,
		"upcoming":   view.Upcoming,
	})
}

func (h *Handler) directions(c *fiber.Ctx) error {
	ds, err := h.services.Catalog.ListDirections(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"directions": ds})
}

func (h *Handler) teachers(c *fiber.Ctx) error {
	ts, err := h.services.Catalog.ListTeachers(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"teachers": ts})
}

func (h *Handler) teacherDetail(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.services.Catalog.Teacher(c.UserContext(), id)
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"teacher": view.Teacher, "groups": view.Groups})
}

func (h *Handler) groups(c *fiber.Ctx) error {
	gs, err := h.services.Catalog.ListGroups(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"groups": gs})
}

func (h *Handler) lessons(c *fiber.Ctx) error {
	ls, err := h.services.Catalog.ListLessons(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"lessons": ls})
}

func (h *Handler) lessonDetail(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	view, err := h.services.Catalog.Lesson(c.UserContext(), id)
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{
		"lesson":     view.Lesson,
		"taken":      view.Taken,
		"spots_left": view.SpotsLeft,
	})
}

func (h *Handler) abonements(c *fiber.Ctx) error {
	as, err := h.services.Catalog.ListAbonements(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"abonements": abonementViews(as)})
}
