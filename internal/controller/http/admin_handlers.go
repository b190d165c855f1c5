package http

import (
	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) dashboard(c *fiber.Ctx) error {
	stats, err := h.services.Profile.Dashboard(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"stats": stats})
}

// formPage отдаёт пустую форму без справочников
func (h *Handler) formPage(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return h.render(c, fiber.Map{"form": name})
	}
}

func (h *Handler) addDirection(c *fiber.Ctx) error {
	var form DirectionForm
	if err := bindForm(c, &form, "Название обязательно"); err != nil {
		return h.failForm(c, err, "/admin/add_direction", form)
	}

	if _, err := h.services.Catalog.CreateDirection(c.UserContext(), form.Name, form.Description); err != nil {
		return h.failForm(c, err, "/admin/add_direction", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Направление добавлено"})
	return h.redirect(c, "/directions")
}

func (h *Handler) addTeacher(c *fiber.Ctx) error {
	var form TeacherForm
	if err := bindForm(c, &form, "Пожалуйста, заполните имя, email и пароль."); err != nil {
		return h.failForm(c, err, "/admin/add_teacher", form)
	}

	_, err := h.services.Auth.CreateTeacher(c.UserContext(), service.TeacherInput{
		Name:      form.Name,
		Email:     form.Email,
		Password:  form.Password,
		StageName: form.StageName,
		Bio:       form.Bio,
	})
	if err != nil {
		return h.failForm(c, err, "/admin/add_teacher", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Преподаватель добавлен"})
	return h.redirect(c, "/teachers")
}

func (h *Handler) groupFormPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	directions, err := h.services.Catalog.ListDirections(ctx)
	if err != nil {
		return h.failPage(c, err)
	}
	teachers, err := h.services.Catalog.ListTeachers(ctx)
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"form": "group", "directions": directions, "teachers": teachers})
}

func (h *Handler) addGroup(c *fiber.Ctx) error {
	var form GroupForm
	if err := bindForm(c, &form, "Заполните название, направление и преподавателя"); err != nil {
		return h.failForm(c, err, "/admin/add_group", form)
	}
	capacity, err := optionalInt(form.Capacity, "Количество мест должно быть > 0")
	if err != nil {
		return h.failForm(c, err, "/admin/add_group", form)
	}

	_, err = h.services.Catalog.CreateGroup(c.UserContext(), service.GroupInput{
		Name:        form.Name,
		DirectionID: form.DirectionID,
		TeacherID:   form.TeacherID,
		Capacity:    capacity,
		Location:    form.Location,
	})
	if err != nil {
		return h.failForm(c, err, "/admin/add_group", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Группа создана"})
	return h.redirect(c, "/groups")
}

func (h *Handler) lessonFormPage(c *fiber.Ctx) error {
	groups, err := h.services.Catalog.ListGroups(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"form": "lesson", "groups": groups})
}

func (h *Handler) addLesson(c *fiber.Ctx) error {
	var form LessonForm
	if err := bindForm(c, &form, "Выберите группу и укажите дату"); err != nil {
		return h.failForm(c, err, "/admin/add_lesson", form)
	}
	duration, err := optionalInt(form.Duration, "Длительность должна быть > 0")
	if err != nil {
		return h.failForm(c, err, "/admin/add_lesson", form)
	}

	_, err = h.services.Catalog.CreateLesson(c.UserContext(), service.LessonInput{
		GroupID:         form.GroupID,
		Start:           form.StartDT,
		DurationMinutes: duration,
	})
	if err != nil {
		return h.failForm(c, err, "/admin/add_lesson", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Урок добавлен"})
	return h.redirect(c, "/lessons")
}

func (h *Handler) studentFormPage(c *fiber.Ctx) error {
	groups, err := h.services.Catalog.ListGroups(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"form": "student", "groups": groups})
}

func (h *Handler) addStudent(c *fiber.Ctx) error {
	var form StudentForm
	if err := bindForm(c, &form, "Пожалуйста, заполните имя, email и пароль."); err != nil {
		return h.failForm(c, err, "/admin/add_student", form)
	}

	in := service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Phone:    form.Phone,
	}
	if form.GroupID > 0 {
		in.GroupID = &form.GroupID
	}
	account, err := h.services.Auth.Register(c.UserContext(), in)
	if err != nil {
		return h.failForm(c, err, "/admin/add_student", form)
	}

	h.logger.Info("Student added by admin",
		zap.Int64("account_id", account.ID),
		zap.Int64("admin_id", actorOf(c).Account.ID),
	)
	h.flash(c, Flash{Level: LevelSuccess, Message: "Студент успешно добавлен!"})
	return h.redirect(c, "/admin")
}

func (h *Handler) students(c *fiber.Ctx) error {
	students, err := h.services.Roster.ListStudents(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"students": students})
}

func (h *Handler) deleteStudent(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.services.Roster.DeleteStudent(c.UserContext(), id); err != nil {
		return h.failForm(c, err, "/admin/students", nil)
	}

	h.flash(c, Flash{Level: LevelInfo, Message: "Студент удалён"})
	return h.redirect(c, "/admin/students")
}

func abonementInput(form AbonementForm) (service.AbonementInput, error) {
	price, err := priceField(form.Price, "Неверная цена")
	if err != nil {
		return service.AbonementInput{}, err
	}
	sessions, err := optionalInt(form.Sessions, "Количество занятий должно быть > 0")
	if err != nil {
		return service.AbonementInput{}, err
	}

	in := service.AbonementInput{
		Name:         form.Name,
		Description:  form.Description,
		PriceKopecks: price,
	}
	if sessions != nil {
		in.Sessions = *sessions
	}
	return in, nil
}

func (h *Handler) addAbonement(c *fiber.Ctx) error {
	var form AbonementForm
	if err := bindForm(c, &form, "Название абонемента обязательно"); err != nil {
		return h.failForm(c, err, "/admin/add_abonement", form)
	}
	in, err := abonementInput(form)
	if err != nil {
		return h.failForm(c, err, "/admin/add_abonement", form)
	}

	if _, err := h.services.Catalog.CreateAbonement(c.UserContext(), in); err != nil {
		return h.failForm(c, err, "/admin/add_abonement", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Абонемент добавлен!"})
	return h.redirect(c, "/abonements")
}

func (h *Handler) editAbonementPage(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	a, err := h.services.Catalog.Abonement(c.UserContext(), id)
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"form": "abonement", "abonement": a})
}

func (h *Handler) editAbonement(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	back := c.Path()

	var form AbonementForm
	if err := bindForm(c, &form, "Название абонемента обязательно"); err != nil {
		return h.failForm(c, err, back, form)
	}
	in, err := abonementInput(form)
	if err != nil {
		return h.failForm(c, err, back, form)
	}

	if _, err := h.services.Catalog.UpdateAbonement(c.UserContext(), id, in); err != nil {
		return h.failForm(c, err, "/abonements", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Абонемент обновлён!"})
	return h.redirect(c, "/abonements")
}

func (h *Handler) paymentFormPage(c *fiber.Ctx) error {
	students, err := h.services.Roster.ListStudents(c.UserContext())
	if err != nil {
		return h.failPage(c, err)
	}
	return h.render(c, fiber.Map{"form": "payment", "students": students})
}

func (h *Handler) addPayment(c *fiber.Ctx) error {
	var form PaymentForm
	if err := bindForm(c, &form, "Выберите студента и укажите сумму"); err != nil {
		return h.failForm(c, err, "/admin/add_payment", form)
	}
	amount, err := priceField(form.Amount, "Неверная сумма")
	if err != nil {
		return h.failForm(c, err, "/admin/add_payment", form)
	}

	if _, err := h.services.Roster.RecordPayment(c.UserContext(), form.StudentID, amount, form.Note); err != nil {
		return h.failForm(c, err, "/admin/add_payment", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Платёж записан"})
	return h.redirect(c, "/admin/students")
}
