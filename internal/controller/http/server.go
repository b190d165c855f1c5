// Package http - HTTP-интерфейс студии на fiber.
// GET-страницы отдают JSON-модели, формы принимают urlencoded и отвечают редиректом.
package http

import (
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionCookie = "studio_session"

type Config struct {
	SessionTTL   time.Duration
	CookieSecure bool
	// Storage - хранилище сессий; nil - память процесса
	Storage fiber.Storage
}

type Handler struct {
	services Services
	store    *session.Store
	logger   *zap.Logger
}

// New собирает fiber-приложение со всеми маршрутами
func New(services Services, cfg Config, logger *zap.Logger) *fiber.App {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	h := &Handler{
		services: services,
		store: session.New(session.Config{
			Storage:        cfg.Storage,
			Expiration:     cfg.SessionTTL,
			KeyLookup:      "cookie:" + sessionCookie,
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			CookieSameSite: "Lax",
			KeyGenerator:   uuid.NewString,
		}),
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		AppName:      "Studio Booking",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler(h),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(h.accessLog)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(h.withSession, h.loadActor)
	h.routes(app)

	return app
}

func (h *Handler) routes(app *fiber.App) {
	// Публичные страницы
	app.Get("/", h.home)
	app.Get("/directions", h.directions)
	app.Get("/teachers", h.teachers)
	app.Get("/teacher/:id", h.teacherDetail)
	app.Get("/groups", h.groups)
	app.Get("/lessons", h.lessons)
	app.Get("/lesson/:id", h.lessonDetail)
	app.Get("/abonements", h.abonements)

	// Вход и регистрация
	app.Get("/login", h.loginPage)
	app.Post("/login", h.loginSubmit)
	app.Get("/register", h.registerPage)
	app.Post("/register", h.registerSubmit)
	app.Get("/logout", h.logoutHandler)

	// Студент. Проверка роли внутри сервиса бронирования.
	app.Post("/book/:id", h.bookLesson)
	app.Post("/booking/:id/cancel", h.cancelBooking)
	app.Get("/me", requireAuth, h.profile)

	// Посещаемость: преподаватель группы или администратор
	attendance := app.Group("/admin/attendance", requireRole(model.RoleAdmin, model.RoleTeacher))
	attendance.Get("/:lessonId", h.attendancePage)
	attendance.Post("/:lessonId", h.attendanceSubmit)

	admin := app.Group("/admin", requireRole(model.RoleAdmin))
	admin.Get("/", h.dashboard)
	admin.Get("/add_direction", h.formPage("direction"))
	admin.Post("/add_direction", h.addDirection)
	admin.Get("/add_teacher", h.formPage("teacher"))
	admin.Post("/add_teacher", h.addTeacher)
	admin.Get("/add_group", h.groupFormPage)
	admin.Post("/add_group", h.addGroup)
	admin.Get("/add_lesson", h.lessonFormPage)
	admin.Post("/add_lesson", h.addLesson)
	admin.Get("/add_student", h.studentFormPage)
	admin.Post("/add_student", h.addStudent)
	admin.Get("/add_abonement", h.formPage("abonement"))
	admin.Post("/add_abonement", h.addAbonement)
	admin.Get("/edit_abonement/:id", h.editAbonementPage)
	admin.Post("/edit_abonement/:id", h.editAbonement)
	admin.Get("/add_payment", h.paymentFormPage)
	admin.Post("/add_payment", h.addPayment)
	admin.Get("/students", h.students)
	admin.Post("/student/:id/delete", h.deleteStudent)
	admin.Post("/mark_attendance/:bookingId", h.toggleAttendance)
}
