package http

import (
	"errors"

	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) loginPage(c *fiber.Ctx) error {
	return h.render(c, fiber.Map{"form": "login"})
}

func (h *Handler) loginSubmit(c *fiber.Ctx) error {
	var form LoginForm
	if err := bindForm(c, &form, "Неверный email или пароль"); err != nil {
		h.flash(c, Flash{Level: LevelDanger, Message: "Неверный email или пароль"})
		return h.redirect(c, "/login")
	}

	account, err := h.services.Auth.Authenticate(c.UserContext(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Info("Login failed", zap.String("email", service.NormalizeEmail(form.Email)))
		}
		return h.failForm(c, err, "/login", form)
	}

	if err := h.login(c, account); err != nil {
		return err
	}

	h.logger.Info("User logged in", zap.Int64("account_id", account.ID))
	h.flash(c, Flash{Level: LevelSuccess, Message: "Вход выполнен"})
	return h.redirect(c, "/")
}

func (h *Handler) registerPage(c *fiber.Ctx) error {
	if actorOf(c) != nil {
		h.flash(c, Flash{Level: LevelInfo, Message: "Вы уже авторизованы."})
		return h.redirect(c, "/")
	}
	return h.render(c, fiber.Map{"form": "register"})
}

func (h *Handler) registerSubmit(c *fiber.Ctx) error {
	if actorOf(c) != nil {
		h.flash(c, Flash{Level: LevelInfo, Message: "Вы уже авторизованы."})
		return h.redirect(c, "/")
	}

	var form RegisterForm
	if err := bindForm(c, &form, "Пожалуйста, заполните имя, email и пароль."); err != nil {
		return h.failForm(c, err, "/register", form)
	}

	_, err := h.services.Auth.Register(c.UserContext(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Phone:    form.Phone,
	})
	if err != nil {
		return h.failForm(c, err, "/register", form)
	}

	h.flash(c, Flash{Level: LevelSuccess, Message: "Регистрация прошла успешно. Войдите, пожалуйста."})
	return h.redirect(c, "/login")
}

func (h *Handler) logoutHandler(c *fiber.Ctx) error {
	if err := h.logout(c); err != nil {
		return err
	}
	h.flash(c, Flash{Level: LevelInfo, Message: "Вы вышли"})
	return h.redirect(c, "/")
}
