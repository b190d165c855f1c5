package http

import (
	"time"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	return id
}

// accessLog пишет одну строку zap на запрос
func (h *Handler) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	h.logger.Info("HTTP request",
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// withSession загружает сессию и сохраняет её после обработчика
func (h *Handler) withSession(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return err
	}
	c.Locals(localsSession, sess)

	handlerErr := c.Next()

	// Анонимным посетителям без данных cookie не выдаём
	if sess.Fresh() && len(sess.Keys()) == 0 {
		return handlerErr
	}
	if err := sess.Save(); err != nil {
		h.logger.Error("Failed to save session", zap.String("request_id", requestID(c)), zap.Error(err))
		if handlerErr == nil {
			return err
		}
	}
	return handlerErr
}

// loadActor кладёт в locals актора по id аккаунта из сессии.
// Если аккаунт удалён, он убирается из сессии.
func (h *Handler) loadActor(c *fiber.Ctx) error {
	sess := sessionOf(c)
	accountID, ok := sess.Get(sessionAccountKey).(int64)
	if !ok {
		return c.Next()
	}

	actor, err := h.services.Auth.ResolveActor(c.UserContext(), accountID)
	if err != nil {
		return err
	}
	if actor == nil {
		sess.Delete(sessionAccountKey)
		return c.Next()
	}

	c.Locals(localsActor, actor)
	return c.Next()
}

// requireRole прерывает запрос с 403, если у актора нет ни одной из ролей
func requireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := actorOf(c)
		if actor == nil {
			msg, _ := ErrorMessage(service.ErrUnauthenticated)
			return fiber.NewError(fiber.StatusForbidden, msg.Message)
		}
		if !actor.Is(roles...) {
			msg, _ := ErrorMessage(service.ErrForbidden)
			return fiber.NewError(fiber.StatusForbidden, msg.Message)
		}
		return c.Next()
	}
}

// requireAuth пропускает любого вошедшего пользователя
func requireAuth(c *fiber.Ctx) error {
	if actorOf(c) == nil {
		msg, _ := ErrorMessage(service.ErrUnauthenticated)
		return fiber.NewError(fiber.StatusForbidden, msg.Message)
	}
	return c.Next()
}
