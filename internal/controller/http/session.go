package http

import (
	"encoding/json"

	"github.com/Freeeeeet/studio_booking/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

const (
	localsSession = "session"
	localsActor   = "actor"

	sessionAccountKey = "account_id"
	sessionFlashKey   = "flash"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Flash - одноразовое сообщение, показываемое на следующей странице
type Flash struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// sessionOf возвращает сессию запроса; её сохраняет withSession после обработчика
func sessionOf(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(localsSession).(*session.Session)
	return sess
}

func actorOf(c *fiber.Ctx) *model.Actor {
	actor, _ := c.Locals(localsActor).(*model.Actor)
	return actor
}

// login меняет id сессии и запоминает аккаунт
func (h *Handler) login(c *fiber.Ctx, account *model.Account) error {
	sess := sessionOf(c)
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionAccountKey, account.ID)
	return nil
}

// logout стирает данные сессии и выдаёт новый id
func (h *Handler) logout(c *fiber.Ctx) error {
	return sessionOf(c).Reset()
}

func (h *Handler) flash(c *fiber.Ctx, f Flash) {
	sess := sessionOf(c)
	if sess == nil {
		return
	}
	pending := append(readFlashes(sess), f)
	raw, err := json.Marshal(pending)
	if err != nil {
		h.logger.Warn("Failed to encode flash", zap.Error(err))
		return
	}
	sess.Set(sessionFlashKey, string(raw))
}

// consumeFlashes забирает накопленные сообщения из сессии
func (h *Handler) consumeFlashes(c *fiber.Ctx) []Flash {
	sess := sessionOf(c)
	if sess == nil {
		return nil
	}
	pending := readFlashes(sess)
	if len(pending) > 0 {
		sess.Delete(sessionFlashKey)
	}
	return pending
}

func readFlashes(sess *session.Session) []Flash {
	raw, _ := sess.Get(sessionFlashKey).(string)
	if raw == "" {
		return nil
	}
	var out []Flash
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// render отдаёт JSON-модель страницы с текущим пользователем и flash-сообщениями
func (h *Handler) render(c *fiber.Ctx, data fiber.Map, extra ...Flash) error {
	if data == nil {
		data = fiber.Map{}
	}
	flashes := append(h.consumeFlashes(c), extra...)
	if flashes == nil {
		flashes = []Flash{}
	}
	data["user"] = actorOf(c)
	data["flash"] = flashes
	return c.JSON(data)
}

func (h *Handler) redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusSeeOther)
}
