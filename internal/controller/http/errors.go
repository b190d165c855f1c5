package http

import (
	"errors"

	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const genericError = "Произошла ошибка"

// ErrorMessage возвращает flash-сообщение для ошибки и признак того, что ошибка известна
func ErrorMessage(err error) (Flash, bool) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return Flash{Level: LevelDanger, Message: verr.Message}, true
	case errors.Is(err, service.ErrUnauthenticated):
		return Flash{Level: LevelDanger, Message: "Войдите, чтобы продолжить"}, true
	case errors.Is(err, service.ErrForbidden):
		return Flash{Level: LevelDanger, Message: "Доступ запрещён"}, true
	case errors.Is(err, service.ErrInvalidCredentials):
		return Flash{Level: LevelDanger, Message: "Неверный email или пароль"}, true
	case errors.Is(err, service.ErrEmailTaken):
		return Flash{Level: LevelWarning, Message: "Пользователь с таким email уже существует. Попробуйте войти или используйте другой email."}, true
	case errors.Is(err, service.ErrNoStudentProfile):
		return Flash{Level: LevelDanger, Message: "Студентская запись не найдена, обратитесь к администратору."}, true
	case errors.Is(err, service.ErrLessonNotFound):
		return Flash{Level: LevelDanger, Message: "Урок не найден."}, true
	case errors.Is(err, service.ErrBookingNotFound):
		return Flash{Level: LevelDanger, Message: "Запись не найдена"}, true
	case errors.Is(err, service.ErrTeacherNotFound):
		return Flash{Level: LevelDanger, Message: "Преподаватель не найден"}, true
	case errors.Is(err, service.ErrGroupNotFound):
		return Flash{Level: LevelDanger, Message: "Группа не найдена"}, true
	case errors.Is(err, service.ErrStudentNotFound):
		return Flash{Level: LevelDanger, Message: "Студент не найден"}, true
	case errors.Is(err, service.ErrAbonementNotFound):
		return Flash{Level: LevelDanger, Message: "Абонемент не найден"}, true
	case errors.Is(err, service.ErrCapacityExceeded):
		return Flash{Level: LevelWarning, Message: "К сожалению, мест на этот урок нет."}, true
	case errors.Is(err, service.ErrDuplicateBooking):
		return Flash{Level: LevelInfo, Message: "Вы уже записаны на этот урок."}, true
	case errors.Is(err, service.ErrPastLesson):
		return Flash{Level: LevelWarning, Message: "Нельзя отменить прошедшее занятие"}, true
	case errors.Is(err, service.ErrStoreConflict):
		return Flash{Level: LevelDanger, Message: "Ошибка записи: проверьте данные или свяжитесь с администратором."}, true
	default:
		return Flash{Level: LevelDanger, Message: genericError}, false
	}
}

func isDenied(err error) bool {
	return errors.Is(err, service.ErrUnauthenticated) || errors.Is(err, service.ErrForbidden)
}

func isInvalid(err error) bool {
	return errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrEmailTaken)
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrLessonNotFound) ||
		errors.Is(err, service.ErrBookingNotFound) ||
		errors.Is(err, service.ErrTeacherNotFound) ||
		errors.Is(err, service.ErrGroupNotFound) ||
		errors.Is(err, service.ErrStudentNotFound) ||
		errors.Is(err, service.ErrAbonementNotFound)
}

// failPage обрабатывает ошибку GET-страницы
func (h *Handler) failPage(c *fiber.Ctx, err error) error {
	msg, known := ErrorMessage(err)
	switch {
	case isDenied(err):
		return fiber.NewError(fiber.StatusForbidden, msg.Message)
	case isNotFound(err):
		return fiber.NewError(fiber.StatusNotFound, msg.Message)
	case known:
		return fiber.NewError(fiber.StatusBadRequest, msg.Message)
	default:
		return err
	}
}

// failForm обрабатывает ошибку POST-обработчика.
// Ошибки валидации возвращают форму с 422, доменные конфликты - flash и редирект на back.
func (h *Handler) failForm(c *fiber.Ctx, err error, back string, form any) error {
	msg, known := ErrorMessage(err)
	switch {
	case isDenied(err):
		return fiber.NewError(fiber.StatusForbidden, msg.Message)
	case isInvalid(err):
		c.Status(fiber.StatusUnprocessableEntity)
		return h.render(c, fiber.Map{"error": msg.Message, "form": form}, msg)
	case known:
		h.flash(c, msg)
		return h.redirect(c, back)
	default:
		return err
	}
}

// errorHandler отвечает JSON и логирует неожиданные ошибки
func errorHandler(h *Handler) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := genericError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			h.logger.Error("Request failed",
				zap.String("request_id", requestID(c)),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"status":  "error",
			"code":    code,
			"message": message,
		})
	}
}
