package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/Freeeeeet/studio_booking/internal/formatting"
	"github.com/Freeeeeet/studio_booking/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type LoginForm struct {
	Email    string `form:"email" json:"email" validate:"required"`
	Password string `form:"password" json:"-" validate:"required"`
}

type RegisterForm struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"-" validate:"required"`
	Phone    string `form:"phone" json:"phone"`
}

type DirectionForm struct {
	Name        string `form:"name" json:"name" validate:"required"`
	Description string `form:"description" json:"description"`
}

type TeacherForm struct {
	Name      string `form:"name" json:"name" validate:"required"`
	Email     string `form:"email" json:"email" validate:"required,email"`
	Password  string `form:"password" json:"-" validate:"required"`
	StageName string `form:"stage_name" json:"stage_name"`
	Bio       string `form:"bio" json:"bio"`
}

type GroupForm struct {
	Name        string `form:"name" json:"name" validate:"required"`
	DirectionID int64  `form:"direction_id" json:"direction_id" validate:"required,gt=0"`
	TeacherID   int64  `form:"teacher_id" json:"teacher_id" validate:"required,gt=0"`
	Capacity    string `form:"capacity" json:"capacity"`
	Location    string `form:"location" json:"location"`
}

type LessonForm struct {
	GroupID  int64  `form:"group_id" json:"group_id" validate:"required,gt=0"`
	StartDT  string `form:"start_dt" json:"start_dt" validate:"required"`
	Duration string `form:"duration" json:"duration"`
}

type StudentForm struct {
	Name     string `form:"name" json:"name" validate:"required"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"-" validate:"required"`
	Phone    string `form:"phone" json:"phone"`
	GroupID  int64  `form:"group_id" json:"group_id"`
}

type AbonementForm struct {
	Name        string `form:"name" json:"name" validate:"required"`
	Description string `form:"description" json:"description"`
	Price       string `form:"price" json:"price"`
	Sessions    string `form:"sessions" json:"sessions"`
}

type PaymentForm struct {
	StudentID int64  `form:"student_id" json:"student_id" validate:"required,gt=0"`
	Amount    string `form:"amount" json:"amount" validate:"required"`
	Note      string `form:"note" json:"note"`
}

// bindForm разбирает тело запроса и проверяет обязательные поля.
// Любая ошибка превращается в ошибку валидации с message.
func bindForm(c *fiber.Ctx, form any, message string) error {
	if err := c.BodyParser(form); err != nil {
		return &service.ValidationError{Message: message}
	}
	if err := validate.Struct(form); err != nil {
		return &service.ValidationError{Message: message}
	}
	return nil
}

// optionalInt разбирает необязательное положительное поле формы; пустое значение - nil.
// Значение должно помещаться в колонку INTEGER.
func optionalInt(raw string, message string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > math.MaxInt32 {
		return nil, &service.ValidationError{Message: message}
	}
	return &v, nil
}

// priceField разбирает сумму в рублях в копейки
func priceField(raw string, message string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	kopecks, err := formatting.ParsePrice(raw)
	if err != nil {
		return 0, &service.ValidationError{Message: message}
	}
	return kopecks, nil
}

// idParam читает положительный числовой параметр маршрута
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Страница не найдена")
	}
	return id, nil
}

// presentIDs собирает повторяющееся поле present из urlencoded или multipart тела;
// нечисловые значения пропускаются
func presentIDs(c *fiber.Ctx) ([]int64, error) {
	var values []string
	if strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, &service.ValidationError{Message: "Не удалось разобрать форму посещаемости"}
		}
		values = form.Value["present"]
	} else {
		for _, v := range c.Request().PostArgs().PeekMulti("present") {
			values = append(values, string(v))
		}
	}

	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
