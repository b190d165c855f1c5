// Package notify отправляет сотрудникам студии уведомления о записях.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/studio_booking/internal/formatting"
	"github.com/Freeeeeet/studio_booking/internal/model"
)

type EventKind string

const (
	EventBooked   EventKind = "booked"
	EventCanceled EventKind = "canceled"
)

// Event - запись создана или отменена
type Event struct {
	Kind      EventKind
	Booking   *model.Booking
	Lesson    *model.Lesson
	SpotsLeft int
}

// Notifier доставляет события персоналу
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Nop - уведомления выключены
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Text собирает текст уведомления
func Text(e Event) string {
	var b strings.Builder

	switch e.Kind {
	case EventBooked:
		b.WriteString("✅ Новая запись\n")
	case EventCanceled:
		b.WriteString("❌ Запись отменена\n")
	default:
		b.WriteString("ℹ️ Изменение записи\n")
	}

	if e.Booking != nil {
		fmt.Fprintf(&b, "Студент: %s\n", e.Booking.StudentName)
	}

	if e.Lesson != nil {
		if g := e.Lesson.Group; g != nil {
			fmt.Fprintf(&b, "Группа: %s (%s)\n", g.Name, g.DirectionName)
		}
		fmt.Fprintf(&b, "Занятие: %s %s (%s)\n",
			formatting.FormatDate(e.Lesson.StartAt),
			formatting.FormatTimeRange(e.Lesson.StartAt, e.Lesson.EndAt()),
			formatting.FormatDuration(e.Lesson.DurationMinutes),
		)
	}

	fmt.Fprintf(&b, "Свободно: %d %s", e.SpotsLeft, formatting.PluralizeSpots(e.SpotsLeft))
	return b.String()
}
