package http

import (
	"fmt"

	"github.com/Freeeeeet/studio_booking/internal/formatting"
	"github.com/Freeeeeet/studio_booking/internal/model"
)

type abonementView struct {
	*model.Abonement
	PriceText    string `json:"price_text"`
	SessionsText string `json:"sessions_text"`
}

func abonementViews(as []*model.Abonement) []abonementView {
	out := make([]abonementView, 0, len(as))
	for _, a := range as {
		out = append(out, abonementView{
			Abonement:    a,
			PriceText:    formatting.FormatPriceShort(a.PriceKopecks),
			SessionsText: fmt.Sprintf("%d %s", a.Sessions, formatting.PluralizeLessons(a.Sessions)),
		})
	}
	return out
}

type paymentView struct {
	*model.Payment
	AmountText string `json:"amount_text"`
}

func paymentViews(ps []*model.Payment) []paymentView {
	out := make([]paymentView, 0, len(ps))
	for _, p := range ps {
		out = append(out, paymentView{
			Payment:    p,
			AmountText: formatting.FormatPriceShort(p.AmountKopecks),
		})
	}
	return out
}
