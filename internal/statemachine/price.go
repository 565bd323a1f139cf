package statemachine

import (
	"github.com/senyabanana/trade-service/internal/models"

	"github.com/shopspring/decimal"
)

// Price - действующая цена за единицу и количество. Оба поля nil до размещения заказа.
type Price struct {
	UnitPrice *int64
	Quantity  *int64
}

// Available сообщает, что цена и количество известны.
func (p Price) Available() bool {
	return p.UnitPrice != nil && p.Quantity != nil
}

// CurrentPrice возвращает цену из самой поздней строки истории, где заданы и цена, и количество.
// При равном времени создания побеждает строка, стоящая в истории позже.
func CurrentPrice(history []models.Trade) Price {
	var latest *models.Trade
	for i := range history {
		row := &history[i]
		if row.ProposedPrice == nil || row.Quantity == nil {
			continue
		}
		if latest == nil || !row.CreatedAt.Before(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return Price{}
	}
	unitPrice, quantity := *latest.ProposedPrice, *latest.Quantity
	return Price{UnitPrice: &unitPrice, Quantity: &quantity}
}

var hundred = decimal.NewFromInt(100)

// PaymentPrice возвращает сумму к оплате: цена * количество, а для отложенной оплаты
// плюс комиссия round(сумма * процент / 100) с округлением половины от нуля.
// Если цена или количество неизвестны, возвращается nil.
func PaymentPrice(unitPrice, quantity *int64, deferrable bool, feePercent *decimal.Decimal) *int64 {
	if unitPrice == nil || quantity == nil {
		return nil
	}

	base := decimal.NewFromInt(*unitPrice).Mul(decimal.NewFromInt(*quantity))
	total := base
	if deferrable && feePercent != nil {
		fee := base.Mul(*feePercent).Div(hundred).Round(0)
		total = base.Add(fee)
	}

	amount := total.IntPart()
	return &amount
}
