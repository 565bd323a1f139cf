// Package statemachine описывает жизненный цикл сделки между заказчиком и исполнителем:
// таблицу переходов, группировку состояний, классификацию закрытия и производные суммы.
// Все функции пакета чистые и работают с последней строкой истории в том виде,
// в котором ее прочитал вызывающий код; устаревание данных пакет не отслеживает.
package statemachine

import "errors"

var (
	// ErrIllegalTransition - действие недопустимо для текущего состояния и роли.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrInconsistentHistory - в истории сделки нет обязательной записи о предложении.
	ErrInconsistentHistory = errors.New("inconsistent trade history")
	// ErrNotOverride - действие не является служебным и должно идти через таблицу переходов.
	ErrNotOverride = errors.New("action is not an override")
)
