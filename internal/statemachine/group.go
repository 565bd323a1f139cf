package statemachine

import "github.com/senyabanana/trade-service/internal/models"

// Group - укрупненная группа состояний для экранов и отчетов.
type Group struct {
	ID     *int   `json:"id"`
	Name   string `json:"name"`
	Label  string `json:"label"`
	labels map[models.TradeRole]string
}

// LabelFor возвращает подпись группы для роли; без отдельной подписи используется общая.
func (g Group) LabelFor(role models.TradeRole) string {
	if label, ok := g.labels[role]; ok {
		return label
	}
	return g.Label
}

// Classified сообщает, что состояние попало в одну из групп.
func (g Group) Classified() bool {
	return g.ID != nil
}

type groupDef struct {
	id      int
	name    string
	label   string
	labels  map[models.TradeRole]string
	members []models.TradeState
}

func roleLabels(contractor, outsourcer string) map[models.TradeRole]string {
	return map[models.TradeRole]string{
		models.Contractor: contractor,
		models.Outsourcer: outsourcer,
	}
}

var workerGroups = []groupDef{
	{1, "proposal", "proposal", roleLabels("proposing", "reviewing proposals"),
		[]models.TradeState{models.ProposalState, models.ReProposalState, models.ReorderState, models.ReorderCancelState}},
	{2, "work", "work", roleLabels("working", "in progress"),
		[]models.TradeState{models.WorkState, models.NegotiationState, models.QuantityState,
			models.CancelByOutsourcerState, models.CancelByContractorState,
			models.DeliveryRejectedState, models.FinishRequestState, models.FinishRejectedState}},
	{3, "delivery", "delivery", roleLabels("delivered", "reviewing delivery"),
		[]models.TradeState{models.DeliveryState}},
	{4, "finish", "finish", roleLabels("waiting for rating", "finished"),
		[]models.TradeState{models.FinishState}},
	{5, "closed", "closed", roleLabels("closed", "closed"),
		[]models.TradeState{models.ClosedState, models.TerminatedState}},
}

var adminGroups = []groupDef{
	{1, "proposal", "proposal", nil, []models.TradeState{models.ProposalState, models.ReorderState}},
	{2, "reproposal", "reproposal", nil, []models.TradeState{models.ReProposalState}},
	{3, "work", "work", nil, []models.TradeState{models.WorkState, models.DeliveryRejectedState, models.FinishRejectedState}},
	{4, "negotiation", "negotiation", nil, []models.TradeState{models.NegotiationState}},
	{5, "quantity", "quantity", nil, []models.TradeState{models.QuantityState}},
	{6, "cancel", "cancel", nil, []models.TradeState{models.CancelByOutsourcerState, models.CancelByContractorState, models.ReorderCancelState}},
	{7, "delivery", "delivery", nil, []models.TradeState{models.DeliveryState}},
	{8, "finish", "finish", nil, []models.TradeState{models.FinishRequestState, models.FinishState}},
	{9, "closed", "closed", nil, []models.TradeState{models.ClosedState}},
	{10, "terminated", "terminated", nil, []models.TradeState{models.TerminatedState}},
}

// Подписи для состояний, не попавших ни в одну группу.
const (
	unclassifiedAdminLabel  = "undefined"
	unclassifiedWorkerLabel = "other"
)

// GroupOf возвращает группу состояния для аудитории. Побеждает первое совпадение;
// если ни одна группа не содержит состояние, возвращается группа без ID.
func GroupOf(state models.TradeState, audience models.Audience) Group {
	defs := workerGroups
	unclassified := unclassifiedWorkerLabel
	if audience == models.AdminAudience {
		defs = adminGroups
		unclassified = unclassifiedAdminLabel
	}

	for _, def := range defs {
		for _, member := range def.members {
			if member == state {
				id := def.id
				return Group{ID: &id, Name: def.name, Label: def.label, labels: def.labels}
			}
		}
	}
	return Group{Name: unclassified, Label: unclassified}
}

var stateLabels = map[models.TradeState]map[models.TradeRole]string{
	models.ProposalState:           roleLabels("proposal sent", "proposal received"),
	models.ReProposalState:         roleLabels("reproposal requested", "waiting for reproposal"),
	models.ReorderState:            roleLabels("order offered", "order offered"),
	models.ReorderCancelState:      roleLabels("order withdrawal requested", "withdrawal requested"),
	models.WorkState:               roleLabels("working", "in progress"),
	models.NegotiationState:        roleLabels("price change requested", "price change received"),
	models.QuantityState:           roleLabels("quantity change received", "quantity change requested"),
	models.CancelByOutsourcerState: roleLabels("cancellation received", "cancellation requested"),
	models.CancelByContractorState: roleLabels("cancellation requested", "cancellation received"),
	models.DeliveryState:           roleLabels("delivered", "delivery received"),
	models.DeliveryRejectedState:   roleLabels("delivery rejected", "delivery returned"),
	models.FinishRequestState:      roleLabels("finish proposed", "finish requested"),
	models.FinishRejectedState:     roleLabels("finish refused", "finish refused"),
	models.FinishState:             roleLabels("please rate", "finished"),
	models.ClosedState:             roleLabels("closed", "closed"),
	models.TerminatedState:         roleLabels("terminated", "terminated"),
}

// StateLabel возвращает подпись состояния для роли.
func StateLabel(state models.TradeState, role models.TradeRole) string {
	if labels, ok := stateLabels[state]; ok {
		if label, ok := labels[role]; ok {
			return label
		}
	}
	return unclassifiedWorkerLabel
}
