// Package status derives a contract's settlement state from its schedule
// and the set of paid installment indices.
package status

import (
	"time"

	"github.com/segyhp/loan-desk/internal/domain"
	customError "github.com/segyhp/loan-desk/pkg/errors"
	"github.com/segyhp/loan-desk/pkg/utils"
)

// State of a contract as shown to operators
type State string

const (
	OnTrack   State = "andamento"
	DueSoon   State = "proximo"
	Overdue   State = "vencido"
	Completed State = "concluido"
)

// States lists every state in display order
var States = []State{OnTrack, DueSoon, Overdue, Completed}

const (
	// CutoffHour is the local end of business at which an installment falls due
	CutoffHour = 18

	// DueSoonDays is the whole-day distance below which an installment is due soon
	DueSoonDays = 5
)

// Valid reports whether s is a known state
func (s State) Valid() bool {
	for _, st := range States {
		if s == st {
			return true
		}
	}
	return false
}

// Result is the derived payment status of one contract
type Result struct {
	State     State               `json:"status"`
	Next      *domain.Installment `json:"proximaParcela"`
	NextIndex int                 `json:"indiceProxima"`
	Total     int                 `json:"totalParcelas"`
	PaidCount int                 `json:"qtdPagas"`
}

// Evaluate computes the status of c given the paid indices at instant now.
// The 18:00 cutoff is applied in now's location.
func Evaluate(c domain.Contract, paid []int, now time.Time) Result {
	paidSet := toSet(paid)
	res := Result{
		NextIndex: -1,
		Total:     len(c.Parcelas),
		PaidCount: len(paidSet),
	}

	if res.Total > 0 && res.PaidCount >= res.Total {
		res.State = Completed
		return res
	}

	for i := range c.Parcelas {
		if _, ok := paidSet[i]; !ok {
			res.NextIndex = i
			break
		}
	}

	if res.NextIndex == -1 {
		// An empty schedule has nothing due and is never completed.
		res.State = OnTrack
		if res.Total > 0 {
			res.State = Completed
		}
		return res
	}

	next := c.Parcelas[res.NextIndex]
	res.Next = &next
	res.State = dueState(next, now)
	return res
}

// DueInstant returns the moment installment p falls due in loc
func DueInstant(p domain.Installment, loc *time.Location) (time.Time, error) {
	d, err := p.DueDate(loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), CutoffHour, 0, 0, 0, loc), nil
}

func dueState(p domain.Installment, now time.Time) State {
	due, err := DueInstant(p, now.Location())
	if err != nil {
		return OnTrack
	}

	diff := due.Sub(now)
	if diff < 0 {
		return Overdue
	}

	days := int(diff / (24 * time.Hour))
	switch {
	case days >= DueSoonDays:
		return OnTrack
	case days >= 1:
		return DueSoon
	case utils.SameDay(now, due) && now.Hour() >= CutoffHour:
		return Overdue
	default:
		return DueSoon
	}
}

// Decision describes what marking an installment as paid would do
type Decision struct {
	Index             int                `json:"indice"`
	Installment       domain.Installment `json:"parcela"`
	AlreadyPaid       bool               `json:"jaPaga"`
	CompletesContract bool               `json:"concluiContrato"`
	Total             int                `json:"totalParcelas"`
	PaidCount         int                `json:"qtdPagas"`
}

// CanMarkPaid is the side-effect-free half of a payment: callers show the
// decision, collect confirmation, then commit.
func CanMarkPaid(c domain.Contract, paid []int, index int) (Decision, error) {
	total := len(c.Parcelas)
	if index < 0 || index >= total {
		return Decision{}, customError.WrapInvalidInstallment(c.ID, index, total)
	}

	paidSet := toSet(paid)
	_, already := paidSet[index]

	count := len(paidSet)
	if !already {
		count++
	}

	return Decision{
		Index:             index,
		Installment:       c.Parcelas[index],
		AlreadyPaid:       already,
		CompletesContract: !already && count >= total,
		Total:             total,
		PaidCount:         len(paidSet),
	}, nil
}

func toSet(paid []int) map[int]struct{} {
	set := make(map[int]struct{}, len(paid))
	for _, i := range paid {
		set[i] = struct{}{}
	}
	return set
}
