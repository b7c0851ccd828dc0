package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/api"
)

func groupToAPI(g *models.Group) *api.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		AmountCents: e.Amount,
		Amount:      money.FormatCents(e.Amount),
		Payers:      e.Payers,
		Owers:       e.Owers,
		CreatedAt:   e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:          s.ID,
		GroupID:     s.GroupID,
		From:        s.FromMember,
		To:          s.ToMember,
		AmountCents: s.Amount,
		Amount:      money.FormatCents(s.Amount),
		Note:        s.Note,
		CreatedAt:   s.CreatedAt,
	}
}

func transferToAPI(t calculator.Transaction) *api.Transfer {
	return &api.Transfer{
		From:        t.From,
		To:          t.To,
		AmountCents: t.Amount,
		Amount:      money.FormatCents(t.Amount),
	}
}
