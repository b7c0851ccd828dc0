package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// Ensure ExpenseService implements the Connect handler interface
var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewExpenseService creates a new ExpenseService. m may be nil.
func NewExpenseService(store storage.Store, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher, metrics: m, logger: logger}
}

// CreateExpense validates, splits and stores an expense.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	s.logger.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"payers_count", len(req.Msg.Payers),
		"split_among_count", len(req.Msg.SplitAmong),
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("CreateExpense failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expense, err := buildExpense(group, req.Msg)
	if err != nil {
		s.logger.Warn("CreateExpense rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	record := calculator.ExpenseRecord{Paid: expense.Payers, Owed: expense.Owers}
	if err := calculator.ValidateRecord(record); err != nil {
		s.metrics.IncUnbalanced()
		s.logger.Error("CreateExpense produced an unbalanced record", "group_id", group.ID, "error", err)
		return nil, toConnectError(fmt.Errorf("%w: %w", errInvalidArgument, err))
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	publish(ctx, s.publisher, s.logger, events.New(events.ExpenseRecorded, group.ID, expense.ID))
	s.logger.Info("Expense created", "expense_id", expense.ID, "group_id", group.ID, "amount_cents", expense.Amount)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// buildExpense resolves who paid and who owes for a request. Every named member
// must belong to the group.
func buildExpense(group *models.Group, msg *api.CreateExpenseRequest) (*models.Expense, error) {
	amount, err := money.ParseCents(msg.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}

	payers, err := resolvePayers(group, amount, msg)
	if err != nil {
		return nil, err
	}
	owers, err := resolveOwers(group, amount, msg)
	if err != nil {
		return nil, err
	}

	return &models.Expense{
		GroupID:     group.ID,
		Description: strings.TrimSpace(msg.Description),
		Amount:      amount,
		Payers:      payers,
		Owers:       owers,
	}, nil
}

func resolvePayers(group *models.Group, amount int64, msg *api.CreateExpenseRequest) (map[string]int64, error) {
	paidBy := strings.TrimSpace(msg.PaidBy)
	switch {
	case paidBy != "" && len(msg.Payers) > 0:
		return nil, invalidf("set either paid_by or payers, not both")
	case paidBy != "":
		if err := requireMember(group, paidBy); err != nil {
			return nil, err
		}
		return map[string]int64{paidBy: amount}, nil
	case len(msg.Payers) > 0:
		payers, err := parseShares(group, msg.Payers, "payers")
		if err != nil {
			return nil, err
		}
		if total, ok := sumShares(payers); !ok || total != amount {
			return nil, invalidf("payers add up to %s, expected %s", money.FormatCents(total), money.FormatCents(amount))
		}
		return payers, nil
	default:
		return nil, invalidf("paid_by or payers is required")
	}
}

func resolveOwers(group *models.Group, amount int64, msg *api.CreateExpenseRequest) (map[string]int64, error) {
	if len(msg.ExactShares) > 0 {
		if len(msg.SplitAmong) > 0 || len(msg.Weights) > 0 {
			return nil, invalidf("exact_shares cannot be combined with split_among or weights")
		}
		owers, err := parseShares(group, msg.ExactShares, "exact_shares")
		if err != nil {
			return nil, err
		}
		if total, ok := sumShares(owers); !ok || total != amount {
			return nil, invalidf("exact_shares add up to %s, expected %s", money.FormatCents(total), money.FormatCents(amount))
		}
		return owers, nil
	}

	among := msg.SplitAmong
	if len(among) == 0 {
		if len(msg.Weights) > 0 {
			return nil, invalidf("weights require split_among")
		}
		among = group.Members
	}
	if len(among) == 0 {
		return nil, invalidf("group %q has no members to split among", group.Name)
	}

	names := make([]string, len(among))
	seen := make(map[string]bool, len(among))
	for i, name := range among {
		name = strings.TrimSpace(name)
		if err := requireMember(group, name); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, invalidf("%q appears more than once in split_among", name)
		}
		seen[name] = true
		names[i] = name
	}

	weights := msg.Weights
	if len(weights) == 0 {
		weights = calculator.EqualWeights(len(names))
	}
	if len(weights) != len(names) {
		return nil, invalidf("got %d weights for %d members", len(weights), len(names))
	}
	anyPositive := false
	for i, w := range weights {
		if w < 0 {
			return nil, invalidf("weight for %q cannot be negative", names[i])
		}
		anyPositive = anyPositive || w > 0
	}
	if !anyPositive {
		return nil, invalidf("at least one weight must be positive")
	}

	owers := make(map[string]int64, len(names))
	for i, share := range calculator.Allocate(amount, weights) {
		if weights[i] > 0 {
			owers[names[i]] = share
		}
	}
	return owers, nil
}

// parseShares converts member -> decimal string into member -> cents.
func parseShares(group *models.Group, shares map[string]string, field string) (map[string]int64, error) {
	out := make(map[string]int64, len(shares))
	for name, value := range shares {
		name = strings.TrimSpace(name)
		if err := requireMember(group, name); err != nil {
			return nil, err
		}
		cents, err := money.ParseCents(value)
		if err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", field, name, err)
		}
		out[name] += cents
	}
	return out, nil
}

// sumShares adds up parsed shares. ok is false when the total would exceed
// math.MaxInt64; every share is positive.
func sumShares(shares map[string]int64) (total int64, ok bool) {
	for _, cents := range shares {
		if cents > math.MaxInt64-total {
			return total, false
		}
		total += cents
	}
	return total, true
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	s.logger.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses retrieves the active expenses of a group, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	s.logger.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("ListExpenses failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}

	s.logger.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense soft-deletes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	s.logger.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		}
		return nil, toConnectError(err)
	}

	publish(ctx, s.publisher, s.logger, events.New(events.ExpenseDeleted, expense.GroupID, expense.ID))
	s.logger.Info("Expense deleted", "expense_id", expense.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
