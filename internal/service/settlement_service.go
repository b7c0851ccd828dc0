package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// Ensure SettlementService implements the Connect handler interface
var _ apiconnect.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService reports balances and settlement plans, and records repayments.
type SettlementService struct {
	store     storage.Store
	ledger    *Ledger
	publisher events.Publisher
	logger    *slog.Logger
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(store storage.Store, ledger *Ledger, publisher events.Publisher, logger *slog.Logger) *SettlementService {
	return &SettlementService{store: store, ledger: ledger, publisher: publisher, logger: logger}
}

// GetBalances returns every member's net position, sorted by name.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	s.logger.Info("GetBalances request received", "group_id", req.Msg.GroupID)

	plan, err := s.ledger.Plan(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	participants := plan.Balances.Participants()
	balances := make([]*api.Balance, len(participants))
	for i, member := range participants {
		net := plan.Balances[member]
		balances[i] = &api.Balance{
			Member:    member,
			PaidCents: plan.Paid[member],
			OwedCents: plan.Owed[member],
			NetCents:  net,
			Net:       money.FormatCents(net),
		}
	}

	return connect.NewResponse(&api.GetBalancesResponse{Balances: balances}), nil
}

// GetSettlementPlan returns the transfers that would settle the group.
func (s *SettlementService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	s.logger.Info("GetSettlementPlan request received", "group_id", req.Msg.GroupID)

	plan, err := s.ledger.Plan(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetSettlementPlan failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	transfers := make([]*api.Transfer, len(plan.Transactions))
	for i, txn := range plan.Transactions {
		transfers[i] = transferToAPI(txn)
	}

	s.logger.Info("GetSettlementPlan successful", "group_id", req.Msg.GroupID, "transfers", len(transfers))
	return connect.NewResponse(&api.GetSettlementPlanResponse{
		Transfers: transfers,
		Settled:   len(transfers) == 0,
	}), nil
}

// RecordSettlement stores a repayment from one member to another.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	s.logger.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount,
	)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("RecordSettlement failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	settlement, err := buildSettlement(group, req.Msg)
	if err != nil {
		s.logger.Warn("RecordSettlement rejected", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("RecordSettlement failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	publish(ctx, s.publisher, s.logger, events.New(events.SettlementRecorded, group.ID, settlement.ID))
	s.logger.Info("Settlement recorded", "settlement_id", settlement.ID, "group_id", group.ID)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

func buildSettlement(group *models.Group, msg *api.RecordSettlementRequest) (*models.Settlement, error) {
	from := strings.TrimSpace(msg.From)
	to := strings.TrimSpace(msg.To)
	if err := requireMember(group, from); err != nil {
		return nil, err
	}
	if err := requireMember(group, to); err != nil {
		return nil, err
	}
	if from == to {
		return nil, invalidf("%q cannot pay themselves", from)
	}

	amount, err := money.ParseCents(msg.Amount)
	if err != nil {
		return nil, err
	}

	return &models.Settlement{
		GroupID:    group.ID,
		FromMember: from,
		ToMember:   to,
		Amount:     amount,
		Note:       strings.TrimSpace(msg.Note),
	}, nil
}

// ListSettlements returns the active settlements of a group, oldest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	s.logger.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("ListSettlements failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = settlementToAPI(st)
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement soft-deletes a settlement.
func (s *SettlementService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	s.logger.Info("DeleteSettlement request received", "settlement_id", req.Msg.SettlementID)

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		s.logger.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		s.logger.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, toConnectError(err)
	}

	publish(ctx, s.publisher, s.logger, events.New(events.SettlementDeleted, settlement.GroupID, settlement.ID))
	s.logger.Info("Settlement deleted", "settlement_id", settlement.ID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}
