package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "splitledger.v1.SettlementService"

// Procedure names of SettlementService, used as HTTP paths and in interceptors.
const (
	SettlementServiceGetBalancesProcedure       = "/splitledger.v1.SettlementService/GetBalances"
	SettlementServiceGetSettlementPlanProcedure = "/splitledger.v1.SettlementService/GetSettlementPlan"
	SettlementServiceRecordSettlementProcedure  = "/splitledger.v1.SettlementService/RecordSettlement"
	SettlementServiceListSettlementsProcedure   = "/splitledger.v1.SettlementService/ListSettlements"
	SettlementServiceDeleteSettlementProcedure  = "/splitledger.v1.SettlementService/DeleteSettlement"
)

// SettlementServiceHandler is implemented by the server side of SettlementService.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler for every SettlementService procedure. It returns
// the path prefix to mount the handler on.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withHandlerCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServiceGetBalancesProcedure, connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(SettlementServiceGetSettlementPlanProcedure, connect.NewUnaryHandler(SettlementServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...))
	mux.Handle(SettlementServiceRecordSettlementProcedure, connect.NewUnaryHandler(SettlementServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(SettlementServiceListSettlementsProcedure, connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(SettlementServiceDeleteSettlementProcedure, connect.NewUnaryHandler(SettlementServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...))
	return "/" + SettlementServiceName + "/", mux
}

// SettlementServiceClient is a client for SettlementService.
type SettlementServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewSettlementServiceClient returns a client for the SettlementService served at baseURL,
// e.g. "http://localhost:8080".
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &settlementServiceClient{
		getBalances:       connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
		getSettlementPlan: connect.NewClient[api.GetSettlementPlanRequest, api.GetSettlementPlanResponse](httpClient, baseURL+SettlementServiceGetSettlementPlanProcedure, opts...),
		recordSettlement:  connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+SettlementServiceRecordSettlementProcedure, opts...),
		listSettlements:   connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		deleteSettlement:  connect.NewClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+SettlementServiceDeleteSettlementProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlementPlan *connect.Client[api.GetSettlementPlanRequest, api.GetSettlementPlanResponse]
	recordSettlement  *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	listSettlements   *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	deleteSettlement  *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *settlementServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}
