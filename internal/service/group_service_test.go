package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/pkg/api"
)

// createTestGroup creates a group and returns its ID.
func createTestGroup(t *testing.T, ts *testServer, name string, members ...string) string {
	t.Helper()

	resp, err := ts.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    name,
		Members: members,
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return resp.Msg.Group.ID
}

func TestCreateGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	resp, err := ts.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Roommates",
		Members: []string{"Alice", " Bob ", "Charlie", "Alice"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if resp.Msg.Group == nil {
		t.Fatal("expected group in response")
	}
	if resp.Msg.Group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if resp.Msg.Group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", resp.Msg.Group.Name)
	}

	want := []string{"Alice", "Bob", "Charlie"}
	if len(resp.Msg.Group.Members) != len(want) {
		t.Fatalf("members: expected %v, got %v", want, resp.Msg.Group.Members)
	}
	for i, m := range want {
		if resp.Msg.Group.Members[i] != m {
			t.Errorf("member %d: expected %s, got %s", i, m, resp.Msg.Group.Members[i])
		}
	}

	if resp.Msg.Group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGroup_InvalidArgument(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	tests := []struct {
		name string
		req  *api.CreateGroupRequest
	}{
		{name: "missing name", req: &api.CreateGroupRequest{Name: "  ", Members: []string{"A"}}},
		{name: "blank member", req: &api.CreateGroupRequest{Name: "Trip", Members: []string{"A", " "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.groups.CreateGroup(context.Background(), connect.NewRequest(tt.req))
			requireCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestGetGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	groupID := createTestGroup(t, ts, "Work Lunch", "Diana", "Eve")

	getResp, err := ts.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: groupID,
	}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	if getResp.Msg.Group.Name != "Work Lunch" {
		t.Errorf("name: expected 'Work Lunch', got '%s'", getResp.Msg.Group.Name)
	}
	if len(getResp.Msg.Group.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(getResp.Msg.Group.Members))
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	_, err := ts.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: "nonexistent-id",
	}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestListGroups(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	createTestGroup(t, ts, "Group A", "A1", "A2")
	createTestGroup(t, ts, "Group B", "B1", "B2")

	listResp, err := ts.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}

	if len(listResp.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(listResp.Msg.Groups))
	}
	if listResp.Msg.Groups[0].Name != "Group A" {
		t.Errorf("expected oldest group first, got %s", listResp.Msg.Groups[0].Name)
	}
	for _, g := range listResp.Msg.Groups {
		if len(g.Members) == 0 {
			t.Errorf("group %s has no members", g.Name)
		}
	}
}

func TestListGroups_Empty(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	listResp, err := ts.groups.ListGroups(context.Background(), connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}

	if len(listResp.Msg.Groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(listResp.Msg.Groups))
	}
}

func TestAddMember(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	groupID := createTestGroup(t, ts, "Trip", "X", "Y")

	resp, err := ts.groups.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{
		GroupID: groupID,
		Name:    "Z",
	}))
	if err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	members := resp.Msg.Group.Members
	if len(members) != 3 || members[2] != "Z" {
		t.Errorf("expected Z appended, got %v", members)
	}

	_, err = ts.groups.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{
		GroupID: groupID,
		Name:    "Z",
	}))
	requireCode(t, err, connect.CodeAlreadyExists)

	_, err = ts.groups.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{
		GroupID: "nonexistent-id",
		Name:    "W",
	}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestDeleteGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()

	groupID := createTestGroup(t, ts, "To Be Deleted", "Delete", "Me")

	_, err := ts.groups.DeleteGroup(context.Background(), connect.NewRequest(&api.DeleteGroupRequest{
		GroupID: groupID,
	}))
	if err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = ts.groups.GetGroup(context.Background(), connect.NewRequest(&api.GetGroupRequest{
		GroupID: groupID,
	}))
	requireCode(t, err, connect.CodeNotFound)

	_, err = ts.groups.DeleteGroup(context.Background(), connect.NewRequest(&api.DeleteGroupRequest{
		GroupID: groupID,
	}))
	requireCode(t, err, connect.CodeNotFound)
}

func TestResetGroup(t *testing.T) {
	ts, cleanup := setupTestServer(t, "")
	defer cleanup()
	ctx := context.Background()

	groupID := createTestGroup(t, ts, "Flat", "A", "B")
	createTestExpense(t, ts, &api.CreateExpenseRequest{
		GroupID: groupID,
		Amount:  "40.00",
		PaidBy:  "A",
	})
	if _, err := ts.settlements.RecordSettlement(ctx, connect.NewRequest(&api.RecordSettlementRequest{
		GroupID: groupID,
		From:    "B",
		To:      "A",
		Amount:  "5",
	})); err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	if _, err := ts.groups.ResetGroup(ctx, connect.NewRequest(&api.ResetGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("ResetGroup failed: %v", err)
	}

	expenses, err := ts.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(expenses.Msg.Expenses) != 0 {
		t.Errorf("expected no expenses after reset, got %d", len(expenses.Msg.Expenses))
	}

	plan, err := ts.settlements.GetSettlementPlan(ctx, connect.NewRequest(&api.GetSettlementPlanRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetSettlementPlan failed: %v", err)
	}
	if !plan.Msg.Settled {
		t.Errorf("expected settled group after reset, got %v", plan.Msg.Transfers)
	}

	group, err := ts.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if len(group.Msg.Group.Members) != 2 {
		t.Errorf("reset must keep members, got %v", group.Msg.Group.Members)
	}

	recorded := ts.events.Events()
	last := recorded[len(recorded)-1]
	if last.Type != events.GroupReset || last.GroupID != groupID {
		t.Errorf("expected %s event for %s, got %+v", events.GroupReset, groupID, last)
	}
}
