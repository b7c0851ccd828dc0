package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// Ensure GroupService implements the Connect handler interface
var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, publisher: publisher, logger: logger}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	s.logger.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(invalidf("group name is required"))
	}
	members, err := normalizeMembers(req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	group := &models.Group{Name: name, Members: members}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	s.logger.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups retrieves all active groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	s.logger.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		s.logger.Error("ListGroups failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = groupToAPI(group)
	}

	s.logger.Info("ListGroups successful", "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// DeleteGroup soft-deletes a group.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	s.logger.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Group deleted", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// AddMember adds a member to a group and returns the updated group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	s.logger.Info("AddMember request received", "group_id", req.Msg.GroupID, "name", req.Msg.Name)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(invalidf("member name is required"))
	}

	if err := s.store.AddMember(ctx, req.Msg.GroupID, name); err != nil {
		s.logger.Warn("AddMember failed", "group_id", req.Msg.GroupID, "name", name, "error", err)
		return nil, toConnectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		s.logger.Error("Failed to fetch updated group", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Member added", "group_id", group.ID, "name", name)
	return connect.NewResponse(&api.AddMemberResponse{Group: groupToAPI(group)}), nil
}

// ResetGroup clears every expense and settlement of a group.
func (s *GroupService) ResetGroup(ctx context.Context, req *connect.Request[api.ResetGroupRequest]) (*connect.Response[api.ResetGroupResponse], error) {
	s.logger.Info("ResetGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.ResetGroup(ctx, req.Msg.GroupID); err != nil {
		s.logger.Error("ResetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	publish(ctx, s.publisher, s.logger, events.New(events.GroupReset, req.Msg.GroupID, ""))
	s.logger.Info("Group reset", "group_id", req.Msg.GroupID)
	return connect.NewResponse(&api.ResetGroupResponse{}), nil
}

// publish sends an event without failing the request; the change is already stored.
func publish(ctx context.Context, publisher events.Publisher, logger *slog.Logger, e events.Event) {
	if err := publisher.Publish(ctx, e); err != nil {
		logger.Warn("Failed to publish event", "type", e.Type, "group_id", e.GroupID, "error", err)
	}
}
