package api

// Group is a set of members who share expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

// ResetGroupRequest clears every expense and settlement of a group. Members stay.
type ResetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ResetGroupResponse struct{}
