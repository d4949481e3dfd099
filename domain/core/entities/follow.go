package entities

import pkgerrors "pulse-backend/pkg/errors"

// FollowEdge is a directed edge in the social graph: follower → followed.
// At most one edge exists per ordered pair; self-edges are invalid.
type FollowEdge struct {
	FollowerID  string `json:"followerId"`
	FollowingID string `json:"followingId"`
}

// NewFollowEdge creates a follow edge, rejecting self-edges
func NewFollowEdge(followerID, followingID string) (FollowEdge, error) {
	if followerID == "" || followingID == "" {
		return FollowEdge{}, pkgerrors.NewValidationError("follower and following ids are required")
	}
	if followerID == followingID {
		return FollowEdge{}, pkgerrors.NewValidationError("cannot follow yourself")
	}

	return FollowEdge{FollowerID: followerID, FollowingID: followingID}, nil
}

// IsSelf reports whether the ordered pair is a self-edge
func (e FollowEdge) IsSelf() bool {
	return e.FollowerID == e.FollowingID
}
