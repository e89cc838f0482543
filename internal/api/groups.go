package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GroupEntry is a directory group as returned by the portal.
type GroupEntry struct {
	DN          string   `json:"dn"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members,omitempty"`
}

// GroupRequest creates a directory group.
type GroupRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	OU          string `json:"ou,omitempty"`
}

// AddMemberRequest adds a member to a group.
type AddMemberRequest struct {
	MemberDN string `json:"memberDn" validate:"required"`
}

// GroupPage is one page of a group search result.
type GroupPage struct {
	Items []GroupEntry `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
}

func groupsPath(dirID int64) string {
	return fmt.Sprintf("/directories/%d/groups", dirID)
}

func groupPath(dirID int64, dn string) string {
	return groupsPath(dirID) + "/" + url.PathEscape(dn)
}

// SearchGroups searches directory groups.
func (c *Client) SearchGroups(ctx context.Context, dirID int64, params SearchParams) (*GroupPage, error) {
	var page GroupPage
	if err := c.do(ctx, http.MethodGet, groupsPath(dirID), params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetGroup returns a single group by DN.
func (c *Client) GetGroup(ctx context.Context, dirID int64, dn string) (*GroupEntry, error) {
	var group GroupEntry
	if err := c.do(ctx, http.MethodGet, groupPath(dirID, dn), nil, nil, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a new directory group.
func (c *Client) CreateGroup(ctx context.Context, dirID int64, req GroupRequest) (*GroupEntry, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid group request: %w", err)
	}
	var group GroupEntry
	if err := c.do(ctx, http.MethodPost, groupsPath(dirID), nil, req, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup removes a directory group.
func (c *Client) DeleteGroup(ctx context.Context, dirID int64, dn string) error {
	return c.do(ctx, http.MethodDelete, groupPath(dirID, dn), nil, nil, nil)
}

// AddGroupMember adds a member DN to a group.
func (c *Client) AddGroupMember(ctx context.Context, dirID int64, dn string, req AddMemberRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid member request: %w", err)
	}
	return c.do(ctx, http.MethodPost, groupPath(dirID, dn)+"/members", nil, req, nil)
}

// RemoveGroupMember removes a member DN from a group.
func (c *Client) RemoveGroupMember(ctx context.Context, dirID int64, dn, memberDN string) error {
	path := groupPath(dirID, dn) + "/members/" + url.PathEscape(memberDN)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
