package v1

import (
	"context"
	"fmt"
	"strings"
)

type GraphTeam struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type GraphGroup struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type GraphUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ListTeams returns the teams in the tenant, via the Groups endpoint
// filtered down to groups provisioned as Teams.
func (c *GraphClient) ListTeams(ctx context.Context) ([]GraphTeam, error) {
	path := "/groups"
	query := map[string]string{
		"$filter": "resourceProvisioningOptions/Any(x:x eq 'Team')",
		"$select": "id,displayName",
	}
	return getList[GraphTeam](ctx, c.Transport, path, query)
}

// ListUsers returns all users in the tenant.
func (c *GraphClient) ListUsers(ctx context.Context) ([]GraphUser, error) {
	return getList[GraphUser](ctx, c.Transport, "/users", nil)
}

// ListGroupsByNames resolves Azure AD groups by exact displayName match.
func (c *GraphClient) ListGroupsByNames(ctx context.Context, names []string) ([]GraphGroup, error) {
	var result []GraphGroup
	for _, name := range names {
		// single quotes are escaped by doubling them in OData filters
		encoded := strings.ReplaceAll(name, "'", "''")
		query := map[string]string{
			"$filter": fmt.Sprintf("displayName eq '%s'", encoded),
			"$select": "id,displayName",
		}
		groups, err := getList[GraphGroup](ctx, c.Transport, "/groups", query)
		if err != nil {
			return nil, err
		}
		result = append(result, groups...)
	}
	return result, nil
}

// ListGroupMembers returns basic members (id, displayName) of a group.
func (c *GraphClient) ListGroupMembers(ctx context.Context, groupID string) ([]GraphUser, error) {
	path := fmt.Sprintf("/groups/%s/members", groupID)
	query := map[string]string{"$select": "id,displayName"}
	return getList[GraphUser](ctx, c.Transport, path, query)
}
