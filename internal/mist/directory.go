package mist

import (
	"context"

	"github.com/sirupsen/logrus"

	"mistwan/internal/models"
)

// Organizations lists the organizations the API token has access to.
func (c *Client) Organizations(ctx context.Context) ([]models.Organization, error) {
	var self selfResponse
	if err := c.get(ctx, "/api/v1/self", nil, &self); err != nil {
		return nil, &UpstreamError{Op: "list organizations", Err: err}
	}

	orgs := make([]models.Organization, 0, len(self.Privileges))
	for _, priv := range self.Privileges {
		if priv.OrgID == "" || priv.OrgName == "" {
			continue
		}
		role := priv.Role
		if role == "" {
			role = "unknown"
		}
		orgs = append(orgs, models.Organization{OrgID: priv.OrgID, OrgName: priv.OrgName, Role: role})
	}
	return orgs, nil
}

type orgResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
}

// OrganizationInfo returns details of the configured organization.
func (c *Client) OrganizationInfo(ctx context.Context) (models.OrgInfo, error) {
	var org orgResponse
	if err := c.get(ctx, "/api/v1/orgs/"+c.orgID, nil, &org); err != nil {
		return models.OrgInfo{}, &UpstreamError{Op: "get organization", Err: err}
	}
	name := org.Name
	if name == "" {
		name = "Unknown Organization"
	}
	return models.OrgInfo{
		OrgID:       org.ID,
		OrgName:     name,
		CreatedTime: org.CreatedTime,
		UpdatedTime: org.UpdatedTime,
	}, nil
}

// Sites lists the sites in the organization.
func (c *Client) Sites(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	if err := c.get(ctx, "/api/v1/orgs/"+c.orgID+"/sites", nil, &sites); err != nil {
		return nil, &UpstreamError{Op: "list sites", Err: err}
	}
	for i := range sites {
		if sites[i].Timezone == "" {
			sites[i].Timezone = "UTC"
		}
	}
	return sites, nil
}

// siteName fetches a single site's name for gateways whose site was missing
// from the bulk listing. Failure degrades to an empty name.
func (c *Client) siteName(ctx context.Context, siteID string) string {
	var site models.Site
	if err := c.get(ctx, "/api/v1/sites/"+siteID, nil, &site); err != nil {
		logrus.Warnf("Could not fetch site name for %s: %v", siteID, err)
		return ""
	}
	return site.Name
}
