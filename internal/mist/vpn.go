package mist

import (
	"context"
	"net/url"

	"mistwan/internal/models"
)

type vpnPeersResponse struct {
	Results []models.VPNPeer `json:"results"`
}

// VPNPeers returns the peer path statistics for one gateway, identified by
// its device MAC.
func (c *Client) VPNPeers(ctx context.Context, siteID, mac string) ([]models.VPNPeer, error) {
	params := url.Values{"mac": {mac}}
	var resp vpnPeersResponse
	if err := c.get(ctx, "/api/v1/sites/"+siteID+"/vpn_peers/search", params, &resp); err != nil {
		return nil, &UpstreamError{Op: "search vpn peers", Err: err}
	}
	return resp.Results, nil
}
