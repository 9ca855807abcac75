package mist

import (
	"context"
	"errors"
	"net/url"

	"mistwan/internal/models"
)

type portStatDetail struct {
	Up         bool    `json:"up"`
	RxBytes    int64   `json:"rx_bytes"`
	TxBytes    int64   `json:"tx_bytes"`
	RxPkts     int64   `json:"rx_pkts"`
	TxPkts     int64   `json:"tx_pkts"`
	RxErrors   int64   `json:"rx_errors"`
	TxErrors   int64   `json:"tx_errors"`
	RxBps      float64 `json:"rx_bps"`
	TxBps      float64 `json:"tx_bps"`
	Speed      int     `json:"speed"`
	Mac        string  `json:"mac"`
	FullDuplex *bool   `json:"full_duplex"`
}

type gatewaySearchResponse struct {
	Results []struct {
		ID       string                    `json:"id"`
		Name     string                    `json:"name"`
		LastSeen int64                     `json:"last_seen"`
		PortStat map[string]portStatDetail `json:"port_stat"`
	} `json:"results"`
}

// GatewayPortStats returns detailed live counters for every port of one
// gateway, keyed by port name.
func (c *Client) GatewayPortStats(ctx context.Context, gatewayID string) (models.GatewayPortStats, error) {
	params := url.Values{"type": {"gateway"}, "mac": {gatewayID}}
	var resp gatewaySearchResponse
	if err := c.get(ctx, "/api/v1/orgs/"+c.orgID+"/devices/search", params, &resp); err != nil {
		return models.GatewayPortStats{}, &UpstreamError{Op: "search gateway", Err: err}
	}
	if len(resp.Results) == 0 {
		return models.GatewayPortStats{}, errors.New("mist: gateway not found: " + gatewayID)
	}

	gw := resp.Results[0]
	ports := make(map[string]models.PortStat, len(gw.PortStat))
	for name, stat := range gw.PortStat {
		fullDuplex := true
		if stat.FullDuplex != nil {
			fullDuplex = *stat.FullDuplex
		}
		ports[name] = models.PortStat{
			Up:         stat.Up,
			RxBytes:    stat.RxBytes,
			TxBytes:    stat.TxBytes,
			RxPkts:     stat.RxPkts,
			TxPkts:     stat.TxPkts,
			RxErrors:   stat.RxErrors,
			TxErrors:   stat.TxErrors,
			RxBps:      stat.RxBps,
			TxBps:      stat.TxBps,
			Speed:      stat.Speed,
			Mac:        stat.Mac,
			FullDuplex: fullDuplex,
		}
	}

	return models.GatewayPortStats{
		GatewayID:   gw.ID,
		GatewayName: deviceName(gw.Name),
		Ports:       ports,
		Timestamp:   gw.LastSeen,
	}, nil
}
