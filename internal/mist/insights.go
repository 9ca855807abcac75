package mist

import (
	"context"

	"github.com/google/go-querystring/query"
	"github.com/sirupsen/logrus"

	"mistwan/internal/models"
	"mistwan/internal/timewindow"
)

type insightsQuery struct {
	Interval int    `url:"interval"`
	Start    int64  `url:"start"`
	End      int64  `url:"end"`
	PortID   string `url:"port_id"`
	Metrics  string `url:"metrics"`
}

// Null samples from the insights API decode to nil.
type insightsResponse struct {
	RxBps []*float64 `json:"rx_bps"`
	TxBps []*float64 `json:"tx_bps"`
}

func (c *Client) fetchInsights(ctx context.Context, siteID, deviceID, portID string, start, end int64, interval int) (insightsResponse, error) {
	params, err := query.Values(insightsQuery{
		Interval: interval,
		Start:    start,
		End:      end,
		PortID:   portID,
		Metrics:  "rx_bps,tx_bps",
	})
	if err != nil {
		return insightsResponse{}, err
	}

	var resp insightsResponse
	err = c.get(ctx, "/api/v1/sites/"+siteID+"/insights/gateway/"+deviceID+"/stats", params, &resp)
	return resp, err
}

// PortTotals integrates the bits-per-second series for one port over
// [start, end) into total bytes. A failed fetch degrades to zero totals so
// one bad port never fails a whole gateway listing.
func (c *Client) PortTotals(ctx context.Context, siteID, deviceID, portID string, start, end int64) models.TrafficTotals {
	interval := timewindow.Interval(start, end)

	resp, err := c.fetchInsights(ctx, siteID, deviceID, portID, start, end, interval)
	if err != nil {
		logrus.Warnf("Error fetching insights data for port %s: %v", portID, err)
		return models.TrafficTotals{}
	}

	return models.TrafficTotals{
		RxBytes: sumBytes(resp.RxBps, interval),
		TxBytes: sumBytes(resp.TxBps, interval),
	}
}

// sumBytes accumulates floor(bps * interval / 8) per sample. Null and
// non-positive samples mean no traffic that interval and contribute zero.
func sumBytes(samples []*float64, interval int) int64 {
	var total int64
	for _, bps := range samples {
		if bps == nil || *bps <= 0 {
			continue
		}
		total += int64(*bps * float64(interval) / 8)
	}
	return total
}

// PortTraffic returns the raw timestamped bps series for one port. Unlike
// PortTotals this surfaces upstream failures, since the caller asked for the
// series itself.
func (c *Client) PortTraffic(ctx context.Context, siteID, deviceID, portID string, start, end int64, interval int) (models.TrafficSeries, error) {
	resp, err := c.fetchInsights(ctx, siteID, deviceID, portID, start, end, interval)
	if err != nil {
		return models.TrafficSeries{}, &UpstreamError{Op: "port traffic", Err: err}
	}

	timestamps := make([]int64, len(resp.RxBps))
	for i := range timestamps {
		timestamps[i] = start + int64(i*interval)
	}
	return models.TrafficSeries{
		Timestamps: timestamps,
		RxBps:      resp.RxBps,
		TxBps:      resp.TxBps,
	}, nil
}
