package mist

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mistwan/internal/models"
)

// Wire shapes of the three gateway endpoints. They share no common port
// identifier, which is why the merge below joins on description strings.

type deviceStat struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SiteID  string `json:"site_id"`
	Model   string `json:"model"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Uptime  int64  `json:"uptime"`
	IP      string `json:"ip"`
	Mac     string `json:"mac"`
}

type wanPortStat struct {
	Mac        string `json:"mac"`
	DeviceType string `json:"device_type"`
	PortUsage  string `json:"port_usage"`
	PortID     string `json:"port_id"`
	PortDesc   string `json:"port_desc"`
	Up         bool   `json:"up"`
	RxBytes    int64  `json:"rx_bytes"`
	TxBytes    int64  `json:"tx_bytes"`
	RxPkts     int64  `json:"rx_pkts"`
	TxPkts     int64  `json:"tx_pkts"`
	RxErrors   int64  `json:"rx_errors"`
	TxErrors   int64  `json:"tx_errors"`
	Speed      int    `json:"speed"`
	PortMac    string `json:"port_mac"`
}

type portSearchResponse struct {
	Results []wanPortStat `json:"results"`
}

type ipConfig struct {
	Type    string `json:"type"`
	IP      string `json:"ip"`
	Netmask string `json:"netmask"`
	Gateway string `json:"gateway"`
}

type portConfigEntry struct {
	Usage       string   `json:"usage"`
	Description string   `json:"description"`
	Disabled    bool     `json:"disabled"`
	Override    bool     `json:"override"`
	IPConfig    ipConfig `json:"ip_config"`
}

type deviceConfig struct {
	PortConfig map[string]portConfigEntry `json:"port_config"`
}

type ifStat struct {
	PortUsage   string   `json:"port_usage"`
	PortID      string   `json:"port_id"`
	IPs         []string `json:"ips"`
	AddressMode string   `json:"address_mode"`
}

type deviceSearchResponse struct {
	Results []struct {
		IfStat map[string]ifStat `json:"if_stat"`
	} `json:"results"`
}

// GatewayStats lists the organization's gateways with one unified record per
// WAN port. When start and end are both set, port byte counters come from
// the insights API over that window instead of the cumulative lifetime
// counters. Only the org-level device stats call can fail the listing; every
// per-device and per-port fetch degrades with a warning.
func (c *Client) GatewayStats(ctx context.Context, siteID string, start, end int64) ([]models.Gateway, error) {
	sites, err := c.Sites(ctx)
	if err != nil {
		return nil, err
	}
	siteNames := make(map[string]string, len(sites))
	for _, s := range sites {
		siteNames[s.ID] = s.Name
	}

	var devices []deviceStat
	if err := c.get(ctx, "/api/v1/orgs/"+c.orgID+"/stats/devices", url.Values{"type": {"gateway"}}, &devices); err != nil {
		return nil, &UpstreamError{Op: "list gateway device stats", Err: err}
	}

	wanPorts := c.wanPortsByDevice(ctx, devices, start, end)

	gateways := make([]models.Gateway, 0, len(devices))
	for _, dev := range devices {
		if siteID != "" && dev.SiteID != siteID {
			continue
		}

		// Bulk site listing can miss sites on paginated orgs.
		name := siteNames[dev.SiteID]
		if name == "" && dev.SiteID != "" {
			name = c.siteName(ctx, dev.SiteID)
		}

		configs := c.portConfigsByDescription(ctx, dev.SiteID, dev.ID)
		runtime := c.runtimeWANInterfaces(ctx, dev.SiteID, dev.Mac)
		ports := c.mergePorts(ctx, dev, wanPorts[dev.Mac], configs, runtime, start, end)

		gateways = append(gateways, models.Gateway{
			ID:       dev.ID,
			Name:     deviceName(dev.Name),
			SiteID:   dev.SiteID,
			SiteName: name,
			Model:    dev.Model,
			Version:  dev.Version,
			Status:   deviceStatus(dev.Status),
			Uptime:   dev.Uptime,
			IP:       dev.IP,
			Mac:      dev.Mac,
			Ports:    ports,
			NumPorts: len(ports),
		})
	}
	return gateways, nil
}

func deviceName(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}

func deviceStatus(status string) string {
	if status == "" {
		return "unknown"
	}
	return status
}

// wanPortsByDevice queries port stats once per site and groups gateway WAN
// ports by device MAC.
func (c *Client) wanPortsByDevice(ctx context.Context, devices []deviceStat, start, end int64) map[string][]wanPortStat {
	siteIDs := make(map[string]struct{})
	for _, dev := range devices {
		if dev.SiteID != "" {
			siteIDs[dev.SiteID] = struct{}{}
		}
	}

	byDevice := make(map[string][]wanPortStat)
	for siteID := range siteIDs {
		params := url.Values{}
		if start > 0 {
			params.Set("start", strconv.FormatInt(start, 10))
		}
		if end > 0 {
			params.Set("end", strconv.FormatInt(end, 10))
		}

		var resp portSearchResponse
		if err := c.get(ctx, "/api/v1/sites/"+siteID+"/stats/ports/search", params, &resp); err != nil {
			logrus.Warnf("Port stats search failed for site %s: %v", siteID, err)
			continue
		}
		for _, port := range resp.Results {
			if port.DeviceType == "gateway" && port.PortUsage == "wan" {
				byDevice[port.Mac] = append(byDevice[port.Mac], port)
			}
		}
	}
	return byDevice
}

// portConfigsByDescription fetches a device's static configuration and keys
// its WAN port entries by trimmed description. The stats and config
// endpoints share no port identifier, so the description string is the join
// key; colliding descriptions keep the last entry seen.
func (c *Client) portConfigsByDescription(ctx context.Context, siteID, deviceID string) map[string]models.PortConfig {
	configs := make(map[string]models.PortConfig)
	if siteID == "" || deviceID == "" {
		return configs
	}

	var cfg deviceConfig
	if err := c.get(ctx, "/api/v1/sites/"+siteID+"/devices/"+deviceID, nil, &cfg); err != nil {
		logrus.Warnf("Could not fetch config for gateway %s: %v", deviceID, err)
		return configs
	}

	// Walk port names in sorted order so a colliding description keeps a
	// stable winner; map iteration would pick one at random.
	names := make([]string, 0, len(cfg.PortConfig))
	for name := range cfg.PortConfig {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, portName := range names {
		entry := cfg.PortConfig[portName]
		if entry.Usage != "wan" {
			continue
		}
		desc := strings.TrimSpace(entry.Description)
		if desc == "" {
			logrus.Warnf("WAN port %s on gateway %s has no description, config cannot be joined", portName, deviceID)
			continue
		}
		if _, dup := configs[desc]; dup {
			logrus.Warnf("Duplicate WAN port description %q on gateway %s, keeping the last entry", desc, deviceID)
		}

		cfgType := entry.IPConfig.Type
		if cfgType == "" {
			cfgType = "dhcp"
		}
		override := "no"
		if entry.Override {
			override = "yes"
		}

		configs[desc] = models.PortConfig{
			Description: desc,
			IP:          entry.IPConfig.IP,
			Netmask:     entry.IPConfig.Netmask,
			Gateway:     entry.IPConfig.Gateway,
			Type:        cfgType,
			Override:    override,
			Disabled:    entry.Disabled,
		}
	}
	return configs
}

// runtimeWANInterfaces fetches live interface state and extracts the actual
// assigned address of each WAN interface, keyed by the interface's own port
// id. Static config never reflects a DHCP lease, so this is where DHCP
// addresses come from.
func (c *Client) runtimeWANInterfaces(ctx context.Context, siteID, mac string) map[string]models.RuntimeInterface {
	runtime := make(map[string]models.RuntimeInterface)
	if siteID == "" || mac == "" {
		return runtime
	}

	params := url.Values{"type": {"gateway"}, "mac": {mac}, "stats": {"true"}}
	var resp deviceSearchResponse
	if err := c.get(ctx, "/api/v1/sites/"+siteID+"/devices/search", params, &resp); err != nil {
		logrus.Warnf("Could not fetch runtime interfaces for gateway %s: %v", mac, err)
		return runtime
	}
	if len(resp.Results) == 0 {
		return runtime
	}

	for _, stat := range resp.Results[0].IfStat {
		if stat.PortUsage != "wan" || len(stat.IPs) == 0 {
			continue
		}
		ip, prefix, ok := splitCIDR(stat.IPs[0])
		if !ok {
			continue
		}
		mode := stat.AddressMode
		if mode == "" {
			mode = "unknown"
		}
		runtime[stat.PortID] = models.RuntimeInterface{
			IP:          ip,
			Netmask:     netmaskFromPrefix(prefix),
			AddressMode: mode,
		}
	}
	return runtime
}

// mergePorts builds the unified record for each WAN port reported by the
// stats endpoint: configuration joined by description, addresses resolved
// DHCP-vs-static, byte counters windowed or cumulative.
func (c *Client) mergePorts(ctx context.Context, dev deviceStat, wanPorts []wanPortStat, configs map[string]models.PortConfig, runtime map[string]models.RuntimeInterface, start, end int64) []models.PortRecord {
	records := make([]models.PortRecord, 0, len(wanPorts))
	for _, port := range wanPorts {
		desc := strings.TrimSpace(port.PortDesc)

		cfg, found := configs[desc]
		if !found {
			// Unconfigured WAN ports almost always run DHCP.
			cfg = models.PortConfig{Description: desc, Type: "dhcp", Override: "no"}
		}

		var ip, netmask string
		if rt, ok := runtime[port.PortID]; ok && cfg.Type == "dhcp" {
			ip = rt.IP
			netmask = prefixFromNetmask(rt.Netmask)
		} else {
			ip = strings.TrimSpace(cfg.IP)
			netmask = strings.TrimPrefix(strings.TrimSpace(cfg.Netmask), "/")
		}

		rxBytes, txBytes := port.RxBytes, port.TxBytes
		if start > 0 && end > 0 && dev.SiteID != "" && dev.ID != "" {
			totals := c.PortTotals(ctx, dev.SiteID, dev.ID, port.PortID, start, end)
			rxBytes, txBytes = totals.RxBytes, totals.TxBytes
		}

		records = append(records, models.PortRecord{
			Name:        port.PortID,
			Description: cfg.Description,
			Enabled:     port.Up && !cfg.Disabled,
			Usage:       "wan",
			IP:          ip,
			Netmask:     netmask,
			Gateway:     cfg.Gateway,
			Type:        cfg.Type,
			Override:    cfg.Override,
			Up:          port.Up,
			RxBytes:     rxBytes,
			TxBytes:     txBytes,
			RxPkts:      port.RxPkts,
			TxPkts:      port.TxPkts,
			RxErrors:    port.RxErrors,
			TxErrors:    port.TxErrors,
			Speed:       port.Speed,
			Mac:         port.PortMac,
		})
	}
	return records
}
