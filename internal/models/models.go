package models

// Organization is one entry from the caller's access privileges.
type Organization struct {
	OrgID   string `json:"org_id"`
	OrgName string `json:"org_name"`
	Role    string `json:"role"`
}

// OrgInfo describes the organization all queries are scoped to.
type OrgInfo struct {
	OrgID       string `json:"org_id"`
	OrgName     string `json:"org_name"`
	CreatedTime int64  `json:"created_time"`
	UpdatedTime int64  `json:"updated_time"`
}

type Site struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Timezone   string `json:"timezone"`
	NumDevices int    `json:"num_devices"`
}

// Gateway is one gateway device with its reconciled WAN ports.
type Gateway struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	SiteID   string       `json:"site_id"`
	SiteName string       `json:"site_name"`
	Model    string       `json:"model"`
	Version  string       `json:"version"`
	Status   string       `json:"status"`
	Uptime   int64        `json:"uptime"`
	IP       string       `json:"ip"`
	Mac      string       `json:"mac"`
	Ports    []PortRecord `json:"ports"`
	NumPorts int          `json:"num_ports"`
}

// PortConfig is the static WAN configuration of one port, keyed by its
// trimmed description when joined against live port stats.
type PortConfig struct {
	Description string `json:"description"`
	IP          string `json:"ip"`
	Netmask     string `json:"netmask"`
	Gateway     string `json:"gateway"`
	Type        string `json:"type"`
	Override    string `json:"override"`
	Disabled    bool   `json:"disabled"`
}

// RuntimeInterface is the live address state of one WAN interface. For DHCP
// ports this is the only place the leased address shows up.
type RuntimeInterface struct {
	IP          string `json:"ip"`
	Netmask     string `json:"netmask"`
	AddressMode string `json:"address_mode"`
}

// PortRecord is the unified per-port record the dashboard renders. It merges
// live port stats, static configuration, and (for DHCP ports) runtime
// interface state; netmask is a CIDR prefix length in decimal.
type PortRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Usage       string `json:"usage"`
	IP          string `json:"ip"`
	Netmask     string `json:"netmask"`
	Gateway     string `json:"gateway"`
	Type        string `json:"type"`
	Override    string `json:"override"`
	Up          bool   `json:"up"`
	RxBytes     int64  `json:"rx_bytes"`
	TxBytes     int64  `json:"tx_bytes"`
	RxPkts      int64  `json:"rx_pkts"`
	TxPkts      int64  `json:"tx_pkts"`
	RxErrors    int64  `json:"rx_errors"`
	TxErrors    int64  `json:"tx_errors"`
	Speed       int    `json:"speed"`
	Mac         string `json:"mac"`
}

// PortStat is one port's detailed live counters.
type PortStat struct {
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
	FullDuplex bool    `json:"full_duplex"`
}

// GatewayPortStats is the detailed port report for one gateway, keyed by
// port name.
type GatewayPortStats struct {
	GatewayID   string              `json:"gateway_id"`
	GatewayName string              `json:"gateway_name"`
	Ports       map[string]PortStat `json:"ports"`
	Timestamp   int64               `json:"timestamp"`
}

// TrafficTotals is the integrated byte count over a time window.
type TrafficTotals struct {
	RxBytes int64 `json:"rx_bytes"`
	TxBytes int64 `json:"tx_bytes"`
}

// TrafficSeries is a raw bits-per-second series. Samples are pointers so a
// null sample from the insights API stays null on the way out.
type TrafficSeries struct {
	Timestamps []int64    `json:"timestamps"`
	RxBps      []*float64 `json:"rx_bps"`
	TxBps      []*float64 `json:"tx_bps"`
}

// VPNPeer is one peer path reported for a gateway.
type VPNPeer struct {
	Mac        string  `json:"mac"`
	PortID     string  `json:"port_id"`
	PeerMac    string  `json:"peer_mac"`
	PeerPortID string  `json:"peer_port_id"`
	PeerSiteID string  `json:"peer_site_id"`
	Up         bool    `json:"up"`
	Latency    float64 `json:"latency"`
	Jitter     float64 `json:"jitter"`
	Loss       float64 `json:"loss"`
	Uptime     int64   `json:"uptime"`
}
