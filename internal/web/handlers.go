package web

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"mistwan/internal/mist"
	"mistwan/internal/timewindow"
)

// SetupRoutes wires the dashboard page and the JSON API onto the app. The
// Mist client is injected so handlers hold no global session state.
func SetupRoutes(app *fiber.App, client *mist.Client) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{})
	})

	// Health check endpoint for container orchestration
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Get("/api/organization", func(c *fiber.Ctx) error {
		info, err := client.OrganizationInfo(c.UserContext())
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, info)
	})

	app.Get("/api/organizations", func(c *fiber.Ctx) error {
		orgs, err := client.Organizations(c.UserContext())
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, orgs)
	})

	app.Get("/api/sites", func(c *fiber.Ctx) error {
		sites, err := client.Sites(c.UserContext())
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, sites)
	})

	app.Get("/api/gateways", func(c *fiber.Ctx) error {
		siteID := c.Query("site_id")
		duration := c.Query("duration", "7d")

		start, end := timewindow.Resolve(duration)
		logrus.Infof("Fetching gateway stats with timeframe: %s (start=%d, end=%d)", duration, start, end)

		gateways, err := client.GatewayStats(c.UserContext(), siteID, start, end)
		if err != nil {
			logrus.Errorf("Error fetching gateway stats: %v", err)
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, gateways)
	})

	app.Get("/api/gateway/:id/ports", func(c *fiber.Ctx) error {
		stats, err := client.GatewayPortStats(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, stats)
	})

	// Port ids like "ge-0/0/1" contain slashes, hence the greedy segment.
	app.Get("/api/gateway/:id/port/+/traffic", func(c *fiber.Ctx) error {
		portID := c.Params("+")
		if decoded, err := url.PathUnescape(portID); err == nil {
			portID = decoded
		}

		siteID := c.Query("site_id")
		start := int64(c.QueryInt("start", 0))
		end := int64(c.QueryInt("end", 0))
		interval := c.QueryInt("interval", 600)

		if siteID == "" || start == 0 || end == 0 {
			return failMsg(c, fiber.StatusBadRequest, "site_id, start, and end are required")
		}

		logrus.Infof("Fetching traffic for gateway %s, port %s, interval %d", c.Params("id"), portID, interval)

		series, err := client.PortTraffic(c.UserContext(), siteID, c.Params("id"), portID, start, end, interval)
		if err != nil {
			logrus.Errorf("Error fetching port traffic: %v", err)
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, series)
	})

	app.Get("/api/gateway/:id/vpn_peers", func(c *fiber.Ctx) error {
		siteID := c.Query("site_id")
		mac := c.Query("mac")

		if siteID == "" || mac == "" {
			return failMsg(c, fiber.StatusBadRequest, "site_id and mac are required")
		}

		logrus.Infof("Fetching VPN peers for gateway %s (MAC: %s)", c.Params("id"), mac)

		peers, err := client.VPNPeers(c.UserContext(), siteID, mac)
		if err != nil {
			logrus.Errorf("Error fetching VPN peers: %v", err)
			return fail(c, fiber.StatusInternalServerError, err)
		}
		return ok(c, peers)
	})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, err error) error {
	return failMsg(c, status, err.Error())
}

func failMsg(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}
