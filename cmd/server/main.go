package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mistwan/internal/config"
	"mistwan/internal/mist"
	"mistwan/internal/web"
)

func main() {
	// Load .env if exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	setupLogging(cfg.LogLevel)

	client, err := mist.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to create Mist client: %v", err)
	}

	if cfg.OrgID == "" {
		if err := client.AutoDetectOrg(context.Background()); err != nil {
			logrus.Fatalf("Failed to auto-detect organization: %v", err)
		}
		logrus.Infof("Auto-detected org_id: %s", client.OrgID())
	}
	logrus.Infof("Initialized Mist connection to %s for org %s", cfg.Host, client.OrgID())

	// Setup template engine
	engine := html.New("./internal/web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
	})

	web.SetupRoutes(app, client)

	logrus.Infof("Server running at http://%s:%s", cfg.WebHost, cfg.WebPort)
	logrus.Fatal(app.Listen(cfg.WebHost + ":" + cfg.WebPort))
}

func setupLogging(level string) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	switch level {
	case "DEBUG":
		logrus.SetLevel(logrus.DebugLevel)
	case "INFO":
		logrus.SetLevel(logrus.InfoLevel)
	case "WARN":
		logrus.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
