package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"guardpost.app/guardpost/core"
	"guardpost.app/guardpost/infrastructure/communication"
	"guardpost.app/guardpost/infrastructure/devops"
	"guardpost.app/guardpost/infrastructure/spreadsheet"
	"guardpost.app/guardpost/web/handlers"
)

func main() {
	config, err := devops.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	secret, err := config.DecodeSigningSecret()
	if err != nil {
		log.Fatalf("signing secret: %v", err)
	}

	dm, err := core.New(config.DSN, config.MaxConns)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	mirror := spreadsheet.NewMirror(config.WorkbookPath)

	notifier := &communication.Notifier{}
	if config.Slack.BotToken != "" && config.Slack.IncidentChanID != "" {
		notifier.Slack = communication.NewSlack(config.Slack.BotToken, communication.SlackOption{
			IncidentChannelID: config.Slack.IncidentChanID,
		})
	}
	if config.Mail.Host != "" && len(config.Mail.To) > 0 {
		notifier.Mailer = communication.NewMailer(
			config.Mail.Host, config.Mail.Port,
			config.Mail.Username, config.Mail.Password,
			config.Mail.To,
		)
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Attendance API running"})
	})
	r.Static("/uploads", config.UploadDir)

	h := handlers.New(dm, secret, mirror, notifier, config.UploadDir, config.ImageBucket)
	h.Register(r)

	r.Run(config.ListenAddr)
}
