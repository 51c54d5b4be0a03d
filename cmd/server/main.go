package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wburns02/ReactCRM-sub015/internal/api"
	"github.com/wburns02/ReactCRM-sub015/internal/campaign"
	"github.com/wburns02/ReactCRM-sub015/internal/config"
	"github.com/wburns02/ReactCRM-sub015/internal/database"
	"github.com/wburns02/ReactCRM-sub015/internal/metrics"
	"github.com/wburns02/ReactCRM-sub015/internal/models"
	"github.com/wburns02/ReactCRM-sub015/internal/sms"
	"github.com/wburns02/ReactCRM-sub015/internal/webhook"
	"github.com/wburns02/ReactCRM-sub015/internal/ws"
)

func main() {
	cfg := config.LoadConfig()
	database.InitDB(cfg.DBPath)
	database.InitGorm(cfg)

	plan, err := config.LoadCampaignPlan(cfg.CampaignFile)
	if err != nil {
		log.Fatalf("Invalid campaign plan: %v", err)
	}

	r := gin.Default()

	// CORS Middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	hub := ws.NewHub()
	go hub.Run()

	smsClient := sms.NewClient(cfg)
	store := database.NewGormStepStore(database.GormDB)

	engine, err := campaign.New(plan.Capacity, plan.Blocks, plan.Sequences, store, smsClient,
		campaign.WithNormalizer(sms.NormalizePhone),
		campaign.WithEventFunc(func(event string, data any) {
			if signal, ok := data.(campaign.PacingSignal); ok {
				hub.NotifyPacing(signal)
				return
			}
			hub.NotifyStep(event, data)
		}),
		// Mirror audit entries into the database (fire and forget).
		campaign.WithAuditSink(func(entry campaign.AuditEntry) {
			go func() {
				row := models.AuditLogEntry{Action: entry.Action, Detail: entry.Detail, CreatedAt: entry.At}
				if err := database.GormDB.Create(&row).Error; err != nil {
					log.Printf("Error persisting audit entry: %v", err)
				}
			}()
		}),
	)
	if err != nil {
		log.Fatalf("Failed to build campaign engine: %v", err)
	}
	engine.PlanDay(time.Now())

	dispatcher := engine.StartDispatcher(time.Duration(cfg.DispatchIntervalSeconds) * time.Second)

	webhookHandler := webhook.NewHandler(cfg, engine)
	campaignHandler := api.NewCampaignHandler(engine)
	contactHandler := api.NewContactHandler()
	dashboardHandler := api.NewDashboardHandler(smsClient)

	// Webhook Routes
	r.GET("/webhook", webhookHandler.VerifyWebhook)
	r.POST("/webhook", webhookHandler.HandleCallEvent)

	// WebSocket + Metrics
	r.GET("/ws", func(c *gin.Context) { hub.ServeWs(c.Writer, c.Request) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Dashboard API Routes
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/outcomes", dashboardHandler.GetOutcomes)
		apiGroup.POST("/send", dashboardHandler.SendSms)

		// CRM Routes
		apiGroup.GET("/contacts", contactHandler.GetContacts)
		apiGroup.POST("/contacts", contactHandler.CreateContact)
		apiGroup.PUT("/contacts/:id", contactHandler.UpdateContact)
		apiGroup.DELETE("/contacts/:id", contactHandler.DeleteContact)
		apiGroup.GET("/contacts/export", contactHandler.ExportContacts)

		// Campaign Engine Routes
		campaignGroup := apiGroup.Group("/campaign")
		{
			campaignGroup.GET("/plan", campaignHandler.GetPlan)
			campaignGroup.POST("/plan", campaignHandler.PlanDay)
			campaignGroup.POST("/outcomes", campaignHandler.RecordOutcome)
			campaignGroup.GET("/pacing", campaignHandler.GetPacing)
			campaignGroup.POST("/sequences", campaignHandler.EnqueueSequence)
			campaignGroup.GET("/steps", campaignHandler.GetSteps)
			campaignGroup.GET("/audit", campaignHandler.GetAudit)
			campaignGroup.POST("/dispatch", campaignHandler.Dispatch)
		}
	}

	// Stop the dispatcher cleanly on shutdown so in-flight sends still land.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Shutting down, stopping dispatcher...")
		dispatcher.Stop()
		os.Exit(0)
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
