package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rwagency/intent-agent/internal/config"
	"github.com/rwagency/intent-agent/internal/infra/database"
	"github.com/rwagency/intent-agent/internal/infra/gemini"
	"github.com/rwagency/intent-agent/internal/infra/http/handlers"
	"github.com/rwagency/intent-agent/internal/infra/http/middleware"
	"github.com/rwagency/intent-agent/internal/infra/mail"
	"github.com/rwagency/intent-agent/internal/infra/queue"
	"github.com/rwagency/intent-agent/internal/infra/worker"
	"github.com/rwagency/intent-agent/internal/outreach"
	"github.com/rwagency/intent-agent/internal/usecase"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.NewDBConnection(cfg.Database.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.User, cfg.RabbitMQ.Pass, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	ctx := context.Background()

	// 1. Repositório
	leadRepo := database.NewLeadRepository(db)

	// 2. Gateways e Adapters
	aiClient, err := gemini.NewClient(ctx,
		cfg.Gemini.APIKey, cfg.Gemini.ScoutModel, cfg.Gemini.AuditModel,
		cfg.Gemini.Consultant, cfg.Gemini.Timeout,
	)
	if err != nil {
		log.Fatal(err)
	}
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
		cfg.Mail.From, cfg.Mail.Operator,
	)

	// 3. Workers (consomem a fila / limpam envios travados)
	outreachWorker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go outreachWorker.Start(queue.QueueName)

	staleWorker := worker.NewStaleSendingWorker(db)
	go staleWorker.Start(ctx)

	// 4. UseCases
	importUC := usecase.NewImportLeadUseCase(leadRepo)
	analyzeUC := usecase.NewAnalyzeLeadUseCase(leadRepo, aiClient, aiClient)
	approveUC := usecase.NewApproveLeadUseCase(leadRepo)
	discoverUC := usecase.NewDiscoverLeadsUseCase(aiClient)

	// 5. Campaign runner + scheduler de agendados
	runner := outreach.NewRunner(leadRepo, producer, outreach.Config{
		MinDelay:        time.Duration(cfg.Campaign.MinDelayMs) * time.Millisecond,
		MaxDelay:        time.Duration(cfg.Campaign.MaxDelayMs) * time.Millisecond,
		Pause:           time.Duration(cfg.Campaign.PauseMs) * time.Millisecond,
		MaxAttempts:     cfg.Campaign.MaxAttempts,
		RetryBackoff:    time.Duration(cfg.Campaign.RetryBackoffMs) * time.Millisecond,
		DispatchTimeout: 10 * time.Second,
		RequeueOnStop:   cfg.Campaign.RequeueOnStop,
	})
	if cfg.Campaign.SchedulerEnable {
		scheduler := outreach.NewScheduler(runner, cfg.Campaign.SchedulerSpec)
		if err := scheduler.Start(); err != nil {
			log.Fatal(err)
		}
		defer scheduler.Stop()
	}

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(leadRepo, importUC, analyzeUC, approveUC)
	discoveryHandler := handlers.NewDiscoveryHandler(discoverUC, importUC)
	campaignHandler := handlers.NewCampaignHandler(runner, leadRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/leads", leadHandler.HandleList)
	r.Post("/leads", leadHandler.HandleCreate)
	r.Post("/leads/{leadId}/analyze", leadHandler.HandleAnalyze)
	r.Post("/leads/{leadId}/approve", leadHandler.HandleApprove)

	r.Post("/discovery/search", discoveryHandler.HandleSearch)
	r.Post("/discovery/import", discoveryHandler.HandleImport)

	r.Post("/campaign/start", campaignHandler.HandleStart)
	r.Post("/campaign/stop", campaignHandler.HandleStop)
	r.Get("/campaign/status", campaignHandler.HandleStatus)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("🔥 Intent Agent rodando na porta %s", addr)
	http.ListenAndServe(addr, r)
}
