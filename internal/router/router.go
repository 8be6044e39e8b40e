package router

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"telephony-gateway/internal/collector"
	"telephony-gateway/internal/endpoints"
	"telephony-gateway/internal/util"
)

func NewRouter(orchestrator *collector.Orchestrator, scheduler *collector.Scheduler, webSlogger *util.GatewayLogger) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, orchestrator, scheduler, webSlogger)

	r.Use(loggingMiddleware(webSlogger))

	return r
}

func addRoutes(r *mux.Router, orchestrator *collector.Orchestrator, scheduler *collector.Scheduler, webSlogger *util.GatewayLogger) {
	collectHandler := &endpoints.Collect{}
	collectHandler.Init(orchestrator, webSlogger)

	healthHandler := &endpoints.Health{}
	healthHandler.Init(scheduler, orchestrator, webSlogger)

	r.HandleFunc("/api/collect", collectHandler.TriggerCollectionHandler).Methods("GET")
	r.HandleFunc("/health", healthHandler.HealthHandler).Methods("GET")
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func Run(addr string, orchestrator *collector.Orchestrator, scheduler *collector.Scheduler, webSlogger *util.GatewayLogger) {
	appRouter := NewRouter(orchestrator, scheduler, webSlogger)

	server := NewServer(addr, appRouter)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		println()
		log.Println("Shutting down server...")

		scheduler.Stop()

		err := gracefulShutdown(server, 25*time.Second)

		if err != nil {
			log.Printf("Server stopped with error: %s", err.Error())
		} else {
			log.Println("Server stopped gracefully.")
		}

		os.Exit(0)
	}()

	log.Printf("Listening on %s", server.Addr)
	log.Fatal(server.ListenAndServe())
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

func loggingMiddleware(logger *util.GatewayLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogEvent(util.LOG_LEVEL_INFO, fmt.Sprintf("Request: %s %s", r.Method, r.RequestURI))
			next.ServeHTTP(w, r)
		})
	}
}
