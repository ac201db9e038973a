package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grvbrk/vidhook_server/internal/app"
	"github.com/grvbrk/vidhook_server/internal/config"
	"github.com/grvbrk/vidhook_server/internal/routes"
)

func main() {
	cfg := config.Load()

	app, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatal("Failed to start application:", err)
	}
	defer app.Close()

	r := routes.SetupRoutes(app)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		app.Logger.Println("Server started on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Fatal("Error starting server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		app.Logger.Println("Server forced to shutdown:", err)
	}
}
