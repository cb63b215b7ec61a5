package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/pianostudio-backend/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	application.Start()

	errCh := make(chan error, 1)
	go func() { errCh <- application.Run() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		application.Log.Info("Shutting down", "signal", s.String())
		application.Close()
	case err := <-errCh:
		application.Close()
		if err != nil {
			fmt.Printf("server error: %v\n", err)
			os.Exit(1)
		}
	}
}
