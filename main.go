package main

import (
	"context"
	"fmt"
	"github.com/joho/godotenv"
	"gitlab.com/open-soft/go-alpha-bot/src/config"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	pwd, _ := os.Getwd()
	if _, err := os.Stat(fmt.Sprintf("%s/.env", pwd)); err == nil {
		log.Println(".env is found, loading variables...")
		err = godotenv.Load()
		if err != nil {
			log.Println(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The run drains on its own context, a signal only requests the stop.
	env := config.ReadEnv()
	container := config.InitServiceContainer(context.Background(), env)
	defer container.Close()

	if err := container.DevTools.Connect(); err != nil {
		log.Printf("DevTools is not connected yet, it will retry on the first page call: %s", err.Error())
	}

	server := container.StartHttpServer()
	log.Printf("HTTP server is listening on %s", env.HttpAddr)

	if env.AutoStart {
		runConfig, err := container.SettingRepository.GetRunConfig(env.SettingsProfile)
		if err != nil {
			log.Fatal(fmt.Sprintf("Settings [%s] can't be read: %s", env.SettingsProfile, err.Error()))
		}

		if err := container.Runner.StartRun(runConfig); err != nil {
			log.Printf("Run is not started: %s", err.Error())
		}
	}

	<-ctx.Done()
	log.Println("Shutdown requested, waiting for the run to drain...")

	container.Runner.RequestStop()
	if done := container.Runner.Done(); done != nil {
		select {
		case <-done:
		case <-time.After(time.Minute):
			log.Println("Run did not drain in time")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
