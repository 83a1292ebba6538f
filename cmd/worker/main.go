package main

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"

	"github.com/rekeystam/StyleAIApp/dbhelper"
	"github.com/rekeystam/StyleAIApp/outfit"
	"github.com/rekeystam/StyleAIApp/services"
	"github.com/rekeystam/StyleAIApp/tasks"
)

func runScheduler() {

	scheduler := asynq.NewScheduler(asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")}, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	dailyAlert, err := tasks.NewDailyOutfitAlertTask()
	if err != nil {
		log.Fatalf("Failed to build daily outfit alert task: %v", err)
	}

	scheduled := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "0 8 * * *", // 8:00 AM daily, outfit of the day
			task: dailyAlert,
			desc: "Daily outfit alert notifications",
		},
	}

	for _, t := range scheduled {
		entryID, err := scheduler.Register(t.cron, t.task)
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"classify": 7,
			"default":  3,
		}},
	)
	awsService := &services.AWSService{}
	stylist := services.GoogleLLMStylist{}
	err := awsService.InitPresignClient(context.Background())
	if err != nil {
		log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}
	app, err := firebase.NewApp(context.Background(), nil)
	if err != nil {
		log.Fatalf("error initializing firebase app: %v\n", err)
		return
	}
	history := outfit.NewMemoryHistory()

	mux := asynq.NewServeMux()
	db := dbhelper.SetupDB()
	mux.HandleFunc(tasks.TypeGarmentClassification, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleGarmentClassificationTask(ctx, t, db, stylist, awsService, app)
	})
	mux.HandleFunc(tasks.TypeDailyOutfitAlert, func(ctx context.Context, t *asynq.Task) error {
		return tasks.ScheduledDailyOutfitAlertTask(ctx, t, db, app, history)
	})

	go runScheduler()
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
