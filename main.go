package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/classifier"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/cronjobs"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/db"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/geocode"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/nlp"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/pipeline"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/routes"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/social"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/sources"
	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/validator"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	store := db.NewEventStore(firestoreClient)

	// Authoritative sources; unconfigured ones are skipped entirely.
	var conditions sources.ConditionsSource
	if ow := sources.NewOpenWeatherConditions(os.Getenv("OPENWEATHER_API_KEY")); ow.Configured() {
		conditions = ow
	} else {
		log.Println("OPENWEATHER_API_KEY not set; current-conditions checks disabled")
	}
	var fire sources.FireDetector
	if firms := sources.NewFIRMSDetector(os.Getenv("FIRMS_MAP_KEY")); firms.Configured() {
		fire = firms
	} else {
		log.Println("FIRMS_MAP_KEY not set; satellite fire detection disabled")
	}

	v := validator.New(
		geocode.MapsGeocoder{},
		[]sources.SeismicCatalog{sources.NewUSGSCatalog(), sources.NewEMSCCatalog()},
		sources.NewNWSAlertFeed(),
		conditions,
		fire,
	)

	pipelineOpts := []pipeline.Option{pipeline.WithAlerter(store)}

	// The entity-extraction refinement is optional; without credentials
	// the keyword location heuristics stand alone.
	ctx := context.Background()
	if langClient, err := nlp.InitLanguageClient(ctx); err != nil {
		log.Printf("Natural Language client unavailable: %v", err)
	} else {
		defer nlp.CloseLanguageClient()
		pipelineOpts = append(pipelineOpts, pipeline.WithLocationRefiner(nlp.NewRefiner(langClient)))
	}

	cls := classifier.New(openai.NewClient(apiKey))

	p := pipeline.New(store, cls, v, pipelineOpts...)
	p.Start(ctx)
	defer p.Stop()

	// Initialize cron jobs
	scheduler := cronjobs.InitCronJobs(social.NewClient(), p, store, cronjobs.DefaultFeeds)
	defer scheduler.Stop()

	r := routes.SetupRouter(store, p, cls)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
