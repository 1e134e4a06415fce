// Command functions runs the OnTaskCreated CloudEvent function locally with
// the Functions Framework, mirroring the Cloud Functions runtime.
package main

import (
	"log"
	"strconv"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/craftconnect/tasktrigger"
	"github.com/craftconnect/tasktrigger/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Serving %s on port %d", tasktrigger.FunctionName, cfg.Server.Port)
	if err := funcframework.Start(strconv.Itoa(cfg.Server.Port)); err != nil {
		log.Fatalf("funcframework.Start: %v", err)
	}
}
