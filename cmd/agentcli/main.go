// agentcli runs a single conversational task against the scheduling
// agent with in-memory backends. Useful for trying prompts and intents
// without standing up the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tuttoai/agenda-ai-platform/internal/agent"
	"github.com/tuttoai/agenda-ai-platform/internal/calendar"
	"github.com/tuttoai/agenda-ai-platform/internal/config"
	"github.com/tuttoai/agenda-ai-platform/internal/docstore"
	"github.com/tuttoai/agenda-ai-platform/internal/llm"
	"github.com/tuttoai/agenda-ai-platform/internal/schedule"
	"github.com/tuttoai/agenda-ai-platform/internal/scheduler"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

func main() {
	message := flag.String("message", "", "user message to process (required)")
	name := flag.String("name", "", "customer name")
	phone := flag.String("phone", "", "customer phone")
	service := flag.String("service", "", "service id")
	conversation := flag.String("conversation", "cli", "conversation id")
	asJSON := flag.Bool("json", false, "print the full result as JSON")
	flag.Parse()

	if *message == "" {
		fmt.Fprintln(os.Stderr, "usage: agentcli -message \"quero agendar amanhã às 14:00\" [-name ... -phone ...]")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New("error")
	ctx := context.Background()

	cal := calendar.NewMemoryClient()
	sched := scheduler.NewService(scheduler.Params{
		Calendar:        cal,
		Checker:         schedule.NewChecker(cal, schedule.DefaultWeek(), logger),
		Store:           docstore.NewMemoryStore(),
		Logger:          logger,
		CalendarID:      cfg.CalendarID,
		Location:        cfg.Location(),
		DefaultDuration: cfg.DefaultDuration,
	})
	assistant := agent.New(agent.Params{
		LLM:       llm.New(ctx, cfg, logger),
		Scheduler: sched,
		Logger:    logger,
		Location:  cfg.Location(),
	})

	res := assistant.Run(ctx, agent.Task{
		ConversationID: *conversation,
		Message:        *message,
		CustomerName:   *name,
		CustomerPhone:  *phone,
		ServiceID:      *service,
	})

	if *asJSON {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "encode result:", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("intent: %s\n", res.Intent)
	fmt.Println(res.Message)
	if !res.Success {
		os.Exit(1)
	}
}
