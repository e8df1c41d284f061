// Command promptd runs a one-shot prompt-refinement session against a
// configured provider: it reads a rough prompt, dispatches it, walks the
// clarification round-trip on the terminal, and prints the refined prompt or
// the grading report.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/frogg-app/prompt-assistant/core/conversation"
	"github.com/frogg-app/prompt-assistant/core/engine"
	"github.com/frogg-app/prompt-assistant/core/result"
	"github.com/frogg-app/prompt-assistant/internal/config"
	"github.com/frogg-app/prompt-assistant/internal/logging"
	"github.com/frogg-app/prompt-assistant/providers/catalog"
	"github.com/frogg-app/prompt-assistant/providers/models"
	"github.com/frogg-app/prompt-assistant/setup"
	"github.com/frogg-app/prompt-assistant/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg      config.Config
	registry *catalog.Registry
	records  *store.Store
	cache    *models.Cache
	engine   *engine.Engine
}

func run() error {
	configPath := flag.String("config", "", "path to the YAML config file")
	providerID := flag.String("provider", "openai", "provider id to dispatch to")
	modelID := flag.String("model", "", "model id (empty uses the provider default)")
	promptType := flag.String("type", "general", "prompt type: general, coding, image, research, writing")
	learning := flag.Bool("learning", false, "enable learning mode (grading report)")
	constraints := flag.String("constraints", "", "comma-separated refinement constraints")
	logFormat := flag.String("log-format", "compact", "log format: compact or json")
	listProviders := flag.Bool("list-providers", false, "list providers with availability and exit")
	listModels := flag.Bool("list-models", false, "list the provider's models and exit")
	refresh := flag.Bool("refresh", false, "force a model-list refresh with -list-models")
	rescan := flag.Bool("rescan", false, "rescan every provider's model list and exit")
	showSetup := flag.Bool("setup", false, "print the provider's credential-setup steps and exit")
	fetchDocs := flag.Bool("docs", false, "with -setup, also fetch the setup documentation page")
	flag.Parse()

	// .env values feed the credential rules; a missing file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level, logging.ParseFormat(*logFormat))

	records := store.Open(cfg.StorePath)
	registry := catalog.NewRegistry()
	if err := records.ApplyTo(registry); err != nil {
		return err
	}

	a := &app{
		cfg:      cfg,
		registry: registry,
		records:  records,
		cache: models.NewCache(registry, models.NewLiveFetcher(nil), logger,
			models.WithTTL(cfg.CacheTTL),
			models.WithFilter(records.FilterFunc()),
		),
		engine: engine.New(registry, engine.WithLogger(logger)),
	}

	ctx := context.Background()
	switch {
	case *listProviders:
		return a.listProviders()
	case *rescan:
		return a.rescanAll(ctx)
	case *listModels:
		return a.listModels(ctx, *providerID, *refresh)
	case *showSetup:
		return a.printSetup(ctx, *providerID, *fetchDocs)
	}

	pt := engine.PromptType(*promptType)
	if !engine.ValidPromptType(pt) {
		return fmt.Errorf("unknown prompt type %q", *promptType)
	}

	rough := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if rough == "" {
		fmt.Print("Rough prompt: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		rough = strings.TrimSpace(line)
	}
	if rough == "" {
		return errors.New("no rough prompt given")
	}

	return a.refine(ctx, engine.Request{
		ProviderID:   *providerID,
		ModelID:      *modelID,
		RoughPrompt:  rough,
		Constraints:  splitConstraints(*constraints),
		PromptType:   pt,
		LearningMode: *learning,
	})
}

// refine walks one conversation to its terminal result on the terminal.
func (a *app) refine(ctx context.Context, req engine.Request) error {
	credentials, err := a.records.Credentials()
	if err != nil {
		return err
	}
	dctx := engine.DispatchContext{
		Credential:       credentials[req.ProviderID],
		WorkingDirectory: a.cfg.WorkingDirectory,
		Timeout:          a.timeoutFor(req.ProviderID),
	}

	conv := conversation.New(a.engine, dctx, req)
	res, err := conv.Submit(ctx)
	if err != nil {
		return a.explainDispatchError(req.ProviderID, err)
	}

	reader := bufio.NewReader(os.Stdin)
	for res.Kind() == result.KindNeedsClarification {
		answers, err := askClarifications(reader, res.Clarifications)
		if err != nil {
			return err
		}
		res, err = conv.Answer(ctx, answers)
		if err != nil {
			return a.explainDispatchError(req.ProviderID, err)
		}
	}

	printResult(res)
	return nil
}

// askClarifications prompts the user for each clarification item. Empty
// input leaves the question unanswered; the provider proceeds on
// assumptions.
func askClarifications(reader *bufio.Reader, items []result.ClarificationItem) (map[string]any, error) {
	fmt.Println("\nThe provider needs a few answers first (press Enter to skip one):")
	answers := map[string]any{}
	for _, item := range items {
		fmt.Printf("\n%s\n", item.Question)
		if item.WhyRequired != "" {
			fmt.Printf("  (%s)\n", item.WhyRequired)
		}
		if len(item.Options) > 0 {
			fmt.Printf("  options: %s\n", strings.Join(item.Options, ", "))
		}
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		if answer := strings.TrimSpace(line); answer != "" {
			answers[item.ID] = answer
		}
	}
	return answers, nil
}

func printResult(res *result.StructuredResult) {
	switch res.Kind() {
	case result.KindExcellent:
		fmt.Println("\nYour prompt is already excellent.")
		fmt.Println("\nWhy:", res.ExcellenceReason)
	default:
		fmt.Println("\nRefined prompt:")
		fmt.Println(res.ImprovedPrompt)
		if len(res.Assumptions) > 0 {
			fmt.Println("\nAssumptions made:")
			for _, assumption := range res.Assumptions {
				fmt.Println("-", assumption)
			}
		}
	}
	if res.LearningReport != "" {
		fmt.Println("\nLearning report:")
		fmt.Println(res.LearningReport)
	}
}

func (a *app) listProviders() error {
	credentials, err := a.records.Credentials()
	if err != nil {
		return err
	}
	for _, p := range a.registry.List() {
		availability := catalog.ResolveAvailability(p, credentials[p.ID])
		status := "unavailable"
		if availability.Available {
			status = "available"
		}
		fmt.Printf("%-12s %-20s %-4s %-12s %s\n", p.ID, p.DisplayName, p.Transport, status, availability.Reason)
	}
	return nil
}

func (a *app) listModels(ctx context.Context, providerID string, forceRefresh bool) error {
	credentials, err := a.records.Credentials()
	if err != nil {
		return err
	}
	res, err := a.cache.GetModels(ctx, providerID, credentials[providerID], forceRefresh)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n", providerID, res.Note)
	for _, m := range res.Models {
		if m.ContextWindow > 0 {
			fmt.Printf("  %-30s %s (context %d)\n", m.ID, m.Label, m.ContextWindow)
		} else {
			fmt.Printf("  %-30s %s\n", m.ID, m.Label)
		}
	}
	return nil
}

func (a *app) rescanAll(ctx context.Context) error {
	credentials, err := a.records.Credentials()
	if err != nil {
		return err
	}
	for providerID, outcome := range a.cache.RescanAll(ctx, credentials) {
		if outcome.Refreshed {
			fmt.Printf("%-12s refreshed (%d models)\n", providerID, outcome.ModelCount)
		} else {
			fmt.Printf("%-12s skipped: %s\n", providerID, outcome.Reason)
		}
	}
	return nil
}

func (a *app) printSetup(ctx context.Context, providerID string, fetchDocs bool) error {
	descriptor, ok := setup.For(providerID)
	if !ok {
		return fmt.Errorf("no setup guide for provider %q", providerID)
	}
	fmt.Printf("Setting up %s\n", providerID)
	if len(descriptor.RequiredEnvVars) > 0 {
		fmt.Println("Required environment variables:", strings.Join(descriptor.RequiredEnvVars, ", "))
	}
	for i, step := range descriptor.Steps {
		fmt.Printf("%d. %s\n", i+1, step)
	}
	fmt.Println("Docs:", descriptor.DocsURL)

	if fetchDocs {
		markdown, err := setup.FetchDocs(ctx, nil, providerID)
		if err != nil {
			return err
		}
		fmt.Println("\n" + markdown)
	}
	return nil
}

// explainDispatchError appends the setup guide when the failure is a missing
// credential.
func (a *app) explainDispatchError(providerID string, err error) error {
	if engine.KindOf(err) == engine.KindCredentialMissing {
		if descriptor, ok := setup.For(providerID); ok {
			fmt.Fprintf(os.Stderr, "\n%s is not set up. To fix:\n", providerID)
			for i, step := range descriptor.Steps {
				fmt.Fprintf(os.Stderr, "%d. %s\n", i+1, step)
			}
			fmt.Fprintln(os.Stderr, "Docs:", descriptor.DocsURL)
		}
	}
	return err
}

// timeoutFor picks the configured per-call limit for the provider's
// transport.
func (a *app) timeoutFor(providerID string) time.Duration {
	if p, ok := a.registry.Get(providerID); ok && p.Transport == catalog.TransportCLI {
		return a.cfg.CLITimeout
	}
	return a.cfg.HTTPTimeout
}

func splitConstraints(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
