package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-intake/internal/config"
	"github.com/goliatone/go-intake/pkg/backend"
	"github.com/goliatone/go-intake/pkg/catalog"
	"github.com/goliatone/go-intake/pkg/draft"
	"github.com/goliatone/go-intake/pkg/forms"
	"github.com/goliatone/go-intake/pkg/prompt"
	"github.com/goliatone/go-intake/pkg/schema"
	"github.com/goliatone/go-intake/pkg/session"
	"github.com/goliatone/go-intake/pkg/submission"
)

func main() {
	formName := flag.String("form", "new-line", "form to fill: new-line or product")
	typeID := flag.String("product-type", "", "fold this product type's required metafields into the new-line form")
	dbPath := flag.String("db", "", "draft database path (overrides INTAKE_DRAFT_DB)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dbPath != "" {
		cfg.DraftDBPath = *dbPath
	}

	logger, err := buildLogger(cfg.Verbose)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	kv, err := draft.OpenSQLite(cfg.DraftDBPath)
	if err != nil {
		log.Fatalf("Failed to open draft database: %v", err)
	}
	defer func() { _ = kv.Close() }()

	store := draft.NewStore(kv, draft.WithLogger(logger))
	client := backend.NewMockClient(logger)

	formSchema, options, err := buildForm(*formName, *typeID, client)
	if err != nil {
		log.Fatalf("%v", err)
	}

	options = append(options,
		session.WithStore(store),
		session.WithBackend(client),
		session.WithNotifier(terminalNotifier()),
		session.WithLogger(logger),
		session.WithDebounce(cfg.DraftDebounce),
		session.WithTransform(forms.SanitizeTransform(formSchema)),
	)

	sess := session.New(formSchema, options...)
	defer sess.Close()

	runner := prompt.NewRunner(sess, prompt.NewSurveyDriver())
	if err := runner.Run(context.Background()); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Println("Aborted. Your draft is saved.")
			return
		}
		log.Fatalf("Intake session failed: %v", err)
	}
}

func buildForm(name, typeID string, client backend.Client) (schema.FormSchema, []session.Option, error) {
	switch name {
	case "new-line":
		var productType *catalog.ProductType
		if typeID != "" {
			entry, ok := catalog.Default().Type(typeID)
			if !ok {
				return schema.FormSchema{}, nil, fmt.Errorf("unknown product type %q; available: %v",
					typeID, catalog.Default().TypeIDs())
			}
			productType = &entry
		}
		return forms.NewLineSchema(productType), nil, nil

	case "product":
		options := []session.Option{
			session.WithSubmitter(session.ProductSubmitter(client)),
			session.WithDeriver(forms.AutoSKU(time.Now)),
		}
		return forms.ProductSchema(), options, nil

	default:
		return schema.FormSchema{}, nil, fmt.Errorf("unknown form %q; use new-line or product", name)
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// terminalNotifier surfaces pipeline notifications on stdout, mirroring the
// toast messages the admin UI shows.
func terminalNotifier() submission.Notifier {
	return submission.NotifierFunc(func(n submission.Notification) {
		fmt.Fprintf(os.Stdout, "[%s] %s: %s\n", n.Severity, n.Title, n.Description)
	})
}
