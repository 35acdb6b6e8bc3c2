package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/openapi"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func main() {
	source := flag.String("source", "", "schema document path or URL (bundled sample when empty)")
	operation := flag.String("operation", "", "treat the source as OpenAPI and import this operation")
	receipt := flag.String("receipt", "", "write an HTML receipt here after submission")
	latency := flag.Duration("latency", wizard.DefaultSimulatedLatency, "simulated transport round-trip delay")
	flag.Parse()

	ctx := context.Background()

	form, err := loadForm(ctx, *source, *operation)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	session, err := formwizard.NewSession(form, wizard.WithLatency(*latency))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	runner, err := newRunner(session)
	if err != nil {
		log.Fatalf("Failed to create runner: %v", err)
	}
	if err := runner.Run(ctx); err != nil {
		log.Fatalf("Wizard aborted: %v", err)
	}

	if *receipt != "" && session.Phase() == wizard.PhaseSubmitted {
		out, err := html.RenderReceipt(session.Form(), session.Values(), html.ReceiptOptions{
			SubmittedBy: session.User().DisplayName,
		})
		if err != nil {
			log.Fatalf("Failed to render receipt: %v", err)
		}
		if err := os.WriteFile(*receipt, out, 0o644); err != nil {
			log.Fatalf("Failed to write receipt: %v", err)
		}
		fmt.Printf("Receipt written to %s\n", *receipt)
	}
}

func loadForm(ctx context.Context, source, operation string) (schema.Form, error) {
	if source == "" {
		return formwizard.SampleForm(), nil
	}

	src := parseSource(source)
	loader := schema.NewLoader(schema.LoaderOptions{
		AllowHTTP:      true,
		RequestTimeout: 30 * time.Second,
	})

	if operation == "" {
		return loader.Load(ctx, src)
	}

	doc, err := loader.LoadDocument(ctx, src)
	if err != nil {
		return schema.Form{}, err
	}
	return openapi.Import(ctx, doc, openapi.ImportOptions{OperationID: operation})
}

// newRunner wires the terminal runner with a slow ambient theme rotation.
// The cycler only affects message prefixes; drop it and the wizard behaves
// identically.
func newRunner(session *wizard.Session) (*tui.Runner, error) {
	selections := []theme.Selection{
		{
			Theme:   "dawn",
			Variant: "default",
			Manifest: &theme.Manifest{
				Name:    "dawn",
				Version: "1.0.0",
				Tokens: map[string]string{
					tui.TokenInfoPrefix:  "◆",
					tui.TokenErrorPrefix: "✗",
				},
			},
		},
		{
			Theme:   "dusk",
			Variant: "default",
			Manifest: &theme.Manifest{
				Name:    "dusk",
				Version: "1.0.0",
				Tokens: map[string]string{
					tui.TokenInfoPrefix:  "●",
					tui.TokenErrorPrefix: "✗",
				},
			},
		},
	}
	cycler := tui.NewThemeCycler(selections, 15*time.Second)
	return tui.New(session, tui.WithThemeCycler(cycler))
}

func parseSource(raw string) schema.Source {
	path := strings.TrimSpace(raw)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return schema.SourceFromURL(path)
	}
	return schema.SourceFromFile(path)
}
