package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gorilla/schema"
	"github.com/joho/godotenv"

	"github.com/routewire/routewire/middleware"
	"github.com/routewire/routewire/wiregen"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate client and route-table artifacts."`
	Check   CheckCmd   `cmd:"" help:"Validate contracts without writing files."`
	Dev     DevCmd     `cmd:"" help:"Serve the contract manifest over HTTP."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type GenCmd struct {
	Out      string   `help:"Output directory for generated files." env:"ROUTEWIRE_OUT" default:"."`
	Dir      string   `help:"Working directory for package loading." env:"ROUTEWIRE_DIR"`
	Patterns []string `arg:"" optional:"" help:"Package patterns to scan (default ./...)."`
}

func (c *GenCmd) Run() error {
	result, err := wiregen.FromPackages(c.Patterns...).Dir(c.Dir).ToDir(c.Out)
	if result != nil {
		reportDiagnostics(result)
		slog.Info("generation finished",
			slog.Int("artifacts", len(result.Artifacts)),
			slog.Int("diagnostics", len(result.Diagnostics)))
		if err == nil && len(result.Diagnostics) > 0 {
			return fmt.Errorf("%d diagnostic(s)", len(result.Diagnostics))
		}
	}
	return err
}

type CheckCmd struct {
	Dir      string   `help:"Working directory for package loading." env:"ROUTEWIRE_DIR"`
	Patterns []string `arg:"" optional:"" help:"Package patterns to scan (default ./...)."`
}

func (c *CheckCmd) Run() error {
	result, err := wiregen.FromPackages(c.Patterns...).Dir(c.Dir).Generate()
	if result != nil {
		reportDiagnostics(result)
		if err == nil && len(result.Diagnostics) > 0 {
			return fmt.Errorf("%d diagnostic(s)", len(result.Diagnostics))
		}
	}
	return err
}

type DevCmd struct {
	Addr     string   `help:"Address to listen on." env:"ROUTEWIRE_ADDR" default:":9000"`
	Dir      string   `help:"Working directory for package loading." env:"ROUTEWIRE_DIR"`
	Patterns []string `arg:"" optional:"" help:"Package patterns to scan (default ./...)."`
}

// manifestQuery holds the supported /manifest filters.
type manifestQuery struct {
	Service string `schema:"service"`
}

func (c *DevCmd) Run() error {
	result, err := wiregen.FromPackages(c.Patterns...).Dir(c.Dir).Generate()
	if err != nil {
		return err
	}
	reportDiagnostics(result)

	manifest := wiregen.BuildManifest(result)
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /manifest", func(w http.ResponseWriter, r *http.Request) {
		var q manifestQuery
		if err := decoder.Decode(&q, r.URL.Query()); err != nil {
			http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
			return
		}

		out := manifest
		if q.Service != "" {
			filtered := &wiregen.Manifest{Diagnostics: manifest.Diagnostics}
			for _, svc := range manifest.Services {
				if svc.Name == q.Service {
					filtered.Services = append(filtered.Services, svc)
				}
			}
			out = filtered
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			slog.Error("failed to encode manifest", slog.Any("error", err))
		}
	})

	handler := middleware.Logging(slog.Default())(middleware.CORS(nil)(mux))
	slog.Info("dev server listening", slog.String("addr", c.Addr))
	return http.ListenAndServe(c.Addr, handler)
}

func reportDiagnostics(result *wiregen.Result) {
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
}

func main() {
	_ = godotenv.Load()

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("routewire"),
		kong.Description("Contract compiler for routewire services."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
