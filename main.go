// Command card-editor replays a render job against a card template and
// writes the print-ready card image.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"card-editor/internal/app"
	"card-editor/internal/config"
	"card-editor/internal/draft"
	"card-editor/internal/export"
	cardimage "card-editor/internal/image"
	"card-editor/internal/job"
	"card-editor/internal/product"
	"card-editor/internal/render"
	"card-editor/internal/template"
	"card-editor/internal/upload"
	"card-editor/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", config.DefaultPath(), "Path to settings file")
	outPath := flag.String("o", "", "Output image (overrides the job)")
	printOrder := flag.Bool("order", false, "Print the checkout line as JSON once uploaded")
	unlimited := flag.Bool("unlimited", false, "Order as an unlimited member")
	watch := flag.Bool("watch", false, "Re-export whenever the template file changes")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: card-editor [-config <file>] [-o <out.jpg>] [-order] [-watch] <job.cardjob>")
		os.Exit(2)
	}
	log.Printf("Starting %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flag.Arg(0), *configPath, *outPath, *printOrder, *unlimited, *watch); err != nil {
		log.Fatalf("card-editor: %v", err)
	}
}

func run(ctx context.Context, jobPath, configPath, outPath string, printOrder, unlimited, watch bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	catalog := product.DefaultCatalog()
	if cfg.ProductCatalog != "" {
		if catalog, err = product.LoadCatalog(cfg.ProductCatalog); err != nil {
			return err
		}
	}

	jf, err := job.Load(jobPath)
	if err != nil {
		return err
	}
	templateDir := jf.GetTemplateDir(jobPath)
	if templateDir == "" {
		templateDir = cfg.TemplateDir
	}
	if outPath == "" {
		outPath = jf.GetOutputPath(jobPath)
	}

	fonts, err := loadFonts(cfg.FontPath)
	if err != nil {
		return err
	}

	var uploader upload.Uploader
	if cfg.UploadDir != "" {
		uploader = upload.NewDirUploader(cfg.UploadDir, cfg.UploadBaseURL)
	}

	d, err := jf.InitialDraft()
	if err != nil {
		return err
	}
	actions, err := jf.DecodeActions()
	if err != nil {
		return err
	}

	session := app.NewSession(d, app.Options{
		Catalog:   catalog,
		Templates: template.NewCache(template.DirSource{Dir: templateDir}),
		Images: cardimage.NewCache(cardimage.SchemeLoader{
			File: cardimage.FileLoader{Root: cfg.AssetsRoot},
			HTTP: cardimage.HTTPLoader{UserAgent: version.UserAgent()},
		}, cfg.LoadTimeout),
		Exporter: export.NewPipeline(export.Options{
			Quality:     cfg.JPEGQuality,
			DeviceScale: cfg.DeviceScale,
			Fonts:       fonts,
		}),
		Uploader:  uploader,
		Reporter:  upload.LogReporter{},
		Container: cfg.Container,
		Fonts:     fonts,
	})
	session.On(app.EventBitmapFailed, func(data interface{}) {
		log.Printf("asset %v could not be loaded and was removed", data)
	})

	if err := session.LoadTemplate(ctx); err != nil {
		return err
	}
	if err := session.Settle(ctx); err != nil {
		return err
	}
	for i, a := range actions {
		if _, err := session.Dispatch(ctx, a); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, a.Type(), err)
		}
		if err := session.Settle(ctx); err != nil {
			return err
		}
	}

	rt := session.Template()
	if !session.Draft().AllViewportsFilled(len(rt.Viewports)) {
		log.Printf("warning: not every viewport of %s has a photo", rt.Handle)
	}

	save := func(r *export.Raster) {
		if werr := writeFile(outPath, r.JPEG); werr != nil {
			log.Printf("write %s: %v", outPath, werr)
			return
		}
		log.Printf("wrote %s (%dx%d)", outPath, r.Width(), r.Height())
	}
	if watch {
		return watchTemplates(ctx, session, templateDir, save)
	}
	if err := session.Complete(ctx, save); err != nil {
		return err
	}

	if mp := jf.GetMessageOutputPath(jobPath); mp != "" {
		r, err := session.RenderMessage()
		if err != nil {
			return err
		}
		if err := writeFile(mp, r.JPEG); err != nil {
			return err
		}
		log.Printf("wrote %s", mp)
		if uploader != nil && session.Draft().OrderMessage != "" {
			if _, err := session.UploadMessage(ctx); err != nil {
				return err
			}
		}
	}

	session.Wait()

	if printOrder {
		op, err := draft.ToProduct(session.Draft(), catalog, draft.OrderOptions{UnlimitedMember: unlimited})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(op)
	}
	return nil
}

// watchTemplates re-exports the card every time its template changes until
// ctx is cancelled. Nothing is uploaded.
func watchTemplates(ctx context.Context, s *app.Session, dir string, save func(*export.Raster)) error {
	var mu sync.Mutex
	refresh := func() error {
		mu.Lock()
		defer mu.Unlock()
		if err := s.Settle(ctx); err != nil {
			return err
		}
		r, err := s.Export(ctx)
		if err != nil {
			return err
		}
		save(r)
		return nil
	}
	if err := refresh(); err != nil {
		return err
	}

	w, err := app.NewTemplateWatcher(s, dir)
	if err != nil {
		return err
	}
	defer w.Close()
	w.OnReload = func(handle string, err error) {
		if err != nil {
			log.Printf("reload %s: %v", handle, err)
			return
		}
		if err := refresh(); err != nil {
			log.Printf("export: %v", err)
		}
	}
	w.Start(ctx)

	<-ctx.Done()
	return nil
}

func loadFonts(path string) (*render.Fonts, error) {
	if path == "" {
		return render.DefaultFonts()
	}
	return render.LoadFonts(path)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
