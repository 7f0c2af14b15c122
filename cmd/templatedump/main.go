// Command templatedump resolves card templates for a product and orientation
// and prints the resulting canvas layout as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"card-editor/internal/product"
	"card-editor/internal/template"
)

func main() {
	dir := flag.String("dir", ".", "Template directory")
	handle := flag.String("template", "", "Template handle (default: every template in -dir)")
	productHandle := flag.String("product", string(product.Postcard), "Product handle")
	orientation := flag.String("orientation", string(product.Landscape), "landscape or portrait")
	catalogPath := flag.String("catalog", "", "Product catalog YAML (default: built-in products)")
	flag.Parse()

	o := product.Orientation(*orientation)
	if !o.Valid() {
		fmt.Fprintf(os.Stderr, "Unknown orientation %q\n", *orientation)
		os.Exit(2)
	}

	catalog := product.DefaultCatalog()
	if *catalogPath != "" {
		var err error
		if catalog, err = product.LoadCatalog(*catalogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
	}
	p, err := catalog.Get(product.Handle(*productHandle))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	src := template.DirSource{Dir: *dir}
	handles := []string{*handle}
	if *handle == "" {
		if handles, err = src.Handles(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list templates: %v\n", err)
			os.Exit(1)
		}
	}

	cache := template.NewCache(src)
	out := make(map[string]template.RenderTemplate, len(handles))
	failed := 0
	for _, h := range handles {
		rt, err := cache.Get(context.Background(), h, p.Front, o)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", h, err)
			failed++
			continue
		}
		out[h] = rt
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if *handle != "" {
		if rt, ok := out[*handle]; ok {
			_ = enc.Encode(rt)
		}
	} else {
		_ = enc.Encode(out)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
