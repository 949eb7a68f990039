package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mkarolys/pagepath/internal/config"
	"github.com/mkarolys/pagepath/internal/fetch"
	"github.com/mkarolys/pagepath/internal/observability"
)

// source is one HTML document to process, named by its origin.
type source struct {
	Name string
	HTML string
}

// collectSources resolves the positional file arguments plus an optional
// --url flag into parsed-ready documents. URLs are rendered through the
// headless snapshotter so client-side markup is included.
func collectSources(ctx context.Context, cfg config.FetchConfig, files []string, url string) ([]source, error) {
	if len(files) == 0 && url == "" {
		return nil, fmt.Errorf("no input: pass HTML files as arguments or --url")
	}

	sources := make([]source, 0, len(files)+1)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		sources = append(sources, source{Name: f, HTML: string(data)})
	}

	if url != "" {
		snap := fetch.NewSnapshotter(cfg, observability.GetLogger().Named("fetch"))
		outer, err := snap.Snapshot(ctx, url)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source{Name: url, HTML: outer})
	}
	return sources, nil
}
