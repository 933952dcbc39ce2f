// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sb2review/pkg/types"
)

// ExportEntry is one page of the exported history.
type ExportEntry struct {
	types.ConversionRecord `yaml:",inline"`
	Diagnostics            []types.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// exportLimit bounds the diagnostics loaded per page for export.
const exportLimit = 100000

// Export returns every recorded page with its diagnostics.
func (s *Store) Export(ctx context.Context) ([]ExportEntry, error) {
	recs, err := s.Pages(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]ExportEntry, len(recs))
	for i, rec := range recs {
		rows, err := s.Diagnostics(ctx, Filter{PageID: rec.PageID, Limit: exportLimit})
		if err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
		entries[i].ConversionRecord = rec
		for _, r := range rows {
			entries[i].Diagnostics = append(entries[i].Diagnostics, r.Diagnostic)
		}
	}
	return entries, nil
}

// ExportYAML writes the full history to path. A ".xz" suffix compresses
// the output.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.Export(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if !strings.HasSuffix(path, ".xz") {
		return os.WriteFile(path, data, 0o644)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := writeXZ(f, data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// writeXZ compresses data into w as one xz stream.
func writeXZ(w io.Writer, data []byte) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if _, err := xw.Write(data); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("finishing xz stream: %w", err)
	}
	return nil
}
