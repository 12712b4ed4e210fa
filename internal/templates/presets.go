package templates

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// presetFile is the on-disk shape of an exported template set.
type presetFile struct {
	Templates []Template `yaml:"templates"`
}

// Export writes every template to w as YAML.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	list, err := s.List(ctx)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(presetFile{Templates: list}); err != nil {
		return fmt.Errorf("failed to encode templates: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML template set from r. Templates are matched by name:
// known names are updated, new names are added.
func (s *Store) Import(ctx context.Context, r io.Reader) (added, updated int, err error) {
	var file presetFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return 0, 0, fmt.Errorf("failed to decode templates: %w", err)
	}

	for i := range file.Templates {
		t := file.Templates[i]
		existing, err := s.GetByName(ctx, t.Name)
		switch {
		case errors.Is(err, ErrNotFound):
			if err := s.Add(ctx, &t); err != nil {
				return added, updated, fmt.Errorf("template %d (%q): %w", i+1, t.Name, err)
			}
			added++
		case err != nil:
			return added, updated, err
		default:
			t.ID = existing.ID
			if err := s.Update(ctx, &t); err != nil {
				return added, updated, fmt.Errorf("template %d (%q): %w", i+1, t.Name, err)
			}
			updated++
		}
	}

	log.Debug().Int("added", added).Int("updated", updated).Msg("imported templates")
	return added, updated, nil
}
