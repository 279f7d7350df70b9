// Package guests resolves the guest directory that maps link ids to invitations.
package guests

import (
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"wedding-site/internal/models"
)

// Directory is the resolved guest-id to GuestRecord mapping. It is read-only.
type Directory struct {
	source  string
	records map[string]models.GuestRecord
}

// Resolve tries sources in order and returns the first that yields at least
// one usable record. Sources are never merged. Failing sources are logged and
// skipped; when nothing is available the directory is empty.
func Resolve(log zerolog.Logger, sources ...Source) *Directory {
	for _, src := range sources {
		if src == nil {
			continue
		}
		raw, err := src.Load()
		if err != nil {
			if !errors.Is(err, ErrSourceAbsent) {
				log.Warn().Err(err).Str("source", src.Name()).Msg("Ignoring guest source")
			}
			continue
		}

		records := sanitize(log, src.Name(), raw)
		if len(records) == 0 {
			continue
		}
		log.Info().Str("source", src.Name()).Int("guests", len(records)).Msg("Loaded guest list")
		return &Directory{source: src.Name(), records: records}
	}

	log.Debug().Msg("No guest list found, personalisation disabled")
	return &Directory{records: map[string]models.GuestRecord{}}
}

func sanitize(log zerolog.Logger, source string, raw map[string]models.GuestRecord) map[string]models.GuestRecord {
	out := make(map[string]models.GuestRecord, len(raw))
	for id, rec := range raw {
		id = strings.TrimSpace(id)
		names := rec.DisplayNames()
		if id == "" || len(names) == 0 {
			log.Warn().Str("source", source).Str("id", id).Msg("Skipping guest without id or names")
			continue
		}
		out[id] = models.GuestRecord{
			Names: names,
			Email: strings.TrimSpace(rec.Email),
			Phone: strings.TrimSpace(rec.Phone),
		}
	}
	return out
}

// Lookup returns the record for id.
func (d *Directory) Lookup(id string) (models.GuestRecord, bool) {
	if d == nil {
		return models.GuestRecord{}, false
	}
	rec, ok := d.records[strings.TrimSpace(id)]
	if !ok {
		return models.GuestRecord{}, false
	}
	rec.Names = append([]string(nil), rec.Names...)
	return rec, true
}

// Len returns the number of guests.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// IDs returns all guest ids sorted.
func (d *Directory) IDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.records))
	for id := range d.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Source names the source the directory was resolved from, "" when empty.
func (d *Directory) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}
