// Package content loads the static wedding information shown on the page.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"wedding-site/internal/rsvp"
)

//go:embed content.toml
var bundled string

// RSVPDeadlineQuestion is the FAQ whose answer is filled from the deadline.
const RSVPDeadlineQuestion = "When should I RSVP by?"

type Content struct {
	Couple        Couple          `toml:"couple"`
	Date          Date            `toml:"date"`
	Venue         Venue           `toml:"venue"`
	RSVP          RSVPInfo        `toml:"rsvp"`
	Contact       Contact         `toml:"contact"`
	Story         Story           `toml:"story"`
	Schedule      []ScheduleItem  `toml:"schedule"`
	Travel        Travel          `toml:"travel"`
	Accommodation []Accommodation `toml:"accommodation"`
	FAQs          []FAQ           `toml:"faqs"`
	Gift          Gift            `toml:"gift"`
	Menu          rsvp.Menu       `toml:"menu"`
}

type Couple struct {
	Name1 string `toml:"name1"`
	Name2 string `toml:"name2"`
}

type Date struct {
	Full     string    `toml:"full"`
	Time     string    `toml:"time"`
	Ceremony time.Time `toml:"ceremony"`
}

type Venue struct {
	Name        string `toml:"name"`
	Address     string `toml:"address"`
	Description string `toml:"description"`
	MapURL      string `toml:"map_url"`
}

type RSVPInfo struct {
	Deadline string `toml:"deadline"`
}

type Contact struct {
	Email string `toml:"email"`
}

type Story struct {
	Title   string `toml:"title"`
	Content string `toml:"content"`
}

type ScheduleItem struct {
	Time  string `toml:"time"`
	Event string `toml:"event"`
}

type Travel struct {
	Driving       string `toml:"driving"`
	PublicTransit string `toml:"public_transit"`
	TaxiRideshare string `toml:"taxi_rideshare"`
	Parking       string `toml:"parking"`
}

// Accommodation is one hotel in the carousel. Distance is miles from the venue.
type Accommodation struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Link        string  `toml:"link"`
	BlockCode   string  `toml:"block_code"`
	Image       string  `toml:"image"`
	Distance    float64 `toml:"distance"`
}

type FAQ struct {
	Question string `toml:"question"`
	Answer   string `toml:"answer"`
}

type Gift struct {
	Message     string `toml:"message"`
	DonationURL string `toml:"donation_url"`
}

// Default returns the content compiled into the binary.
func Default() (*Content, error) {
	return Parse(bundled)
}

// Load reads content from a TOML file, or the bundled copy when path is empty.
func Load(path string) (*Content, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes TOML content and derives computed fields.
func Parse(data string) (*Content, error) {
	var c Content
	if _, err := toml.Decode(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if c.Date.Ceremony.IsZero() {
		return nil, fmt.Errorf("date.ceremony is required")
	}

	for i := range c.FAQs {
		if c.FAQs[i].Question == RSVPDeadlineQuestion && c.FAQs[i].Answer == "" && c.RSVP.Deadline != "" {
			c.FAQs[i].Answer = fmt.Sprintf("Please let us know your plans by %s.", c.RSVP.Deadline)
		}
	}

	sort.SliceStable(c.Accommodation, func(i, j int) bool {
		return c.Accommodation[i].Distance < c.Accommodation[j].Distance
	})

	return &c, nil
}

// CoupleNames is the two names joined for headings.
func (c *Content) CoupleNames() string {
	return c.Couple.Name1 + " & " + c.Couple.Name2
}
