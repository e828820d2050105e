package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/battlebot/internal/platform/timeouts"
)

const profileURL = "https://crabadatracker.app/profile/"

var severityColors = map[Severity]int{
	SeverityOK:    0x00A427,
	SeverityWarn:  0xFFA500,
	SeverityError: 0xCC0000,
}

var severityAuthors = map[Severity]string{
	SeverityWarn:  "Transient Error",
	SeverityError: "Error",
}

// DiscordConfig configures a webhook sink.
type DiscordConfig struct {
	WebhookURL string
	// PingUser is mentioned on error alerts when non-zero.
	PingUser int64
	// ProfileAddress links alert titles to the account profile.
	ProfileAddress string
	HTTPClient     *http.Client
	Clock          func() time.Time
}

// DiscordSink posts alerts as webhook embeds. Info alerts are not posted.
// Delivery errors are logged and swallowed.
type DiscordSink struct {
	url      string
	pingUser int64
	profile  string
	http     *http.Client
	clock    func() time.Time
}

// NewDiscordSink builds a webhook sink.
func NewDiscordSink(cfg DiscordConfig) (*DiscordSink, error) {
	url := strings.TrimSpace(cfg.WebhookURL)
	if url == "" {
		return nil, fmt.Errorf("discord webhook url is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeouts.Webhook}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &DiscordSink{
		url:      url,
		pingUser: cfg.PingUser,
		profile:  strings.TrimSpace(cfg.ProfileAddress),
		http:     client,
		clock:    clock,
	}, nil
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title       string          `json:"title"`
	URL         string          `json:"url,omitempty"`
	Description string          `json:"description"`
	Color       int             `json:"color"`
	Timestamp   string          `json:"timestamp"`
	Author      *embedAuthor    `json:"author,omitempty"`
	Thumbnail   *embedThumbnail `json:"thumbnail,omitempty"`
}

type embedAuthor struct {
	Name string `json:"name"`
}

type embedThumbnail struct {
	URL string `json:"url"`
}

// Notify implements Sink.
func (d *DiscordSink) Notify(ctx context.Context, a Alert) {
	if a.Severity == SeverityInfo {
		return
	}
	if err := d.post(ctx, d.payload(a)); err != nil {
		log.Printf("discord alert %q: %v", a.Action, err)
	}
}

func (d *DiscordSink) payload(a Alert) webhookPayload {
	e := embed{
		Title:       a.Subject() + " - " + a.Action,
		Description: a.Content,
		Color:       severityColors[a.Severity],
		Timestamp:   d.clock().UTC().Format(time.RFC3339),
	}
	if d.profile != "" {
		e.URL = profileURL + d.profile
	}
	if name, ok := severityAuthors[a.Severity]; ok {
		e.Author = &embedAuthor{Name: name}
	}
	if a.Icon != "" {
		e.Thumbnail = &embedThumbnail{URL: a.Icon}
	}

	p := webhookPayload{Embeds: []embed{e}}
	if a.Severity == SeverityError {
		if d.pingUser != 0 {
			p.Content = fmt.Sprintf("<@%d>", d.pingUser)
		} else {
			p.Embeds[0].Description += " - please configure a DISCORD_PING_USER"
		}
	}
	return p
}

func (d *DiscordSink) post(ctx context.Context, p webhookPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode webhook: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
