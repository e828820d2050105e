package alert

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type recordingSink struct {
	alerts []Alert
}

func (r *recordingSink) Notify(_ context.Context, a Alert) {
	r.alerts = append(r.alerts, a)
}

func TestMultiSkipsNilAndFansOut(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	sink := Multi(first, nil, second)

	sink.Notify(context.Background(), Alert{Action: "Claim Mine", Content: "You won!"})

	if len(first.alerts) != 1 || len(second.alerts) != 1 {
		t.Fatalf("alerts = %d/%d, want 1/1", len(first.alerts), len(second.alerts))
	}
}

func TestSubject(t *testing.T) {
	if got := (Alert{}).Subject(); got != "Battle bot" {
		t.Fatalf("subject = %q, want Battle bot", got)
	}
	if got := (Alert{SubjectID: 12}).Subject(); got != "Mine 12" {
		t.Fatalf("subject = %q, want Mine 12", got)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 1234.5, want: "1,234.5"},
		{in: 1000, want: "1,000"},
		{in: 0.25, want: "0.25"},
	}
	for _, tc := range tests {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Fatalf("format %v = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := FormatCount(12345); got != "12,345" {
		t.Fatalf("count = %q, want 12,345", got)
	}
}

func TestNewDiscordSinkRequiresURL(t *testing.T) {
	if _, err := NewDiscordSink(DiscordConfig{WebhookURL: " "}); err == nil {
		t.Fatal("expected error for empty webhook url")
	}
}

func TestDiscordSinkPostsEmbed(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode webhook: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sink, err := NewDiscordSink(DiscordConfig{
		WebhookURL:     srv.URL,
		PingUser:       99,
		ProfileAddress: "0xabc",
		Clock:          func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	sink.Notify(context.Background(), Alert{Action: "Claim Mine", Content: "You won!", Severity: SeverityOK, SubjectID: 7, Icon: IconWin})

	if got.Content != "" {
		t.Fatalf("content = %q, want no mention for ok alerts", got.Content)
	}
	if len(got.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(got.Embeds))
	}
	e := got.Embeds[0]
	if e.Title != "Mine 7 - Claim Mine" || e.Description != "You won!" {
		t.Fatalf("embed = %+v", e)
	}
	if e.Color != 0x00A427 || e.URL != profileURL+"0xabc" || e.Timestamp != "2026-01-02T03:04:05Z" {
		t.Fatalf("embed = %+v", e)
	}
	if e.Thumbnail == nil || e.Thumbnail.URL != IconWin {
		t.Fatalf("thumbnail = %+v", e.Thumbnail)
	}
	if e.Author != nil {
		t.Fatalf("author = %+v, want none", e.Author)
	}
}

func TestDiscordSinkErrorMentionsUser(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	sink, err := NewDiscordSink(DiscordConfig{WebhookURL: srv.URL, PingUser: 99})
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	sink.Notify(context.Background(), Alert{Action: "Battle loop", Content: "boom", Severity: SeverityError})

	if got.Content != "<@99>" {
		t.Fatalf("content = %q, want <@99>", got.Content)
	}
	e := got.Embeds[0]
	if e.Color != 0xCC0000 || e.Author == nil || e.Author.Name != "Error" {
		t.Fatalf("embed = %+v", e)
	}
	if e.URL != "" {
		t.Fatalf("url = %q, want empty without profile", e.URL)
	}
}

func TestDiscordSinkErrorWithoutPingUser(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	sink, _ := NewDiscordSink(DiscordConfig{WebhookURL: srv.URL})
	sink.Notify(context.Background(), Alert{Action: "Battle loop", Content: "boom", Severity: SeverityError})

	if !strings.HasSuffix(got.Embeds[0].Description, "configure a DISCORD_PING_USER") {
		t.Fatalf("description = %q", got.Embeds[0].Description)
	}
}

func TestDiscordSinkSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	sink, _ := NewDiscordSink(DiscordConfig{WebhookURL: srv.URL})
	if err := sink.post(context.Background(), sink.payload(Alert{Action: "x"})); err == nil {
		t.Fatal("expected post error for 429")
	}
	// Notify must not panic or block on the same failure.
	sink.Notify(context.Background(), Alert{Action: "x", Severity: SeverityWarn})
}

func TestDiscordSinkSkipsInfo(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	sink, _ := NewDiscordSink(DiscordConfig{WebhookURL: srv.URL})
	sink.Notify(context.Background(), Alert{Action: "Claim Mine", Severity: SeverityInfo})
	if calls != 0 {
		t.Fatalf("webhook calls = %d, want 0", calls)
	}
}
