package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tg-reminder/internal/models"
)

// ReminderInfo is the structured result of running extraction over a
// message. DateTime and Timezone are empty for a note without a deadline.
type ReminderInfo struct {
	Text     string `json:"text"`
	DateTime string `json:"datetime"`
	Timezone string `json:"timezone"`
}

// ExtractOptions adjust the extraction prompt for a single call.
type ExtractOptions struct {
	// Forwarded asks the model to summarize forwarded content into a short
	// actionable task instead of quoting it.
	Forwarded bool
	// Recompute is set on the retry after a past-time result; it tells the
	// model to re-read relative expressions against the current time.
	Recompute bool
}

// Extractor turns free-form messages into ReminderInfo via a chat
// completion.
type Extractor struct {
	client    *Client
	defaultTZ string
}

func NewExtractor(client *Client, defaultTZ string) *Extractor {
	return &Extractor{client: client, defaultTZ: defaultTZ}
}

// Extract runs one extraction call. It returns (nil, nil) when the model
// reports that the message is not a reminder.
func (e *Extractor) Extract(ctx context.Context, message string, now time.Time, opts ExtractOptions) (*ReminderInfo, error) {
	prompt := e.systemPrompt(now, opts)

	raw, err := e.client.ChatCompletion(ctx, prompt, message)
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}

	return parseReminderInfo(raw)
}

func (e *Extractor) systemPrompt(now time.Time, opts ExtractOptions) string {
	loc, err := time.LoadLocation(e.defaultTZ)
	if err != nil {
		loc = time.UTC
	}
	current := now.In(loc)

	var b strings.Builder
	b.WriteString("You extract reminders from chat messages.\n")
	fmt.Fprintf(&b, "Current date and time: %s (%s).\n", current.Format(models.DateTimeLayout), e.defaultTZ)
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"text": "<what to remind about>", "datetime": "<YYYY-MM-DD HH:MM:SS or empty string>", "timezone": "<IANA zone name or empty string>"}`)
	b.WriteString("\n")
	b.WriteString("Rules:\n")
	b.WriteString("- \"text\" is a short imperative phrase describing the task.\n")
	b.WriteString("- Resolve relative expressions like \"tomorrow\" or \"in two hours\" against the current date and time above.\n")
	b.WriteString("- \"datetime\" is local to \"timezone\". If the message names no timezone, leave \"timezone\" empty.\n")
	b.WriteString("- If the message has no date or time at all, leave both \"datetime\" and \"timezone\" empty; it is a note.\n")
	b.WriteString("- If the message is not a reminder or a note at all, respond with the word null.\n")

	if opts.Forwarded {
		b.WriteString("The message is forwarded content. Derive a concise task from it rather than quoting it verbatim.\n")
	}
	if opts.Recompute {
		b.WriteString("A previous attempt produced a moment in the past. Recompute the date and time carefully against the current date and time above; prefer the nearest future interpretation.\n")
	}

	return b.String()
}

// parseReminderInfo decodes the model's reply, tolerating code fences and a
// bare null for unrecognized input.
func parseReminderInfo(raw string) (*ReminderInfo, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if text == "" || strings.EqualFold(text, "null") {
		return nil, nil
	}

	var info ReminderInfo
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return nil, fmt.Errorf("unparseable extraction reply %q: %w", raw, err)
	}
	if strings.TrimSpace(info.Text) == "" {
		return nil, nil
	}

	info.Text = strings.TrimSpace(info.Text)
	info.DateTime = strings.TrimSpace(info.DateTime)
	info.Timezone = strings.TrimSpace(info.Timezone)
	return &info, nil
}
