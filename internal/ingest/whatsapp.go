// Package ingest parses WhatsApp chat exports into candidate catalog
// entries: message extraction, cutoff filtering, text cleaning and duplicate
// detection. No decision logic lives here; everything downstream of parsing
// is mechanical data movement.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"yashubustudio/dichos/dichos"
)

// Message is one parsed chat message, continuation lines already folded in.
type Message struct {
	LineNum     int
	Timestamp   time.Time
	Contributor string
	Text        string
}

// Export lines look like "08/23/25, 07:21 PM - Maria: text". NFKC
// normalization upstream folds the narrow no-break space some exports put
// before AM/PM into a plain space.
var messageLine = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2}), ?(\d{1,2}):(\d{2}) ?([AP]M) - (.+)$`)

// ParseChat reads a WhatsApp chat export. Lines that do not open a new
// message are treated as continuations of the previous one.
func ParseChat(r io.Reader) ([]Message, error) {
	var (
		messages []Message
		current  *Message
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := dichos.NormalizeText(scanner.Text())
		if line == "" {
			continue
		}
		m := messageLine.FindStringSubmatch(line)
		if m == nil {
			if current != nil {
				current.Text += " " + line
			}
			continue
		}
		ts, err := parseTimestamp(m[1], m[2], m[3], m[4])
		if err != nil {
			// Unparseable dates skip the line rather than abort the export.
			continue
		}
		if current != nil {
			messages = append(messages, *current)
		}
		contributor, text := splitContributor(m[5])
		current = &Message{
			LineNum:     lineNum,
			Timestamp:   ts,
			Contributor: contributor,
			Text:        text,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan chat export: %w", err)
	}
	if current != nil {
		messages = append(messages, *current)
	}
	return messages, nil
}

// FilterAfter keeps only messages strictly newer than the cutoff, which is
// the newest entry already stored.
func FilterAfter(messages []Message, cutoff time.Time) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Timestamp.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

func parseTimestamp(date, hour, minute, ampm string) (time.Time, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("bad date %q", date)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, err
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return time.Time{}, err
	}
	min, err := strconv.Atoi(minute)
	if err != nil {
		return time.Time{}, err
	}
	if ampm == "PM" && h != 12 {
		h += 12
	} else if ampm == "AM" && h == 12 {
		h = 0
	}
	return time.Date(2000+year, time.Month(month), day, h, min, 0, 0, time.UTC), nil
}

func splitContributor(rest string) (contributor, text string) {
	if idx := strings.Index(rest, ":"); idx >= 0 {
		return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+1:])
	}
	// System messages (group renames, joins) have no contributor colon.
	return strings.TrimSpace(rest), ""
}
