package advisory

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ErrUnusableReply is returned when no strategy can recover anything
// worth showing to the farmer.
var ErrUnusableReply = errors.New("model reply contains no usable advisory")

// reply is the shape the model is instructed to produce. Steps is kept
// raw because models frequently return a single string instead of an
// array.
type reply struct {
	Title string          `json:"title"`
	Text  string          `json:"text"`
	Steps json.RawMessage `json:"steps"`
}

// Normalize coerces a possibly malformed model reply into a valid
// advisory for the given language. Strategies are tried in order; each
// is a total function that either applies or does not. Missing fields
// are backfilled from the per-language tables, so a successful result
// always has a non-empty title, text and step list.
func Normalize(raw, lang string) (Response, error) {
	for _, parse := range []func(string) (reply, bool){
		parseDirect,
		parseFenced,
		parseBraceSpan,
	} {
		if r, ok := parse(raw); ok {
			return finalize(r, lang), nil
		}
	}

	text, ok := extractText(raw)
	if !ok {
		text = stripStructural(raw)
	}
	if !usable(text) {
		return Response{}, ErrUnusableReply
	}
	return finalize(reply{Text: text}, lang), nil
}

// parseDirect parses the trimmed raw text as JSON.
func parseDirect(raw string) (reply, bool) {
	return decodeReply(strings.TrimSpace(raw))
}

// parseFenced strips markdown code fences and any prose around the
// outermost brace pair, then parses.
func parseFenced(raw string) (reply, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "json"))

	open := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if open < 0 || end <= open {
		return reply{}, false
	}
	return decodeReply(s[open : end+1])
}

var braceSpanRe = regexp.MustCompile(`(?s)\{.*?\}`)

// parseBraceSpan extracts the first {...} span and parses it in
// isolation. Nested objects defeat the non-greedy match, in which case
// the strategy simply does not apply.
func parseBraceSpan(raw string) (reply, bool) {
	span := braceSpanRe.FindString(raw)
	if span == "" {
		return reply{}, false
	}
	return decodeReply(span)
}

var textFieldRe = regexp.MustCompile(`"text"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// extractText pulls the text field out of unparseable output.
func extractText(raw string) (string, bool) {
	m := textFieldRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	if unquoted, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
		return unquoted, true
	}
	return m[1], true
}

func stripStructural(raw string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '[', ']', '"', '`':
			return -1
		}
		return r
	}, raw))
}

// usable judges whether recovered text is worth returning as advice.
func usable(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 10
}

func decodeReply(s string) (reply, bool) {
	var r reply
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return reply{}, false
	}
	return r, true
}

func finalize(r reply, lang string) Response {
	steps := normalizeSteps(coerceSteps(r.Steps))
	if len(steps) == 0 {
		steps = stepsFor(lang)
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = defaultTitle(lang)
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		text = defaultIntro(lang)
	}
	return Response{
		Title:  title,
		Text:   text,
		Steps:  steps,
		Lang:   lang,
		Source: SourceAI,
	}
}

// coerceSteps accepts either a JSON array of strings or a bare string.
func coerceSteps(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	switch raw[0] {
	case '[':
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil
		}
		return many
	case '"':
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil
		}
		return []string{single}
	default:
		return nil
	}
}

func normalizeSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, step := range steps {
		clean := strings.TrimSpace(step)
		if clean == "" {
			continue
		}
		out = append(out, clean)
	}
	return out
}
