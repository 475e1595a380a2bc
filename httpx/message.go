package httpx

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// maxTextMessage caps messages taken from non-JSON bodies so a full HTML
// error page never ends up in front of a user.
const maxTextMessage = 300

var markupTag = regexp.MustCompile(`<[^>]*>`)

func isJSONContentType(ct string) bool {
	return strings.Contains(strings.ToLower(ct), "application/json")
}

// errorMessage derives the user facing message for a non-2xx response.
func errorMessage(status int, contentType string, body []byte) string {
	if isJSONContentType(contentType) {
		if msg, ok := jsonErrorMessage(body); ok {
			return msg
		}
		return genericStatusMessage(status)
	}
	if msg := textErrorMessage(body); msg != "" {
		return msg
	}
	return genericStatusMessage(status)
}

// jsonErrorMessage prefers "detail", then "message", then the whole payload.
// Empty or null fields are skipped the same way a falsy value would be.
func jsonErrorMessage(body []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return "", false
	}
	if obj, ok := payload.(map[string]any); ok {
		for _, key := range []string{"detail", "message"} {
			if msg, ok := messageValue(obj[key]); ok {
				return msg, true
			}
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func messageValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case bool:
		if !t {
			return "", false
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return "", false
		}
		return t.String(), true
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	return string(b), true
}

func textErrorMessage(body []byte) string {
	text := strings.TrimSpace(markupTag.ReplaceAllString(string(body), ""))
	if text == "" {
		return ""
	}
	if r := []rune(text); len(r) > maxTextMessage {
		text = string(r[:maxTextMessage])
	}
	return text
}
