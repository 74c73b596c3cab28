package estimator

import (
	"encoding/json"
	"errors"
	"strings"
)

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// messageContent decodes an OpenAI-compatible chat/completions body and returns the
// first choice's text.
func messageContent(body []byte) (string, error) {
	var cc chatCompletion
	if err := json.Unmarshal(body, &cc); err != nil {
		return "", fail(KindEnvelope, err)
	}
	if len(cc.Choices) == 0 {
		return "", fail(KindEmptyContent, errors.New("no choices"))
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		return "", fail(KindEmptyContent, errors.New("empty message content"))
	}
	return content, nil
}

// ExtractObject returns the span from the first '{' to the last '}' of text.
// Models wrap JSON in prose or code fences despite instructions.
func ExtractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fail(KindMalformedJSON, errors.New("no JSON object in reply"))
	}
	return text[start : end+1], nil
}
