package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/AchilleasB/academy-portal/portal-client/internal/config"
	"github.com/AchilleasB/academy-portal/portal-client/internal/core/domain"
)

var errNotAnObject = errors.New("response body is not a JSON object")

// encodeEnvelope flattens params next to the action field. The action field
// always wins over a parameter of the same name.
func encodeEnvelope(vocab config.Vocabulary, wireAction string, params map[string]any) ([]byte, error) {
	envelope := make(map[string]any, len(params)+1)
	for k, v := range params {
		envelope[k] = v
	}
	envelope[vocab.ActionField] = wireAction
	return json.Marshal(envelope)
}

func decodePayload(body []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		// literal null
		return nil, errNotAnObject
	}
	return payload, nil
}

// interpret turns a decoded backend payload into a Response, honouring the
// error flag and the success flag named by the vocabulary.
func interpret(vocab config.Vocabulary, payload map[string]any) domain.Response {
	message, _ := payload[vocab.MessageField].(string)
	message = strings.TrimSpace(message)

	if raw, ok := payload[vocab.ErrorField]; ok && truthy(raw) {
		if message == "" {
			if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" && !isBoolWord(s) {
				message = strings.TrimSpace(s)
			}
		}
		return domain.Failure(orDefault(message, vocab.Messages.BackendGeneric))
	}

	if raw, ok := payload[vocab.SuccessField]; ok && !truthy(raw) {
		return domain.Failure(orDefault(message, vocab.Messages.BackendGeneric))
	}

	return domain.Success(payload)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		return s != "" && s != "false" && s != "0"
	}
	return true
}

func isBoolWord(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	return s == "true" || s == "1"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
