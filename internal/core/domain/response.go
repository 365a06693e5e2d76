package domain

// Response is the uniform outcome of a portal action: either OK with the
// decoded backend payload, or a failure carrying a human-readable message.
type Response struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

func Success(payload map[string]any) Response {
	if payload == nil {
		payload = map[string]any{}
	}
	return Response{OK: true, Payload: payload}
}

func Failure(message string) Response {
	return Response{OK: false, Message: message}
}

// Records returns the payload field as a list of objects, skipping entries
// that are not objects.
func (r Response) Records(field string) []map[string]any {
	items, _ := r.Payload[field].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if rec, ok := item.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Text returns a payload field rendered as a string.
func (r Response) Text(field string) string {
	return asString(r.Payload[field])
}
