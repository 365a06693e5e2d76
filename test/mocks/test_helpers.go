package mocks

// StudentPayload is a top-level login payload for a student.
func StudentPayload() map[string]any {
	return map[string]any{
		"sucesso": true,
		"id":      "7",
		"nome":    "Ana",
		"email":   "ana@example.com",
		"faixa":   "Azul",
		"grau":    "2",
		"ct":      "CT-01",
		"status":  "Aprovado",
		"role":    "aluno",
	}
}

// AdminPayload is a login payload with the user nested under "user".
func AdminPayload(token string) map[string]any {
	return map[string]any{
		"sucesso": true,
		"user": map[string]any{
			"id":         "1",
			"nome":       "Professor",
			"email":      "prof@example.com",
			"faixa":      "Preta",
			"grau":       float64(4),
			"role":       "admin",
			"adminToken": token,
		},
	}
}
