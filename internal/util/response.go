package util

type Envelope map[string]any

// Error builds the error envelope returned for every failed request.
func Error(status int, message string) Envelope {
	return Envelope{"error": message, "status": status}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
