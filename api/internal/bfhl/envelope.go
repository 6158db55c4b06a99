package bfhl

// Envelope is the body of every response, success or failure.
// Data and Error are never both set.
type Envelope struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data,omitempty"`
	Error         string `json:"error,omitempty"`
}

func Success(identity string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: identity, Data: data}
}

func Failure(identity, msg string) Envelope {
	return Envelope{OfficialEmail: identity, Error: msg}
}

func Health(identity string) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: identity}
}
