package api

// Message types a websocket client may send.
const (
	MessageDirection = "direction"
	MessageReset     = "reset"
)

// InputMessage is sent by websocket clients to steer or reset their game.
type InputMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// CreateResponse is returned when a game is created.
type CreateResponse struct {
	ID string `json:"ID"`
}

// ListResponse lists the ids of the running games.
type ListResponse struct {
	Games []string `json:"games"`
}

// ErrorResponse carries the error message of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// VersionResponse reports the server version.
type VersionResponse struct {
	Version string `json:"version"`
}
