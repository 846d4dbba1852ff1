package websocket

// Message defines the structure for websocket messages pushed to clients.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}
