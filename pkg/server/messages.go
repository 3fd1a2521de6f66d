package server

// Message types exchanged over the live connection.
const (
	MsgClick    = "click"
	MsgConfirm  = "confirm"
	MsgHTML     = "html"
	MsgNavigate = "navigate"
	MsgError    = "error"
)

// ClientMessage is sent by the browser.
//
// A click names its target by element id, or by Path, the element-child
// indexes from the body, when the clicked element has no id.
type ClientMessage struct {
	Type     string `json:"type"`
	Target   string `json:"target,omitempty"`
	Path     []int  `json:"path,omitempty"`
	ID       string `json:"id,omitempty"`
	Accepted bool   `json:"accepted,omitempty"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	HTML    string `json:"html,omitempty"`
	Href    string `json:"href,omitempty"`
}
