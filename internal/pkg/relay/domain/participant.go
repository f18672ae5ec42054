package relay

// Status is a participant's presence state as shown to other participants.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

// ValidStatus reports whether s is one of the three presence states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOnline, StatusAway, StatusOffline:
		return true
	}
	return false
}

// Participant is a registered chat identity. Handle is the stable, client-chosen
// identifier; ConnectionID is the ephemeral routing token of the current live
// socket and is empty while the participant is offline. PublicKey is an opaque
// blob the relay stores and rebroadcasts but never interprets.
type Participant struct {
	Handle       string `json:"handle"`
	DisplayName  string `json:"display_name"`
	PublicKey    string `json:"public_key"`
	Status       Status `json:"status"`
	ConnectionID string `json:"-"`
}

// Online reports whether the participant has a live connection to route to.
func (p Participant) Online() bool {
	return p.ConnectionID != ""
}
