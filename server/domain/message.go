package domain

import "fmt"

// ProbeMessage is pushed to every subscription by the liveness monitor.
// Consumers drop it instead of displaying it.
const ProbeMessage = ""

type MessageKind int

const (
	MessageKindUser MessageKind = iota
	MessageKindLogon
	MessageKindLogout
)

func (k MessageKind) String() string {
	switch k {
	case MessageKindUser:
		return "user"
	case MessageKindLogon:
		return "logon"
	case MessageKindLogout:
		return "logout"
	default:
		return "unknown"
	}
}

func NewLogonMessage(username string) string {
	return fmt.Sprintf("%s logged on!", username)
}

func NewLogoutMessage(username string) string {
	return fmt.Sprintf("%s logged out!", username)
}

func NewUserMessage(username, text string) string {
	return fmt.Sprintf("%s: %s", username, text)
}

func IsProbe(msg string) bool {
	return msg == ProbeMessage
}
