// internal/signaling/mode.go
package signaling

// Mode partitions matchmaking into interest categories. Clients only pair
// with peers waiting in the same mode.
type Mode string

const (
	ModeVideo Mode = "video"
	ModeVoice Mode = "voice"
	ModeText  Mode = "text"
)

// Modes lists every recognized mode.
var Modes = []Mode{ModeVideo, ModeVoice, ModeText}

// ParseMode validates a client-supplied mode string against the fixed
// enum. The second return is false for anything else.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeVideo, ModeVoice, ModeText:
		return Mode(s), true
	}
	return "", false
}
