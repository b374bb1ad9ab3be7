// Package music detects playback commands in natural language chat messages.
package music

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CommandType enumerates the playback commands the companion understands.
type CommandType string

const (
	CommandPlay   CommandType = "play"
	CommandSearch CommandType = "search"
	CommandClose  CommandType = "close"
	CommandNext   CommandType = "next"
	CommandPrev   CommandType = "prev"
	CommandPause  CommandType = "pause"
	CommandVolume CommandType = "volume"
)

// Command is a parsed music command. Query holds a song/artist name for
// play/search; Value holds the target level (0..1) for volume commands.
type Command struct {
	Type  CommandType `json:"type"`
	Query string      `json:"query,omitempty"`
	Value *float64    `json:"value,omitempty"`
}

var playPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:play|put on|play me|start|queue)\s+(.+)`),
	regexp.MustCompile(`(?i)(?:i want to|can you|wanna)\s+(?:listen to|hear)\s+(.+)`),
	regexp.MustCompile(`(?i)(.+)\s+(?:song|track|music)$`),
}

var searchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:search|find|look up|show me)\s+(?:songs? by|music by|tracks? by)?\s*(.+)`),
	regexp.MustCompile(`(?i)(?:songs? by|music by|anything by)\s+(.+)`),
}

var (
	skipPattern   = regexp.MustCompile(`(?i)(?:next|skip|next song|next track)`)
	prevPattern   = regexp.MustCompile(`(?i)(?:previous|prev|go back|last song)`)
	pausePattern  = regexp.MustCompile(`(?i)(?:pause|stop|stop music|pause music|mute)`)
	closePattern  = regexp.MustCompile(`(?i)(?:close (?:the )?(?:player|music|spotify)|stop player)`)
	volumePattern = regexp.MustCompile(`(?i)(?:volume)\s+(?:up|down|to\s+(\d+))`)

	queryPrefixTrim = regexp.MustCompile(`(?i)^(?:for me|please|now|right now)\s*`)
	querySuffixTrim = regexp.MustCompile(`(?i)\s+(?:please|now|right now)$`)
)

// moodEntry maps a spoken mood to a canned search query.
type moodEntry struct {
	mood  string
	query string
}

// moodMusicTable order is the match precedence for mood-based requests.
var moodMusicTable = []moodEntry{
	{"sad", "sad songs hindi"},
	{"happy", "happy upbeat songs"},
	{"chill", "lofi chill beats"},
	{"stressed", "calm relaxing music"},
	{"focus", "study music concentration"},
	{"workout", "workout pump up songs"},
	{"romantic", "romantic hindi songs"},
	{"party", "party songs hits"},
	{"sleep", "sleep music calm"},
	{"motivate", "motivational songs"},
}

// moodPattern matches phrasings like "play sad" or "sad music".
func moodPattern(m string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:play|put on|i(?:'m| am) feeling|something)\s+` + m + `|` + m + `\s+(?:music|songs|vibes)`)
}

var moodPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(moodMusicTable))
	for i, e := range moodMusicTable {
		out[i] = moodPattern(e.mood)
	}
	return out
}()

// Parse maps one user utterance to a music command, or nil when the message
// carries no command. Control commands are checked before play/search so
// "stop music" never becomes a search for "music".
func Parse(message string) *Command {
	msg := strings.TrimSpace(message)

	if closePattern.MatchString(msg) {
		return &Command{Type: CommandClose}
	}
	if skipPattern.MatchString(msg) {
		return &Command{Type: CommandNext}
	}
	if prevPattern.MatchString(msg) {
		return &Command{Type: CommandPrev}
	}
	if pausePattern.MatchString(msg) {
		return &Command{Type: CommandPause}
	}

	if m := volumePattern.FindStringSubmatch(msg); m != nil {
		cmd := &Command{Type: CommandVolume}
		if m[1] != "" {
			level, _ := strconv.Atoi(m[1])
			v := float64(level) / 100
			cmd.Value = &v
		}
		return cmd
	}

	for i, e := range moodMusicTable {
		if moodPatterns[i].MatchString(msg) {
			return &Command{Type: CommandPlay, Query: e.query}
		}
	}

	for _, pattern := range playPatterns {
		if m := pattern.FindStringSubmatch(msg); m != nil && m[1] != "" {
			query := strings.TrimSpace(querySuffixTrim.ReplaceAllString(queryPrefixTrim.ReplaceAllString(m[1], ""), ""))
			if len(query) > 1 {
				return &Command{Type: CommandPlay, Query: query}
			}
		}
	}

	for _, pattern := range searchPatterns {
		if m := pattern.FindStringSubmatch(msg); m != nil && m[1] != "" {
			return &Command{Type: CommandSearch, Query: strings.TrimSpace(m[1])}
		}
	}

	return nil
}

// Acknowledgement returns the companion's canned reply for a parsed command.
func Acknowledgement(cmd *Command) string {
	if cmd == nil {
		return ""
	}
	switch cmd.Type {
	case CommandPlay:
		return fmt.Sprintf("On it! 🎵 Let me find %q for you...", cmd.Query)
	case CommandSearch:
		return fmt.Sprintf("Searching for %q 🔍", cmd.Query)
	case CommandNext:
		return "Skipping to next track! ⏭️"
	case CommandPrev:
		return "Going back! ⏮️"
	case CommandPause:
		return "Pausing the music 🎵"
	case CommandClose:
		return "Closing the player 🎵"
	case CommandVolume:
		if cmd.Value != nil {
			return fmt.Sprintf("Setting volume to %d%% 🔊", int(math.Round(*cmd.Value*100)))
		}
		return "Adjusting volume! 🔊"
	default:
		return ""
	}
}
