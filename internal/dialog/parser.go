package dialog

import (
	"regexp"
	"strconv"
	"strings"
)

// Command is a global keyword recognized regardless of conversation state.
type Command int

const (
	CmdNone Command = iota
	CmdBook
	CmdPrice
	CmdWhen
	CmdHelp
	CmdStatus
	CmdCancel
)

const (
	minAddressLen = 10
	minNameLen    = 2
)

var zipRe = regexp.MustCompile(`\b\d{5}\b`)

// DetectCommand classifies text as a keyword command. Keywords match on the
// first word (case-insensitive, punctuation-trimmed); a few natural-language
// phrasings are matched anywhere. For CANCEL, arg carries the optional
// confirmation code.
func DetectCommand(raw string) (cmd Command, arg string, ok bool) {
	text := strings.ToUpper(strings.TrimSpace(raw))
	if text == "" {
		return CmdNone, "", false
	}

	fields := strings.Fields(text)
	head := strings.Trim(fields[0], ".,!?")

	switch head {
	case "BOOK", "CLEAN", "CLEANING":
		return CmdBook, "", true
	case "PRICE", "COST", "PRICING":
		return CmdPrice, "", true
	case "WHEN", "AVAILABLE", "AVAILABILITY":
		return CmdWhen, "", true
	case "HELP", "COMMANDS":
		return CmdHelp, "", true
	case "STATUS", "CHECK":
		return CmdStatus, "", true
	case "CANCEL":
		if len(fields) > 1 {
			arg = strings.Trim(fields[1], ".,!?")
		}
		return CmdCancel, arg, true
	}

	// Phrasings customers actually send.
	if strings.Contains(text, "HOW MUCH") {
		return CmdPrice, "", true
	}
	if strings.Contains(text, "NEED") && strings.Contains(text, "CLEAN") {
		return CmdBook, "", true
	}

	return CmdNone, "", false
}

// ParseMenuDigit parses a 1-based menu selection, accepting only integers in
// [1, max]. A leading "#" is tolerated.
func ParseMenuDigit(raw string, max int) (int, bool) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimSuffix(text, ".")

	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}

// ParseYesNo matches the confirmation tokens. It returns (value, ok).
func ParseYesNo(raw string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y", "YES":
		return true, true
	case "N", "NO":
		return false, true
	}
	return false, false
}

// ValidAddress applies the minimal structural check: a 5-digit ZIP and a
// plausible length. Full address verification is out of scope.
func ValidAddress(raw string) bool {
	text := strings.TrimSpace(raw)
	return len(text) >= minAddressLen && zipRe.MatchString(text)
}

// ValidName checks the name is long enough to be real.
func ValidName(raw string) bool {
	return len(strings.TrimSpace(raw)) >= minNameLen
}
