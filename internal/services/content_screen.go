package services

import (
	"regexp"
)

var bannedWords = []string{
	"fuck", "fucking", "shit", "bullshit",
	"asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

// contentScreen flags listing text that a moderator should look at before it
// goes public. It never rejects on its own.
type contentScreen struct {
	bannedWords  []*regexp.Regexp
	emailPattern *regexp.Regexp
	phonePattern *regexp.Regexp
	repeated     *regexp.Regexp
	allCaps      *regexp.Regexp
}

func newContentScreen() *contentScreen {
	cs := &contentScreen{
		bannedWords:  make([]*regexp.Regexp, 0, len(bannedWords)),
		emailPattern: regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		// French numbers, or North American ones written with separators.
		// Bare digit runs are catalogue and serial numbers.
		phonePattern: regexp.MustCompile(`(?:\+33\s?|\b0)[1-9](?:[\s.-]?\d{2}){4}\b|\(?\b\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`),
		repeated:     regexp.MustCompile(`(?i)(?:a{5,}|e{5,}|i{5,}|o{5,}|u{5,}|!{5,}|\?{5,}|\${3,})`),
		allCaps:      regexp.MustCompile(`\b[A-Z]{5,}\b`),
	}
	for _, word := range bannedWords {
		cs.bannedWords = append(cs.bannedWords, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return cs
}

// Check returns "" when text is clean, otherwise a short reason code.
func (cs *contentScreen) Check(texts ...string) string {
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, re := range cs.bannedWords {
			if re.MatchString(text) {
				return "inappropriate_language"
			}
		}
		if cs.emailPattern.MatchString(text) || cs.phonePattern.MatchString(text) {
			return "contact_info"
		}
		if cs.repeated.MatchString(text) {
			return "spam_detected"
		}
		if len(cs.allCaps.FindAllString(text, -1)) > 3 {
			return "excessive_caps"
		}
	}
	return ""
}
