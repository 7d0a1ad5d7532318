package core

import "fmt"

// Section names a secondary gate
type Section string

const (
	SectionMedia Section = "media"
	SectionText  Section = "text"
)

// ParseSection converts user input into a Section
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionMedia, SectionText:
		return Section(s), nil
	}
	return "", fmt.Errorf("unknown section %q", s)
}

// Session holds the in-memory unlock flags of one application run.
// A new Session always starts fully locked. It is not safe for concurrent use.
type Session struct {
	unlocked      bool
	mediaUnlocked bool
	textUnlocked  bool
}

// NewSession returns a locked session
func NewSession() *Session {
	return &Session{}
}

// Unlocked reports the primary unlock flag
func (s *Session) Unlocked() bool {
	return s.unlocked
}

// SectionUnlocked reports a section flag. It does not consider the primary flag.
func (s *Session) SectionUnlocked(section Section) bool {
	switch section {
	case SectionMedia:
		return s.mediaUnlocked
	case SectionText:
		return s.textUnlocked
	}
	return false
}

func (s *Session) setSection(section Section, v bool) {
	switch section {
	case SectionMedia:
		s.mediaUnlocked = v
	case SectionText:
		s.textUnlocked = v
	}
}

func (s *Session) clear() {
	s.unlocked = false
	s.mediaUnlocked = false
	s.textUnlocked = false
}
