package models

// Info keys accepted from rules, front matter and sidecar files.
const (
	InfoTitle       = "title"
	InfoDescription = "description"
	InfoExternalURL = "externalUrl"
)

// CardInfoKeys are the info keys a card may carry.
var CardInfoKeys = []string{InfoTitle, InfoExternalURL}

// ContainerInfoKeys are the info keys a container may carry.
var ContainerInfoKeys = []string{InfoTitle, InfoDescription, InfoExternalURL}

// SectionInfoKeys are the info keys Guru keeps for a board section.
var SectionInfoKeys = []string{InfoTitle}

// AllowedKey reports whether key is in allowed.
func AllowedKey(allowed []string, key string) bool {
	for _, k := range allowed {
		if k == key {
			return true
		}
	}
	return false
}
