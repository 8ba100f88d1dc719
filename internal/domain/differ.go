package domain

// IsNewer reports whether a freshly scraped recency marker is newer than the
// most recently stored one. The bias is fail open, when in doubt insert:
//
//	empty store            → newer
//	stored text unparseable → newer
//	new text unparseable    → newer
//	otherwise               → chronological comparison
//
// Over-inserting costs a duplicate row; skipping loses a real update.
func IsNewer(newMarker, storedMarker string, hasStored bool) bool {
	if !hasStored {
		return true
	}
	storedTime, err := ParseRecencyMarker(storedMarker)
	if err != nil {
		return true
	}
	newTime, err := ParseRecencyMarker(newMarker)
	if err != nil {
		return true
	}
	return newTime.After(storedTime)
}
