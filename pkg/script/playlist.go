package script

import "bytes"

// UnmarshalPlaylist returns script keys from a raw playlist definition.
// One key per line; whitespace is trimmed, empty lines and lines starting with # are skipped.
func UnmarshalPlaylist(raw []byte) []string {
	var keys []string
	for part := range bytes.Lines(raw) {
		part := bytes.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		if bytes.HasPrefix(part, []byte("#")) {
			continue
		}
		keys = append(keys, string(part))
	}
	return keys
}
