// Package mime maps audio file extensions to their content types.
package mime

var types = map[string]string{
	"mp3":  "audio/mpeg",
	"flac": "audio/x-flac",
	"aac":  "audio/x-aac",
	"m4a":  "audio/m4a",
	"m4b":  "audio/m4b",
	"ogg":  "audio/ogg",
	"opus": "audio/ogg",
	"wav":  "audio/x-wav",
	"wma":  "audio/x-ms-wma",
}

func FromExtension(ext string) string {
	return types[ext]
}
