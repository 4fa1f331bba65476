package models

// ParsedResult is the text extracted from one uploaded file.
// ID is the artifact identifier generated for the decode attempt; it is
// the same value returned in the FileName header for single-file responses.
type ParsedResult struct {
	ID           string `json:"id" msgpack:"id"`
	OriginalName string `json:"originalName" msgpack:"originalName"`
	Text         string `json:"text" msgpack:"text"`
}
