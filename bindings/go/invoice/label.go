package invoice

import (
	"github.com/gabriel-vasile/mimetype"
	"github.com/opencontainers/go-digest"
)

// NewLabel describes data as the content of a parcel called name. If
// mediaType is empty it is detected from the content, falling back to
// application/octet-stream.
func NewLabel(name, mediaType string, data []byte) Label {
	if mediaType == "" {
		// see https://github.com/gabriel-vasile/mimetype/blob/master/supported_mimes.md for supported types
		mediaType = mimetype.Detect(data).String()
	}
	return Label{
		SHA256:    digest.SHA256.FromBytes(data).Encoded(),
		MediaType: mediaType,
		Name:      name,
		Size:      uint64(len(data)),
	}
}
