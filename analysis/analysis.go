// Package analysis asks a generative model for a short art-critic write-up
// of an image: a title, a two-sentence description and a handful of tags.
// The result is advisory text only and never influences rendering.
package analysis

import (
	"context"
	"errors"
	"strings"

	"github.com/wbrown/dotmatrix/imageutil"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("API key is not configured")

	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("no response from model")

	// ErrMalformedResponse is returned when the model's answer is not the
	// requested JSON object.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrNoImageData is returned for a request without image bytes.
	ErrNoImageData = errors.New("request has no image data")
)

// Result is the text produced for one image.
type Result struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Request carries the encoded source image and the response language.
type Request struct {
	Image    []byte
	MIMEType string
	Language Language
}

// RequestFromDataURL builds a Request from a "data:<mime>;base64,..." URL,
// the form a browser file reader produces.
func RequestFromDataURL(dataURL string, lang Language) (Request, error) {
	data, mimeType, err := imageutil.DecodeDataURL(dataURL)
	if err != nil {
		return Request{}, err
	}
	return Request{Image: data, MIMEType: mimeType, Language: lang}, nil
}

// Analyzer produces a Result for an image.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// BuildPrompt returns the text instruction sent alongside the image.
func BuildPrompt(lang Language) string {
	var b strings.Builder
	b.WriteString("You are an art critic at a modern art gallery. \n")
	b.WriteString("Analyze the provided image. It is about to be converted into a halftone dot-matrix style piece.\n")
	b.WriteString(lang.Instruction())
	b.WriteString("\n\n")
	b.WriteString("1. Provide a creative, abstract, or short punchy Title for this piece.\n")
	b.WriteString("2. Write a brief, 2-sentence artistic description of the subject matter and composition.\n")
	b.WriteString("3. Provide 3-5 relevant keywords/tags.")
	return b.String()
}

func (r Request) mimeType() string {
	if r.MIMEType != "" {
		return r.MIMEType
	}
	return imageutil.DetectMIMEType(r.Image)
}
