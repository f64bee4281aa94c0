package dotmatrix

import (
	"bytes"
	"image"

	"github.com/wbrown/dotmatrix/imageutil"
)

// MaxDimension bounds the longer side of the working pixel buffer. Larger
// sources are downscaled with their aspect ratio preserved.
const MaxDimension = 2400

// Source is a decoded image ready for sampling: the pixel buffer at working
// size plus the encoded bytes it came from. A Source belongs to the pass
// that decoded it and is never modified after construction.
type Source struct {
	// Pixels is the working buffer, at most MaxDimension on either side.
	Pixels *imageutil.NRGBAImage
	// OriginalWidth and OriginalHeight are the decoded dimensions before
	// any downscale.
	OriginalWidth, OriginalHeight int
	// Data and MIMEType are the encoded input, kept for the analysis
	// service. Both are empty for sources built from an image.Image.
	Data     []byte
	MIMEType string
}

// NewSource decodes data and prepares its working buffer. data may be raw
// image bytes or a base64 data URL. Decoding failures are returned as
// *DecodeError.
func NewSource(data []byte) (*Source, error) {
	mimeType := ""
	if bytes.HasPrefix(data, []byte("data:")) {
		payload, mt, err := imageutil.DecodeDataURL(string(data))
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		data, mimeType = payload, mt
	}

	img, err := imageutil.DecodeBytes(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if mimeType == "" {
		mimeType = imageutil.DetectMIMEType(data)
	}

	src := prepareSource(img)
	src.Data = data
	src.MIMEType = mimeType
	return src, nil
}

// SourceFromImage prepares an already decoded image.
func SourceFromImage(img image.Image) *Source {
	return prepareSource(imageutil.NRGBAImageFromImage(img))
}

func prepareSource(img *imageutil.NRGBAImage) *Source {
	src := &Source{
		OriginalWidth:  img.Width(),
		OriginalHeight: img.Height(),
	}
	pixels, resized := imageutil.FitWithin(img, MaxDimension, imageutil.InterpolationArea)
	if resized {
		Logger().Info("downscaled source image",
			"from_width", img.Width(), "from_height", img.Height(),
			"to_width", pixels.Width(), "to_height", pixels.Height())
	}
	src.Pixels = pixels
	return src
}

// Width returns the working width in pixels.
func (s *Source) Width() int { return s.Pixels.Width() }

// Height returns the working height in pixels.
func (s *Source) Height() int { return s.Pixels.Height() }
