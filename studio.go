package dotmatrix

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/wbrown/dotmatrix/analysis"
)

// imageRequest is one loaded image. Decoding happens at most once, on the
// first pass that needs it, and is shared by every later settings change.
type imageRequest struct {
	id     uint64
	decode func() (*Source, error)
}

func newImageRequest(id uint64, data []byte) *imageRequest {
	return &imageRequest{
		id: id,
		decode: sync.OnceValues(func() (*Source, error) {
			return NewSource(data)
		}),
	}
}

// Studio drives render passes for an interactive front end. Each LoadImage
// or SetSettings call starts a new request; a pass only publishes its Frame
// if no newer request was made while it ran. Methods are safe for concurrent
// use.
type Studio struct {
	mu       sync.Mutex
	gen      uint64
	images   uint64
	settings Settings
	image    *imageRequest
	frame    *Frame
	analysis *analysis.Result

	analyzing atomic.Bool
}

// NewStudio returns a Studio with no image and the given settings.
func NewStudio(settings Settings) *Studio {
	return &Studio{settings: settings}
}

// LoadImage replaces the current image with data (raw bytes or a data URL)
// and renders it with the current settings. Any previous analysis result
// is cleared. The new image is current as soon as the call starts, so a
// SetSettings made during the decode renders it. A decode failure restores
// the previous image and leaves the previous frame in place.
func (s *Studio) LoadImage(ctx context.Context, data []byte) (*Frame, error) {
	s.mu.Lock()
	s.gen++
	s.images++
	req := newImageRequest(s.images, data)
	prev, prevAnalysis := s.image, s.analysis
	s.image, s.analysis = req, nil
	gen, settings := s.gen, s.settings
	s.mu.Unlock()

	src, err := req.decode()
	if err != nil {
		Logger().Warn("image load failed", "image", req.id, "error", err)
		s.mu.Lock()
		if s.image == req {
			s.image, s.analysis = prev, prevAnalysis
		}
		s.mu.Unlock()
		return nil, err
	}

	return s.render(ctx, gen, src, settings)
}

// SetSettings stores settings and re-renders the current image with them.
// The settings are kept even when no image is loaded, in which case
// ErrNoImage is returned.
func (s *Studio) SetSettings(ctx context.Context, settings Settings) (*Frame, error) {
	s.mu.Lock()
	s.gen++
	s.settings = settings
	gen, req := s.gen, s.image
	s.mu.Unlock()

	if req == nil {
		return nil, ErrNoImage
	}
	src, err := req.decode()
	if err != nil {
		return nil, err
	}
	return s.render(ctx, gen, src, settings)
}

func (s *Studio) render(ctx context.Context, gen uint64, src *Source, settings Settings) (*Frame, error) {
	frame, err := Render(ctx, src, settings)
	if err != nil {
		Logger().Warn("render pass failed", "generation", gen, "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		Logger().Debug("discarding stale render", "generation", gen, "current", s.gen)
		return nil, ErrSuperseded
	}
	s.frame = frame
	return frame, nil
}

// Current returns the last committed frame, or nil before the first
// successful pass.
func (s *Studio) Current() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Settings returns the most recently requested settings.
func (s *Studio) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Analysis returns the analysis of the current image, or nil if none has
// completed since it was loaded.
func (s *Studio) Analysis() *analysis.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Analyze sends the current image to a. Only one analysis may run at a
// time. Failures are returned as *ExternalServiceError and leave render
// state untouched. A result that arrives after a different image was
// loaded is returned but not stored.
func (s *Studio) Analyze(ctx context.Context, a analysis.Analyzer, lang analysis.Language) (*analysis.Result, error) {
	if !s.analyzing.CompareAndSwap(false, true) {
		return nil, ErrAnalysisInFlight
	}
	defer s.analyzing.Store(false)

	s.mu.Lock()
	req := s.image
	s.mu.Unlock()
	if req == nil {
		return nil, ErrNoImage
	}
	src, err := req.decode()
	if err != nil {
		return nil, err
	}

	Logger().Info("analyzing image", "mime_type", src.MIMEType, "bytes", len(src.Data), "language", lang.String())
	result, err := a.Analyze(ctx, analysis.Request{
		Image:    src.Data,
		MIMEType: src.MIMEType,
		Language: lang,
	})
	if err != nil {
		Logger().Warn("image analysis failed", "error", err)
		var ese *ExternalServiceError
		if errors.As(err, &ese) {
			return nil, err
		}
		return nil, &ExternalServiceError{Service: "gemini", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == req {
		s.analysis = result
	}
	return result, nil
}
