package rooms

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/artspace/room-analyzer/internal/application"
	"github.com/artspace/room-analyzer/internal/domain/ai"
	"github.com/artspace/room-analyzer/internal/domain/catalog"
	domain "github.com/artspace/room-analyzer/internal/domain/rooms"
	"github.com/artspace/room-analyzer/internal/logger"
)

// Outcome labels how a single analysis ended.
type Outcome string

const (
	OutcomeModel            Outcome = "model"
	OutcomeFallbackParse    Outcome = "fallback_parse"
	OutcomeFallbackUpstream Outcome = "fallback_upstream"
	OutcomeFallbackInput    Outcome = "fallback_input"
	OutcomeMissingImage     Outcome = "missing_image"
)

// Observer receives per-analysis telemetry.
type Observer interface {
	ObserveAnalysis(outcome string)
	ObserveModelCall(d time.Duration)
}

// Normalizer rewrites the base64 payload before it goes upstream.
type Normalizer interface {
	Normalize(payload string) string
}

type Service struct {
	Client     ai.Client
	Normalizer Normalizer
	Observer   Observer
	Clock      application.Clock
	Log        logrus.FieldLogger

	// ModelTimeout bounds the upstream call. Zero leaves ctx as it is.
	ModelTimeout time.Duration
}

// Analyze runs one room analysis for a raw request body.
//
// The only error returned is domain.ErrNoImage. Every other failure, panics
// included, is logged and answered with domain.DefaultResult.
func (s *Service) Analyze(ctx context.Context, body []byte) (res domain.AnalysisResult, err error) {
	log := logger.FromContext(ctx, s.Log)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("room analysis panicked, serving default recommendations")
			s.observe(OutcomeFallbackUpstream)
			res, err = domain.DefaultResult(), nil
		}
	}()

	image, err := DecodeImage(body)
	switch {
	case errors.Is(err, domain.ErrNoImage):
		s.observe(OutcomeMissingImage)
		return domain.AnalysisResult{}, err
	case err != nil:
		log.WithError(err).Warn("invalid analyze request, serving default recommendations")
		s.observe(OutcomeFallbackInput)
		return domain.DefaultResult(), nil
	}

	if s.Normalizer != nil {
		image = s.Normalizer.Normalize(image)
	}

	if s.Client == nil {
		log.WithError(ai.ErrMissingAPIKey).Warn("no model client configured, serving default recommendations")
		s.observe(OutcomeFallbackUpstream)
		return domain.DefaultResult(), nil
	}

	text, err := s.callModel(ctx, image)
	if err != nil {
		log.WithError(err).Warn("model call failed, serving default recommendations")
		s.observe(OutcomeFallbackUpstream)
		return domain.DefaultResult(), nil
	}

	result, err := domain.Parse(text)
	if err != nil {
		log.WithError(err).WithField("output_bytes", len(text)).Warn("unusable model output, serving default recommendations")
		s.observe(OutcomeFallbackParse)
		return domain.DefaultResult(), nil
	}

	for _, rec := range result.Recommendations {
		if _, ok := catalog.Lookup(rec.ArtworkID); !ok {
			log.WithField("artwork_id", rec.ArtworkID).Debug("model recommended an artwork outside the catalog")
		}
	}

	s.observe(OutcomeModel)
	return result, nil
}

func (s *Service) callModel(ctx context.Context, image string) (string, error) {
	if s.ModelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ModelTimeout)
		defer cancel()
	}

	start := s.now()
	text, err := s.Client.AnalyzeRoom(ctx, image)
	if s.Observer != nil {
		s.Observer.ObserveModelCall(s.now().Sub(start))
	}
	return text, err
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s *Service) observe(o Outcome) {
	if s.Observer != nil {
		s.Observer.ObserveAnalysis(string(o))
	}
}
