package api

import (
	"context"
	"time"

	"github.com/watzon/inkify/pkg/classify"
	"github.com/watzon/inkify/pkg/observability"
	"github.com/watzon/inkify/pkg/render"
	"github.com/watzon/inkify/pkg/resolve"
)

// Orchestrator runs the /generate pipeline: resolve the raw parameters,
// settle on a language, delegate to the rendering engine. Validation
// failures short-circuit before the classifier or the engine is touched.
type Orchestrator struct {
	classifier *classify.Classifier
	engine     render.Engine
	options    resolve.Options
	floor      float64
	metrics    *observability.Metrics
}

// NewOrchestrator wires the pipeline. metrics may be nil.
func NewOrchestrator(classifier *classify.Classifier, engine render.Engine, options resolve.Options, confidenceFloor float64, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		engine:     engine,
		options:    options,
		floor:      confidenceFloor,
		metrics:    metrics,
	}
}

// Generate runs one request through the pipeline and returns PNG bytes.
// The error is *resolve.ValidationError when the parameters were bad, or
// *render.Error when the engine failed.
func (o *Orchestrator) Generate(ctx context.Context, raw resolve.RawRequest) ([]byte, error) {
	logger := observability.FromContext(ctx)

	job, err := resolve.Resolve(raw, o.options)
	if err != nil {
		if verr, ok := err.(*resolve.ValidationError); ok && o.metrics != nil {
			o.metrics.ValidationErrorsTotal.WithLabelValues(verr.Field).Inc()
		}
		return nil, err
	}

	job.Language = o.resolveLanguage(ctx, job)

	start := time.Now()
	image, err := o.engine.Render(ctx, job)
	if o.metrics != nil {
		o.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		status := "internal"
		if rerr, ok := err.(*render.Error); ok && rerr.Kind == render.KindClient {
			status = "client_error"
		}
		if o.metrics != nil {
			o.metrics.RenderTotal.WithLabelValues(status).Inc()
		}
		logger.WithError(err).WithFields(map[string]interface{}{
			"language": job.Language,
			"theme":    job.Theme,
			"code_len": len(job.Code),
		}).Error("render failed")
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.RenderTotal.WithLabelValues("success").Inc()
		o.metrics.ImageBytes.Observe(float64(len(image)))
	}
	return image, nil
}

// resolveLanguage applies the resolution policy: an explicit language wins,
// otherwise a confident classifier guess, otherwise empty so the engine
// falls back to its own detection.
func (o *Orchestrator) resolveLanguage(ctx context.Context, job *resolve.Job) string {
	if job.Language != "" {
		o.observeClassify(observability.ClassifyOutcomeSkipped, 0)
		return job.Language
	}

	start := time.Now()
	result := o.classifier.Classify(job.Code)
	elapsed := time.Since(start)

	resolved := classify.ResolveLanguage("", result, o.floor)

	switch {
	case resolved != "":
		o.observeClassify(observability.ClassifyOutcomeHit, elapsed)
	case len(result) > 0:
		o.observeClassify(observability.ClassifyOutcomeLow, elapsed)
	default:
		o.observeClassify(observability.ClassifyOutcomeEmpty, elapsed)
	}

	if top, ok := result.Top(); ok {
		observability.FromContext(ctx).WithFields(map[string]interface{}{
			"guess":      top.Language,
			"confidence": top.Confidence,
			"resolved":   resolved,
		}).Debug("language classified")
	}

	return resolved
}

func (o *Orchestrator) observeClassify(outcome string, elapsed time.Duration) {
	if o.metrics == nil {
		return
	}
	o.metrics.ClassifyTotal.WithLabelValues(outcome).Inc()
	if outcome != observability.ClassifyOutcomeSkipped {
		o.metrics.ClassifyDuration.Observe(elapsed.Seconds())
	}
}
