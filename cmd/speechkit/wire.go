package main

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/kbukum/speechkit/component"
	"github.com/kbukum/speechkit/httpclient"
	"github.com/kbukum/speechkit/imagegen"
	imagesf "github.com/kbukum/speechkit/imagegen/siliconflow"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/observability"
	"github.com/kbukum/speechkit/provider"
	"github.com/kbukum/speechkit/synthesis"
	synthsf "github.com/kbukum/speechkit/synthesis/siliconflow"
	"github.com/kbukum/speechkit/task"
	"github.com/kbukum/speechkit/transcription"
	transcribeai "github.com/kbukum/speechkit/transcription/openai"
	transcribesf "github.com/kbukum/speechkit/transcription/siliconflow"
)

type closer interface {
	Close(ctx context.Context) error
}

// services is everything a command needs once wiring is done.
type services struct {
	runner  *task.Runner
	closers []closer
}

// buildServices initializes one provider per backend and registers the four tasks.
func buildServices(cfg *AppConfig, metrics *observability.Metrics) (*services, error) {
	sf := cfg.SiliconFlow
	httpOpts := []httpclient.Option{httpclient.WithMetrics(metrics)}

	// audio-to-text prefers SiliconFlow's own endpoint and falls back to the
	// OpenAI-compatible client.
	transcriberOrder := []string{transcribesf.ProviderName, transcribeai.ProviderName}
	transcribers := transcription.NewManager(transcription.WithSelector(
		&provider.PrioritySelector[transcription.Provider]{Priority: transcriberOrder}))
	transcribers.Register(transcribesf.ProviderName, transcribesf.Factory(transcribesf.WithHTTPOptions(httpOpts...)))
	transcribers.Register(transcribeai.ProviderName, transcribeai.Factory())
	for _, name := range transcriberOrder {
		if err := transcribers.Initialize(name, sf.providerConfig(sf.TranscriptionModel)); err != nil {
			return nil, err
		}
	}

	synthesizers := synthesis.NewManager()
	synthesizers.Register(synthsf.ProviderName, synthsf.Factory(synthsf.WithHTTPOptions(httpOpts...)))
	if err := synthesizers.Initialize(synthsf.ProviderName, sf.providerConfig(sf.SynthesisModel)); err != nil {
		return nil, err
	}

	generators := imagegen.NewManager()
	generators.Register(imagesf.ProviderName, imagesf.Factory(imagesf.WithHTTPOptions(httpOpts...)))
	if err := generators.Initialize(imagesf.ProviderName, sf.providerConfig("")); err != nil {
		return nil, err
	}

	audioToText, err := transcribers.Get(context.Background())
	if err != nil {
		return nil, err
	}
	speechToText, err := transcribers.GetByName(transcribeai.ProviderName)
	if err != nil {
		return nil, err
	}
	textToAudio, err := synthesizers.Get(context.Background())
	if err != nil {
		return nil, err
	}
	images, err := generators.Get(context.Background())
	if err != nil {
		return nil, err
	}

	reg := task.NewRegistry()
	reg.Register(task.NewAudioToText(audioToText))
	reg.Register(task.NewSpeechToText(speechToText))
	reg.Register(task.NewTextToAudio(textToAudio))
	reg.Register(task.NewImageGeneration(images))

	svc := &services{
		runner: task.NewRunner(reg,
			task.WithMetrics(metrics),
			task.WithServiceName(cfg.Name),
		),
	}
	for _, p := range []any{audioToText, speechToText, textToAudio, images} {
		if c, ok := p.(closer); ok {
			svc.closers = append(svc.closers, c)
		}
	}
	return svc, nil
}

// component reports task availability and releases provider connections on stop.
func (s *services) component() component.Component {
	return &component.Func{
		ComponentName: "tasks",
		StopFunc: func(ctx context.Context) error {
			var errs []error
			for _, c := range s.closers {
				errs = append(errs, c.Close(ctx))
			}
			return stderrors.Join(errs...)
		},
		HealthFunc: func(ctx context.Context) component.Health {
			reg := s.runner.Registry()
			var down []string
			for _, name := range reg.Names() {
				if h, err := reg.Get(name); err == nil && !h.IsAvailable(ctx) {
					down = append(down, name)
				}
			}
			if len(down) > 0 {
				return component.Health{
					Name:    "tasks",
					Status:  component.StatusDegraded,
					Message: "unavailable: " + strings.Join(down, ", "),
				}
			}
			return component.Health{Name: "tasks", Status: component.StatusHealthy}
		},
	}
}

// telemetryComponent installs OTLP exporters for the lifetime of the app.
func telemetryComponent(cfg *AppConfig) component.Component {
	var shutdown observability.ShutdownFunc
	return &component.Func{
		ComponentName: "telemetry",
		StartFunc: func(ctx context.Context) error {
			fn, err := observability.Setup(ctx, cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
			if err != nil {
				return err
			}
			shutdown = fn
			if cfg.Observability.Enabled {
				logger.Named("telemetry").Info("telemetry exporters installed",
					logger.Fields("endpoint", cfg.Observability.Endpoint))
			}
			return nil
		},
		StopFunc: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	}
}
