package config

import (
	"fmt"
	"time"

	"pdf-tools-server/internal/domain"
	"pdf-tools-server/internal/engine"
	"pdf-tools-server/internal/service"
	"pdf-tools-server/internal/storage"
	"pdf-tools-server/pkg/logger"
)

// Version is the reported service version
const Version = "1.0.0"

// reaperInterval is how often expired scratch artifacts are swept
const reaperInterval = 30 * time.Second

// Container holds all application dependencies
type Container struct {
	Config       domain.Config
	Logger       domain.Logger
	Capabilities domain.Capabilities
	Libraries    []string

	Workspace domain.Workspace
	Reaper    *storage.Reaper

	MergeService    domain.MergeService
	SplitService    domain.SplitService
	CompressService domain.CompressService
	ConvertService  domain.ConvertService
}

// NewContainer creates a new dependency injection container. Optional
// capabilities (page rasterization, raster transcoding) are resolved here,
// once, so the services can branch on them explicitly.
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	reaper := storage.NewReaper(reaperInterval, appLogger)
	workspace, err := storage.NewWorkspace(config.GetTempDir(), config.GetCleanupDelay(), reaper, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize workspace: %w", err)
	}

	documentEngine := engine.NewPDFCPUEngine(appLogger)
	textExtractor := engine.NewPlainTextExtractor(appLogger)
	wordExtractor := engine.NewDocxExtractor(appLogger)
	composer := engine.NewTextComposer(appLogger)

	capabilities := domain.Capabilities{}
	libraries := []string{engine.EngineName, engine.ExtractorName}

	var rasterizer domain.PageRasterizer
	if config.RasterizerEnabled() {
		rasterizer = engine.NewFitzRasterizer(appLogger)
		capabilities.CanRasterizePages = true
		libraries = append(libraries, engine.RasterizerName)
	}

	var transcoder domain.ImageTranscoder
	if config.ImageTranscodingEnabled() {
		transcoder = engine.NewRasterTranscoder(appLogger)
		capabilities.CanTranscodeImages = true
	}

	appLogger.Info("Capabilities resolved",
		"rasterizePages", capabilities.CanRasterizePages,
		"transcodeImages", capabilities.CanTranscodeImages,
	)

	return &Container{
		Config:       config,
		Logger:       appLogger,
		Capabilities: capabilities,
		Libraries:    libraries,
		Workspace:    workspace,
		Reaper:       reaper,
		MergeService: service.NewMergeService(documentEngine, appLogger),
		SplitService: service.NewSplitService(documentEngine, appLogger),
		CompressService: service.NewCompressService(
			documentEngine,
			appLogger,
		),
		ConvertService: service.NewConvertService(
			documentEngine,
			rasterizer,
			textExtractor,
			wordExtractor,
			composer,
			transcoder,
			capabilities,
			appLogger,
		),
	}, nil
}
