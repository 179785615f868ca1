package api

import (
	"os"
	"path/filepath"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/domain"
	"raydx.com/raydx/pkg/raydx/infrastructure/catalog"
	"raydx.com/raydx/pkg/raydx/infrastructure/clip"
	"raydx.com/raydx/pkg/raydx/infrastructure/imaging"
	"raydx.com/raydx/pkg/raydx/infrastructure/logging"
	"raydx.com/raydx/pkg/raydx/infrastructure/onnx"
	"raydx.com/raydx/pkg/raydx/infrastructure/openrouter"
	"raydx.com/raydx/pkg/raydx/infrastructure/textencoder"
	"raydx.com/raydx/pkg/raydx/infrastructure/wiki"
)

// See domain/config.go
const (
	ConfigKeyLogPath                 = domain.ConfigKeyLogPath
	ConfigKeyModelsDir               = domain.ConfigKeyModelsDir
	ConfigKeyReportAPIKey            = domain.ConfigKeyReportAPIKey
	ConfigKeyReportGenerationEnabled = domain.ConfigKeyReportGenerationEnabled
)

// Image towers usable by the zero-shot tier, attempted in order. The embedding width is the
// projection dimension shared by all CLIP-family base checkpoints.
var zeroShotEncoders = []struct {
	checkpoint string
	label      string
}{
	{"medclip-vit-base-patch32-vision", "MedCLIP"},
	{"clip-vit-base-patch32-vision", "CLIP"},
}

const zeroShotEmbeddingWidth = 512

// The supervised tier ships as a single chest-trained checkpoint; its class order must match
// the chest condition vocabulary.
const classifierCheckpoint = "chest-classifier.onnx"

// API is the entrypoint to RayDX. It shouldn't contain any logic of its own; it glues all the
// components together and provides a public interface for domain.AnalysisService.
// This API can be used in various contexts: an HTTP server, console input/output etc.
type API interface {
	// Analyze runs the full diagnostic pipeline on the radiograph at `imagePath`. The region
	// selects the condition vocabulary; `patient` may be nil. The only possible error is a
	// *domain.PreprocessingError: the file could not be read or decoded. Everything past
	// preprocessing degrades to fallbacks instead of failing.
	Analyze(imagePath string, region domain.RegionType, patient domain.PatientInfo) (*domain.AnalysisResult, error)
	// Regions lists every supported region type with its display name.
	Regions() map[domain.RegionType]string
	// ConditionsFor returns the ordered condition vocabulary for the given region.
	ConditionsFor(region domain.RegionType) domain.ConditionList
	// DatasetsFor lists the public datasets covering the given region.
	DatasetsFor(region domain.RegionType) []catalog.DatasetInfo
	// ExplainCondition returns a short encyclopedia summary of a condition.
	ExplainCondition(condition string) (string, error)
}

type api struct {
	analysisService    *domain.AnalysisService
	conditionCatalog   *domain.ConditionCatalog
	datasetCatalog     *catalog.DatasetCatalog
	conditionReference *wiki.ConditionReference
}

// NewAPI wires the pipeline from config. Construction is best-effort: a backend whose
// checkpoint cannot be loaded (or an ONNX runtime that fails to initialize at all) is logged
// and left out, and the analysis service degrades through its fallback chain at runtime.
func NewAPI(config *common.Config) API {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	conditionCatalog := domain.NewConditionCatalog()
	chestConditions := conditionCatalog.ConditionsFor(domain.RegionChest).Conditions
	modelsDir := config.GetStringOrDefault(ConfigKeyModelsDir, "models")

	var visionLanguageBackends []domain.InferenceBackend
	specialistModel, err := onnx.NewVisionLanguageModel(modelsDir, len(chestConditions), logger)
	if err != nil {
		logger.Logf("specialist vision-language tier disabled: %v", err)
	} else {
		visionLanguageBackends = append(visionLanguageBackends, logging.NewBackendDecorator(specialistModel, logger))
	}
	zeroShotBackend := newZeroShotBackend(config, modelsDir, logger)
	if zeroShotBackend != nil {
		visionLanguageBackends = append(visionLanguageBackends, logging.NewBackendDecorator(zeroShotBackend, logger))
	}

	var classifierBackend domain.InferenceBackend
	var saliencyMapper domain.SaliencyMapper
	classifier, err := onnx.NewClassifier(filepath.Join(modelsDir, classifierCheckpoint), "Supervised Chest Classifier", chestConditions)
	if err != nil {
		logger.Logf("supervised classifier tier disabled: %v", err)
	} else {
		classifierBackend = logging.NewBackendDecorator(classifier, logger)
		saliencyMapper = classifier
	}

	analysisService := domain.NewAnalysisService(
		imaging.NewPreprocessor(config, logger),
		visionLanguageBackends,
		classifierBackend,
		conditionCatalog,
		domain.NewReportService(newReportModel(config, logger), config, logger),
		imaging.NewHeatmapGenerator(saliencyMapper, logger),
		logger,
	)
	return &api{
		analysisService:    analysisService,
		conditionCatalog:   conditionCatalog,
		datasetCatalog:     catalog.NewDatasetCatalog(),
		conditionReference: wiki.NewConditionReference(),
	}
}

// newZeroShotBackend assembles the zero-shot tier from the first image tower that loads plus
// the subprocess text encoder. Returns nil when no tower is available.
func newZeroShotBackend(config *common.Config, modelsDir string, logger common.Logger) domain.InferenceBackend {
	for _, encoder := range zeroShotEncoders {
		imageEncoder, err := onnx.NewImageEncoder(filepath.Join(modelsDir, encoder.checkpoint+".onnx"), encoder.label, zeroShotEmbeddingWidth)
		if err != nil {
			logger.Logf("zero-shot image tower %s not loaded: %v", encoder.label, err)
			continue
		}
		logger.Logf("zero-shot image tower %s loaded", encoder.label)
		textEncoder := textencoder.NewEncoder(
			config.GetStringOrDefault(domain.ConfigKeyTextEncoderScript, "scripts/encode_text.py"),
		)
		return clip.NewBackend(imageEncoder, textEncoder)
	}
	logger.Log("zero-shot tier disabled: no image tower available")
	return nil
}

// newReportModel builds the remote report model when a credential is configured. An absent
// credential is not an error: the report service then uses its templated fallback.
func newReportModel(config *common.Config, logger common.Logger) domain.LanguageModel {
	apiKey := config.GetStringOrDefault(ConfigKeyReportAPIKey, os.Getenv("OPENROUTER_API_KEY"))
	if apiKey == "" {
		logger.Log("no report API key configured; narrative reports use the fallback template")
		return nil
	}
	languageModel := openrouter.NewLanguageModel(
		apiKey,
		config.GetStringOrDefault(domain.ConfigKeyReportModel, openrouter.DefaultModel),
		config.GetStringOrDefault(domain.ConfigKeyReportEndpoint, openrouter.DefaultEndpoint),
	)
	return logging.NewLanguageModelDecorator(openrouter.NewReportCleaner(languageModel), logger)
}

func (a *api) Analyze(imagePath string, region domain.RegionType, patient domain.PatientInfo) (*domain.AnalysisResult, error) {
	return a.analysisService.Analyze(imagePath, region, patient)
}

func (a *api) Regions() map[domain.RegionType]string {
	return domain.RegionDisplayNames
}

func (a *api) ConditionsFor(region domain.RegionType) domain.ConditionList {
	return a.conditionCatalog.ConditionsFor(region)
}

func (a *api) DatasetsFor(region domain.RegionType) []catalog.DatasetInfo {
	return a.datasetCatalog.DatasetsFor(region)
}

func (a *api) ExplainCondition(condition string) (string, error) {
	return a.conditionReference.Explain(condition)
}
