package domain

// A list of built-in config keys supported by the analysis core (settings of the HTTP/console
// surfaces are not included).

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyModelsDir the directory which holds the ONNX checkpoints for all inference backends
	ConfigKeyModelsDir = "modelsDir"
	// ConfigKeyMedicalPreprocessing whether to use the medical-aware preprocessing pipeline
	// (per-image intensity standardization) instead of the generic resize+normalize fallback
	ConfigKeyMedicalPreprocessing = "medicalPreprocessing"
	// ConfigKeyPerturbationNoise standard deviation of the optional robustness jitter added by the
	// medical preprocessing pipeline. Zero (the default) keeps preprocessing fully deterministic.
	ConfigKeyPerturbationNoise = "perturbationNoise"
	// ConfigKeyReportGenerationEnabled whether narrative reports may be generated by the remote
	// language model at all. When disabled, the templated fallback report is produced immediately,
	// without any network call.
	ConfigKeyReportGenerationEnabled = "reportGenerationEnabled"
	// ConfigKeyReportAPIKey the credential for the remote language-model endpoint. An absent key
	// disables remote report generation, it is never an error.
	ConfigKeyReportAPIKey = "reportAPIKey"
	// ConfigKeyReportModel the model identifier sent to the remote endpoint
	ConfigKeyReportModel = "reportModel"
	// ConfigKeyReportEndpoint the chat-completions endpoint for report generation
	ConfigKeyReportEndpoint = "reportEndpoint"
	// ConfigKeyTextEncoderScript path to the helper script which embeds text prompts for the
	// zero-shot backend
	ConfigKeyTextEncoderScript = "textEncoderScript"
)
