package openrouter

import (
	"strings"

	"github.com/mvdan/xurls"

	"raydx.com/raydx/pkg/raydx/domain"
)

type reportCleaner struct {
	wrappedLanguageModel domain.LanguageModel
}

// NewReportCleaner strips URLs from remote-generated reports. Language models occasionally
// hallucinate references, and a clinical report must not carry unverifiable links.
func NewReportCleaner(wrappedLanguageModel domain.LanguageModel) domain.LanguageModel {
	return &reportCleaner{
		wrappedLanguageModel: wrappedLanguageModel,
	}
}

func (r *reportCleaner) Name() string {
	return r.wrappedLanguageModel.Name()
}

func (r *reportCleaner) Complete(prompt string) (string, error) {
	response, err := r.wrappedLanguageModel.Complete(prompt)
	if err != nil {
		return "", err
	}
	for _, url := range xurls.Relaxed.FindAllString(response, -1) {
		response = strings.ReplaceAll(response, url, "")
	}
	return strings.TrimSpace(response), nil
}
