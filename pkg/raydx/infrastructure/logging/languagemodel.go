package logging

import (
	"time"

	"raydx.com/raydx/pkg/common"
	"raydx.com/raydx/pkg/raydx/domain"
)

type languageModelDecorator struct {
	wrappedLanguageModel domain.LanguageModel
	logger               common.Logger
}

// NewLanguageModelDecorator logs report-generation prompts and responses for auditing.
func NewLanguageModelDecorator(wrappedLanguageModel domain.LanguageModel, logger common.Logger) domain.LanguageModel {
	return &languageModelDecorator{
		wrappedLanguageModel: wrappedLanguageModel,
		logger:               logger,
	}
}

func (l *languageModelDecorator) Name() string {
	return l.wrappedLanguageModel.Name()
}

func (l *languageModelDecorator) Complete(prompt string) (string, error) {
	l.logger.Logf("report prompt (using '%s'):\n%s", l.Name(), prompt)
	started := time.Now()
	response, err := l.wrappedLanguageModel.Complete(prompt)
	if err != nil {
		return "", err
	}
	l.logger.Logf("report response (took %d ms):\n%s", time.Since(started).Milliseconds(), response)
	return response, nil
}
