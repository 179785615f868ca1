package wiki

import (
	"sync"

	gowiki "github.com/trietmn/go-wiki"
)

const maxSummarySentenceCount = 5

// ConditionReference looks up encyclopedia summaries for diagnosed conditions, so that the
// console and the HTTP API can show a short background paragraph next to a diagnosis.
// Summaries are cached for the process lifetime because the condition vocabulary is small
// and static.
type ConditionReference struct {
	mutex        sync.Mutex
	summaryCache map[string]string
}

func NewConditionReference() *ConditionReference {
	return &ConditionReference{
		summaryCache: make(map[string]string),
	}
}

func (c *ConditionReference) Explain(conditionName string) (string, error) {
	cachedSummary, ok := c.summaryInCache(conditionName)
	if ok {
		return cachedSummary, nil
	}
	summary, err := gowiki.Summary(conditionName, maxSummarySentenceCount, -1, false, true)
	if err != nil {
		return "", err
	}
	c.cacheSummary(conditionName, summary)
	return summary, nil
}

func (c *ConditionReference) summaryInCache(conditionName string) (string, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	summary, ok := c.summaryCache[conditionName]
	return summary, ok
}

func (c *ConditionReference) cacheSummary(conditionName, summary string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.summaryCache[conditionName] = summary
}
