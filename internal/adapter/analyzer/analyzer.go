package analyzer

// HeuristicAnalyzer 实现了 port.Analyzer 接口
// 纯脚本化的启发式分析：关键词扫描 + 词频统计，不依赖任何外部服务
type HeuristicAnalyzer struct {
	featureKeywords   []string // Release 正文中的新特性关键词
	breakingKeywords  []string // Release 正文中的破坏性变更关键词
	bugLabels         []string // 命中即判定为 Bug 的标签
	bugTitleWords     []string // 标题包含即判定为 Bug 的词
	featureLabels     []string // 命中即判定为需求的标签
	featureTitleWords []string // 标题包含即判定为需求的词
	stopTokens        []string // 词频统计中丢弃的常见词
	fallbackTrends    []string // 跨仓库无共性时的兜底趋势，nil 表示关闭兜底
}

// Option 用于替换默认的关键词表 (测试时可注入替代词表)
type Option func(*HeuristicAnalyzer)

// WithFeatureKeywords 替换新特性关键词表
func WithFeatureKeywords(words []string) Option {
	return func(a *HeuristicAnalyzer) { a.featureKeywords = words }
}

// WithBreakingKeywords 替换破坏性变更关键词表
func WithBreakingKeywords(words []string) Option {
	return func(a *HeuristicAnalyzer) { a.breakingKeywords = words }
}

// WithStopTokens 替换词频统计的停用词表
func WithStopTokens(words []string) Option {
	return func(a *HeuristicAnalyzer) { a.stopTokens = words }
}

// WithTrendFallback 替换兜底趋势列表
func WithTrendFallback(trends []string) Option {
	return func(a *HeuristicAnalyzer) { a.fallbackTrends = trends }
}

// WithoutTrendFallback 关闭兜底趋势：跨仓库没有共性时允许趋势列表为空
func WithoutTrendFallback() Option {
	return func(a *HeuristicAnalyzer) { a.fallbackTrends = nil }
}

// NewHeuristicAnalyzer 创建使用默认词表的分析器
func NewHeuristicAnalyzer(opts ...Option) *HeuristicAnalyzer {
	a := &HeuristicAnalyzer{
		featureKeywords:   []string{"feature", "new", "add", "implement"},
		breakingKeywords:  []string{"breaking", "deprecated", "removed"},
		bugLabels:         []string{"bug", "error", "crash", "problem"},
		bugTitleWords:     []string{"bug", "error", "crash", "issue", "problem", "broken"},
		featureLabels:     []string{"enhancement", "feature", "request"},
		featureTitleWords: []string{"feature", "request", "enhancement", "add", "support"},
		stopTokens:        []string{"issue", "error", "problem"},
		fallbackTrends: []string{
			"Performance optimizations",
			"Developer experience improvements",
			"TypeScript support",
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}
