package backend

import "context"

// OptimizeKind names the content slot an optimization request targets.
type OptimizeKind string

const (
	OptimizeTitle       OptimizeKind = "title"
	OptimizeDescription OptimizeKind = "description"
	OptimizeTags        OptimizeKind = "tags"
)

// OptimizeSettings tunes the remote content-optimization service.
type OptimizeSettings struct {
	SEOFocus         int  `json:"seoFocus"`
	ConversionFocus  int  `json:"conversionFocus"`
	UseIndustryTerms bool `json:"useIndustryTerms"`
	IncludeEmoji     bool `json:"includeEmoji"`
	ToneConsistency  bool `json:"toneConsistency"`
}

// OptimizeRequest asks the service to rewrite one piece of product content.
type OptimizeRequest struct {
	Kind     OptimizeKind     `json:"kind"`
	Content  string           `json:"content"`
	Settings OptimizeSettings `json:"settings"`
}

// OptimizeResult is the service's rewrite plus the improvements it claims.
type OptimizeResult struct {
	Original     string   `json:"original"`
	Optimized    string   `json:"optimized"`
	Improvements []string `json:"improvements,omitempty"`
}

// Optimizer is the opaque content-optimization collaborator. The rewriting
// itself happens remotely; this side only carries the request and response.
type Optimizer interface {
	Optimize(ctx context.Context, req OptimizeRequest) (OptimizeResult, error)
}

// StubOptimizer echoes content back unchanged. It keeps the interface wired
// while the real service is pending.
type StubOptimizer struct{}

// Optimize returns the content as its own optimization.
func (StubOptimizer) Optimize(ctx context.Context, req OptimizeRequest) (OptimizeResult, error) {
	if err := ctx.Err(); err != nil {
		return OptimizeResult{}, err
	}
	return OptimizeResult{
		Original:  req.Content,
		Optimized: req.Content,
	}, nil
}

var _ Optimizer = StubOptimizer{}
