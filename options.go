package facepipe

import (
	"github.com/benbjohnson/clock"
	"github.com/swdee/go-facepipe/comparer"
	"github.com/swdee/go-facepipe/render"
	"github.com/swdee/go-facepipe/viewport"
	"go.uber.org/zap"
)

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger, the default discards everything
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithClock sets the clock used to timestamp arrivals and requests
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) {
		p.clock = c
	}
}

// WithConverter replaces the default gocv converter
func WithConverter(c Converter) Option {
	return func(p *Pipeline) {
		p.converter = c
	}
}

// WithRenderer replaces the default renderer
func WithRenderer(r Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithRenderStyle sets the style of the default renderer
func WithRenderStyle(style render.Style) Option {
	return func(p *Pipeline) {
		p.style = style
	}
}

// WithComparator sets how faces are compared with the reference
func WithComparator(cmp comparer.Comparator) Option {
	return func(p *Pipeline) {
		p.cmp = cmp
	}
}

// WithDisplay sets the context rendering runs on.  The default is a
// DisplayLoop owned and closed by the pipeline.
func WithDisplay(d Display) Option {
	return func(p *Pipeline) {
		p.display = d
	}
}

// WithViewport sets the on screen size and aspect policy overlays are
// mapped into
func WithViewport(size viewport.Size, policy viewport.Policy) Option {
	return func(p *Pipeline) {
		p.view = size
		p.policy = policy
	}
}

// WithScaleFactor reduces frames by an integer factor before analysis
func WithScaleFactor(factor int) Option {
	return func(p *Pipeline) {
		p.scale = factor
	}
}

// WithFrameRateWindow sets the number of arrivals the frame rate is
// averaged over
func WithFrameRateWindow(n int) Option {
	return func(p *Pipeline) {
		p.fps = NewFrameRateEstimator(n)
	}
}

// WithCPUAffinity pins the analysis worker's thread to the cores in mask
func WithCPUAffinity(mask uintptr) Option {
	return func(p *Pipeline) {
		p.cpuMask = mask
	}
}

// WithFacingSwitcher sets the capture source told about facing changes
func WithFacingSwitcher(s FacingSwitcher) Option {
	return func(p *Pipeline) {
		p.switcher = s
	}
}

// WithListener adds a receiver of rendered results
func WithListener(l Listener) Option {
	return func(p *Pipeline) {
		p.listeners = append(p.listeners, l)
	}
}

// WithPickListener adds a receiver of comparison reference changes
func WithPickListener(l PickListener) Option {
	return func(p *Pipeline) {
		p.pickListeners = append(p.pickListeners, l)
	}
}
