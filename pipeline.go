package facepipe

import (
	"context"
	"fmt"
	"image"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/swdee/go-facepipe/comparer"
	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/preprocess"
	"github.com/swdee/go-facepipe/render"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Stats is a snapshot of the pipeline counters
type Stats struct {
	// Delivered is the number of frames handed to Submit
	Delivered uint64
	// Dropped is the number of frames discarded because a result was
	// outstanding
	Dropped uint64
	// Analysed is the number of frames that produced a result
	Analysed uint64
	// Failed is the number of frames lost to conversion or engine errors
	Failed uint64
	// DisplayDrops is the number of results the display could not accept
	DisplayDrops uint64
	// Overwrites is the number of unconsumed mailbox entries replaced
	Overwrites uint64
	// Photos is the number of still photos analysed
	Photos uint64
}

// Pipeline moves frames from the capture source through conversion and
// analysis to the display.  Only one frame is analysed at a time, frames
// arriving meanwhile are dropped.
type Pipeline struct {
	engine    Engine
	converter Converter
	renderer  Renderer
	display   Display
	// ownDisplay is set when the pipeline created the display and must
	// close it
	ownDisplay *DisplayLoop

	listeners     []Listener
	pickListeners []PickListener

	picker    *comparer.Picker
	reference *comparer.Reference
	cmp       comparer.Comparator
	fps       *FrameRateEstimator
	box       *mailbox

	view   viewport.Size
	policy viewport.Policy
	style  render.Style
	scale  int

	cpuMask  uintptr
	switcher FacingSwitcher

	// busy is set from admission of a frame until its result has been
	// handed to the display
	busy    atomic.Bool
	kind    atomic.Int32
	bypass  atomic.Bool
	logging atomic.Bool
	facing  atomic.Int32
	running atomic.Bool

	background atomic.Pointer[render.Background]

	optsMu    sync.RWMutex
	opts      map[result.RunKind]result.Options
	photoOpts result.Options

	delivered    atomic.Uint64
	dropped      atomic.Uint64
	analysed     atomic.Uint64
	failed       atomic.Uint64
	displayDrops atomic.Uint64
	photos       atomic.Uint64

	log   *zap.Logger
	clock clock.Clock

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedMu sync.Mutex
	started   bool
	closeOnce sync.Once
}

// New returns a pipeline analysing frames with engine
func New(engine Engine, opts ...Option) *Pipeline {

	p := &Pipeline{
		engine:    engine,
		reference: comparer.NewReference(),
		cmp:       comparer.DefaultCosine(),
		box:       newMailbox(),
		policy:    viewport.Fill,
		style:     render.DefaultStyle(),
		scale:     1,
		photoOpts: result.DefaultPhotoOptions(),
		opts: map[result.RunKind]result.Options{
			result.RunFace:     result.DefaultOptions(result.RunFace),
			result.RunBody:     result.DefaultOptions(result.RunBody),
			result.RunDocument: result.DefaultOptions(result.RunDocument),
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.log == nil {
		p.log = zap.NewNop()
	}

	if p.clock == nil {
		p.clock = clock.New()
	}

	if p.fps == nil {
		p.fps = NewFrameRateEstimator(DefaultFrameRateWindow)
	}

	if p.converter == nil {
		p.converter = preprocess.DefaultConverter()
	}

	if p.renderer == nil {
		p.renderer = render.NewRenderer(p.view, p.policy, p.style, p.cmp)
	}

	if p.display == nil {
		p.ownDisplay = NewDisplayLoop(2)
		p.display = p.ownDisplay
	}

	p.picker = comparer.NewPicker(p.view, p.policy)

	return p
}

// Start launches the analysis worker
func (p *Pipeline) Start(ctx context.Context) error {
	p.startedMu.Lock()
	defer p.startedMu.Unlock()

	if p.started {
		return fmt.Errorf("pipeline already started")
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.running.Store(true)

	p.wg.Add(1)
	go p.worker()

	// stop the worker when the parent context ends
	go func() {
		<-p.ctx.Done()
		p.halt()
	}()

	p.log.Debug("pipeline started", zap.Stringer("kind", p.RunKind()),
		zap.Stringer("policy", p.policy), zap.Int("scale", p.scale))

	return nil
}

// halt stops the worker and releases any frames left in the mailbox
func (p *Pipeline) halt() {
	p.running.Store(false)

	for _, d := range p.box.close() {
		d.frame.Release()
	}
}

// Stop ends analysis and waits for the worker to exit.  Results already
// posted to the display are still delivered.
func (p *Pipeline) Stop() error {
	p.startedMu.Lock()
	if !p.started {
		p.startedMu.Unlock()
		return nil
	}
	p.startedMu.Unlock()

	p.cancel()
	p.halt()
	p.wg.Wait()

	return nil
}

// Close stops the pipeline and releases the display, renderer and engine
// where they hold resources
func (p *Pipeline) Close() error {

	var err error

	p.closeOnce.Do(func() {
		err = multierr.Append(err, p.Stop())

		if p.ownDisplay != nil {
			err = multierr.Append(err, p.ownDisplay.Close())
		}

		if c, ok := p.renderer.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}

		if c, ok := p.engine.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	})

	return err
}

// Submit hands a captured frame to the pipeline along with the clockwise
// rotation in degrees needed to make it upright.  The pipeline owns the
// frame from here on.  Submit never blocks, it returns false when the
// frame was dropped.
func (p *Pipeline) Submit(f *frame.Frame, rotation int) bool {

	p.delivered.Add(1)

	if !p.running.Load() {
		p.dropped.Add(1)
		f.Release()
		return false
	}

	turns, err := preprocess.QuarterTurns(rotation)

	if err != nil {
		p.failed.Add(1)
		p.log.Debug("frame rejected", zap.Error(err))
		f.Release()
		return false
	}

	if !p.busy.CompareAndSwap(false, true) {
		p.dropped.Add(1)
		f.Release()
		return false
	}

	if f.Timestamp.IsZero() {
		f.Timestamp = p.clock.Now()
	}

	if old := p.box.put(delivery{frame: f, turns: turns}); old != nil {
		old.frame.Release()
	}

	return true
}

// CapturePhoto queues a still frame to be analysed ahead of live frames.
// The first face found becomes the comparison reference, or the reference
// is cleared when there is none.
func (p *Pipeline) CapturePhoto(f *frame.Frame, rotation int) error {

	turns, err := preprocess.QuarterTurns(rotation)

	if err != nil {
		f.Release()
		return err
	}

	if !p.running.Load() {
		f.Release()
		return fmt.Errorf("pipeline not running")
	}

	if old := p.box.putPhoto(delivery{frame: f, turns: turns}); old != nil {
		old.frame.Release()
	}

	return nil
}

// worker is the analysis loop, it is the only caller of the engine
func (p *Pipeline) worker() {
	defer p.wg.Done()

	if p.cpuMask != 0 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		if err := SetCPUAffinity(p.cpuMask); err != nil {
			p.log.Warn("failed to pin analysis worker", zap.Error(err))
		} else if mask, err := GetCPUAffinity(); err == nil {
			p.log.Debug("analysis worker pinned", zap.String("mask", fmt.Sprintf("%#x", mask)))
		}
	}

	for {
		d, photo, ok := p.box.take()

		if !ok {
			return
		}

		if photo {
			p.analysePhoto(d)
			continue
		}

		p.analyse(d)
	}
}

// analyse runs one cycle for a live frame.  The next frame is admitted once
// the result has been handed to the display.
func (p *Pipeline) analyse(d delivery) {
	defer p.busy.Store(false)

	kind := p.RunKind()
	bypass := p.bypass.Load()

	prepared, err := p.prepare(d)

	if err != nil {
		p.failed.Add(1)
		p.log.Debug("frame conversion failed", zap.Uint64("seq", d.frame.Seq), zap.Error(err))
		d.frame.Release()
		return
	}

	det := result.Empty(kind)
	var meas result.Measure

	if !bypass {
		det, meas, err = p.engine.Run(prepared, p.liveOptions(kind), kind)

		if err != nil {
			p.failed.Add(1)
			p.log.Debug("frame skipped", zap.Uint64("seq", d.frame.Seq),
				zap.Error(fmt.Errorf("%w: %w", ErrNoInferenceResult, err)))
			d.frame.Release()
			return
		}

		det.Kind = kind
	}

	p.fps.RecordArrival(d.frame.Timestamp)
	fps := p.fps.CurrentFPS()

	if kind == result.RunFace {
		if sel, ok := p.picker.Resolve(prepared, det.Faces); ok {
			p.setReference(sel)
		}
	}

	if p.logging.Load() {
		p.log.Info("measure", zap.Uint64("seq", d.frame.Seq), zap.Stringer("kind", kind),
			zap.Bool("bypass", bypass), zap.Object("measure", meas), zap.Float64("fps", fps))
	}

	p.analysed.Add(1)

	rc := render.Context{
		Reference:  p.reference.Get(),
		Background: p.background.Load(),
		FPS:        fps,
		Measure:    meas,
	}

	raw := d.frame

	posted := p.display.Post(func() {
		defer raw.Release()
		p.present(prepared, det, meas, fps, rc)
	})

	if !posted {
		p.displayDrops.Add(1)
		p.log.Warn("display busy, result dropped", zap.Uint64("seq", raw.Seq))
		raw.Release()
	}
}

// analysePhoto runs face analysis on a still frame to choose the
// comparison reference
func (p *Pipeline) analysePhoto(d delivery) {
	defer d.frame.Release()

	prepared, err := p.prepare(d)

	if err != nil {
		p.log.Debug("photo conversion failed", zap.Error(err))
		return
	}

	p.optsMu.RLock()
	opts := p.photoOpts
	p.optsMu.RUnlock()

	det, _, err := p.engine.Run(prepared, opts, result.RunFace)

	if err != nil {
		p.log.Debug("photo skipped", zap.Error(fmt.Errorf("%w: %w", ErrNoInferenceResult, err)))
		return
	}

	defer p.photos.Add(1)

	for _, face := range det.Faces {
		if sel, ok := comparer.Select(prepared, face); ok {
			p.setReference(sel)
			return
		}
	}

	p.reference.Clear()
	p.log.Debug("no face found in photo")
}

// setReference retains sel and tells the pick listeners
func (p *Pipeline) setReference(sel comparer.Selection) {

	p.reference.Set(sel)

	p.log.Debug("comparison reference set", zap.Int("trackingId", sel.Face.TrackingID))

	for _, l := range p.pickListeners {
		l(sel)
	}
}

// present renders a result and delivers it, it runs on the display
func (p *Pipeline) present(f *frame.Frame, det result.Detection, meas result.Measure,
	fps float64, rc render.Context) {

	out, err := p.renderer.Render(f, det, rc)

	if err != nil {
		p.log.Warn("render failed", zap.Uint64("seq", f.Seq), zap.Error(err))
		return
	}

	u := Update{
		Frame:     out,
		Detection: det,
		Measure:   meas,
		FPS:       fps,
	}

	for _, l := range p.listeners {
		l(u)
	}
}

// prepare converts, scales and orients a captured frame for the engine
func (p *Pipeline) prepare(d delivery) (*frame.Frame, error) {

	cur := d.frame
	var err error

	if p.converter.NeedsLayout(cur) {
		if cur, err = p.converter.ConvertLayout(cur); err != nil {
			return nil, err
		}
	}

	if p.scale > 1 {
		if cur, err = p.converter.ScaleDown(cur, p.scale); err != nil {
			return nil, err
		}
	}

	if d.turns != 0 {
		if cur, err = p.converter.Rotate(cur, d.turns); err != nil {
			return nil, err
		}
	}

	if p.Facing() == frame.FacingFront {
		if cur, err = p.converter.Mirror(cur); err != nil {
			return nil, err
		}
	}

	return cur, nil
}

// SetRunKind selects the analysis applied from the next frame on
func (p *Pipeline) SetRunKind(kind result.RunKind) {
	p.kind.Store(int32(kind))
}

// RunKind returns the current analysis kind
func (p *Pipeline) RunKind() result.RunKind {
	return result.RunKind(p.kind.Load())
}

// SetBypass skips the engine and renders frames without results
func (p *Pipeline) SetBypass(on bool) {
	p.bypass.Store(on)
}

// Bypass reports whether analysis is skipped
func (p *Pipeline) Bypass() bool {
	return p.bypass.Load()
}

// SetLogging enables logging of each cycle's measure
func (p *Pipeline) SetLogging(on bool) {
	p.logging.Store(on)
}

// SetOptions sets the engine options used for a run kind
func (p *Pipeline) SetOptions(kind result.RunKind, opts result.Options) {
	p.optsMu.Lock()
	defer p.optsMu.Unlock()

	p.opts[kind] = opts
}

// SetPhotoOptions sets the engine options used for photo analysis
func (p *Pipeline) SetPhotoOptions(opts result.Options) {
	p.optsMu.Lock()
	defer p.optsMu.Unlock()

	p.photoOpts = opts
}

// Options returns the engine options used for a run kind
func (p *Pipeline) Options(kind result.RunKind) result.Options {
	p.optsMu.RLock()
	defer p.optsMu.RUnlock()

	if opts, ok := p.opts[kind]; ok {
		return opts
	}

	return result.DefaultOptions(kind)
}

// liveOptions returns the options for analysing a live frame.  Face runs
// request embeddings while a reference is held or a pick is pending.
func (p *Pipeline) liveOptions(kind result.RunKind) result.Options {

	opts := p.Options(kind)

	if kind == result.RunFace && (p.reference.Get() != nil || p.picker.Pending()) {
		opts.Information |= result.InfoEmbeddings
	}

	return opts
}

// RequestPick asks for the face under the given viewport coordinates to
// become the comparison reference
func (p *Pipeline) RequestPick(x, y float64) {
	p.picker.Request(viewport.Pt(x, y))
}

// ResetComparer drops the comparison reference and any pending pick
func (p *Pipeline) ResetComparer() {
	p.picker.Cancel()
	p.reference.Clear()
}

// Reference returns the current comparison reference, nil if none
func (p *Pipeline) Reference() *comparer.Selection {
	return p.reference.Get()
}

// SetFacing changes the capture facing.  Front facing frames are mirrored.
func (p *Pipeline) SetFacing(f frame.Facing) error {
	if frame.Facing(p.facing.Swap(int32(f))) != f {
		// tracks from the other camera do not carry over
		if t, ok := p.engine.(interface{ ResetTracking() }); ok {
			t.ResetTracking()
		}

		if r, ok := p.renderer.(interface{ Reset() }); ok {
			r.Reset()
		}
	}

	if p.switcher != nil {
		if err := p.switcher.SwitchFacing(f); err != nil {
			return fmt.Errorf("error switching capture to %s: %w", f, err)
		}
	}

	return nil
}

// Facing returns the capture facing
func (p *Pipeline) Facing() frame.Facing {
	return frame.Facing(p.facing.Load())
}

// SetBackground sets the image shown behind a segmented person, nil tints
// the person instead
func (p *Pipeline) SetBackground(img image.Image) {
	if img == nil {
		p.background.Store(nil)
		return
	}

	p.background.Store(render.NewBackground(img))
}

// SetViewport changes the on screen size and aspect policy
func (p *Pipeline) SetViewport(size viewport.Size, policy viewport.Policy) {
	p.picker.SetViewport(size, policy)

	if r, ok := p.renderer.(interface {
		SetViewport(viewport.Size, viewport.Policy)
	}); ok {
		r.SetViewport(size, policy)
	}
}

// FPS returns the current frame rate estimate, -1 when unknown
func (p *Pipeline) FPS() float64 {
	return p.fps.CurrentFPS()
}

// Stats returns a snapshot of the pipeline counters
func (p *Pipeline) Stats() Stats {
	return Stats{
		Delivered:    p.delivered.Load(),
		Dropped:      p.dropped.Load(),
		Analysed:     p.analysed.Load(),
		Failed:       p.failed.Load(),
		DisplayDrops: p.displayDrops.Load(),
		Overwrites:   p.box.overwriteCount(),
		Photos:       p.photos.Load(),
	}
}
