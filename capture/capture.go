// Package capture reads frames from a camera or video file with OpenCV and
// hands them to a sink in pooled BGRA buffers.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/swdee/go-facepipe/frame"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

const poolName = "capture"

// ErrNoFacing is returned when switching to a facing without a device
var ErrNoFacing = errors.New("no device for facing")

// Sink receives captured frames along with the clockwise rotation in
// degrees needed to make them upright.  It takes ownership of the frame.
type Sink func(f *frame.Frame, rotation int) bool

// Params configure a capture source
type Params struct {
	// File is a video file to read instead of a camera
	File string
	// Loop restarts the file when it ends
	Loop bool
	// BackDevice and FrontDevice are camera indexes, -1 when absent
	BackDevice  int
	FrontDevice int
	// Width and Height request a capture size, zero keeps the default
	Width  int
	Height int
	// Rotation is the sensor orientation in degrees
	Rotation int
	// FPS paces file playback, zero reads as fast as possible
	FPS float64
}

// DefaultParams returns parameters for the first camera
func DefaultParams() Params {
	return Params{
		BackDevice:  0,
		FrontDevice: -1,
	}
}

// Source is a camera or file frame source
type Source struct {
	params Params
	pool   *frame.Pool
	seq    *frame.SeqGenerator
	clock  clock.Clock
	log    *zap.Logger

	mu     sync.Mutex
	video  *gocv.VideoCapture
	facing frame.Facing
	// reopen is set when the facing changed and the device must be swapped
	reopen bool
	width  int
	height int
}

// New returns a capture source.  The device or file is opened by Run.
func New(params Params, log *zap.Logger, clk clock.Clock) *Source {

	if log == nil {
		log = zap.NewNop()
	}

	if clk == nil {
		clk = clock.New()
	}

	return &Source{
		params: params,
		pool:   frame.NewPool(),
		seq:    frame.NewSeqGenerator(),
		clock:  clk,
		log:    log,
	}
}

// SwitchFacing swaps to the camera pointing the given way from the next
// frame on
func (s *Source) SwitchFacing(f frame.Facing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.params.File != "" {
		return fmt.Errorf("cannot switch facing of a video file")
	}

	if s.device(f) < 0 {
		return fmt.Errorf("%w: %s", ErrNoFacing, f)
	}

	if f != s.facing {
		s.facing = f
		s.reopen = true
	}

	return nil
}

// device returns the camera index for a facing
func (s *Source) device(f frame.Facing) int {
	if f == frame.FacingFront {
		return s.params.FrontDevice
	}
	return s.params.BackDevice
}

// open starts the device for the current facing, or the file
func (s *Source) open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error

	if s.video != nil {
		err = multierr.Append(err, s.video.Close())
		s.video = nil
	}

	var video *gocv.VideoCapture
	var openErr error

	if s.params.File != "" {
		video, openErr = gocv.VideoCaptureFile(s.params.File)
	} else {
		video, openErr = gocv.VideoCaptureDevice(s.device(s.facing))
	}

	if openErr != nil {
		return multierr.Append(err, fmt.Errorf("error opening capture: %w", openErr))
	}

	if s.params.Width > 0 && s.params.Height > 0 {
		video.Set(gocv.VideoCaptureFrameWidth, float64(s.params.Width))
		video.Set(gocv.VideoCaptureFrameHeight, float64(s.params.Height))
	}

	s.video = video
	s.reopen = false

	s.log.Info("capture opened", zap.String("file", s.params.File),
		zap.Stringer("facing", s.facing))

	return err
}

// Run reads frames into sink until ctx is done, the file ends or the
// device fails
func (s *Source) Run(ctx context.Context, sink Sink) error {

	if err := s.open(); err != nil {
		return err
	}

	img := gocv.NewMat()
	defer img.Close()

	var ticker *clock.Ticker

	if s.params.File != "" && s.params.FPS > 0 {
		ticker = s.clock.Ticker(time.Duration(float64(time.Second) / s.params.FPS))
		defer ticker.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		s.mu.Lock()
		reopen := s.reopen
		s.mu.Unlock()

		if reopen {
			if err := s.open(); err != nil {
				return err
			}
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}

		s.mu.Lock()
		ok := s.video.Read(&img)
		s.mu.Unlock()

		if !ok {
			if s.params.File != "" && s.params.Loop {
				if err := s.open(); err != nil {
					return err
				}
				continue
			}

			if s.params.File != "" {
				s.log.Info("end of video file")
				return nil
			}

			return fmt.Errorf("error reading from capture device")
		}

		if img.Empty() {
			continue
		}

		f, err := s.toFrame(img)

		if err != nil {
			return err
		}

		sink(f, s.params.Rotation)
	}
}

// toFrame copies a BGR capture into a pooled BGRA frame
func (s *Source) toFrame(img gocv.Mat) (*frame.Frame, error) {

	w, h := img.Cols(), img.Rows()

	if w != s.width || h != s.height {
		if err := s.resizePool(w, h); err != nil {
			return nil, err
		}
	}

	bgra := gocv.NewMat()
	defer bgra.Close()

	gocv.CvtColor(img, &bgra, gocv.ColorBGRToBGRA)

	f, err := s.pool.NewFrame(s.poolKey(), w, h, frame.LayoutBGRA)

	if err != nil {
		return nil, err
	}

	copy(f.Data, bgra.ToBytes())

	f.Timestamp = s.clock.Now()
	f.Seq = s.seq.Next()

	return f, nil
}

// poolKey names the buffer pool for the current capture size
func (s *Source) poolKey() string {
	return fmt.Sprintf("%s-%dx%d", poolName, s.width, s.height)
}

// resizePool registers a buffer pool for a new capture size.  A size seen
// before keeps its pool.
func (s *Source) resizePool(w, h int) error {
	s.width, s.height = w, h

	if s.pool.Has(s.poolKey()) {
		return nil
	}

	return s.pool.Create(s.poolKey(), frame.LayoutBGRA.BufferSize(w, h))
}

// Close releases the capture device
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video == nil {
		return nil
	}

	err := s.video.Close()
	s.video = nil

	return err
}
