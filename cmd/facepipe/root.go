package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	facepipe "github.com/swdee/go-facepipe"
	"github.com/swdee/go-facepipe/capture"
	"github.com/swdee/go-facepipe/comparer"
	"github.com/swdee/go-facepipe/engine"
	"github.com/swdee/go-facepipe/frame"
	"github.com/swdee/go-facepipe/render"
	"github.com/swdee/go-facepipe/result"
	"github.com/swdee/go-facepipe/viewport"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version is the application version
const Version = "0.1.0"

// options holds the command line configuration
type options struct {
	device      int
	frontDevice int
	video       string
	loop        bool
	videoFPS    float64
	rotation    int
	facing      string
	cascade     string
	eyeCascade  string
	background  string
	width       int
	height      int
	policy      string
	kind        string
	bypass      bool
	logMeasure  bool
	scale       int
	cpus        string
	threshold   float64
	hud         bool
	trail       bool
	addr        string
	debug       bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:     "facepipe",
	Short:   "Live face, body and document analysis with an annotated MJPEG stream",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd.Context(), opts)
	},
}

// Execute runs the root command until interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()

	f.IntVarP(&opts.device, "device", "d", 0, "Back facing camera index")
	f.IntVar(&opts.frontDevice, "front-device", -1, "Front facing camera index, -1 when absent")
	f.StringVarP(&opts.video, "video", "v", "", "Video file to read instead of a camera")
	f.BoolVar(&opts.loop, "loop", true, "Restart the video file when it ends")
	f.Float64Var(&opts.videoFPS, "video-fps", 30, "Playback rate of the video file, 0 for as fast as possible")
	f.IntVar(&opts.rotation, "rotation", 0, "Clockwise sensor rotation in degrees")
	f.StringVar(&opts.facing, "facing", "back", "Initial camera facing [back|front]")
	f.StringVarP(&opts.cascade, "cascade", "c", engine.DefaultParams().FaceCascade, "Face cascade file")
	f.StringVar(&opts.eyeCascade, "eye-cascade", "", "Eye cascade file used for landmarks and head roll")
	f.StringVarP(&opts.background, "background", "b", "", "Image shown behind people in body mode")
	f.IntVar(&opts.width, "width", 0, "Viewport width, 0 for the frame size")
	f.IntVar(&opts.height, "height", 0, "Viewport height, 0 for the frame size")
	f.StringVar(&opts.policy, "policy", viewport.Fill.String(), "Viewport aspect policy [fill|fit]")
	f.StringVarP(&opts.kind, "kind", "k", result.RunFace.String(), "Analysis to run [face|body|document]")
	f.BoolVar(&opts.bypass, "bypass", false, "Skip analysis and show frames only")
	f.BoolVar(&opts.logMeasure, "log-measure", false, "Log engine timings for every frame")
	f.IntVarP(&opts.scale, "scale", "s", 1, "Integer factor frames are reduced by before analysis")
	f.StringVar(&opts.cpus, "cpus", "", "Comma delimited CPU cores to pin the analysis worker to")
	f.Float64VarP(&opts.threshold, "threshold", "t", comparer.DefaultCosine().Threshold, "Face similarity threshold")
	f.BoolVar(&opts.hud, "hud", false, "Draw frame rate and timings over the stream")
	f.BoolVar(&opts.trail, "trail", false, "Draw trails behind tracked faces")
	f.StringVarP(&opts.addr, "addr", "a", "localhost:8080", "HTTP address to serve on, format address:port")
	f.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

// run wires the capture source, engine and pipeline together and serves
// the stream until ctx is cancelled
func run(ctx context.Context, o options) (err error) {

	log, err := newLogger(o.debug)

	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}

	defer log.Sync()

	policy, err := viewport.ParsePolicy(o.policy)

	if err != nil {
		return err
	}

	kind, err := result.ParseRunKind(o.kind)

	if err != nil {
		return err
	}

	facing, err := frame.ParseFacing(o.facing)

	if err != nil {
		return err
	}

	var cpuMask uintptr

	if o.cpus != "" {
		cores, err := facepipe.ParseCPUCores(o.cpus)

		if err != nil {
			return err
		}

		cpuMask = facepipe.CPUCoreMask(cores)
	}

	params := engine.DefaultParams()
	params.FaceCascade = o.cascade
	params.EyeCascade = o.eyeCascade

	eng, err := engine.New(params)

	if err != nil {
		return err
	}

	source := capture.New(capture.Params{
		File:        o.video,
		Loop:        o.loop,
		BackDevice:  o.device,
		FrontDevice: o.frontDevice,
		Rotation:    o.rotation,
		FPS:         o.videoFPS,
	}, log.Named("capture"), nil)

	strm := newStream(log.Named("stream"))

	style := render.DefaultStyle()
	style.HUD = o.hud
	style.Trail = o.trail

	p := facepipe.New(eng,
		facepipe.WithLogger(log.Named("pipeline")),
		facepipe.WithViewport(viewport.Sz(o.width, o.height), policy),
		facepipe.WithScaleFactor(o.scale),
		facepipe.WithCPUAffinity(cpuMask),
		facepipe.WithRenderStyle(style),
		facepipe.WithComparator(comparer.Cosine{Threshold: o.threshold}),
		facepipe.WithFacingSwitcher(source),
		facepipe.WithListener(strm.OnUpdate),
		facepipe.WithPickListener(func(sel comparer.Selection) {
			log.Info("reference face picked", zap.Int("trackingId", sel.Face.TrackingID))
		}),
	)

	defer func() {
		err = multierr.Combine(err, p.Close(), source.Close())
	}()

	p.SetRunKind(kind)
	p.SetBypass(o.bypass)
	p.SetLogging(o.logMeasure)

	if facing != frame.FacingBack {
		if err := p.SetFacing(facing); err != nil {
			return err
		}
	}

	if o.background != "" {
		img, err := imaging.Open(o.background, imaging.AutoOrientation(true))

		if err != nil {
			return fmt.Errorf("error loading background: %w", err)
		}

		p.SetBackground(img)
	}

	if err := p.Start(ctx); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/stream", strm)
	(&control{p: p, log: log.Named("control")}).routes(mux)

	srv := &http.Server{
		Addr:              o.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(fmt.Sprintf("open browser and view video at http://%s/stream", o.addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return source.Run(gctx, p.Submit)
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdown)
	})

	return g.Wait()
}
