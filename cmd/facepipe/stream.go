package main

import (
	"net/http"
	"sync"

	facepipe "github.com/swdee/go-facepipe"
	"github.com/swdee/go-facepipe/preprocess"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
)

// stream fans JPEG encoded results out to connected browsers
type stream struct {
	mu      sync.Mutex
	clients map[chan []byte]struct{}
	log     *zap.Logger
}

func newStream(log *zap.Logger) *stream {
	return &stream{
		clients: make(map[chan []byte]struct{}),
		log:     log,
	}
}

// OnUpdate encodes a rendered result and publishes it, it runs on the
// pipeline's display goroutine
func (s *stream) OnUpdate(u facepipe.Update) {

	if s.count() == 0 {
		return
	}

	img, err := preprocess.ToMat(u.Frame)

	if err != nil {
		s.log.Warn("error preparing frame for stream", zap.Error(err))
		return
	}

	defer img.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)

	if err != nil {
		s.log.Warn("error encoding frame", zap.Error(err))
		return
	}

	// copy out of the native buffer before it is freed
	jpg := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	s.publish(jpg)
}

// publish hands jpg to every client, skipping those still sending the
// previous frame
func (s *stream) publish(jpg []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c <- jpg:
		default:
			// client is slow
		}
	}
}

func (s *stream) subscribe() chan []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := make(chan []byte, 1)
	s.clients[c] = struct{}{}

	return c
}

func (s *stream) unsubscribe(c chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, c)
}

func (s *stream) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

// ServeHTTP streams frames to the browser as multipart JPEG
func (s *stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	s.log.Info("new client connection established", zap.String("remote", r.RemoteAddr))

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")

	c := s.subscribe()
	defer s.unsubscribe(c)

	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			s.log.Info("client disconnected", zap.String("remote", r.RemoteAddr))
			return

		case jpg := <-c:
			w.Write([]byte("--frame\r\n"))
			w.Write([]byte("Content-Type: image/jpeg\r\n\r\n"))
			w.Write(jpg)
			w.Write([]byte("\r\n"))

			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
