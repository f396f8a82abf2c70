package tilt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned when input reaches a closed session.
var ErrClosed = errors.New("tilt session closed")

// PermissionSource grants access to device orientation. It is asked once
// per session.
type PermissionSource interface {
	RequestOrientation(ctx context.Context) (bool, error)
}

// AlwaysGranted is used on platforms that need no permission prompt.
type AlwaysGranted struct{}

func (AlwaysGranted) RequestOrientation(context.Context) (bool, error) { return true, nil }

type InputKind string

const (
	InputPointer     InputKind = "pointer"
	InputTouch       InputKind = "touch"
	InputOrientation InputKind = "orientation"
)

// Frame is the state published after each loop tick.
type Frame struct {
	Seq     uint64   `json:"seq"`
	Target  Rotation `json:"target"`
	Current Rotation `json:"current"`
	Shading Shading  `json:"shading"`
}

// Session is the tilt state of one open enlarged card. It is discarded
// when the card closes.
type Session struct {
	opts Options

	mu        sync.Mutex
	target    Rotation
	current   Rotation
	seq       uint64
	listeners map[InputKind]bool
	permAsked bool
	permitted bool
	closed    bool
	running   bool

	done     chan struct{}
	stopped  chan struct{}
	closeOne sync.Once
}

func NewSession(opts Options) *Session {
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		opts.Alpha = DefaultOptions().Alpha
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultOptions().FPS
	}
	if opts.Range <= 0 {
		opts.Range = DefaultOptions().Range
	}
	return &Session{
		opts:      opts,
		listeners: map[InputKind]bool{InputPointer: true, InputTouch: true},
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// PointerMove sets the target from a pointer position inside rect.
func (s *Session) PointerMove(x, y float64, rect Rect) error {
	return s.setTarget(InputPointer, PointerTarget(x, y, rect, s.opts.Range))
}

// TouchMove maps like PointerMove. The caller must suppress the default
// scroll for the gesture.
func (s *Session) TouchMove(x, y float64, rect Rect) error {
	return s.setTarget(InputTouch, PointerTarget(x, y, rect, s.opts.Range))
}

// Orientation sets the target from device orientation. It is ignored until
// EnableOrientation has been granted.
func (s *Session) Orientation(beta, gamma float64) error {
	return s.setTarget(InputOrientation, OrientationTarget(beta, gamma, s.opts))
}

// Release returns the card to rest.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.target = Rotation{}
	return nil
}

func (s *Session) setTarget(kind InputKind, r Rotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if !s.listeners[kind] {
		return nil
	}
	s.target = r
	return nil
}

// EnableOrientation asks perm once. Denial or error leaves pointer and
// touch input as the only sources and is not reported.
func (s *Session) EnableOrientation(ctx context.Context, perm PermissionSource) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	if s.permAsked {
		granted := s.permitted
		s.mu.Unlock()
		return granted
	}
	s.permAsked = true
	s.mu.Unlock()

	granted, err := perm.RequestOrientation(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("orientation permission request failed")
		granted = false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.permitted = granted
	if granted {
		s.listeners[InputOrientation] = true
	}
	return granted
}

// Listening reports whether input of kind is currently accepted.
func (s *Session) Listening(kind InputKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listeners[kind]
}

// Step advances one frame.
func (s *Session) Step() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepLocked()
}

func (s *Session) stepLocked() Frame {
	s.current = Ease(s.current, s.target, s.opts.Alpha)
	s.seq++
	return Frame{
		Seq:     s.seq,
		Target:  s.target,
		Current: s.current,
		Shading: ShadingFor(s.current),
	}
}

// Snapshot returns the latest frame without advancing.
func (s *Session) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Frame{
		Seq:     s.seq,
		Target:  s.target,
		Current: s.current,
		Shading: ShadingFor(s.current),
	}
}

// Run ticks the session at the configured rate until ctx is done or the
// session is closed. onFrame may be nil and must not call Close. Run may
// only be called once.
func (s *Session) Run(ctx context.Context, onFrame func(Frame)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.running {
		s.mu.Unlock()
		return errors.New("tilt loop already running")
	}
	s.running = true
	s.mu.Unlock()

	defer close(s.stopped)

	frameTime := time.Second / time.Duration(s.opts.FPS)
	frameTicker := time.NewTicker(frameTime)
	defer frameTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case <-frameTicker.C:
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return nil
			}
			frame := s.stepLocked()
			s.mu.Unlock()

			if onFrame != nil {
				onFrame(frame)
			}
		}
	}
}

// Close stops the frame loop and detaches every input listener. It waits
// for a running loop to exit and is safe to call more than once.
func (s *Session) Close() {
	s.closeOne.Do(func() {
		s.mu.Lock()
		s.closed = true
		running := s.running
		for k := range s.listeners {
			delete(s.listeners, k)
		}
		s.mu.Unlock()

		close(s.done)
		if running {
			<-s.stopped
		}
	})
}

// Closed reports whether Close has run.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
