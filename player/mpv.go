package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/constant"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/log"
)

const (
	mpvBinary         = "mpv"
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

var errAlreadyStarted = errors.New("mpv: engine already started")

// MPV drives an mpv process over its JSON-IPC socket.
// One instance plays one source; a new source gets a new instance.
type MPV struct {
	socketPath string
	source     string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	mu         sync.Mutex    // serialises socket writes
}

// NewMPV creates an idle engine; nothing runs until it is attached or initialized.
func NewMPV() *MPV {
	return &MPV{
		exited: make(chan struct{}),
	}
}

// LoadSource validates and stores the source to play once attached.
func (m *MPV) LoadSource(src string) error {
	safe, err := sanitizeMediaTarget(src)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	m.source = safe
	return nil
}

// AttachMedia opens the window described by surface and starts playing the loaded source.
func (m *MPV) AttachMedia(surface Surface) error {
	if m.source == "" {
		return errors.New("mpv: no source loaded")
	}
	return m.start(surface, true)
}

// Initialize loads src and starts playback, paused unless autoplay is set.
func (m *MPV) Initialize(surface Surface, src string, autoplay bool) error {
	if err := m.LoadSource(src); err != nil {
		return err
	}
	return m.start(surface, autoplay)
}

func (m *MPV) start(surface Surface, autoplay bool) error {
	if m.cmd != nil {
		return errAlreadyStarted
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	// os.TempDir, since $TMPDIR on macOS is not /tmp
	m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))

	m.cmd = exec.Command(mpvBinary, m.args(surface, autoplay)...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// reap the process
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return nil
}

// args builds the mpv command line. The user's mpv.conf is respected, so no
// video output or hwdec options are passed.
func (m *MPV) args(surface Surface, autoplay bool) []string {
	title := sanitizeTitle(surface.Title())

	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
		"--force-window=yes",
	}

	if surface.Fullscreen() {
		args = append(args, "--fs")
	}

	if !autoplay {
		args = append(args, "--pause")
	}

	if ua := viper.GetString(key.StreamUserAgent); ua != "" {
		args = append(args, fmt.Sprintf("--user-agent=%s", ua))
	}

	return append(args, "--", m.source)
}

// Done is closed when the mpv process exits.
func (m *MPV) Done() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Progress reads time-pos, duration and pause state.
// Duration is zero for live streams.
func (m *MPV) Progress() (Progress, error) {
	pos, err := m.getFloatProperty("time-pos")
	if err != nil {
		return Progress{}, err
	}

	dur, err := m.getFloatProperty("duration")
	if err != nil {
		dur = 0
	}

	paused, err := m.pausedStatus()
	if err != nil {
		return Progress{}, err
	}

	return Progress{
		Position: seconds(pos),
		Duration: seconds(dur),
		Paused:   paused,
	}, nil
}

func (m *MPV) pausedStatus() (bool, error) {
	data, err := m.sendCommand([]interface{}{"get_property", "pause"})
	if err != nil {
		return false, err
	}
	paused, _ := data.(bool)
	return paused, nil
}

// TogglePause flips the pause property.
func (m *MPV) TogglePause() error {
	_, err := m.sendCommand([]interface{}{"cycle", "pause"})
	return err
}

// Running reports whether mpv is alive and answering IPC commands.
func (m *MPV) Running() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Destroy asks mpv to quit, kills it after a grace period and removes the socket.
func (m *MPV) Destroy() error {
	if m.cmd == nil || m.cmd.Process == nil {
		return nil
	}

	select {
	case <-m.exited:
	default:
		_, _ = m.sendCommand([]interface{}{"quit"})

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(m.cmd)
			<-m.exited
		}
	}

	if err := os.Remove(m.socketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove socket: %w", err)
	}
	return nil
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// sanitizeMediaTarget rejects sources that mpv could interpret as options.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// local manifest file
	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
