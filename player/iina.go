package player

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/streamplay-cli/streamplay/constant"
)

// IINA plays through the macOS IINA application via LaunchServices.
// IINA exposes no IPC socket, so it reports no progress.
type IINA struct {
	source string
	cmd    *exec.Cmd
	exited chan struct{}
}

func NewIINA() *IINA {
	return &IINA{
		exited: make(chan struct{}),
	}
}

func (i *IINA) LoadSource(src string) error {
	safe, err := sanitizeMediaTarget(src)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	i.source = safe
	return nil
}

func (i *IINA) AttachMedia(surface Surface) error {
	if i.source == "" {
		return errors.New("iina: no source loaded")
	}
	return i.start(surface, true)
}

func (i *IINA) Initialize(surface Surface, src string, autoplay bool) error {
	if err := i.LoadSource(src); err != nil {
		return err
	}
	return i.start(surface, autoplay)
}

func (i *IINA) start(surface Surface, autoplay bool) error {
	if runtime.GOOS != constant.Darwin {
		return errors.New("IINA is only supported on macOS")
	}
	if i.cmd != nil {
		return errors.New("iina: engine already started")
	}

	i.cmd = exec.Command("open", i.args(surface, autoplay)...)
	if err := i.cmd.Start(); err != nil {
		return fmt.Errorf("LaunchServices failed to invoke IINA: %w", err)
	}

	go func() {
		_ = i.cmd.Wait()
		close(i.exited)
	}()

	return nil
}

// args passes mpv options through IINA's --args separator.
func (i *IINA) args(surface Surface, autoplay bool) []string {
	args := []string{"-W", "-n", "-a", "IINA", "--args", fmt.Sprintf("--mpv-force-media-title=%s", sanitizeTitle(surface.Title()))}
	if surface.Fullscreen() {
		args = append(args, "--mpv-fs")
	}
	if !autoplay {
		args = append(args, "--mpv-pause")
	}
	return append(args, i.source)
}

// Done is closed when the IINA instance launched for this source quits.
func (i *IINA) Done() <-chan struct{} {
	return i.exited
}

func (i *IINA) Destroy() error {
	if i.cmd == nil || i.cmd.Process == nil {
		return nil
	}
	select {
	case <-i.exited:
		return nil
	default:
	}
	if err := i.cmd.Process.Kill(); err != nil {
		return err
	}
	<-i.exited
	return nil
}
