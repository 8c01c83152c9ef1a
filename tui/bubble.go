package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"github.com/streamplay-cli/streamplay/form"
	"github.com/streamplay-cli/streamplay/history"
	"github.com/streamplay-cli/streamplay/internal/ui"
	"github.com/streamplay-cli/streamplay/key"
	"github.com/streamplay-cli/streamplay/player"
	"github.com/streamplay-cli/streamplay/stream"
	"github.com/streamplay-cli/streamplay/style"
	"github.com/streamplay-cli/streamplay/util"
)

// statefulBubble is the whole terminal form. Form state itself lives in the controller.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap     *statefulKeymap
	controller *form.Controller

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	historyC  list.Model
	progressC progress.Model
	helpC     help.Model

	// playback of the mounted session
	progress    mo.Option[player.Progress]
	manifest    mo.Option[stream.Manifest]
	playerError error

	lastError error

	width, height int
	suggestion    mo.Option[string]
	notifier      *ui.Model

	options *Options
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the current state unless it is the error screen.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes to all child component models.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	listWidth := width - xx
	listHeight := height - yy

	b.historyC.SetSize(listWidth, listHeight)
	b.historyC.Help.Width = listWidth

	b.progressC.Width = util.Min(listWidth, 60)
	b.inputC.Width = listWidth

	b.width = width - x
	b.height = height - y
	b.helpC.Width = listWidth
}

// syncKeymap refreshes the bindings that depend on the form state.
func (b *statefulBubble) syncKeymap() form.State {
	snapshot := b.controller.Snapshot()
	b.keymap.loading = snapshot.Loading
	b.keymap.playing = snapshot.Session != nil
	return snapshot
}

func (b *statefulBubble) setProtocol(p stream.Protocol) {
	b.inputC.Placeholder = p.Placeholder()
	b.resetPlayback()
}

func (b *statefulBubble) resetPlayback() {
	b.progress = mo.None[player.Progress]()
	b.manifest = mo.None[stream.Manifest]()
	b.playerError = nil
}

func (b *statefulBubble) setURL(url string) {
	b.controller.SetURL(url)
	b.suggestion = mo.None[string]()

	if url == "" {
		return
	}
	if s, ok := history.Suggest(url).Get(); ok && s != url {
		b.suggestion = mo.Some(s)
	}
}

func (b *statefulBubble) loadHistory() error {
	entries, err := history.List()
	if err != nil {
		return err
	}

	b.historyC.SetItems(lo.Map(entries, func(e *history.Entry, _ int) list.Item {
		return &listItem{entry: e}
	}))
	return nil
}

func newBubble(options *Options) *statefulBubble {
	options.Form.OnPlay = history.OnPlay(options.Form.OnPlay)

	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        keymap,
		controller:    form.New(options.Form),
		notifier:      &ui.Model{},
		options:       options,
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedItemStyle
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
	delegate.Styles.SelectedDesc = selectedItemStyle

	bubble.historyC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.historyC.KeyMap = keymap.forList()
	bubble.historyC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.historyC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return keymap.FullHelp()[0]
	}
	bubble.historyC.Title = "Remembered Streams"
	bubble.historyC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1)
	bubble.historyC.Styles.NoItems = paddingStyle
	bubble.historyC.SetStatusBarItemName("stream", "streams")
	bubble.historyC.StatusMessageLifetime = time.Hour * 999

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	snapshot := bubble.controller.Snapshot()

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = snapshot.Placeholder
	bubble.inputC.Prompt = viper.GetString(key.TUIPromptString)
	bubble.inputC.Focus()

	if options.URL != "" {
		bubble.inputC.SetValue(options.URL)
		bubble.setURL(options.URL)
	}

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.setState(formState)
	return &bubble
}
