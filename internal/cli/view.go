package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/degreetree/pkg/camera"
	"github.com/matzehuels/degreetree/pkg/cutscene"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/pipeline"
	"github.com/matzehuels/degreetree/pkg/tree"
)

const (
	// zoomStep is the scale change per +/- key press.
	zoomStep = 0.25

	// wheelNotch is the deltaY reported for one mouse wheel notch, as
	// browsers do for line-mode wheels.
	wheelNotch = 100.0

	frameInterval = time.Second / 60
	panelHeight   = 5
)

// viewCommand creates the view command, the terminal tree viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		noCache       bool
		reducedMotion bool
	)
	var flags pipeline.Options

	cmd := &cobra.Command{
		Use:   "view <tree>",
		Short: "Explore a degree tree in the terminal",
		Long: `Explore a degree tree in the terminal.

Keys:
  ←↑↓→ / hjkl  move the cursor to a sibling, the parent or the first child
  enter        center the camera on the cursor
  + / -        zoom in and out (the mouse wheel works too)
  r            reset to the first root at the default zoom
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.layoutOptions(cmd, flags)
			opts.Source = args[0]
			if !cmd.Flags().Changed("reduced-motion") {
				reducedMotion = c.cfg.Camera.ReducedMotion
			}
			return c.runView(cmd.Context(), opts, noCache, reducedMotion)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "skip the intro and camera transitions")
	cmd.Flags().StringVar(&flags.Focus, "focus", "", "node to start on")
	addLayoutFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runView(ctx context.Context, opts pipeline.Options, noCache, reducedMotion bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.Source, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer closeRunner(ctx, runner)

	doc, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	l, err := runner.ComputeLayout(ctx, doc, opts)
	if err != nil {
		return err
	}
	result, err := layout.Parse(l)
	if err != nil {
		return err
	}

	transition := c.cfg.Transition()
	if reducedMotion {
		transition = 0
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m, err := newViewModel(ctx, viewConfig{
		title:         doc.Title,
		nodes:         doc.TreeNodes(),
		result:        result,
		camera:        opts.Camera,
		focus:         opts.Focus,
		transition:    transition,
		reducedMotion: reducedMotion,
		cutscenes:     c.cutscenes,
	})
	if err != nil {
		return err
	}

	release := c.holdLogs()
	defer release()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// =============================================================================
// viewModel - Terminal Viewer
// =============================================================================

type viewConfig struct {
	title         string
	nodes         []tree.Node
	result        layout.Result
	camera        camera.Config
	focus         string // initial focus; empty means the default
	transition    time.Duration
	reducedMotion bool
	cutscenes     *cutscene.Registry
}

// frameMsg advances the camera transition.
type frameMsg time.Time

// sceneMsg carries one cutscene state.
type sceneMsg struct {
	name  string
	state string
}

// sceneDoneMsg reports that a cutscene finished.
type sceneDoneMsg struct {
	name string
}

// viewModel draws the tree under an eased camera. The controller holds the
// target state; trans holds what is on screen.
type viewModel struct {
	ctx  context.Context
	cfg  viewConfig
	tree *tree.Forest
	ctrl *camera.Controller

	trans     *camera.Transition
	lastFrame time.Time
	animating bool

	cursor     string
	cols, rows int

	scene     string // state of the playing cutscene, empty when none
	sceneName string
	sceneCh   <-chan string
	message   string
}

func newViewModel(ctx context.Context, cfg viewConfig) (viewModel, error) {
	if cfg.cutscenes == nil {
		cfg.cutscenes = cutscene.NewRegistry()
	}
	var camOpts []camera.Option
	if cfg.camera != (camera.Config{}) {
		camOpts = append(camOpts, camera.WithConfig(cfg.camera))
	}
	ctrl := camera.New(cfg.nodes, cfg.result, camOpts...)
	if cfg.focus != "" {
		if err := ctrl.Select(cfg.focus); err != nil {
			return viewModel{}, err
		}
	}

	m := viewModel{
		ctx:    ctx,
		cfg:    cfg,
		tree:   tree.Build(cfg.nodes),
		ctrl:   ctrl,
		trans:  camera.NewTransition(ctrl.State(), cfg.transition, nil),
		cursor: ctrl.State().FocusedID,
		cols:   80,
		rows:   24,
	}
	m.startScene(cutscene.NameIntro, cutscene.Intro())
	return m, nil
}

// startScene plays seq in the background. The channel is buffered for every
// state, so the player never blocks on a viewer that already quit.
func (m *viewModel) startScene(name string, seq cutscene.Sequence) {
	ch := make(chan string, seq.Len())
	go func() {
		defer close(ch)
		_ = cutscene.PlayOnce(m.ctx, m.cfg.cutscenes, name, seq, m.cfg.reducedMotion, func(state string) {
			ch <- state
		})
	}()
	m.sceneName = name
	m.sceneCh = ch
}

func waitScene(name string, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return sceneDoneMsg{name: name}
		}
		return sceneMsg{name: name, state: state}
	}
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m viewModel) Init() tea.Cmd {
	return waitScene(m.sceneName, m.sceneCh)
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		return m, nil

	case sceneMsg:
		if msg.name != m.sceneName {
			return m, nil // superseded
		}
		m.scene = msg.state
		return m, waitScene(msg.name, m.sceneCh)

	case sceneDoneMsg:
		if msg.name != m.sceneName {
			return m, nil
		}
		m.scene, m.sceneName, m.sceneCh = "", "", nil
		if msg.name == cutscene.NameOutro {
			return m, tea.Quit
		}
		return m, nil

	case frameMsg:
		return m.advance(time.Time(msg))

	case tea.MouseMsg:
		if m.playing() {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.ctrl.Wheel(-wheelNotch, msg.Ctrl)
		case tea.MouseButtonWheelDown:
			m.ctrl.Wheel(wheelNotch, msg.Ctrl)
		default:
			return m, nil
		}
		return m.retarget()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m viewModel) playing() bool { return m.sceneName != "" }

func (m viewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		if m.sceneName == cutscene.NameOutro {
			return m, nil
		}
		if m.cfg.reducedMotion {
			return m, tea.Quit
		}
		m.startScene(cutscene.NameOutro, cutscene.Outro())
		return m, waitScene(m.sceneName, m.sceneCh)
	}
	if m.playing() {
		return m, nil
	}

	m.message = ""
	switch msg.String() {
	case "up", "k":
		if parent, ok := m.tree.Parent(m.cursor); ok {
			m.cursor = parent
		}
	case "down", "j":
		if children := m.tree.Children(m.cursor); len(children) > 0 {
			m.cursor = children[0]
		}
	case "left", "h":
		m.cursor = m.sibling(-1)
	case "right", "l":
		m.cursor = m.sibling(1)
	case "enter", " ":
		if err := m.ctrl.Apply(camera.SelectEvent(m.cursor)); err != nil {
			m.message = err.Error()
		}
		return m.retarget()
	case "+", "=":
		m.ctrl.Zoom(zoomStep)
		return m.retarget()
	case "-", "_":
		m.ctrl.Zoom(-zoomStep)
		return m.retarget()
	case "r":
		m.reset()
		return m.retarget()
	}
	return m, nil
}

// sibling returns the node dir steps from the cursor among its siblings,
// wrapping around. Roots are siblings of each other.
func (m viewModel) sibling(dir int) string {
	siblings := m.tree.Roots()
	if parent, ok := m.tree.Parent(m.cursor); ok {
		siblings = m.tree.Children(parent)
	}
	for i, id := range siblings {
		if id == m.cursor {
			return siblings[(i+dir+len(siblings))%len(siblings)]
		}
	}
	return m.cursor
}

// reset returns to the default focus at the default scale.
func (m *viewModel) reset() {
	focus := tree.DefaultFocus(m.cfg.nodes)
	if focus == "" {
		return
	}
	m.cursor = focus
	_ = m.ctrl.Select(focus)
	m.ctrl.Zoom(m.ctrl.Config().DefaultScale - m.ctrl.State().Scale)
}

// retarget points the transition at the controller's state and starts the
// frame clock when it is not already running.
func (m viewModel) retarget() (tea.Model, tea.Cmd) {
	m.trans.Retarget(m.ctrl.State())
	if m.trans.Done() || m.animating {
		return m, nil
	}
	m.animating = true
	m.lastFrame = time.Now()
	return m, nextFrame()
}

func (m viewModel) advance(now time.Time) (tea.Model, tea.Cmd) {
	if !m.animating {
		return m, nil
	}
	dt := now.Sub(m.lastFrame)
	m.lastFrame = now
	if _, done := m.trans.Update(dt); done {
		m.animating = false
		return m, nil
	}
	return m, nextFrame()
}

// =============================================================================
// Drawing
// =============================================================================

var (
	styleFocused = lipgloss.NewStyle().Bold(true).Reverse(true)
	styleCursor  = lipgloss.NewStyle().Underline(true)
	styleLink    = lipgloss.NewStyle().Foreground(colorDim)
)

func (m viewModel) View() string {
	if m.sceneName != "" && m.scene != "" {
		return m.drawScene()
	}

	canvasRows := m.rows - panelHeight
	if canvasRows < 1 {
		canvasRows = 1
	}
	var b strings.Builder
	b.WriteString(m.drawCanvas(m.cols, canvasRows))
	b.WriteString(m.drawPanel())
	return b.String()
}

// canvas is a character grid where each cell remembers the style it was
// drawn with.
type canvas struct {
	cols, rows int
	cells      [][]rune
	styles     [][]int
	palette    []lipgloss.Style
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, palette: []lipgloss.Style{lipgloss.NewStyle()}}
	c.cells = make([][]rune, rows)
	c.styles = make([][]int, rows)
	for r := range c.cells {
		c.cells[r] = []rune(strings.Repeat(" ", cols))
		c.styles[r] = make([]int, cols)
	}
	return c
}

func (c *canvas) style(s lipgloss.Style) int {
	c.palette = append(c.palette, s)
	return len(c.palette) - 1
}

func (c *canvas) set(col, row int, r rune, style int) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = r
	c.styles[row][col] = style
}

// text writes s centered on col.
func (c *canvas) text(col, row int, s string, style int) {
	runes := []rune(s)
	start := col - len(runes)/2
	for i, r := range runes {
		c.set(start+i, row, r, style)
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for r := range c.cells {
		run := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.styles[r][col] == c.styles[r][run] {
				continue
			}
			b.WriteString(c.palette[c.styles[r][run]].Render(string(c.cells[r][run:col])))
			run = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// project maps a layout point through the on-screen camera to a cell.
func (m viewModel) project(p layout.Position, cols, rows int) (int, int) {
	sx, sy := m.trans.Current().Project(p.X, p.Y)
	w, h := m.cfg.result.Width, m.cfg.result.Height
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return int(math.Round(sx / w * float64(cols))), int(math.Round(sy / h * float64(rows)))
}

func (m viewModel) drawCanvas(cols, rows int) string {
	cv := newCanvas(cols, rows)
	result := m.cfg.result
	focused := m.trans.Current().FocusedID

	link := cv.style(styleLink)
	for _, e := range result.Edges(m.cfg.nodes) {
		from, ok1 := result.Position(e.From)
		to, ok2 := result.Position(e.To)
		if !ok1 || !ok2 {
			continue
		}
		pc, pr := m.project(from, cols, rows)
		cc, cr := m.project(to, cols, rows)
		steps := max(abs(cc-pc), abs(cr-pr))
		for i := 1; i < steps; i++ {
			t := float64(i) / float64(steps)
			col := pc + int(math.Round(t*float64(cc-pc)))
			row := pr + int(math.Round(t*float64(cr-pr)))
			cv.set(col, row, '·', link)
		}
	}

	for _, n := range m.tree.Nodes() {
		p, ok := result.Position(n.ID)
		if !ok {
			continue
		}
		col, row := m.project(p, cols, rows)
		s := statusStyle(n.Status)
		if n.ID == focused {
			s = s.Inherit(styleFocused)
		}
		if n.ID == m.cursor {
			s = s.Inherit(styleCursor)
		}
		cv.text(col, row, n.DisplayLabel(), cv.style(s))
	}
	return cv.String()
}

func (m viewModel) drawPanel() string {
	var b strings.Builder
	state := m.ctrl.State()
	n, ok := m.tree.Node(m.cursor)

	title := m.cfg.title
	if title == "" {
		title = appName
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  zoom %.2f×  focus %s", state.Scale, state.FocusedID)))
	b.WriteByte('\n')

	if ok {
		b.WriteString(statusStyle(n.Status).Render(string(n.Status.OrPlanned())))
		b.WriteString(" " + StyleValue.Render(n.Title()))
		b.WriteByte('\n')
		b.WriteString(StyleDim.Render(truncate(n.Description, m.cols)))
	} else {
		b.WriteString(StyleDim.Render("empty tree\n"))
	}
	b.WriteByte('\n')

	if m.message != "" {
		b.WriteString(StyleWarning.Render(m.message))
	}
	b.WriteByte('\n')
	b.WriteString(StyleDim.Render("←↑↓→ move  ⏎ select  +/- zoom  r reset  q quit"))
	return b.String()
}

// introText is what each intro state shows: the title types itself out,
// then a slicing rule wipes across.
var introText = map[string]string{
	cutscene.IntroFrame1:  "d",
	cutscene.IntroFrame2:  "deg",
	cutscene.IntroFrame3:  "degree",
	cutscene.IntroFrame4:  "degree tr",
	cutscene.IntroFrame5:  "degree tree",
	cutscene.IntroSlicing: "degree tree\n───────────",
}

var outroText = map[string]string{
	cutscene.OutroFrame1: "see you",
	cutscene.OutroFrame2: "see you ·",
	cutscene.OutroFrame3: "see you · ·",
	cutscene.OutroFrame4: "see you · · ·",
	cutscene.OutroFrame5: "bye",
}

func (m viewModel) drawScene() string {
	text := introText[m.scene]
	if m.sceneName == cutscene.NameOutro {
		text = outroText[m.scene]
	}
	return lipgloss.Place(m.cols, m.rows, lipgloss.Center, lipgloss.Center, StyleTitle.Render(text))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
