package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/config"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/domain"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/pgn"
	"github.com/luisrivasnoriega/pawn-appetit-sub001/internal/store"
)

type mode int

const (
	modeNormal mode = iota
	modeInput
)

type Options struct {
	Registry *store.Registry
	// Tab is the study to show first. Nil opens a fresh one.
	Tab         *domain.Store
	Orientation domain.Color
	ShowHints   bool
	// FlushInterval of zero disables periodic snapshots.
	FlushInterval time.Duration
	Logger        *slog.Logger
}

type Model struct {
	reg         *store.Registry
	tab         *domain.Store
	orientation domain.Color
	showHints   bool
	flushEvery  time.Duration
	logger      *slog.Logger

	m        mode
	input    textinput.Model
	logLines []string

	width  int
	height int
}

type flushTickMsg struct{}

type flushedMsg struct{ err error }

func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "move or command..."
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tab := opts.Tab
	if tab == nil {
		tab = opts.Registry.Open("")
	}
	orientation := opts.Orientation
	if orientation != domain.Black {
		orientation = domain.White
	}

	return Model{
		reg:         opts.Registry,
		tab:         tab,
		orientation: orientation,
		showHints:   opts.ShowHints,
		flushEvery:  opts.FlushInterval,
		logger:      logger,
		m:           modeNormal,
		input:       ti,
		logLines: []string{
			"ready (press i to enter a move or command, ? for keys)",
		},
	}
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	if m.flushEvery <= 0 {
		return nil
	}
	return tea.Tick(m.flushEvery, func(time.Time) tea.Msg { return flushTickMsg{} })
}

func (m Model) flush() tea.Cmd {
	reg := m.reg
	return func() tea.Msg {
		return flushedMsg{err: reg.Flush(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = min(80, max(30, m.width-4))
		return m, nil

	case flushTickMsg:
		return m, m.flush()

	case flushedMsg:
		if msg.err != nil {
			m.appendLog("snapshot failed: " + msg.err.Error())
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch m.m {
		case modeNormal:
			return m.handleKey(msg.String())

		case modeInput:
			switch msg.String() {
			case "esc":
				m.m = modeNormal
				m.input.Blur()
				return m, nil
			case "enter":
				cmdline := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				m.m = modeNormal
				m.input.Blur()

				if cmdline != "" {
					m.execCommand(cmdline)
				}
				return m, nil
			}

			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "i", ":":
		m.m = modeInput
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case "right", "l":
		m.tab.GoToNext(true)
	case "left", "h":
		m.tab.GoToPrevious()
	case "down", "j":
		m.tab.NextBranch()
	case "up", "k":
		m.tab.PreviousBranch()
	case "home", "g":
		m.tab.GoToStart()
	case "end", "G":
		m.tab.GoToEnd()
	case "pgdown", "J":
		m.tab.NextBranching()
	case "pgup", "K":
		m.tab.PreviousBranching()
	case "[":
		m.tab.GoToBranchStart()
	case "]":
		m.tab.GoToBranchEnd()
	case "x", "delete":
		m.tab.DeleteMove(nil)
	case "p":
		m.tab.PromoteVariation(m.tab.Position())
	case "P":
		m.tab.PromoteToMainline(m.tab.Position())
	case "y":
		m.copyLine()
	case "f":
		m.orientation = m.orientation.Other()
	case "b":
		// next blunder by the side at the bottom of the board
		m.tab.GoToAnnotation(domain.Blunder, m.orientation)
	case "n":
		m.tab.GoToAnnotation(domain.Novelty, m.orientation)
	case "ctrl+s":
		m.tab.Save()
		return m, m.flush()
	case "?":
		m.appendLog("keys: ←/→ move  ↑/↓ branch  home/end  pgup/pgdn branching  [ ] branch start/end")
		m.appendLog("      x delete  p promote  P mainline  y copy line  f flip  b/n next ??/N  ctrl+s save  i input  q quit")
	}
	return m, nil
}

func (m *Model) execCommand(line string) {
	m.appendLog("> " + line)

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return
	}
	arg := strings.TrimSpace(strings.TrimPrefix(line, parts[0]))

	switch parts[0] {
	case "new", "reset":
		m.tab.Reset()
		m.appendLog("new study")

	case "fen":
		before := m.tab.Version()
		m.tab.SetFen(arg)
		if m.tab.Version() == before {
			m.appendLog("invalid fen")
			return
		}
		m.appendLog("position set")

	case "goto":
		p, ok := m.parseExistingPath(arg)
		if ok {
			m.tab.GoToMove(p)
		}

	case "start":
		p := m.tab.Position()
		if arg != "" {
			var ok bool
			if p, ok = m.parseExistingPath(arg); !ok {
				return
			}
		}
		m.tab.SetStart(p)
		m.appendLog(fmt.Sprintf("start set to [%s]", p))

	case "comment":
		m.tab.SetComment(arg)

	case "ann", "nag":
		a, err := domain.ParseAnnotation(arg)
		if err != nil {
			m.appendLog(err.Error())
			return
		}
		m.tab.SetAnnotation(a)

	case "result":
		switch r := domain.Outcome(arg); r {
		case domain.WhiteWins, domain.BlackWins, domain.Draw, domain.Unknown:
			m.tab.SetResult(r)
		default:
			m.appendLog("result must be 1-0, 0-1, 1/2-1/2 or *")
		}

	case "header":
		if len(parts) < 2 {
			m.appendLog("usage: header <tag> <value>")
			return
		}
		h := m.tab.Headers()
		value := strings.TrimSpace(strings.TrimPrefix(arg, parts[1]))
		if err := setHeaderTag(&h, parts[1], value); err != nil {
			m.appendLog(err.Error())
			return
		}
		m.tab.SetHeaders(h)

	case "arrow":
		m.execArrow(parts[1:])

	case "score":
		sc, err := parseScore(arg)
		if err != nil {
			m.appendLog(err.Error())
			return
		}
		m.tab.SetScore(sc)

	case "clock":
		d, err := time.ParseDuration(arg)
		if err != nil {
			m.appendLog(fmt.Sprintf("invalid clock: %v", err))
			return
		}
		m.tab.SetClock(&d)

	case "analysis":
		entries, err := config.LoadAnalysis(arg)
		if err != nil {
			m.appendLog(err.Error())
			return
		}
		m.tab.AddAnalysis(entries)
		m.appendLog(fmt.Sprintf("analysis merged (%d positions)", len(entries)))

	case "pgn":
		st := m.tab.State()
		out := pgn.Render(st.Root, st.Headers, pgn.DefaultOptions())
		m.appendLog("PGN preview:")
		for _, ln := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
			m.appendLog("  " + ln)
		}

	case "copy":
		m.copyLine()

	case "save":
		m.tab.Save()
		m.appendLog("saved")

	case "delete":
		m.tab.DeleteMove(nil)

	case "promote":
		m.tab.PromoteVariation(m.tab.Position())

	case "mainline":
		m.tab.PromoteToMainline(m.tab.Position())

	case "tab":
		m.execTab(parts[1:])

	default:
		if !m.tab.MakeMoveText(line, domain.DefaultMoveOptions()) {
			m.appendLog(fmt.Sprintf("unknown command or illegal move: %s", line))
		}
	}
}

func (m *Model) parseExistingPath(s string) (domain.Path, bool) {
	p, err := domain.ParsePath(s)
	if err != nil {
		m.appendLog(err.Error())
		return nil, false
	}
	if !domain.ValidPath(m.tab.State().Root, p) {
		m.appendLog(fmt.Sprintf("no move at [%s]", p))
		return nil, false
	}
	return p, true
}

// execArrow: "arrow e2e4 [brush]", "arrow e4 [brush]" for a square, "arrow clear".
func (m *Model) execArrow(args []string) {
	if len(args) == 0 {
		m.appendLog("usage: arrow <e2e4|e4|clear> [brush]")
		return
	}
	if args[0] == "clear" {
		m.tab.ClearShapes()
		return
	}
	brush := "green"
	if len(args) > 1 {
		brush = args[1]
	}
	sq := strings.ToLower(args[0])
	switch len(sq) {
	case 2:
		m.tab.SetShapes([]domain.Shape{{Orig: sq, Dest: sq, Brush: brush}})
	case 4:
		m.tab.SetShapes([]domain.Shape{{Orig: sq[:2], Dest: sq[2:], Brush: brush}})
	default:
		m.appendLog(fmt.Sprintf("invalid arrow %q", args[0]))
	}
}

func (m *Model) execTab(args []string) {
	ctx := context.Background()
	if len(args) == 0 {
		m.appendLog("tab " + m.tab.ID())
		return
	}
	switch args[0] {
	case "new":
		m.tab = m.reg.Open(strings.Join(args[1:], " "))
		m.appendLog("opened tab " + m.tab.ID())
	case "list":
		for _, id := range m.reg.IDs() {
			mark := " "
			if id == m.tab.ID() {
				mark = "*"
			}
			m.appendLog(mark + " " + id)
		}
	case "close":
		if err := m.reg.Close(ctx, m.tab.ID()); err != nil {
			m.appendLog(err.Error())
			return
		}
		if ids := m.reg.IDs(); len(ids) > 0 {
			m.tab, _ = m.reg.Get(ids[0])
		} else {
			m.tab = m.reg.Open("")
		}
		m.appendLog("switched to tab " + m.tab.ID())
	default:
		for _, id := range m.reg.IDs() {
			if strings.HasPrefix(id, args[0]) {
				m.tab, _ = m.reg.Get(id)
				m.appendLog("switched to tab " + id)
				return
			}
		}
		s, err := m.reg.Restore(ctx, args[0])
		if err != nil {
			m.appendLog(err.Error())
			return
		}
		m.tab = s
		m.appendLog("restored tab " + s.ID())
	}
}

func (m *Model) copyLine() {
	if err := m.tab.CopyVariationPGN(nil); err != nil {
		m.appendLog("copy failed: " + err.Error())
		return
	}
	m.appendLog("line copied")
}

func setHeaderTag(h *domain.GameHeaders, tag, value string) error {
	switch strings.ToLower(tag) {
	case "event":
		h.Event = value
	case "site":
		h.Site = value
	case "date":
		h.Date = value
	case "round":
		h.Round = value
	case "white":
		h.White = value
	case "black":
		h.Black = value
	case "eco":
		h.ECO = value
	case "timecontrol":
		h.TimeControl = value
	case "whiteelo", "blackelo":
		elo, err := strconv.Atoi(value)
		if err != nil || elo < 0 {
			return fmt.Errorf("invalid rating %q", value)
		}
		if strings.EqualFold(tag, "whiteelo") {
			h.WhiteElo = elo
		} else {
			h.BlackElo = elo
		}
	default:
		return fmt.Errorf("unknown header %q", tag)
	}
	return nil
}

// parseScore accepts pawns from White's side ("+0.35", "-1.2") or a mate
// distance ("#3", "#-2").
func parseScore(s string) (domain.Score, error) {
	if rest, ok := strings.CutPrefix(s, "#"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return domain.Score{}, fmt.Errorf("invalid mate score %q", s)
		}
		return domain.Mate(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.Score{}, fmt.Errorf("invalid score %q", s)
	}
	return domain.CP(int(math.Round(f * 100))), nil
}

func (m *Model) appendLog(s string) {
	m.logLines = append(m.logLines, s)
	if len(m.logLines) > 200 {
		m.logLines = m.logLines[len(m.logLines)-200:]
	}
}

func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	st := m.tab.State()
	cur := st.Current()

	modeStr := "NORMAL"
	if m.m == modeInput {
		modeStr = "INPUT"
	}
	dirty := ""
	if st.Dirty {
		dirty = "  [modified]"
	}
	header := titleStyle.Render(fmt.Sprintf("study  [%s]  mode:%s%s", shortID(m.tab.ID()), modeStr, dirty))

	boardBox := boxStyle.Render(strings.TrimRight(RenderBoard(cur.FEN, m.orientation, cur.Move), "\n"))
	infoBox := boxStyle.Width(max(30, m.width-boardWidth-6)).Render(m.info(st, cur))
	top := lipgloss.JoinHorizontal(lipgloss.Top, boardBox, infoBox)

	moves := pgn.Render(st.Root, st.Headers, pgn.Options{Comments: true, Glyphs: true, Variations: true})
	movesBox := boxStyle.Width(max(20, m.width-2)).Render(strings.TrimRight(moves, "\n"))

	// ログ領域
	logHeight := max(3, m.height-lipgloss.Height(top)-lipgloss.Height(movesBox)-6)
	logStart := max(0, len(m.logLines)-logHeight)
	logBody := strings.Join(m.logLines[logStart:], "\n")
	logBox := boxStyle.Width(max(20, m.width-2)).Height(logHeight).Render(logBody)

	// 入力領域
	var inputLine string
	if m.m == modeInput {
		inputLine = m.input.View()
	} else {
		inputLine = "press i to enter a move or command"
	}
	inputBox := boxStyle.Width(max(20, m.width-2)).Render(inputLine)

	return header + "\n" + top + "\n" + movesBox + "\n" + logBox + "\n" + inputBox + "\n"
}

const boardWidth = 28

func (m Model) info(st *domain.TreeState, cur *domain.TreeNode) string {
	h := st.Headers
	lines := []string{
		fmt.Sprintf("%s - %s  %s", orQuestion(h.White), orQuestion(h.Black), h.Result),
		fmt.Sprintf("path [%s]  ply %d", st.Position, cur.HalfMoves),
	}
	if cur.Move != nil {
		lines = append(lines, "last "+moveLabel(cur))
	}
	if cur.Score != nil {
		lines = append(lines, "eval "+cur.Score.String())
	}
	if cur.Clock != nil {
		lines = append(lines, "clock "+pgn.FormatClock(*cur.Clock))
	}
	if cur.Comment != "" {
		lines = append(lines, "{"+cur.Comment+"}")
	}
	if n := len(cur.Children); n > 1 {
		lines = append(lines, fmt.Sprintf("%d continuations", n))
	}
	if st.Report.InProgress || st.Report.IsCompleted {
		lines = append(lines, fmt.Sprintf("analysis %.0f%%", st.Report.Progress))
	}
	if m.showHints {
		lines = append(lines, hints(m.tab.LegalDestinations())...)
	}
	return strings.Join(lines, "\n")
}

func moveLabel(n *domain.TreeNode) string {
	num := pgn.MoveNumber(n.HalfMoves)
	dots := "."
	if n.HalfMoves%2 == 0 {
		dots = "..."
	}
	label := fmt.Sprintf("%d%s %s", num, dots, n.SAN)
	for _, a := range n.Annotations.List() {
		label += " " + string(a)
	}
	return label
}

// hints lists legal destinations per origin square, a few origins per line.
func hints(dests map[string][]string) []string {
	if len(dests) == 0 {
		return nil
	}
	from := make([]string, 0, len(dests))
	for sq := range dests {
		from = append(from, sq)
	}
	sort.Strings(from)

	var out []string
	var line []string
	for _, sq := range from {
		line = append(line, sq+"→"+strings.Join(dests[sq], ","))
		if len(line) == 4 {
			out = append(out, strings.Join(line, " "))
			line = nil
		}
	}
	if len(line) > 0 {
		out = append(out, strings.Join(line, " "))
	}
	return out
}

func orQuestion(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
