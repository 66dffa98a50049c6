// Package tui wires the pure C1-C8 components into a bubbletea program: a
// tea.Model that starts the discovery walk in Init, drains the discovery,
// size-calc, and deletion channels once per tick, routes key events through
// internal/input, and renders through internal/view.
//
// Apart from cmd/reap, which creates and runs the tea.Program, this is the
// only package that imports bubbletea (internal/view depends only on
// lipgloss); the wiring shape
// — a model.Update that type-switches on tea.Msg, a tickMsg re-armed each
// cycle, delegating key handling to a dedicated updateKey-equivalent — is
// grounded on other_examples/830eebab_xieren58-Mole's bubbletea model (see
// DESIGN.md).
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalbhor/reap/internal/appstate"
	"github.com/kalbhor/reap/internal/delete"
	"github.com/kalbhor/reap/internal/discover"
	"github.com/kalbhor/reap/internal/frame"
	"github.com/kalbhor/reap/internal/ignore"
	"github.com/kalbhor/reap/internal/input"
	"github.com/kalbhor/reap/internal/model"
	"github.com/kalbhor/reap/internal/sizecalc"
	"github.com/kalbhor/reap/internal/sizefmt"
	"github.com/kalbhor/reap/internal/view"
)

// reservedLines is how many header/details/footer lines Build always
// produces, subtracted from the terminal height to compute a page size
// (spec.md §4.5: items-per-page derives from the usable list height).
const reservedLines = 8

// Options configures a Model's collaborators and CLI-supplied parameters.
type Options struct {
	Root            string
	Pattern         string
	Ignore          *ignore.Set
	DiscoverWorkers int
	SizeWorkers     int
	DeleteWorkers   int
}

// Model is the bubbletea program model (spec.md's render loop, C6-C8
// wired together).
type Model struct {
	opts Options

	st        *appstate.State
	scheduler *frame.Scheduler
	router    *input.Router

	discoverCh chan model.DiscoveryMsg
	sizePool   *sizecalc.Pool
	delEngine  *delete.Engine

	width, height int
	startedAt     time.Time
	quitting      bool
}

type tickMsg time.Time

// New constructs a Model and its size-calc/deletion engines. Discovery
// does not start until Init runs.
func New(opts Options) *Model {
	sizePool := sizecalc.New(opts.SizeWorkers)
	delEngine := delete.New(opts.DeleteWorkers)
	return &Model{
		opts:       opts,
		st:         appstate.New(sizePool, delEngine, appstate.DefaultBatchSize),
		scheduler:  frame.NewScheduler(),
		router:     input.NewRouter(),
		discoverCh: make(chan model.DiscoveryMsg, 256),
		sizePool:   sizePool,
		delEngine:  delEngine,
	}
}

// Init starts the discovery walk on its own goroutine and arms the first
// tick.
func (m *Model) Init() tea.Cmd {
	m.startedAt = time.Now()
	go discover.Stream(m.opts.Root, m.opts.Pattern, m.opts.Ignore, m.opts.DiscoverWorkers, m.discoverCh)
	return tick(frame.ActiveInterval)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles one bubbletea message: window resizes update the page
// size, key events route through internal/input, and ticks drain the
// upstream channels and decide the next redraw interval.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.st.SetItemsPerPage(maxInt(msg.Height-reservedLines, 1))
		return m, nil

	case tea.KeyMsg:
		m.st.Touch(time.Now())
		if m.router.Route(msg.String(), m.st) {
			m.quitting = true
			m.sizePool.Close()
			m.delEngine.Shutdown()
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		now := time.Now()
		admitted := m.drain(now)
		discovering := m.st.Status() == appstate.DiscoveryDiscovering
		activity := m.scheduler.Classify(discovering, admitted, m.st.Dirty(), m.st.LastInputAt(), now)
		if due, _ := m.scheduler.ShouldDraw(m.st.Dirty(), now, activity.Interval()); due {
			m.scheduler.MarkDrawn(now)
			m.st.ClearDirty()
		}
		return m, tick(activity.Interval())
	}
	return m, nil
}

// drain pulls pending messages off the discovery, size-calc, and deletion
// channels, applying each to app state. Discovery and size-calc are
// budget-limited per tick (spec.md §4.6 step 1); deletion messages, being
// comparatively rare and latency-sensitive to surface, have no budget.
// admittedThisTick is true when any discovery message was applied this
// tick, including Found messages that are still waiting in the admission
// buffer; it does not check whether an entry was actually admitted.
func (m *Model) drain(now time.Time) (admittedThisTick bool) {
	discovering := m.st.Status() == appstate.DiscoveryDiscovering || m.st.Status() == appstate.DiscoveryNotStarted
	budget := frame.DiscoveryBudget(discovering)
discoveryDrain:
	for i := 0; i < budget; i++ {
		select {
		case msg, ok := <-m.discoverCh:
			if !ok {
				break discoveryDrain
			}
			m.st.ApplyDiscovery(msg)
			admittedThisTick = true
		default:
			break discoveryDrain
		}
	}

sizeDrain:
	for i := 0; i < frame.SizeDrainBudget; i++ {
		select {
		case msg := <-m.sizePool.Results():
			m.st.ApplySize(msg)
		default:
			break sizeDrain
		}
	}

	for {
		select {
		case msg := <-m.delEngine.Results():
			m.st.ApplyDeletion(msg)
		default:
			return admittedThisTick
		}
	}
}

// View renders the current frame.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.st.Snapshot()
	armedKey, armed := m.router.Armed()
	f := view.Build(snap, view.Params{
		Width:   m.width,
		Height:  m.height,
		Root:    m.opts.Root,
		Pattern: m.opts.Pattern,
		Elapsed: sizefmt.Duration(time.Since(m.startedAt)),
	})

	var out string
	for _, l := range f.Header {
		out += l + "\n"
	}
	out += "\n"
	for _, l := range f.Rows {
		out += l + "\n"
	}
	out += "\n"
	for _, l := range f.Details {
		out += l + "\n"
	}
	if len(f.Largest) > 0 {
		out += "\n"
		for _, l := range f.Largest {
			out += l + "\n"
		}
	}
	if armed {
		out += fmt.Sprintf("\npress %s again to confirm deletion\n", armedKey)
	}
	out += "\n"
	for _, l := range f.Footer {
		out += l + "\n"
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
