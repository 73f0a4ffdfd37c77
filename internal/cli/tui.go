package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/mosaic/hittest"
	"github.com/matzehuels/logomosaic/pkg/session"
)

// Inspector styles
var (
	mapLogoStyle   = lipgloss.NewStyle().Foreground(colorGray)
	mapEmptyStyle  = lipgloss.NewStyle().Foreground(colorDim)
	mapCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	panelStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

const (
	mapCols = 48
	mapRows = 20
)

// frameMsg fires when a coalesced hover frame elapses.
type frameMsg struct{}

// =============================================================================
// InspectModel - Interactive tile inspector
// =============================================================================

// InspectModel is the bubbletea model for browsing a render tile by tile.
// Cursor moves are coalesced so at most one hit test runs per frame.
type InspectModel struct {
	sess *session.Session
	snap *session.Snapshot

	X, Y    float64
	stepX   float64
	stepY   float64
	coal    hittest.Coalescer
	inside  func(x, y float64) bool
	miniMap [][]bool

	Hit      mosaic.PlacedTile
	Found    bool
	Inside   bool
	Selected *mosaic.PlacedTile
	frames   int
}

// NewInspectModel creates an inspector centered on the canvas.
func NewInspectModel(sess *session.Session, snap *session.Snapshot) *InspectModel {
	w, h := snap.Params.TileSize()
	m := &InspectModel{
		sess:  sess,
		snap:  snap,
		X:     float64(snap.Params.CanvasWidth) / 2,
		Y:     float64(snap.Params.CanvasHeight) / 2,
		stepX: float64(w),
		stepY: float64(h),
	}
	m.inside = silhouette(sess.Logo(), snap)
	m.miniMap = buildMiniMap(snap, m.inside)
	m.lookup(m.X, m.Y)
	return m
}

// buildMiniMap samples the logo silhouette at the center of each map cell.
func buildMiniMap(snap *session.Snapshot, inside func(x, y float64) bool) [][]bool {
	cw := float64(snap.Params.CanvasWidth) / mapCols
	ch := float64(snap.Params.CanvasHeight) / mapRows
	rows := make([][]bool, mapRows)
	for r := range rows {
		rows[r] = make([]bool, mapCols)
		for c := range rows[r] {
			rows[r][c] = inside((float64(c)+0.5)*cw, (float64(r)+0.5)*ch)
		}
	}
	return rows
}

// silhouette reports whether a canvas point falls on the logo. Overlay
// renders keep an empty mask, so the logo raster is sampled inside the box
// it was fitted to instead.
func silhouette(logo *mosaic.Logo, snap *session.Snapshot) func(x, y float64) bool {
	if snap.Params.LogoMode != mosaic.LogoOverlay {
		return snap.Index.InsideLogo
	}
	box := snap.LogoBox
	if logo == nil || logo.Raster == nil || box.W <= 0 || box.H <= 0 {
		return box.Contains
	}
	img := logo.Raster
	b := img.Bounds()
	return func(x, y float64) bool {
		if !box.Contains(x, y) {
			return false
		}
		px := b.Min.X + int((x-box.X)/box.W*float64(b.Dx()))
		py := b.Min.Y + int((y-box.Y)/box.H*float64(b.Dy()))
		_, _, _, a := img.At(px, py).RGBA()
		return a > 0
	}
}

func (m *InspectModel) lookup(x, y float64) {
	m.Hit, m.Found = m.sess.HitTest(x, y)
	m.Inside = m.inside(x, y)
	m.frames++
}

// move shifts the cursor, clamped to the canvas, and schedules a frame
// unless one is already pending.
func (m *InspectModel) move(dx, dy float64) tea.Cmd {
	maxX := float64(m.snap.Params.CanvasWidth) - 1
	maxY := float64(m.snap.Params.CanvasHeight) - 1
	m.X = min(max(m.X+dx, 0), maxX)
	m.Y = min(max(m.Y+dy, 0), maxY)
	if !m.coal.Move(m.X, m.Y) {
		return nil
	}
	return tea.Tick(hittest.FrameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *InspectModel) Init() tea.Cmd {
	return nil
}

func (m *InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if x, y, ok := m.coal.Fire(); ok {
			m.lookup(x, y)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.coal.Cancel()
			return m, tea.Quit
		case "left", "h":
			return m, m.move(-m.stepX, 0)
		case "right", "l":
			return m, m.move(m.stepX, 0)
		case "up", "k":
			return m, m.move(0, -m.stepY)
		case "down", "j":
			return m, m.move(0, m.stepY)
		case "H":
			return m, m.move(-10*m.stepX, 0)
		case "L":
			return m, m.move(10*m.stepX, 0)
		case "K":
			return m, m.move(0, -10*m.stepY)
		case "J":
			return m, m.move(0, 10*m.stepY)
		case "enter":
			if m.Found {
				hit := m.Hit
				m.Selected = &hit
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Mosaic"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→/↑/↓ move one tile  H/J/K/L move ten  ⏎ select  q quit"))
	b.WriteString("\n\n")

	cx := int(m.X / float64(m.snap.Params.CanvasWidth) * mapCols)
	cy := int(m.Y / float64(m.snap.Params.CanvasHeight) * mapRows)
	var grid strings.Builder
	for r, row := range m.miniMap {
		for c, inside := range row {
			switch {
			case r == cy && c == cx:
				grid.WriteString(mapCursorStyle.Render("+"))
			case inside:
				grid.WriteString(mapLogoStyle.Render("█"))
			default:
				grid.WriteString(mapEmptyStyle.Render("·"))
			}
		}
		if r < len(m.miniMap)-1 {
			grid.WriteString("\n")
		}
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(grid.String()),
		panelStyle.Render(m.details()),
	))
	b.WriteString("\n")
	return b.String()
}

func (m *InspectModel) details() string {
	lines := []string{
		fmt.Sprintf("%s %s", StyleDim.Render("point "), StyleNumber.Render(fmt.Sprintf("%.0f, %.0f", m.X, m.Y))),
		fmt.Sprintf("%s %v", StyleDim.Render("logo  "), m.Inside),
		"",
	}
	if !m.Found {
		lines = append(lines, StyleDim.Render("no tile here"))
		return strings.Join(lines, "\n")
	}
	r := m.Hit.Rect
	lines = append(lines,
		StyleValue.Render(m.Hit.Tile.Name),
		StyleDim.Render(m.Hit.Tile.ID),
		fmt.Sprintf("%s %s", StyleDim.Render("rect  "), StyleNumber.Render(fmt.Sprintf("%.0f,%.0f %.0f×%.0f", r.X, r.Y, r.W, r.H))),
	)
	return strings.Join(lines, "\n")
}
