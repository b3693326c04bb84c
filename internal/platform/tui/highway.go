package tui

import (
	"fmt"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/progress"
	"github.com/vovakirdan/speedy-highway/internal/race"
)

// Race view layout
const (
	roadMargin   = 60 // playfield pixels shown beside the road
	dashLength   = 40 // lane divider dash and gap, in playfield pixels
	hudWidth     = 26
	minRoadCols  = 20
	maxRoadCols  = 64
	flashMessage = "NEAR MISS!"
)

// raceFrame is everything the race view draws in one frame.
type raceFrame struct {
	Session   race.Session
	Car       int
	Countdown int
	Paused    bool
	Challenge progress.DailyChallenge
}

// highwayView projects the playfield onto a character grid.
type highwayView struct {
	cfg        config.HighwayConfig
	left, top  int // screen cell of the playfield origin
	cols, rows int
	viewX      int // leftmost playfield pixel shown
	viewW      int
}

func newHighwayView(cfg config.HighwayConfig, s *core.Screen) highwayView {
	viewX := cfg.Road.MinX - roadMargin
	viewW := cfg.Road.MaxX + cfg.Player.Width + roadMargin - viewX
	cols := core.Clamp(s.Width()-hudWidth-2, minRoadCols, maxRoadCols)
	return highwayView{
		cfg:   cfg,
		left:  1,
		top:   0,
		cols:  cols,
		rows:  max(s.Height(), 1),
		viewX: viewX,
		viewW: viewW,
	}
}

func (v highwayView) col(x int) int {
	return v.left + (x-v.viewX)*v.cols/v.viewW
}

func (v highwayView) row(y int) int {
	return v.top + y*v.rows/v.cfg.Display.Height
}

// cells converts a playfield rectangle to a screen rectangle at least one
// cell in each direction.
func (v highwayView) cells(r core.Rect) core.Rect {
	x0, y0 := v.col(r.X), v.row(r.Y)
	x1, y1 := v.col(r.Right()), v.row(r.Bottom())
	return core.NewRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1))
}

func (v highwayView) draw(s *core.Screen, f raceFrame) {
	cfg := v.cfg
	sess := f.Session

	roadL := v.col(cfg.Road.MinX)
	roadR := v.col(cfg.Road.MaxX + cfg.Player.Width)
	s.DrawVLine(roadL, v.top, v.rows, '│', core.ColorRoadEdge)
	s.DrawVLine(roadR, v.top, v.rows, '│', core.ColorRoadEdge)

	lanes := cfg.Road.Lanes
	for i := 0; i+1 < len(lanes); i++ {
		x := v.col((lanes[i] + cfg.Player.Width + lanes[i+1]) / 2)
		for r := 0; r < v.rows; r++ {
			y := r*cfg.Display.Height/v.rows - sess.ScrollOffset
			if ((y%(2*dashLength))+2*dashLength)%(2*dashLength) < dashLength {
				s.SetColored(x, v.top+r, '¦', core.ColorLaneMarker)
			}
		}
	}

	enemy := core.NewRect(sess.EnemyX, sess.EnemyY, cfg.Enemy.Width, cfg.Enemy.Height)
	s.DrawBox(v.cells(enemy), core.ColorEnemy)

	player := v.cells(core.NewRect(sess.PlayerX, sess.PlayerY, cfg.Player.Width, cfg.Player.Height))
	color := core.CarColor(f.Car)
	if sess.Crashed {
		color = core.ColorCrash
	}
	s.DrawRect(player, '█', color)

	mid := v.top + v.rows/2
	center := (roadL + roadR) / 2
	label := func(y int, text string, c core.Color) {
		s.DrawTextColored(center-len(text)/2, y, text, c)
	}
	switch {
	case f.Paused:
		label(mid, " PAUSED ", core.ColorHighlight)
	case f.Countdown > 0:
		label(mid, fmt.Sprintf(" %d ", (f.Countdown+progress.TicksPerSecond-1)/progress.TicksPerSecond), core.ColorHighlight)
	case sess.FlashTicks > 0:
		label(mid-2, flashMessage, core.ColorHighlight)
	}

	v.drawHUD(s, roadR+3, f)
}

type hudLine struct {
	text  string
	color core.Color
}

func (v highwayView) drawHUD(s *core.Screen, x int, f raceFrame) {
	sess := f.Session
	diff := v.cfg.DifficultyAt(sess.Difficulty)
	lines := []hudLine{
		{"SPEEDY HIGHWAY", core.ColorBrightYellow},
		{"", core.ColorDefault},
		{fmt.Sprintf("Score   %d", sess.TotalScore), core.ColorWhite},
		{fmt.Sprintf("Speed   %d", sess.EnemySpeed), core.ColorWhite},
		{fmt.Sprintf("Time    %ds", sess.Survival/progress.TicksPerSecond), core.ColorWhite},
		{fmt.Sprintf("Near    %d", sess.NearMisses), core.ColorWhite},
		{fmt.Sprintf("Lanes   %d", sess.LaneChanges), core.ColorWhite},
		{fmt.Sprintf("Level   %s", diff.Name), core.ColorCyan},
		{"", core.ColorDefault},
	}
	if c := f.Challenge; !c.IsZero() {
		color := core.ColorGray
		if c.Completed {
			color = core.ColorBrightGreen
		}
		lines = append(lines, hudLine{"Daily: " + c.Description, color})
	}
	for i, l := range lines {
		s.DrawTextColored(x, v.top+1+i, l.text, l.color)
	}
}

// renderRace draws one race frame onto s and returns it styled.
func renderRace(s *core.Screen, cfg config.HighwayConfig, p Palette, f raceFrame) string {
	s.Clear()
	newHighwayView(cfg, s).draw(s, f)
	return p.Render(s)
}
