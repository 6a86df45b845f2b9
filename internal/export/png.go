package export

import (
	"bytes"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/layout"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// Image geometry in pixels.
const (
	imageWidth      = 1000
	headerHeight    = 60
	leftLabelsWidth = 60
	rightPadding    = 20
	cellHeight      = 60
	slotInset       = 1.0
	slotRadius      = 4.0
)

var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 255}
	hourLabelColor   = color.RGBA{110, 115, 120, 255}
	hourLineColor    = color.RGBA{200, 200, 200, 255}
	evenDayColor     = color.RGBA{240, 240, 240, 255}
	oddDayColor      = color.RGBA{228, 228, 228, 255}
	currentTimeColor = color.RGBA{239, 68, 68, 255}
	slotTextColor    = color.RGBA{20, 24, 28, 255}
)

// courseColors maps catalog color tokens to fills.
var courseColors = map[string]color.RGBA{
	"indigo":  {165, 180, 252, 255},
	"sky":     {125, 211, 252, 255},
	"emerald": {110, 231, 183, 255},
	"rose":    {253, 164, 175, 255},
	"amber":   {252, 211, 77, 255},
	"slate":   {203, 213, 225, 255},
}

var defaultSlotColor = color.RGBA{220, 220, 220, 255}

// CourseColor returns the fill used for a course in exported images.
func CourseColor(courseID string) color.RGBA {
	if c, ok := catalog.Lookup(courseID); ok {
		if rgba, found := courseColors[c.Color]; found {
			return rgba
		}
	}
	return defaultSlotColor
}

// grid holds the computed canvas geometry.
type grid struct {
	opts     Options
	hours    []int
	dayWidth float64
	height   int
}

func newGrid(opts Options) grid {
	opts = opts.withDefaults()
	hours := opts.rows()
	return grid{
		opts:     opts,
		hours:    hours,
		dayWidth: float64(imageWidth-leftLabelsWidth-rightPadding) / float64(len(schedule.Days)),
		height:   headerHeight + len(hours)*cellHeight,
	}
}

func (g grid) dayX(day schedule.Day) float64 {
	return leftLabelsWidth + float64(day.Index())*g.dayWidth
}

func (g grid) hourY(hour float64) float64 {
	return headerHeight + (hour-float64(g.hours[0]))*cellHeight
}

// WeekPNG draws the week as a PNG image. Events sit in sub-columns computed by
// the layout package so overlapping classes stay readable.
func WeekPNG(events []schedule.Event, opts Options) ([]byte, error) {
	g := newGrid(opts)

	dc := gg.NewContext(imageWidth, g.height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	drawHourLabels(dc, g)
	for _, day := range schedule.Days {
		drawDay(dc, g, day, events)
	}
	drawCurrentTimeLine(dc, g)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawHourLabels(dc *gg.Context, g grid) {
	dc.SetColor(hourLabelColor)
	for _, h := range g.hours {
		dc.DrawStringAnchored(dateutil.ClockHour(float64(h)), leftLabelsWidth-8, g.hourY(float64(h)), 1, 0.5)
	}
}

func drawDay(dc *gg.Context, g grid, day schedule.Day, events []schedule.Event) {
	x := g.dayX(day)
	top := float64(headerHeight)

	if day.Index()%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, top, g.dayWidth, float64(g.height-headerHeight))
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(string(day), x+g.dayWidth/2, top/2, 0.5, 0.5)

	dc.SetColor(hourLineColor)
	dc.SetLineWidth(0.5)
	for i := 0; i <= len(g.hours); i++ {
		y := top + float64(i*cellHeight)
		dc.DrawLine(x, y, x+g.dayWidth, y)
		dc.Stroke()
	}

	var dayEvents []schedule.Event
	for _, e := range events {
		if e.Day == day {
			dayEvents = append(dayEvents, e)
		}
	}
	placements := layout.Day(dayEvents)
	for _, e := range dayEvents {
		drawEvent(dc, g, x, e, placements[e.ID])
	}
}

func drawEvent(dc *gg.Context, g grid, dayX float64, e schedule.Event, p layout.Placement) {
	sx := dayX + g.dayWidth*p.Left/100 + slotInset
	sw := g.dayWidth*p.Width/100 - 2*slotInset
	sy := g.hourY(e.StartHour) + slotInset
	sh := e.Duration*cellHeight - 2*slotInset

	fill := CourseColor(e.CourseID)
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(sx, sy, sw, sh, slotRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(sx, sy, sw, sh, slotRadius)
	dc.Stroke()

	label := e.CourseID
	if c, ok := catalog.Lookup(e.CourseID); ok {
		label = c.Code
	}
	dc.SetColor(slotTextColor)
	dc.DrawString(label, sx+6, sy+15)
	if sh > 30 {
		dc.DrawString(dateutil.ClockHour(e.StartHour)+"-"+dateutil.ClockHour(e.EndHour()), sx+6, sy+29)
	}
}

// drawCurrentTimeLine marks the current time inside today's column.
func drawCurrentTimeLine(dc *gg.Context, g grid) {
	if g.opts.Now.IsZero() {
		return
	}
	day, ok := dateutil.DayOf(g.opts.Now)
	if !ok {
		return
	}
	hour := dateutil.HourOf(g.opts.Now)
	if hour < float64(g.hours[0]) || hour > float64(g.hours[len(g.hours)-1]+1) {
		return
	}

	x := g.dayX(day)
	y := g.hourY(hour)
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2)
	dc.DrawLine(x, y, x+g.dayWidth, y)
	dc.Stroke()
	dc.DrawCircle(x+3, y, 4)
	dc.Fill()
}

func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
