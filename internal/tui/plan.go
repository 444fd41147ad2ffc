package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrz1836/dayplan/internal/domain"
	"github.com/mrz1836/dayplan/internal/timeslot"
)

// nameWidth is the display width task names are padded or cut to.
const nameWidth = 28

// Plan is the rendered view of one date.
type Plan struct {
	Date    string     `json:"date"`
	Today   bool       `json:"today"`
	Running *PlanItem  `json:"running,omitempty"`
	Slots   []PlanSlot `json:"slots"`
}

// PlanSlot is one bucket of the listing.
type PlanSlot struct {
	Slot  timeslot.Key `json:"slot"`
	Label string       `json:"label"`
	Items []PlanItem   `json:"items"`
}

// PlanItem is one instance of the listing.
type PlanItem struct {
	ID        string       `json:"id"`
	ShortID   string       `json:"shortId"`
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	Slot      timeslot.Key `json:"slot"`
	State     domain.State `json:"state"`
	Order     int          `json:"order"`
	Routine   string       `json:"routine,omitempty"`
	Duplicate bool         `json:"duplicate,omitempty"`
	Start     *time.Time   `json:"start,omitempty"`
	Stop      *time.Time   `json:"stop,omitempty"`
	Elapsed   string       `json:"elapsed,omitempty"`
}

// BuildPlan groups instances, already in display order, by slot. Every slot
// is listed even when empty; now is used for the elapsed time of the
// running instance.
func BuildPlan(date string, today bool, instances []*domain.Instance, now time.Time) Plan {
	p := Plan{Date: date, Today: today}
	bySlot := make(map[timeslot.Key][]PlanItem)

	for _, inst := range instances {
		item := newPlanItem(inst, now)
		bySlot[inst.Slot] = append(bySlot[inst.Slot], item)
		if inst.State() == domain.StateRunning {
			running := item
			p.Running = &running
		}
	}

	for _, slot := range timeslot.DisplayOrder() {
		items := bySlot[slot]
		if items == nil {
			items = []PlanItem{}
		}
		p.Slots = append(p.Slots, PlanSlot{Slot: slot, Label: SlotLabel(slot), Items: items})
	}
	return p
}

func newPlanItem(inst *domain.Instance, now time.Time) PlanItem {
	item := PlanItem{
		ID:        inst.ID,
		ShortID:   ShortID(inst.ID),
		Name:      inst.Name(),
		Path:      inst.Path(),
		Slot:      inst.Slot,
		State:     inst.State(),
		Order:     inst.Order,
		Duplicate: inst.Duplicate,
	}
	if inst.IsRoutine() {
		item.Routine = RoutineLabel(inst.Template.RoutineType)
	}
	if start, ok := inst.Exec.Start(); ok {
		item.Start = &start
		stop, done := inst.Exec.Stop()
		if done {
			item.Stop = &stop
			item.Elapsed = FormatDuration(stop.Sub(start))
		} else {
			item.Elapsed = FormatDuration(now.Sub(start))
		}
	}
	return item
}

// ShortID returns the random tail of an instance id, which is enough to
// address it from the command line.
func ShortID(id string) string {
	if i := strings.LastIndexByte(id, '_'); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return id
}

// SlotLabel returns the heading of a slot.
func SlotLabel(slot timeslot.Key) string {
	if slot == timeslot.None {
		return "Unscheduled"
	}
	return slot.String()
}

// RoutineLabel title-cases a routine type for display.
func RoutineLabel(t domain.RoutineType) string {
	if t == domain.RoutineNone {
		return ""
	}
	return cases.Title(language.English).String(string(t))
}

// RenderPlan writes the listing as text.
func RenderPlan(w io.Writer, p Plan, styles *PlanStyles) error {
	title := p.Date
	if p.Today {
		title += " (today)"
	}
	if _, err := fmt.Fprintln(w, styles.Header.Render(title)); err != nil {
		return err
	}

	for _, slot := range p.Slots {
		if _, err := fmt.Fprintf(w, "\n%s\n", styles.Header.Render(slot.Label)); err != nil {
			return err
		}
		if len(slot.Items) == 0 {
			if _, err := fmt.Fprintln(w, styles.Empty.Render("  -")); err != nil {
				return err
			}
			continue
		}
		for _, item := range slot.Items {
			if _, err := fmt.Fprintln(w, renderItem(item, styles)); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderItem(item PlanItem, styles *PlanStyles) string {
	name := PadRight(item.Name, nameWidth)
	line := fmt.Sprintf("  %s %s", StateIcon(item.State), name)

	var extra []string
	if item.Start != nil {
		span := item.Start.Format("15:04")
		if item.Stop != nil {
			span += "-" + item.Stop.Format("15:04")
		} else {
			span += "-"
		}
		extra = append(extra, span, item.Elapsed)
	}
	if item.Routine != "" {
		extra = append(extra, item.Routine)
	}
	if item.Duplicate {
		extra = append(extra, "copy")
	}
	if len(extra) > 0 {
		line += " " + strings.Join(extra, "  ")
	}

	style, ok := styles.States[item.State]
	if ok {
		line = style.Render(line)
	}
	return line + "  " + styles.ID.Render(item.ShortID)
}

// PadRight pads or truncates s to exactly width display cells.
func PadRight(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
