package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mcoot/mobboss/internal/assign"
	"github.com/mcoot/mobboss/internal/cache"
	"github.com/mcoot/mobboss/internal/model"
	"github.com/mcoot/mobboss/internal/reconcile"
	"github.com/mcoot/mobboss/internal/rpc"
	"github.com/mcoot/mobboss/internal/session"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == FormatJSON {
		errData := map[string]any{
			"error": map[string]string{
				"kind":    rpc.KindOf(err).String(),
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

// PrintNotice outputs a one-time notice
func (o *Output) PrintNotice(n reconcile.Notice) {
	if o.format == FormatJSON {
		data, _ := json.Marshal(map[string]any{"notice": n})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintf(o.w, "! %s\n", n.Message)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case StatusReport:
		o.printStatus(v)
	case *model.PlayerProfile:
		o.printProfile(v)
	case []model.InventoryItem:
		o.printInventory(v)
	case LimitsReport:
		o.printLimits(v)
	case []model.HiredCrewUnit:
		o.printCrew(v)
	case cache.Power:
		fmt.Fprintf(o.w, "Attack: %d\nDefense: %d\n", v.Attack, v.Defense)
	case []BusinessRow:
		o.printBusinesses(v)
	case IncomeReport:
		o.printIncome(v)
	case []model.Achievement:
		o.printAchievements(v)
	case []model.Task:
		o.printTasks(v)
	case *rpc.Outcome:
		o.printOutcome(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// StatusReport describes the session and what is mirrored
type StatusReport struct {
	State         session.State        `json:"state"`
	Player        *model.PlayerProfile `json:"player,omitempty"`
	EstablishedAt time.Time            `json:"established_at"`
	ExpiresAt     time.Time            `json:"expires_at"`
	Renewing      bool                 `json:"renewing"`
	Ready         bool                 `json:"ready"`
	Unclaimed     int                  `json:"unclaimed"`
	Error         string               `json:"error,omitempty"`
}

// LimitsReport is the assignment capacity and the most each stack may be given
type LimitsReport struct {
	Weapon        assign.Slots   `json:"weapon"`
	Equipment     assign.Slots   `json:"equipment"`
	MaxAssignable map[string]int `json:"max_assignable"`
}

// BusinessRow is an owned business with its derived figures
type BusinessRow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Level       int       `json:"level"`
	MaxLevel    int       `json:"max_level"`
	Income      float64   `json:"hourly_income"`
	UpgradeCost float64   `json:"upgrade_cost"`
	ReadyAt     time.Time `json:"ready_at"`
	Collectable bool      `json:"collectable"`
}

// IncomeReport totals the hourly economy
type IncomeReport struct {
	HourlyIncome float64  `json:"hourly_income"`
	HourlyUpkeep float64  `json:"hourly_upkeep"`
	Net          float64  `json:"net"`
	Collectable  []string `json:"collectable"`
}

func (o *Output) printStatus(s StatusReport) {
	fmt.Fprintf(o.w, "Session: %s\n", s.State)
	if s.Error != "" {
		fmt.Fprintf(o.w, "Last error: %s\n", s.Error)
	}
	if s.Player != nil {
		o.printProfile(s.Player)
	}
	if !s.ExpiresAt.IsZero() {
		fmt.Fprintf(o.w, "Credential expires: %s\n", s.ExpiresAt.Format(time.RFC3339))
	}
	fmt.Fprintf(o.w, "Renewing: %t\n", s.Renewing)
	fmt.Fprintf(o.w, "Rewards waiting: %d\n", s.Unclaimed)
}

func (o *Output) printProfile(p *model.PlayerProfile) {
	if p == nil {
		fmt.Fprintln(o.w, "No player loaded")
		return
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.Identity().DisplayName(), p.ID)
	fmt.Fprintf(o.w, "Level: %d (%d xp)\n", p.Level, p.Experience)
	fmt.Fprintf(o.w, "Cash: $%d  Bank: $%d  Diamonds: %d\n", p.Cash, p.BankedCash, p.Diamonds)
	fmt.Fprintf(o.w, "Energy: %d/%d  Stamina: %d/%d\n", p.Energy, p.MaxEnergy, p.Stamina, p.MaxStamina)
	fmt.Fprintf(o.w, "Daily streak: %d\n", p.DailyStreak)
}

func (o *Output) printInventory(items []model.InventoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(o.w, "Inventory is empty")
		return
	}
	fmt.Fprintf(o.w, "Inventory (%d):\n", len(items))
	for _, it := range items {
		where := ""
		if it.InSafe() {
			where = " [safe]"
			if it.SafeReleaseAt != nil {
				where = fmt.Sprintf(" [safe until %s]", it.SafeReleaseAt.Format("15:04:05"))
			}
		}
		fmt.Fprintf(o.w, "  - %s %s x%d (assigned %d)%s\n", it.ID, nameOr(it.Item.Name, it.ItemID), it.Quantity, it.AssignedQuantity, where)
	}
}

func (o *Output) printLimits(l LimitsReport) {
	fmt.Fprintf(o.w, "Weapons: %d/%d\n", l.Weapon.Used, l.Weapon.Capacity)
	fmt.Fprintf(o.w, "Equipment: %d/%d\n", l.Equipment.Used, l.Equipment.Capacity)
	for id, n := range l.MaxAssignable {
		fmt.Fprintf(o.w, "  %s: up to %d\n", id, n)
	}
}

func (o *Output) printCrew(units []model.HiredCrewUnit) {
	if len(units) == 0 {
		fmt.Fprintln(o.w, "No crew hired")
		return
	}
	fmt.Fprintf(o.w, "Crew (%d):\n", len(units))
	for _, u := range units {
		fmt.Fprintf(o.w, "  - %s %s x%d (%s) atk %d def %d upkeep $%.0f/h\n",
			u.ID, nameOr(u.Crew.Name, u.CrewID), u.Quantity, u.Role(), u.Attack(), u.Defense(), u.HourlyUpkeep())
	}
}

func (o *Output) printBusinesses(rows []BusinessRow) {
	if len(rows) == 0 {
		fmt.Fprintln(o.w, "No businesses owned")
		return
	}
	fmt.Fprintf(o.w, "Businesses (%d):\n", len(rows))
	for _, b := range rows {
		ready := "ready"
		if !b.Collectable {
			ready = "ready at " + b.ReadyAt.Format("15:04:05")
		}
		fmt.Fprintf(o.w, "  - %s %s lvl %d: $%.0f/h, upgrade $%.0f, %s\n", b.ID, b.Name, b.Level, b.Income, b.UpgradeCost, ready)
	}
}

func (o *Output) printIncome(r IncomeReport) {
	fmt.Fprintf(o.w, "Income: $%.0f/h\n", r.HourlyIncome)
	fmt.Fprintf(o.w, "Upkeep: $%.0f/h\n", r.HourlyUpkeep)
	fmt.Fprintf(o.w, "Net: $%.0f/h\n", r.Net)
	fmt.Fprintf(o.w, "Ready to collect: %d\n", len(r.Collectable))
}

func (o *Output) printAchievements(list []model.Achievement) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No achievements")
		return
	}
	for _, a := range list {
		fmt.Fprintf(o.w, "  - %s %s %d/%d [%s]\n", a.ID, a.Title, a.Current, a.Target, a.State())
	}
}

func (o *Output) printTasks(list []model.Task) {
	if len(list) == 0 {
		fmt.Fprintln(o.w, "No tasks")
		return
	}
	for _, t := range list {
		fmt.Fprintf(o.w, "  - %s %s (%s) %d/%d [%s]\n", t.ID, t.Title, t.Period, t.Current, t.Target, t.State())
	}
}

func (o *Output) printOutcome(out *rpc.Outcome) {
	if out.Message != "" {
		fmt.Fprintln(o.w, out.Message)
		return
	}
	fmt.Fprintln(o.w, "Done")
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
