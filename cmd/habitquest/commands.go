package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"habitquest/analytics"
	"habitquest/core"
)

// logCmd records one completed activity.
type logCmd struct {
	duration int
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "record a completed activity" }
func (*logCmd) Usage() string {
	return `log [-minutes N] <activity>:
  Record a completed activity and print the rewards it produced.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.duration, "minutes", 0, "duration in minutes (defaults to the activity's base duration)")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "log: exactly one activity name is required")
		return subcommands.ExitUsageError
	}
	activity := f.Arg(0)

	svc, err := newService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	id := core.ProfileID(*profile)
	duration := c.duration
	if duration == 0 {
		p, err := svc.GetProfile(ctx, id)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		if def, err := core.ResolveActivity(p, activity); err == nil {
			duration = def.BaseDuration
		}
	}

	updated, rewards, err := svc.LogActivity(ctx, id, activity, duration)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	entry := updated.Logs[0]
	fmt.Printf("Logged %s for %d min: +%d XP\n", entry.ActivityID, entry.Duration, entry.XPEarned)
	for _, r := range rewards {
		fmt.Printf("  %s\n", r.Message)
	}
	printProgress(updated)
	return subcommands.ExitSuccess
}

// statusCmd prints the profile summary.
type statusCmd struct{}

func (*statusCmd) Name() string             { return "status" }
func (*statusCmd) Synopsis() string         { return "show level, XP, streak and stats" }
func (*statusCmd) Usage() string            { return "status:\n  Show the current profile summary.\n" }
func (*statusCmd) SetFlags(_ *flag.FlagSet) {}

func (c *statusCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := newService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	p, err := svc.GetProfile(ctx, core.ProfileID(*profile))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printProgress(p)
	fmt.Printf("Streak: %d day(s), last login %s\n", p.Streak, p.LastLoginDate)
	fmt.Println("Stats:")
	for _, stat := range core.Stats {
		fmt.Printf("  %-10s %d\n", stat, p.Stats[stat])
	}
	if len(p.Inventory) > 0 {
		fmt.Println("Inventory:")
		for _, item := range p.Inventory {
			fmt.Printf("  %s\n", item)
		}
	}
	return subcommands.ExitSuccess
}

// addActivityCmd registers a custom activity.
type addActivityCmd struct {
	stat    string
	baseXP  int
	baseMin int
	icon    string
	color   string
}

func (*addActivityCmd) Name() string     { return "add-activity" }
func (*addActivityCmd) Synopsis() string { return "register a custom activity" }
func (*addActivityCmd) Usage() string {
	return `add-activity -xp N -minutes N [-stat S] <name>:
  Register a custom activity on the profile.
`
}

func (c *addActivityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.stat, "stat", string(core.StatDiscipline), "stat the activity trains")
	f.IntVar(&c.baseXP, "xp", 0, "base XP for a base-duration session")
	f.IntVar(&c.baseMin, "minutes", 0, "base duration in minutes")
	f.StringVar(&c.icon, "icon", "", "icon name")
	f.StringVar(&c.color, "color", "", "display color")
}

func (c *addActivityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "add-activity: exactly one activity name is required")
		return subcommands.ExitUsageError
	}

	svc, err := newService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	def := core.ActivityDefinition{
		ID:           f.Arg(0),
		Stat:         core.Stat(c.stat),
		BaseXP:       c.baseXP,
		BaseDuration: c.baseMin,
		Icon:         c.icon,
		Color:        c.color,
	}
	if _, err := svc.AddCustomActivity(ctx, core.ProfileID(*profile), def); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added activity %s (%d XP per %d min)\n", def.ID, def.BaseXP, def.BaseDuration)
	return subcommands.ExitSuccess
}

// achievementsCmd lists the registry with unlock state.
type achievementsCmd struct{}

func (*achievementsCmd) Name() string             { return "achievements" }
func (*achievementsCmd) Synopsis() string         { return "list achievements and unlock state" }
func (*achievementsCmd) Usage() string            { return "achievements:\n  List all achievements.\n" }
func (*achievementsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *achievementsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := newService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	statuses, err := svc.Achievements(ctx, core.ProfileID(*profile))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, s := range statuses {
		mark := " "
		if s.Unlocked {
			mark = "x"
		}
		fmt.Printf("[%s] %-14s %s\n", mark, s.ID, s.Description)
	}
	return subcommands.ExitSuccess
}

// catalogCmd lists built-in and custom activities.
type catalogCmd struct{}

func (*catalogCmd) Name() string             { return "catalog" }
func (*catalogCmd) Synopsis() string         { return "list available activities" }
func (*catalogCmd) Usage() string            { return "catalog:\n  List available activities.\n" }
func (*catalogCmd) SetFlags(_ *flag.FlagSet) {}

func (c *catalogCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := newService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	defs, err := svc.Catalog(ctx, core.ProfileID(*profile))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, def := range defs {
		fmt.Printf("%-14s %-10s %3d XP / %d min\n", def.ID, def.Stat, def.BaseXP, def.BaseDuration)
	}
	return subcommands.ExitSuccess
}

// exportCmd dumps the activity history as CSV.
type exportCmd struct {
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the activity history as CSV" }
func (*exportCmd) Usage() string {
	return `export [-o FILE]:
  Write the profile's activity history as CSV to stdout or FILE.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "", "output file (defaults to stdout)")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := newService()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer svc.Close()

	p, err := svc.GetProfile(ctx, core.ProfileID(*profile))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := os.Stdout
	if c.out != "" {
		file, err := os.Create(c.out)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}
	if err := analytics.WriteLogsCSV(w, p.Logs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printProgress(p core.Profile) {
	prog := core.ProgressFor(p.TotalXP)
	fmt.Printf("Level %d: %d/%d XP (total %d)\n", prog.Level, prog.Progress, prog.Required, p.TotalXP)
}
