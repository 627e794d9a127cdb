package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/cache"
	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/session"
	"github.com/matzehuels/wayfinder/pkg/world"
)

// env is what an action runs against.
type env struct {
	sess *session.Session
	out  *printer
	in   io.Reader

	// working is the map a one-shot command saves to. Empty in the shell.
	working string

	// picker allows interactive resource selection when an argument is
	// omitted.
	picker bool

	// cache holds rendered diagrams.
	cache cache.Cache
}

func newEnv(sess *session.Session, in io.Reader, out io.Writer) *env {
	return &env{
		sess:   sess,
		out:    newPrinter(out),
		in:     in,
		picker: isTerminal(in) && isTerminal(out),
		cache:  cache.NewNullCache(),
	}
}

// action is one map operation, shared by the one-shot commands and the shell.
type action struct {
	name    string
	aliases []string
	usage   string
	short   string
	example string
	group   string
	args    cobra.PositionalArgs
	run     func(ctx context.Context, e *env, args []string) error
}

// checkArgs validates args outside of cobra, for the shell.
func (a action) checkArgs(args []string) error {
	if a.args == nil {
		return nil
	}
	if err := a.args(&cobra.Command{Use: a.name}, args); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "usage: %s %s", a.name, a.usage)
	}
	return nil
}

// actionCommand wraps a as a one-shot cobra command.
func (c *CLI) actionCommand(a action) *cobra.Command {
	return &cobra.Command{
		Use:     strings.TrimSpace(a.name + " " + a.usage),
		Aliases: a.aliases,
		Short:   a.short,
		Example: a.example,
		GroupID: a.group,
		Args:    a.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, e *env) error {
				return a.run(ctx, e, args)
			})
		},
	}
}

// actions returns every map operation in help order.
func actions() []action {
	return []action{
		{
			name:    "add-location",
			aliases: []string{"add_location"},
			usage:   "<name> [res1,res2,...]",
			short:   "Create a location, optionally with resources",
			example: "  wayfinder add-location Forest wood,berries",
			group:   groupEdit,
			args:    cobra.RangeArgs(1, 2),
			run:     runAddLocation,
		},
		{
			name:    "connect",
			aliases: []string{"add_connection"},
			usage:   "<from> <to> <north|south|east|west>",
			short:   "Connect two locations in both directions",
			example: "  wayfinder connect Forest Beach south",
			group:   groupEdit,
			args:    cobra.ExactArgs(3),
			run:     runConnect,
		},
		{
			name:    "add-resource",
			aliases: []string{"add_resource"},
			usage:   "<location> <res1,res2,...>",
			short:   "Add resources to a location",
			example: "  wayfinder add-resource Forest mushrooms,herbs",
			group:   groupEdit,
			args:    cobra.ExactArgs(2),
			run:     runAddResource,
		},
		{
			name:    "remove-resource",
			aliases: []string{"remove_resource"},
			usage:   "<location> <res1,res2,...>",
			short:   "Remove resources from a location",
			group:   groupEdit,
			args:    cobra.ExactArgs(2),
			run:     runRemoveResource,
		},
		{
			name:    "example",
			aliases: []string{"setup_example"},
			short:   "Replace the working map with the example world",
			group:   groupEdit,
			args:    cobra.NoArgs,
			run:     runExample,
		},
		{
			name:  "goto",
			usage: "<location>",
			short: "Move to a location and look around",
			group: groupNav,
			args:  cobra.ExactArgs(1),
			run:   runGoto,
		},
		{
			name:  "look",
			short: "Describe the current location",
			group: groupNav,
			args:  cobra.NoArgs,
			run:   runLook,
		},
		{
			name:    "path",
			usage:   "<destination>",
			short:   "Shortest path from the current location",
			example: "  wayfinder path Mountain",
			group:   groupNav,
			args:    cobra.ExactArgs(1),
			run:     runPath,
		},
		{
			name:  "route",
			usage: "<from> <to>",
			short: "Shortest path between any two locations",
			group: groupNav,
			args:  cobra.ExactArgs(2),
			run:   runRoute,
		},
		{
			name:  "nearest",
			usage: "[resource]",
			short: "Nearest location with a resource, and how to get there",
			group: groupNav,
			args:  cobra.MaximumNArgs(1),
			run:   runNearest,
		},
		{
			name:  "find",
			usage: "[resource]",
			short: "All locations with a resource",
			group: groupNav,
			args:  cobra.MaximumNArgs(1),
			run:   runFind,
		},
		{
			name:    "locations",
			aliases: []string{"list_locations"},
			short:   "List all locations",
			group:   groupNav,
			args:    cobra.NoArgs,
			run:     runLocations,
		},
		{
			name:    "resources",
			aliases: []string{"list_resources"},
			short:   "List all resources and where they are",
			group:   groupNav,
			args:    cobra.NoArgs,
			run:     runResources,
		},
		{
			name:  "save",
			usage: "[map]",
			short: "Save the working map, or a copy under another name",
			group: groupMaps,
			args:  cobra.MaximumNArgs(1),
			run:   runSave,
		},
		{
			name:  "load",
			usage: "<map>",
			short: "Replace the working map with a stored map",
			group: groupMaps,
			args:  cobra.ExactArgs(1),
			run:   runLoad,
		},
		{
			name:    "maps",
			aliases: []string{"list_maps"},
			short:   "List stored maps",
			group:   groupMaps,
			args:    cobra.NoArgs,
			run:     runMaps,
		},
	}
}

// =============================================================================
// Map Editing
// =============================================================================

func runAddLocation(_ context.Context, e *env, args []string) error {
	var resources []string
	if len(args) > 1 {
		resources = splitList(args[1])
	}
	if err := e.sess.AddLocation(args[0], resources...); err != nil {
		return err
	}
	e.out.success("Location '%s' added", args[0])
	if len(resources) > 0 {
		e.out.detail("Resources: %s", strings.Join(resources, ", "))
	}
	return nil
}

func runConnect(_ context.Context, e *env, args []string) error {
	from, to := args[0], args[1]
	d, err := world.ParseDirection(args[2])
	if err != nil {
		return err
	}
	res, err := e.sess.Connect(from, to, d)
	if err != nil {
		return err
	}

	back := d.Opposite()
	switch {
	case res.Forward && res.Reverse:
		e.out.success("Connected %s %s %s %s", from, d, iconArrow, to)
		e.out.detail("%s %s %s", to, back, from)
	case res.Forward:
		e.out.success("Connected %s %s %s %s", from, d, iconArrow, to)
		e.out.warning("%s already has a %s exit; the way back is one-way", to, back)
	case res.Reverse:
		e.out.warning("%s already has a %s exit; only %s %s %s was added", from, d, to, back, from)
	default:
		e.out.info("Nothing changed: %s %s and %s %s are both taken", from, d, to, back)
	}
	return nil
}

func runAddResource(_ context.Context, e *env, args []string) error {
	added, err := e.sess.AddResources(args[0], splitList(args[1])...)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		e.out.info("'%s' already has those resources", args[0])
		return nil
	}
	e.out.success("Added %s to '%s'", strings.Join(added, ", "), args[0])
	return nil
}

func runRemoveResource(_ context.Context, e *env, args []string) error {
	removed, err := e.sess.RemoveResources(args[0], splitList(args[1])...)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		e.out.info("'%s' has none of those resources", args[0])
		return nil
	}
	e.out.success("Removed %s from '%s'", strings.Join(removed, ", "), args[0])
	return nil
}

func runExample(_ context.Context, e *env, _ []string) error {
	g := world.Sample()
	if err := e.sess.Replace(g); err != nil {
		return err
	}
	e.out.success("Example world created with %d locations", g.Len())
	e.out.nextStep("Start exploring", "goto Camp")
	return nil
}

// =============================================================================
// Navigation
// =============================================================================

func runGoto(_ context.Context, e *env, args []string) error {
	info, err := e.sess.Goto(args[0])
	if err != nil {
		return err
	}
	e.out.location(info)
	return nil
}

func runLook(_ context.Context, e *env, _ []string) error {
	info, err := e.sess.Look()
	if err != nil {
		return err
	}
	e.out.location(info)
	return nil
}

func runPath(ctx context.Context, e *env, args []string) error {
	dest := args[0]
	path, found, err := e.sess.PathFromCurrent(ctx, dest)
	if err != nil {
		return err
	}
	if !found {
		e.out.warning("No path found to %s", dest)
		return nil
	}
	e.out.route("Path to "+dest, path)
	return nil
}

func runRoute(ctx context.Context, e *env, args []string) error {
	from, to := args[0], args[1]
	path, found, err := e.sess.Route(ctx, from, to)
	if err != nil {
		return err
	}
	if !found {
		e.out.warning("No path found from %s to %s", from, to)
		return nil
	}
	e.out.route(fmt.Sprintf("Path from %s to %s", from, to), path)
	return nil
}

func runNearest(ctx context.Context, e *env, args []string) error {
	tag, ok, err := resourceArg(e, args, "Nearest location with")
	if err != nil || !ok {
		return err
	}
	res, found, err := e.sess.NearestFromCurrent(ctx, tag)
	if err != nil {
		return err
	}
	if !found {
		e.out.warning("No reachable location has '%s'", tag)
		return nil
	}
	e.out.route(fmt.Sprintf("Nearest location with '%s': %s", tag, res.Location), res.Path)
	return nil
}

func runFind(_ context.Context, e *env, args []string) error {
	tag, ok, err := resourceArg(e, args, "Find locations with")
	if err != nil || !ok {
		return err
	}
	holders := e.sess.Find(tag)
	if len(holders) == 0 {
		e.out.warning("Resource '%s' not found in any location", tag)
		return nil
	}
	e.out.success("Found '%s' in: %s", tag, strings.Join(holders, ", "))
	return nil
}

// resourceArg returns the resource named in args or, when it is omitted on
// a terminal, lets the user pick one. ok is false when the picker was
// dismissed.
func resourceArg(e *env, args []string, title string) (tag string, ok bool, err error) {
	if len(args) == 1 {
		return args[0], true, nil
	}
	if !e.picker {
		return "", false, errs.New(errs.ErrCodeInvalidInput, "resource name required")
	}
	entries := e.sess.Resources()
	if len(entries) == 0 {
		return "", false, errs.New(errs.ErrCodeInvalidInput, "this map has no resources yet")
	}
	tag, err = pickResource(title, entries, e.in, e.out.w)
	if err != nil {
		return "", false, err
	}
	if tag == "" {
		e.out.info("Nothing selected")
		return "", false, nil
	}
	return tag, true, nil
}

func runLocations(_ context.Context, e *env, _ []string) error {
	locs := e.sess.Locations()
	if len(locs) == 0 {
		e.out.warning("No locations yet")
		e.out.nextStep("Create one", "add-location <name> [res1,res2]")
		return nil
	}

	rows := make([][]string, len(locs))
	current := map[int]bool{}
	for i, l := range locs {
		exits := make([]string, len(l.Exits))
		for j, exit := range l.Exits {
			exits[j] = exit.Direction.String() + ": " + exit.Target
		}
		marker := ""
		if l.Current {
			marker = iconHere
			current[i] = true
		}
		rows[i] = []string{marker, l.Name, orNone(strings.Join(l.Resources, ", ")), orNone(strings.Join(exits, ", "))}
	}
	e.out.table([]string{"", "Location", "Resources", "Exits"}, rows, current)
	return nil
}

func runResources(_ context.Context, e *env, _ []string) error {
	entries := e.sess.Resources()
	if len(entries) == 0 {
		e.out.warning("No resources yet")
		return nil
	}
	rows := make([][]string, len(entries))
	for i, entry := range entries {
		rows[i] = []string{entry.Tag, strings.Join(entry.Locations, ", ")}
	}
	e.out.table([]string{"Resource", "Locations"}, rows, nil)
	return nil
}

// =============================================================================
// Maps
// =============================================================================

func runSave(ctx context.Context, e *env, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	if err := e.sess.Save(ctx, name); err != nil {
		return err
	}
	e.out.success("Map saved to %s", e.sess.Name())
	return nil
}

func runLoad(ctx context.Context, e *env, args []string) error {
	if err := e.sess.Load(ctx, args[0]); err != nil {
		return err
	}
	e.out.success("Map loaded from %s", args[0])
	if e.working != "" {
		if err := e.sess.Save(ctx, e.working); err != nil {
			return err
		}
		e.out.detail("Copied into working map %s", e.working)
	}
	e.out.newline()
	return runLocations(ctx, e, nil)
}

func runMaps(ctx context.Context, e *env, _ []string) error {
	maps, err := e.sess.Maps(ctx)
	if err != nil {
		return err
	}
	if len(maps) == 0 {
		e.out.warning("No stored maps found")
		return nil
	}
	rows := make([][]string, len(maps))
	for i, m := range maps {
		rows[i] = []string{m.Name, fmt.Sprintf("%.1fKB", m.SizeKB), m.Modified}
	}
	e.out.table([]string{"Map", "Size", "Modified"}, rows, nil)
	return nil
}
