package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/session"
)

// shellCommand creates the interactive shell.
func (c *CLI) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session on the working map",
		Long: `Start an interactive session. The map is kept in memory: changes are
written only when you run save. Errors are reported and the session goes on.`,
		GroupID: groupOther,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, name, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			sess, err := session.Open(ctx, st, name)
			if err != nil {
				return err
			}
			sh := newShell(sess, cmd.InOrStdin(), cmd.OutOrStdout())
			sh.env.cache = newCache()
			return sh.run(ctx)
		},
	}
}

// shell is a line-oriented REPL over one session.
type shell struct {
	env     *env
	in      io.Reader
	actions []action
	index   map[string]action
}

func newShell(sess *session.Session, in io.Reader, out io.Writer) *shell {
	e := newEnv(sess, in, out)
	// The picker would compete with the line reader for stdin.
	e.picker = false

	sh := &shell{env: e, in: in, index: map[string]action{}}
	sh.actions = append(actions(), renderAction())
	for _, a := range sh.actions {
		sh.index[a.name] = a
		for _, alias := range a.aliases {
			sh.index[alias] = a
		}
	}
	return sh
}

// run reads commands until quit, end of input or ctx cancellation.
func (sh *shell) run(ctx context.Context) error {
	sh.intro(ctx)

	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(sh.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	out := sh.env.out
	for {
		fmt.Fprint(out.w, sh.prompt())
		select {
		case <-ctx.Done():
			out.newline()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				out.newline()
				sh.goodbye()
				return nil
			}
			if sh.exec(ctx, line) {
				return nil
			}
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
// Failures are printed, never returned.
func (sh *shell) exec(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "quit", "exit", "q":
		sh.goodbye()
		return true
	case "help", "?":
		sh.help(args)
		return false
	}

	a, ok := sh.index[name]
	if !ok {
		sh.env.out.error("Unknown command %q (type 'help' for a list)", name)
		return false
	}
	if err := a.checkArgs(args); err != nil {
		sh.env.out.report(err)
		return false
	}
	if err := a.run(ctx, sh.env, args); err != nil {
		sh.env.out.report(err)
	}
	return false
}

func (sh *shell) prompt() string {
	if cur, ok := sh.env.sess.Current(); ok {
		return stylePromptHere.Render("["+cur+"]>") + " "
	}
	return stylePromptNowhere.Render("[no location]>") + " "
}

func (sh *shell) intro(ctx context.Context) {
	out := sh.env.out
	out.title("Wayfinder map helper")
	out.detail("Working map: %s (%d locations)", sh.env.sess.Name(), len(sh.env.sess.Locations()))
	out.newline()
	if err := runMaps(ctx, sh.env, nil); err != nil {
		out.report(err)
	}
	out.newline()
	out.nextStep("Type 'help' for commands, or load a map", "load <map>")
}

func (sh *shell) help(args []string) {
	out := sh.env.out
	if len(args) == 1 {
		a, ok := sh.index[args[0]]
		if !ok {
			out.error("Unknown command %q", args[0])
			return
		}
		out.keyValue(a.name, a.usage)
		out.detail("%s", a.short)
		if len(a.aliases) > 0 {
			out.detail("Also: %s", strings.Join(a.aliases, ", "))
		}
		return
	}

	groups := []struct{ id, title string }{
		{groupEdit, "Map Editing"},
		{groupNav, "Navigation"},
		{groupMaps, "Maps"},
	}
	for _, g := range groups {
		out.newline()
		out.title(g.title)
		for _, a := range sh.actions {
			if a.group == g.id {
				out.line(fmt.Sprintf("  %-16s %s", a.name, StyleDim.Render(a.short)))
			}
		}
	}
	out.newline()
	out.title("General")
	out.line(fmt.Sprintf("  %-16s %s", "help [command]", StyleDim.Render("Show commands, or details for one")))
	out.line(fmt.Sprintf("  %-16s %s", "quit", StyleDim.Render("Leave the shell")))
}

func (sh *shell) goodbye() {
	if sh.env.sess.Dirty() {
		sh.env.out.warning("Unsaved changes to %s were discarded", sh.env.sess.Name())
	}
	sh.env.out.info("Goodbye!")
}
