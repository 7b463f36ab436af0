package repl

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/sambeau/measure/pkg/measure/catalog"
	"github.com/sambeau/measure/pkg/measure/converter"
	"github.com/sambeau/measure/pkg/measure/errors"
)

const PROMPT = ">> "

const LOGO = `
█▀▄▀█ █▀▀ ▄▀█ █▀ █░█ █▀█ █▀▀
█░▀░█ ██▄ █▀█ ▄█ █▄█ █▀▄ ██▄ `

// REPL commands offered for tab completion
var commandWords = []string{
	":help", ":units", ":categories", ":convert", ":precision", ":symbols",
	"convert", "exit", "quit",
}

// Session holds the state of one assistant session. Input history lives in
// the liner instance only and is discarded on exit.
type Session struct {
	conv *converter.Converter
	out  io.Writer
}

// NewSession creates a session writing to out. A nil converter uses
// converter.Default.
func NewSession(conv *converter.Converter, out io.Writer) *Session {
	if conv == nil {
		conv = converter.Default
	}
	return &Session{conv: conv, out: out}
}

// Start runs the assistant shell with line editing, history, and tab completion
func Start(out io.Writer, version string, conv *converter.Converter) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)
	line.SetCompleter(filterCompletions)

	s := NewSession(conv, out)

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Ask me things like: Convert 10 km to miles")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for commands")
	fmt.Fprintln(out, "")

	for {
		input, err := line.Prompt(PROMPT)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !s.Eval(input) {
			return
		}
	}
}

// Eval handles one line of input. It returns false when the session should end.
func (s *Session) Eval(input string) bool {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return true
	case trimmed == "exit" || trimmed == "quit":
		fmt.Fprintln(s.out, "Goodbye!")
		return false
	case strings.HasPrefix(trimmed, ":"):
		s.handleCommand(trimmed)
		return true
	}

	s.printMessage(s.conv.Interpret(trimmed))
	return true
}

// handleCommand handles meta-commands that start with ':'
func (s *Session) handleCommand(cmd string) {
	name, args, _ := strings.Cut(cmd, " ")
	args = strings.TrimSpace(args)

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  convert <n> <unit> to <unit>              Ask a question, e.g. convert 10 km to miles")
		fmt.Fprintln(s.out, "  :categories                               List unit categories")
		fmt.Fprintln(s.out, "  :units [category]                         List units, optionally for one category")
		fmt.Fprintln(s.out, "  :convert <n> <category> <unit> to <unit>  Convert an explicit selection")
		fmt.Fprintln(s.out, "  :precision [n]                            Show or set decimal places")
		fmt.Fprintln(s.out, "  :symbols on|off                           Toggle status symbols")
		fmt.Fprintln(s.out, "  :help, :h, :?                             Show this help")
		fmt.Fprintln(s.out, "  exit, quit                                Exit")

	case ":categories":
		for _, c := range catalog.Categories() {
			fmt.Fprintf(s.out, "  %s\n", c)
		}

	case ":units":
		s.printUnits(args)

	case ":convert":
		s.manualConvert(args)

	case ":precision":
		settings := s.conv.Settings()
		if args == "" {
			fmt.Fprintf(s.out, "Precision: %d\n", settings.Precision)
			return
		}
		n, err := strconv.Atoi(args)
		if err != nil || n < 0 || n > 12 {
			fmt.Fprintf(s.out, "Precision must be a whole number from 0 to 12, got %q\n", args)
			return
		}
		settings.Precision = n
		s.conv.SetSettings(settings)
		fmt.Fprintf(s.out, "Precision set to %d\n", n)

	case ":symbols":
		settings := s.conv.Settings()
		switch args {
		case "on":
			settings.Symbols = true
		case "off":
			settings.Symbols = false
		default:
			fmt.Fprintln(s.out, "Usage: :symbols on|off")
			return
		}
		s.conv.SetSettings(settings)
		fmt.Fprintf(s.out, "Symbols %s\n", args)

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", name)
	}
}

func (s *Session) printUnits(category string) {
	if category == "" {
		for _, c := range catalog.Categories() {
			fmt.Fprintf(s.out, "%s: %s\n", c, strings.Join(catalog.Units(c), ", "))
		}
		return
	}
	c, ok := catalog.LookupCategory(category)
	if !ok {
		fmt.Fprintf(s.out, "Unknown category: %s (type :categories to list them)\n", category)
		if matches := errors.FindTopMatches(category, categoryNames(), 3); len(matches) > 0 {
			fmt.Fprintf(s.out, "  hint: Did you mean %s?\n", strings.Join(matches, " or "))
		}
		return
	}
	for _, u := range catalog.Units(c) {
		fmt.Fprintf(s.out, "  %s\n", u)
	}
}

// manualConvert parses "<n> <category> <unit> to <unit>". Units may contain
// spaces, so the target is everything after the last " to ".
func (s *Session) manualConvert(args string) {
	const usage = "Usage: :convert <n> <category> <unit> to <unit>"

	qty, rest, ok := strings.Cut(args, " ")
	if !ok {
		fmt.Fprintln(s.out, usage)
		return
	}
	category, rest, ok := strings.Cut(strings.TrimSpace(rest), " ")
	if !ok {
		fmt.Fprintln(s.out, usage)
		return
	}
	i := strings.LastIndex(rest, " to ")
	if i < 0 {
		fmt.Fprintln(s.out, usage)
		return
	}
	from := strings.TrimSpace(rest[:i])
	to := strings.TrimSpace(rest[i+len(" to "):])

	quantity, err := strconv.ParseFloat(qty, 64)
	if err != nil {
		fmt.Fprintf(s.out, "Not a number: %s\n", qty)
		return
	}

	s.printMessage(s.conv.ConvertUnits(quantity, category, from, to))
}

func (s *Session) printMessage(msg converter.Message) {
	fmt.Fprintln(s.out, msg.String())
	for _, hint := range msg.Hints() {
		fmt.Fprintln(s.out, "  hint: "+hint)
	}
}

func categoryNames() []string {
	var names []string
	for _, c := range catalog.Categories() {
		names = append(names, string(c))
	}
	return names
}

// completionWords returns units, aliases and commands, sorted and deduplicated.
func completionWords() []string {
	seen := make(map[string]bool)
	var words []string
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	for _, u := range catalog.AllUnits() {
		add(u)
	}
	for alias := range catalog.Aliases() {
		add(alias)
	}
	for _, c := range catalog.Categories() {
		add(string(c))
	}
	for _, w := range commandWords {
		add(w)
	}
	sort.Strings(words)
	return words
}

var completions = completionWords()

// filterCompletions returns full-line suggestions that complete the last word
func filterCompletions(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	// Don't complete if line ends with whitespace
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	start := strings.LastIndexAny(line, " \t") + 1
	head, lastWord := line[:start], line[start:]
	lower := strings.ToLower(lastWord)

	var matches []string
	for _, word := range completions {
		if strings.HasPrefix(strings.ToLower(word), lower) && word != lastWord {
			matches = append(matches, head+word)
		}
	}
	return matches
}
