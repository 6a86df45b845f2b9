// Package input parses the TUI command prompt.
package input

import "strings"

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
	NeedsArg    bool
}

// Commands lists every prompt command in suggestion order.
var Commands = []PromptCommand{
	{Name: "/plan", Description: "ask the advisor to place courses", NeedsArg: true},
	{Name: "/apply", Description: "apply the last advice"},
	{Name: "/review", Description: "LLM critique of this week"},
	{Name: "/summary", Description: "week overview"},
	{Name: "/export", Description: "write week.png or week.xlsx", NeedsArg: true},
	{Name: "/theme", Description: "switch color theme", NeedsArg: true},
}

// Command is a parsed prompt line.
type Command struct {
	Name string // without the leading slash, lower case
	Arg  string
}

// Parse splits "/plan physics on monday" into its name and argument.
// Input without a leading slash is treated as a /plan request.
func Parse(value string) (Command, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Command{}, false
	}
	if !strings.HasPrefix(value, "/") {
		return Command{Name: "plan", Arg: value}, true
	}
	name, arg, _ := strings.Cut(value[1:], " ")
	name = strings.ToLower(name)
	if name == "" {
		return Command{}, false
	}
	return Command{Name: name, Arg: strings.TrimSpace(arg)}, true
}

// Known reports whether name is one of Commands.
func Known(name string) bool {
	for _, cmd := range Commands {
		if cmd.Name == "/"+name {
			return true
		}
	}
	return false
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command. Commands taking an
// argument are completed with a trailing space.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	if matches[0].NeedsArg {
		return matches[0].Name + " ", true
	}
	return matches[0].Name, true
}
