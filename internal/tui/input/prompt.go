// Package input parses and completes the command prompt.
package input

import "strings"

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string // with the leading slash, e.g. "/add"
	Description string
}

// Parse splits a prompt line into a lower-case command name without the
// slash and its arguments.
func Parse(line string) (name, args string) {
	name, args, _ = strings.Cut(strings.TrimSpace(line), " ")
	name = strings.TrimPrefix(strings.ToLower(name), "/")
	return name, strings.TrimSpace(args)
}

// PromptMatchingCommands returns commands that match the current input
// prefix. Nothing matches once arguments are being typed.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.Contains(input, " ") {
		return nil
	}

	prefix := "/" + strings.TrimPrefix(strings.ToLower(trimmed), "/")
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}
